package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/openopps/openopps-api/internal/constants"
	"github.com/openopps/openopps-api/internal/dto"
	apierrors "github.com/openopps/openopps-api/internal/errors"
	"github.com/openopps/openopps-api/internal/middleware"
	"github.com/openopps/openopps-api/internal/services"
)

// VolunteerHandler coordinates the volunteer ledger and the signup
// workflow HTTP handlers.
type VolunteerHandler struct {
	volunteers *services.VolunteerService
	workflow   *services.WorkflowService
}

// NewVolunteerHandler creates a new VolunteerHandler.
func NewVolunteerHandler(volunteers *services.VolunteerService, workflow *services.WorkflowService) *VolunteerHandler {
	return &VolunteerHandler{
		volunteers: volunteers,
		workflow:   workflow,
	}
}

// ListVolunteers returns a task's volunteers in signup order.
func (h *VolunteerHandler) ListVolunteers(c *gin.Context) {
	task, _ := middleware.GetTask(c)

	volunteers, err := h.volunteers.List(task.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	result := make([]dto.VolunteerDTO, 0, len(volunteers))
	for _, v := range volunteers {
		result = append(result, dto.ToVolunteerDTO(v))
	}

	c.JSON(http.StatusOK, gin.H{
		"volunteers": result,
		"count":      len(result),
	})
}

// RemoveVolunteer deletes a volunteer record. Removing a record that is
// already gone succeeds.
func (h *VolunteerHandler) RemoveVolunteer(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	volunteerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid volunteer ID")
		return
	}

	if err := h.volunteers.Remove(volunteerID, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Volunteer removed successfully",
	})
}

// WorkflowStatus reports the requester's next workflow step for a task.
// Anonymous requesters get the login step and have the task remembered
// in the session so the signup can resume after login.
func (h *VolunteerHandler) WorkflowStatus(c *gin.Context) {
	task, _ := middleware.GetTask(c)
	userID, authenticated := middleware.GetUserID(c)

	if !authenticated {
		session := sessions.Default(c)
		session.Set(constants.SessionKeyPendingTask, task.ID)
		if err := session.Save(); err != nil {
			apierrors.InternalError(c, "Failed to save session")
			return
		}
	}

	result, err := h.workflow.Status(task.ID, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitName records the requester's display name and resumes the
// workflow.
func (h *VolunteerHandler) SubmitName(c *gin.Context) {
	task, _ := middleware.GetTask(c)
	userID, _ := middleware.GetUserID(c)

	type SubmitNameRequest struct {
		Name string `json:"name" binding:"required,min=1,max=255"`
	}

	var req SubmitNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.workflow.SubmitName(task.ID, userID, req.Name)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitProfile records the requester's location and agency tags and
// resumes the workflow. Tags can be referenced by id or typed in by
// name; named tags that do not exist yet are created.
func (h *VolunteerHandler) SubmitProfile(c *gin.Context) {
	task, _ := middleware.GetTask(c)
	userID, _ := middleware.GetUserID(c)

	type SubmitProfileRequest struct {
		LocationTagID uint64 `json:"locationTagId"`
		AgencyTagID   uint64 `json:"agencyTagId"`
		Location      string `json:"location"`
		Agency        string `json:"agency"`
	}

	var req SubmitProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var result *services.WorkflowResult
	var err error
	switch {
	case req.LocationTagID != 0 && req.AgencyTagID != 0:
		result, err = h.workflow.SubmitProfile(task.ID, userID, req.LocationTagID, req.AgencyTagID)
	case req.Location != "" && req.Agency != "":
		result, err = h.workflow.SubmitProfileNames(task.ID, userID, req.Location, req.Agency)
	default:
		apierrors.BadRequest(c, "A location and an agency are required, by id or by name")
		return
	}
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Confirm finalizes the workflow and records the assignment.
func (h *VolunteerHandler) Confirm(c *gin.Context) {
	task, _ := middleware.GetTask(c)
	userID, _ := middleware.GetUserID(c)

	type ConfirmRequest struct {
		SupervisorName  string `json:"supervisorName"`
		SupervisorEmail string `json:"supervisorEmail"`
	}

	var req ConfirmRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	result, err := h.workflow.Confirm(task.ID, userID, req.SupervisorName, req.SupervisorEmail)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	status := http.StatusOK
	if result.Step == services.StepComplete && result.Assignment != nil {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}
