package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openopps/openopps-api/internal/dto"
	apierrors "github.com/openopps/openopps-api/internal/errors"
	"github.com/openopps/openopps-api/internal/middleware"
	"github.com/openopps/openopps-api/internal/models"
	"github.com/openopps/openopps-api/internal/services"
	"github.com/openopps/openopps-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	tasks *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
	}
}

// ListTasks returns a paginated task list with optional state, owner
// and tag filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	input := services.ListTasksInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if state := c.Query("state"); state != "" {
		s := models.TaskState(state)
		input.State = &s
	}
	if owner := c.Query("owner"); owner != "" {
		ownerID, err := strconv.ParseUint(owner, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid owner ID")
			return
		}
		input.OwnerID = &ownerID
	}
	if tag := c.Query("tag"); tag != "" {
		tagID, err := strconv.ParseUint(tag, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid tag ID")
			return
		}
		input.TagID = &tagID
	}

	tasks, total, err := h.tasks.ListTasks(input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a single task with owner, tags and volunteers.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, _ := middleware.GetTask(c)
	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// CreateTask creates a new task owned by the authenticated user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type CreateTaskRequest struct {
		Title       string   `json:"title" binding:"required,min=1,max=255"`
		Description string   `json:"description"`
		State       string   `json:"state"`
		ProjectID   *uint64  `json:"projectId"`
		TagIDs      []uint64 `json:"tagIds"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		State:       models.TaskState(req.State),
		ProjectID:   req.ProjectID,
		TagIDs:      req.TagIDs,
		CreatorID:   userID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies partial edits to a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	task, _ := middleware.GetTask(c)

	type UpdateTaskRequest struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		TagIDs      []uint64 `json:"tagIds"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.tasks.UpdateTask(task.ID, userID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// ChangeState transitions a task to a new lifecycle state.
func (h *TaskHandler) ChangeState(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	task, _ := middleware.GetTask(c)

	type ChangeStateRequest struct {
		State string `json:"state" binding:"required"`
	}

	var req ChangeStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.tasks.ChangeState(task.ID, models.TaskState(req.State), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// CopyTask clones an existing task under a new title.
func (h *TaskHandler) CopyTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type CopyTaskRequest struct {
		TaskID uint64 `json:"taskId" binding:"required"`
		Title  string `json:"title" binding:"required,min=1,max=255"`
	}

	var req CopyTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.CopyTask(req.TaskID, req.Title, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task and its volunteer records.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	task, _ := middleware.GetTask(c)

	if err := h.tasks.DeleteTask(task.ID, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}
