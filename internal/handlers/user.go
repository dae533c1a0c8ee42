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
)

// UserHandler coordinates user directory HTTP handlers.
type UserHandler struct {
	directory *services.DirectoryService
	notifier  *services.NotificationService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(directory *services.DirectoryService, notifier *services.NotificationService) *UserHandler {
	return &UserHandler{
		directory: directory,
		notifier:  notifier,
	}
}

// GetUser returns a user's public profile.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.directory.GetUser(userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile applies partial edits to a user's profile. Users can
// only edit their own profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.pathUserMatchesSession(c)
	if !ok {
		return
	}

	type UpdateProfileRequest struct {
		Name     *string `json:"name"`
		Title    *string `json:"title"`
		Bio      *string `json:"bio"`
		PhotoURL *string `json:"photoUrl"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.directory.UpdateProfile(userID, services.UpdateProfileInput{
		Name:     req.Name,
		Title:    req.Title,
		Bio:      req.Bio,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// SetTags replaces a user's location and agency tags. Users can only
// edit their own tags.
func (h *UserHandler) SetTags(c *gin.Context) {
	userID, ok := h.pathUserMatchesSession(c)
	if !ok {
		return
	}

	type SetTagsRequest struct {
		LocationTagID uint64 `json:"locationTagId" binding:"required"`
		AgencyTagID   uint64 `json:"agencyTagId" binding:"required"`
	}

	var req SetTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.directory.SetLocationAgency(userID, req.LocationTagID, req.AgencyTagID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// SaveSetting upserts a key/value setting. Users can only edit their
// own settings.
func (h *UserHandler) SaveSetting(c *gin.Context) {
	userID, ok := h.pathUserMatchesSession(c)
	if !ok {
		return
	}

	type SaveSettingRequest struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value"`
	}

	var req SaveSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.directory.SaveSetting(userID, req.Key, req.Value); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":   req.Key,
		"value": req.Value,
	})
}

// ListNotifications returns the notifications sent to the authenticated
// user, newest first.
func (h *UserHandler) ListNotifications(c *gin.Context) {
	userID, ok := h.pathUserMatchesSession(c)
	if !ok {
		return
	}

	user, err := h.directory.GetUser(userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	notifications, err := h.notifier.History(user.Username)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// ListTags returns tags of a given kind for profile pickers.
func (h *UserHandler) ListTags(c *gin.Context) {
	kind := c.DefaultQuery("kind", string(models.TagKindLocation))

	tags, err := h.directory.ListTags(models.TagKind(kind))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	result := make([]dto.TagDTO, 0, len(tags))
	for _, tag := range tags {
		result = append(result, dto.ToTagDTO(tag))
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": result,
	})
}

// pathUserMatchesSession parses the :id path parameter and ensures it
// refers to the authenticated user. Writes the error response itself.
func (h *UserHandler) pathUserMatchesSession(c *gin.Context) (uint64, bool) {
	pathID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return 0, false
	}

	userID, _ := middleware.GetUserID(c)
	if pathID != userID {
		apierrors.Forbidden(c, "You can only modify your own account")
		return 0, false
	}
	return userID, true
}

// SetDisabled toggles a user's disabled flag. Admin only.
func (h *UserHandler) SetDisabled(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type SetDisabledRequest struct {
		Disabled *bool `json:"disabled" binding:"required"`
	}

	var req SetDisabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.directory.SetDisabled(userID, *req.Disabled)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
