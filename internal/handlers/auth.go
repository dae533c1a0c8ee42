package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/openopps/openopps-api/internal/constants"
	"github.com/openopps/openopps-api/internal/dto"
	apierrors "github.com/openopps/openopps-api/internal/errors"
	"github.com/openopps/openopps-api/internal/middleware"
	"github.com/openopps/openopps-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	directory *services.DirectoryService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(directory *services.DirectoryService) *AuthHandler {
	return &AuthHandler{
		directory: directory,
	}
}

// Signup registers a new user.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Username string `json:"username" binding:"required,min=3,max=255"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.directory.CreateUser(services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and initializes the session. When a
// volunteer intent was recorded before login, its task ID is echoed
// back so the client can resume the workflow.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.directory.Authenticate(req.Username, req.Password)
	if err != nil {
		if apierrors.IsKind(err, apierrors.KindAuthorization) {
			apierrors.Unauthorized(c, err.Error())
			return
		}
		apierrors.Respond(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)

	var pendingTask any
	if v := session.Get(constants.SessionKeyPendingTask); v != nil {
		pendingTask = v
		session.Delete(constants.SessionKeyPendingTask)
	}

	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	resp := gin.H{"user": dto.ToUserDTO(*user)}
	if pendingTask != nil {
		resp["pending_volunteer_task"] = pendingTask
	}
	c.JSON(http.StatusOK, resp)
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.directory.GetUser(userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
