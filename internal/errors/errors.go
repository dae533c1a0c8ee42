package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Business logic errors
	ErrCodeInvalidState = "INVALID_STATE"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// Kind classifies domain errors returned by the service layer.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindConflict      Kind = "conflict"
	KindNotFound      Kind = "not_found"
	KindInvalidState  Kind = "invalid_state"
)

// DomainError is a classified business error. Repositories and services
// translate persistence failures into one of the Kinds above at their
// boundary; handlers map Kinds onto HTTP statuses with Respond.
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Constructors for each Kind.

func Validation(message string) *DomainError {
	return &DomainError{Kind: KindValidation, Message: message}
}

func Authorization(message string) *DomainError {
	return &DomainError{Kind: KindAuthorization, Message: message}
}

func Conflicted(message string) *DomainError {
	return &DomainError{Kind: KindConflict, Message: message}
}

func Missing(message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: message}
}

func InvalidState(message string) *DomainError {
	return &DomainError{Kind: KindInvalidState, Message: message}
}

// Wrap attaches a cause to a DomainError.
func (e *DomainError) Wrap(err error) *DomainError {
	return &DomainError{Kind: e.Kind, Message: e.Message, Err: err}
}

// KindOf returns the Kind of err, or "" for unclassified errors.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a DomainError of the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Respond maps a service-layer error onto an HTTP error response.
func Respond(c *gin.Context, err error) {
	var de *DomainError
	if !stderrors.As(err, &de) {
		InternalError(c, "")
		return
	}

	switch de.Kind {
	case KindValidation:
		BadRequest(c, de.Message)
	case KindAuthorization:
		Forbidden(c, de.Message)
	case KindConflict:
		Conflict(c, de.Message)
	case KindNotFound:
		NotFound(c, de.Message)
	case KindInvalidState:
		RespondWithError(c, http.StatusUnprocessableEntity, NewAPIError(ErrCodeInvalidState, de.Message))
	default:
		InternalError(c, "")
	}
}
