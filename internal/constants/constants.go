package constants

// ContextKeyUserID is the key under which the authenticated user's ID is
// stored in both the session and the gin context.
const ContextKeyUserID = "user_id"

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "openopps_session"

// SessionKeyPendingTask holds a task ID recorded when an anonymous user
// starts the volunteer workflow, so it can resume after login.
const SessionKeyPendingTask = "pending_volunteer_task"

// Password rules
const MinPasswordLength = 8

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// User setting keys for the supervisor contact captured during the
// volunteer confirmation step.
const (
	SettingSupervisorName  = "supervisorName"
	SettingSupervisorEmail = "supervisorEmail"
)
