package repository

import (
	"github.com/openopps/openopps-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// ReplaceTags replaces the user's tag associations
	ReplaceTags(user *models.User, tags []models.Tag) error

	// FindActiveSetting finds the active setting row for a key, if any
	FindActiveSetting(userID uint64, key string) (*models.UserSetting, error)

	// SaveSetting deactivates any existing row for the key and stores the
	// new value atomically
	SaveSetting(userID uint64, key, value string) (*models.UserSetting, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	State    *models.TaskState
	OwnerID  *uint64
	TagID    *uint64
	Page     int
	PageSize int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task along with its tag associations
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// UpdateState persists only the task's state
	UpdateState(id uint64, state models.TaskState) error

	// Delete soft deletes a task and removes its volunteer rows
	Delete(id uint64) error
}

// VolunteerRepository defines the interface for the assignment ledger
type VolunteerRepository interface {
	// Create inserts an assignment; a duplicate (task, user) pair
	// surfaces as gorm.ErrDuplicatedKey
	Create(v *models.Volunteer) error

	// FindByID finds an assignment by ID
	FindByID(id uint64) (*models.Volunteer, error)

	// FindByTaskAndUser finds an assignment for a (task, user) pair
	FindByTaskAndUser(taskID, userID uint64) (*models.Volunteer, error)

	// ListByTask lists a task's assignments ordered by creation time
	ListByTask(taskID uint64) ([]models.Volunteer, error)

	// DeleteByID removes an assignment; deleting a missing ID is a no-op
	DeleteByID(id uint64) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// FindByIDs finds tags by their IDs
	FindByIDs(ids []uint64) ([]models.Tag, error)

	// ListByKind lists all tags of a kind
	ListByKind(kind models.TagKind) ([]models.Tag, error)

	// FindOrCreate finds a tag by (kind, name) or creates it
	FindOrCreate(kind models.TagKind, name string) (*models.Tag, error)
}

// NotificationRepository defines the interface for notification records
type NotificationRepository interface {
	// Create persists a rendered notification
	Create(n *models.Notification) error

	// ListByRecipient lists notifications sent to a recipient
	ListByRecipient(recipient string) ([]models.Notification, error)
}
