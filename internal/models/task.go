package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskState string

const (
	TaskStateDraft  TaskState = "draft"
	TaskStateOpen   TaskState = "open"
	TaskStateClosed TaskState = "closed"
)

// Task is a posted volunteer opportunity with a lifecycle state.
type Task struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	State       TaskState `gorm:"type:varchar(20);not null;default:'open'" json:"state"`
	UserID      uint64    `gorm:"not null" json:"user_id"`
	ProjectID   *uint64   `json:"project_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner      User        `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	Project    *Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Tags       []Tag       `gorm:"many2many:task_tags;" json:"tags,omitempty"`
	Volunteers []Volunteer `gorm:"foreignKey:TaskID" json:"volunteers,omitempty"`
}
