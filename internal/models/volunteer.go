package models

import "time"

// Volunteer records that a user signed up for a task. Rows are hard
// deleted on removal so the (task_id, user_id) unique constraint never
// blocks a later re-assignment.
type Volunteer struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	TaskID    uint64    `gorm:"not null;uniqueIndex:idx_volunteers_task_user" json:"task_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_volunteers_task_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
