package models

import "time"

// Notification is the persisted record of a dispatched message: the
// triggering action key, the model it refers to, and the rendered
// subject/body delivered to the recipient.
type Notification struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	ModelType string    `gorm:"type:varchar(50);not null" json:"model_type"`
	ModelID   uint64    `gorm:"not null" json:"model_id"`
	Recipient string    `gorm:"type:varchar(255);not null;index" json:"recipient"`
	Subject   string    `gorm:"type:varchar(255);not null" json:"subject"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
