package models

import "time"

// UserSetting is a per-user key/value pair; only the active row for a
// key is read back.
type UserSetting struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_user_settings_user_key" json:"user_id"`
	Key       string    `gorm:"type:varchar(100);not null;index:idx_user_settings_user_key" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
