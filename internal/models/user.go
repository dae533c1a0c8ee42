package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	Username     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`

	// Profile
	Name  string `gorm:"type:varchar(255)" json:"name"`
	Title string `gorm:"type:varchar(255)" json:"title"`
	Bio   string `gorm:"type:text" json:"bio"`

	// Photo reference: either an uploaded file ID or an external URL.
	PhotoID  *uint64 `json:"photo_id"`
	PhotoURL string  `gorm:"type:varchar(1024)" json:"photo_url"`

	IsAdmin          bool `gorm:"not null;default:false" json:"is_admin"`
	Disabled         bool `gorm:"not null;default:false" json:"disabled"`
	PasswordAttempts int  `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tags       []Tag         `gorm:"many2many:user_tags;" json:"tags,omitempty"`
	Volunteers []Volunteer   `gorm:"foreignKey:UserID" json:"-"`
	Settings   []UserSetting `gorm:"foreignKey:UserID" json:"-"`
	OwnedTasks []Task        `gorm:"foreignKey:UserID" json:"-"`
}

// TagsOfKind returns the user's tags of the given kind.
func (u *User) TagsOfKind(kind TagKind) []Tag {
	var out []Tag
	for _, t := range u.Tags {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}
