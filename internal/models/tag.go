package models

import "time"

type TagKind string

const (
	TagKindLocation TagKind = "location"
	TagKindAgency   TagKind = "agency"
	TagKindSkill    TagKind = "skill"
	TagKindTopic    TagKind = "topic"
)

// Tag is a categorized label attached to users and tasks for
// filtering and matching.
type Tag struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Kind      TagKind   `gorm:"type:varchar(20);not null;uniqueIndex:idx_tags_kind_name" json:"kind"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_tags_kind_name" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Users []User `gorm:"many2many:user_tags;" json:"-"`
	Tasks []Task `gorm:"many2many:task_tags;" json:"-"`
}
