package dto

import "github.com/openopps/openopps-api/internal/models"

// TagDTO represents a tag in API responses
type TagDTO struct {
	ID   uint64         `json:"id"`
	Kind models.TagKind `json:"kind"`
	Name string         `json:"name"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Title    string   `json:"title,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	PhotoID  *uint64  `json:"photo_id,omitempty"`
	PhotoURL string   `json:"photo_url,omitempty"`
	IsAdmin  bool     `json:"is_admin"`
	Disabled bool     `json:"disabled"`
	Tags     []TagDTO `json:"tags,omitempty"`
}

// ToTagDTO converts a Tag model to TagDTO
func ToTagDTO(tag models.Tag) TagDTO {
	return TagDTO{
		ID:   tag.ID,
		Kind: tag.Kind,
		Name: tag.Name,
	}
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Title:    user.Title,
		Bio:      user.Bio,
		PhotoID:  user.PhotoID,
		PhotoURL: user.PhotoURL,
		IsAdmin:  user.IsAdmin,
		Disabled: user.Disabled,
	}

	if len(user.Tags) > 0 {
		dto.Tags = make([]TagDTO, len(user.Tags))
		for i, t := range user.Tags {
			dto.Tags[i] = ToTagDTO(t)
		}
	}

	return dto
}
