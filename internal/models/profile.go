package models

import "time"

// Profile represents a member's public profile row. The id is the identity
// provider's uid, so profiles need no foreign key back to an accounts table.
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Name      string    `json:"name" gorm:"size:100"`
	Role      string    `json:"role,omitempty" gorm:"size:100"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Bio       string    `json:"bio,omitempty" gorm:"size:500"`
	Location  string    `json:"location,omitempty" gorm:"size:100"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileRequest defines the request body for editing one's own
// profile. The avatar travels separately through the upload endpoint.
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Role     string `json:"role,omitempty" validate:"omitempty,max=100"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
}
