package models

import "time"

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// Story represents an ephemeral image stored in the stories collection.
// Visible iff now < ExpiresAt; expiry filters it out, nothing deletes it.
type Story struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	ImageURL  string    `json:"image_url" bson:"image_url"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// CreateStoryRequest defines the request body for posting a story
type CreateStoryRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}
