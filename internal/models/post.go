package models

import "time"

// DefaultCommunity is the community tag applied when a post names none.
const DefaultCommunity = "Insight"

// Post represents a feed post stored in the posts collection. Content is
// immutable after creation; like and comment counts are never read from the
// row itself, they are derived from the relation tables.
type Post struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Content   string    `json:"content" bson:"content"`
	ImageURL  string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Community string    `json:"community" bson:"community"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post.
// Content may be empty only when an image is attached.
type CreatePostRequest struct {
	Content   string `json:"content" validate:"max=2000"`
	ImageURL  string `json:"image_url,omitempty" validate:"omitempty,url"`
	Community string `json:"community,omitempty" validate:"omitempty,max=50"`
}
