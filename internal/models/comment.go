package models

import "time"

// PostComment represents a comment on a post, ordered by created-at
// ascending within its post. Comments are not edited or deleted.
type PostComment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	PostID    string    `json:"post_id" gorm:"index;size:64"`
	UserID    string    `json:"user_id" gorm:"index;size:64"`
	Content   string    `json:"content" validate:"required,min=1,max=500"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
