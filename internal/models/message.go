package models

import "time"

// Message represents a chat message, ordered by created-at ascending within
// its chat. Messages are never edited or deleted.
type Message struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	ChatID    string    `json:"chat_id" gorm:"index;size:64"`
	SenderID  string    `json:"sender_id" gorm:"index;size:64"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// SendMessageRequest defines the request body for sending a chat message
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
