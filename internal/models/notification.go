package models

import "time"

// Notification types produced by the app.
const (
	NotificationLike          = "LIKE"
	NotificationComment       = "COMMENT"
	NotificationFriendRequest = "FRIEND_REQUEST"
	NotificationMention       = "MENTION"
)

// Notification represents a user notification, visible only to its
// recipient. Created as a side effect of someone else liking or commenting
// on the recipient's post; the recipient may mark it read or delete it.
type Notification struct {
	ID          string    `json:"id" gorm:"primaryKey;size:64"`
	RecipientID string    `json:"recipient_id" gorm:"index;size:64"`
	ActorID     string    `json:"actor_id" gorm:"index;size:64"`
	Type        string    `json:"type" gorm:"size:30;index"`
	Message     string    `json:"message"`
	RelatedID   string    `json:"related_id,omitempty" gorm:"size:64"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
