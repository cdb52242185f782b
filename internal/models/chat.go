package models

import (
	"sort"
	"time"
)

// Chat represents a direct conversation thread.
type Chat struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	PairKey   string    `json:"-" gorm:"uniqueIndex;size:130"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatParticipant is a membership row, created at chat creation.
type ChatParticipant struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	ChatID string `json:"chat_id" gorm:"index;uniqueIndex:idx_chat_user;size:64"`
	UserID string `json:"user_id" gorm:"index;uniqueIndex:idx_chat_user;size:64"`
}

// Key returns the membership cache key.
func (p ChatParticipant) Key() string { return p.ChatID + ":" + p.UserID }

// ChatPairKey builds the canonical key for an unordered participant pair.
// The storage layer enforces uniqueness on it so two clients racing to open
// the same conversation cannot both create a chat row.
func ChatPairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + ":" + ids[1]
}
