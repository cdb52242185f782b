// Package postgres implements the relational half of the gateway contract
// with GORM: profiles, likes, comments, notifications, chats, participants
// and messages. Every successful write publishes a change signal.
package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/models"
)

// Stores bundles the relational table adapters over one connection.
type Stores struct {
	Profiles      *ProfileStore
	Likes         *LikeStore
	Comments      *CommentStore
	Notifications *NotificationStore
	Chats         *ChatStore
	Messages      *MessageStore
}

// New migrates the relational tables and returns their adapters.
func New(db *gorm.DB, changes gateway.Notifier) (*Stores, error) {
	err := db.AutoMigrate(
		&models.Profile{},
		&models.PostLike{},
		&models.PostComment{},
		&models.Notification{},
		&models.Chat{},
		&models.ChatParticipant{},
		&models.Message{},
	)
	if err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Stores{
		Profiles:      &ProfileStore{db: db, changes: changes},
		Likes:         &LikeStore{db: db, changes: changes},
		Comments:      &CommentStore{db: db, changes: changes},
		Notifications: &NotificationStore{db: db, changes: changes},
		Chats:         &ChatStore{db: db, changes: changes},
		Messages:      &MessageStore{db: db, changes: changes},
	}, nil
}

// translate maps GORM errors onto the gateway error taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return gateway.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return gateway.ErrConflict
	default:
		return err
	}
}
