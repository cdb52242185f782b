package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/models"
)

// MessageStore implements gateway.MessageStore for PostgreSQL
type MessageStore struct {
	db      *gorm.DB
	changes gateway.Notifier
}

// CreateMessage inserts a message row.
func (s *MessageStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	if err := translate(s.db.WithContext(ctx).Create(msg).Error); err != nil {
		return err
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TableMessages,
		Kind:  gateway.EventInsert,
		RowID: msg.ID,
		Scope: msg.ChatID,
	})
	return nil
}

// ListMessagesByChat returns a chat's messages ordered by created_at ascending.
func (s *MessageStore) ListMessagesByChat(ctx context.Context, chatID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, translate(err)
	}
	return messages, nil
}
