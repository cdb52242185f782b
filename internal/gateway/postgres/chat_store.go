package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/models"
)

// ChatStore implements gateway.ChatStore for PostgreSQL
type ChatStore struct {
	db      *gorm.DB
	changes gateway.Notifier
}

// CreateChat inserts the chat and its participant rows in one transaction.
// The unique pair-key index turns a lost creation race into ErrConflict.
func (s *ChatStore) CreateChat(ctx context.Context, chat *models.Chat, participants []models.ChatParticipant) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}
		for i := range participants {
			participants[i].ChatID = chat.ID
			if err := tx.Create(&participants[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translate(err)
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TableChats,
		Kind:  gateway.EventInsert,
		RowID: chat.ID,
	})
	return nil
}

// ListChatIDsForUser returns the ids of every chat the user participates in.
func (s *ChatStore) ListChatIDsForUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.ChatParticipant{}).
		Where("user_id = ?", userID).
		Pluck("chat_id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

// ListChatsForUser returns the chat rows the user participates in.
func (s *ChatStore) ListChatsForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	ids, err := s.ListChatIDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var chats []models.Chat
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&chats).Error; err != nil {
		return nil, fmt.Errorf("list chats: %w", translate(err))
	}
	return chats, nil
}

// ListParticipants returns the membership rows of one chat.
func (s *ChatStore) ListParticipants(ctx context.Context, chatID string) ([]models.ChatParticipant, error) {
	var participants []models.ChatParticipant
	err := s.db.WithContext(ctx).Where("chat_id = ?", chatID).Find(&participants).Error
	if err != nil {
		return nil, translate(err)
	}
	return participants, nil
}
