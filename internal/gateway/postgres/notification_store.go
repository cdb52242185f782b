package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/models"
)

// NotificationStore implements gateway.NotificationStore for PostgreSQL
type NotificationStore struct {
	db      *gorm.DB
	changes gateway.Notifier
}

// CreateNotification inserts a notification row.
func (s *NotificationStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	if err := translate(s.db.WithContext(ctx).Create(n).Error); err != nil {
		return err
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TableNotifications,
		Kind:  gateway.EventInsert,
		RowID: n.ID,
		Scope: n.RecipientID,
	})
	return nil
}

// ListByRecipient returns the recipient's notifications, newest first.
func (s *NotificationStore) ListByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, translate(err)
	}
	return notifications, nil
}

// MarkRead sets the read flag of one notification.
func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	var n models.Notification
	if err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return translate(err)
	}
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return translate(err)
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TableNotifications,
		Kind:  gateway.EventUpdate,
		RowID: id,
		Scope: n.RecipientID,
	})
	return nil
}

// MarkAllRead sets the read flag of every unread notification of a recipient.
func (s *NotificationStore) MarkAllRead(ctx context.Context, recipientID string) error {
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Update("is_read", true).Error
	if err != nil {
		return translate(err)
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TableNotifications,
		Kind:  gateway.EventUpdate,
		Scope: recipientID,
	})
	return nil
}

// DeleteNotification removes one notification row.
func (s *NotificationStore) DeleteNotification(ctx context.Context, id string) error {
	var n models.Notification
	if err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return translate(err)
	}
	res := s.db.WithContext(ctx).Delete(&models.Notification{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gateway.ErrNotFound
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TableNotifications,
		Kind:  gateway.EventDelete,
		RowID: id,
		Scope: n.RecipientID,
	})
	return nil
}

// DeleteAllForRecipient removes every notification row of a recipient.
func (s *NotificationStore) DeleteAllForRecipient(ctx context.Context, recipientID string) error {
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Delete(&models.Notification{}).Error
	if err != nil {
		return translate(err)
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TableNotifications,
		Kind:  gateway.EventDelete,
		Scope: recipientID,
	})
	return nil
}
