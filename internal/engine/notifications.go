package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/musetera/comunidade/client/internal/models"
)

// RefreshNotifications refetches the recipient's notification listing and
// replaces the cached table.
func (e *Engine) RefreshNotifications(ctx context.Context, recipientID string) error {
	rows, err := e.gw.Notifications.ListByRecipient(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("refresh notifications: %w", err)
	}
	e.cache.Notifications.Replace(rows)
	return nil
}

// Notifications returns the recipient's cached notifications newest first.
func (e *Engine) Notifications(recipientID string) []models.Notification {
	all := e.cache.Notifications.All()
	rows := make([]models.Notification, 0, len(all))
	for _, n := range all {
		if n.RecipientID == recipientID {
			rows = append(rows, n)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows
}

// UnreadNotifications returns the recipient's unread badge count, derived
// from the cached rows.
func (e *Engine) UnreadNotifications(recipientID string) int {
	n := 0
	for _, row := range e.cache.Notifications.All() {
		if row.RecipientID == recipientID && !row.IsRead {
			n++
		}
	}
	return n
}

// MarkNotificationRead flips the read flag of one notification. Reading an
// already-read notification is a no-op; reading someone else's is rejected.
func (e *Engine) MarkNotificationRead(ctx context.Context, actorID, id string) error {
	n, ok := e.cache.Notifications.Get(id)
	if !ok {
		return fmt.Errorf("%w: unknown notification %s", ErrValidation, id)
	}
	if n.RecipientID != actorID {
		return fmt.Errorf("%w: notification %s is not addressed to the actor", ErrValidation, id)
	}
	if n.IsRead {
		return nil
	}

	act := e.actions.Begin("mark_read:" + id)
	prev := n
	n.IsRead = true
	e.cache.Notifications.Upsert(n)

	if err := e.gw.Notifications.MarkRead(ctx, id); err != nil {
		e.cache.Notifications.Upsert(prev)
		act.RollBack(err)
		return fmt.Errorf("mark notification read: %w", err)
	}
	act.Commit()
	return nil
}

// MarkAllNotificationsRead flips every unread notification of the actor.
func (e *Engine) MarkAllNotificationsRead(ctx context.Context, actorID string) error {
	var changed []models.Notification
	for _, n := range e.cache.Notifications.All() {
		if n.RecipientID == actorID && !n.IsRead {
			changed = append(changed, n)
			n.IsRead = true
			e.cache.Notifications.Upsert(n)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	act := e.actions.Begin("mark_all_read")
	if err := e.gw.Notifications.MarkAllRead(ctx, actorID); err != nil {
		e.cache.Notifications.UpsertMany(changed)
		act.RollBack(err)
		return fmt.Errorf("mark all read: %w", err)
	}
	act.Commit()
	return nil
}

// DeleteNotification removes one notification of the actor.
func (e *Engine) DeleteNotification(ctx context.Context, actorID, id string) error {
	n, ok := e.cache.Notifications.Get(id)
	if !ok {
		return fmt.Errorf("%w: unknown notification %s", ErrValidation, id)
	}
	if n.RecipientID != actorID {
		return fmt.Errorf("%w: notification %s is not addressed to the actor", ErrValidation, id)
	}

	act := e.actions.Begin("delete_notification:" + id)
	e.cache.Notifications.Remove(id)

	if err := e.gw.Notifications.DeleteNotification(ctx, id); err != nil {
		e.cache.Notifications.Upsert(n)
		act.RollBack(err)
		return fmt.Errorf("delete notification: %w", err)
	}
	act.Commit()
	return nil
}

// ClearNotifications removes every notification of the actor.
func (e *Engine) ClearNotifications(ctx context.Context, actorID string) error {
	act := e.actions.Begin("clear_notifications")
	var mine []models.Notification
	for _, n := range e.cache.Notifications.All() {
		if n.RecipientID == actorID {
			mine = append(mine, n)
			e.cache.Notifications.Remove(n.ID)
		}
	}

	if err := e.gw.Notifications.DeleteAllForRecipient(ctx, actorID); err != nil {
		e.cache.Notifications.UpsertMany(mine)
		act.RollBack(err)
		return fmt.Errorf("clear notifications: %w", err)
	}
	act.Commit()
	return nil
}
