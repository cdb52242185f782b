package engine_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/musetera/comunidade/client/internal/engine"
	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/gateway/memory"
	"github.com/musetera/comunidade/client/internal/models"
)

// likedNotification seeds a post by author, a like by viewer and refetches
// the author's notification listing.
func likedNotification(t *testing.T, eng *engine.Engine) models.Notification {
	t.Helper()
	ctx := context.Background()

	post, err := eng.CreatePost(ctx, "author", models.CreatePostRequest{Content: "post"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := eng.ToggleLike(ctx, "viewer", post.ID); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if err := eng.RefreshNotifications(ctx, "author"); err != nil {
		t.Fatalf("RefreshNotifications: %v", err)
	}

	rows := eng.Notifications("author")
	if len(rows) != 1 {
		t.Fatalf("notifications = %d, want 1", len(rows))
	}
	return rows[0]
}

func TestRefreshNotificationsVisibleToRecipientOnly(t *testing.T) {
	eng, _ := newTestEngine(t)
	n := likedNotification(t, eng)

	if n.Type != models.NotificationLike || n.ActorID != "viewer" {
		t.Fatalf("notification = %+v, want LIKE from viewer", n)
	}
	if got := eng.Notifications("viewer"); len(got) != 0 {
		t.Fatalf("viewer sees %d notifications, want 0", len(got))
	}
	if got, want := eng.UnreadNotifications("author"), 1; got != want {
		t.Fatalf("unread = %d, want %d", got, want)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	eng, _ := newTestEngine(t)
	n := likedNotification(t, eng)
	ctx := context.Background()

	if err := eng.MarkNotificationRead(ctx, "author", n.ID); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	if got, want := eng.UnreadNotifications("author"), 0; got != want {
		t.Fatalf("unread = %d, want %d", got, want)
	}

	// Reading an already-read notification is a no-op.
	if err := eng.MarkNotificationRead(ctx, "author", n.ID); err != nil {
		t.Fatalf("second MarkNotificationRead: %v", err)
	}
}

func TestMarkNotificationReadRejectsForeignRecipient(t *testing.T) {
	eng, _ := newTestEngine(t)
	n := likedNotification(t, eng)

	err := eng.MarkNotificationRead(context.Background(), "viewer", n.ID)
	if !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if got, want := eng.UnreadNotifications("author"), 1; got != want {
		t.Fatalf("unread = %d, want %d", got, want)
	}
}

func TestMarkNotificationReadRollsBackOnGatewayFailure(t *testing.T) {
	eng, store := newTestEngine(t)
	n := likedNotification(t, eng)

	store.Fail["mark_read"] = errors.New("gateway down")
	if err := eng.MarkNotificationRead(context.Background(), "author", n.ID); err == nil {
		t.Fatal("expected error")
	}

	if got, want := eng.UnreadNotifications("author"), 1; got != want {
		t.Fatalf("unread after rollback = %d, want %d", got, want)
	}
	if got, want := eng.Actions().State("mark_read:"+n.ID), engine.StateRolledBack; got != want {
		t.Fatalf("action state = %v, want %v", got, want)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	post, err := eng.CreatePost(ctx, "author", models.CreatePostRequest{Content: "post"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := eng.ToggleLike(ctx, "viewer", post.ID); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if _, err := eng.AddComment(ctx, "viewer", post.ID, models.CreateCommentRequest{Content: "oi"}); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if err := eng.RefreshNotifications(ctx, "author"); err != nil {
		t.Fatalf("RefreshNotifications: %v", err)
	}
	if got, want := eng.UnreadNotifications("author"), 2; got != want {
		t.Fatalf("unread = %d, want %d", got, want)
	}

	if err := eng.MarkAllNotificationsRead(ctx, "author"); err != nil {
		t.Fatalf("MarkAllNotificationsRead: %v", err)
	}
	if got, want := eng.UnreadNotifications("author"), 0; got != want {
		t.Fatalf("unread = %d, want %d", got, want)
	}

	// Nothing unread left: a second call does not touch the gateway.
	if err := eng.MarkAllNotificationsRead(ctx, "author"); err != nil {
		t.Fatalf("second MarkAllNotificationsRead: %v", err)
	}
}

func TestDeleteNotification(t *testing.T) {
	eng, store := newTestEngine(t)
	n := likedNotification(t, eng)
	ctx := context.Background()

	if err := eng.DeleteNotification(ctx, "author", n.ID); err != nil {
		t.Fatalf("DeleteNotification: %v", err)
	}
	if got := eng.Notifications("author"); len(got) != 0 {
		t.Fatalf("notifications = %d, want 0", len(got))
	}
	rows, _ := store.ListByRecipient(ctx, "author")
	if len(rows) != 0 {
		t.Fatalf("server notifications = %d, want 0", len(rows))
	}
}

func TestClearNotifications(t *testing.T) {
	eng, store := newTestEngine(t)
	likedNotification(t, eng)
	ctx := context.Background()

	if err := eng.ClearNotifications(ctx, "author"); err != nil {
		t.Fatalf("ClearNotifications: %v", err)
	}
	if got := eng.Notifications("author"); len(got) != 0 {
		t.Fatalf("notifications = %d, want 0", len(got))
	}
	rows, _ := store.ListByRecipient(ctx, "author")
	if len(rows) != 0 {
		t.Fatalf("server notifications = %d, want 0", len(rows))
	}
}

// clearStateSpy observes the action tracker from inside the remote write.
type clearStateSpy struct {
	gateway.NotificationStore
	state func() engine.ActionState
	seen  engine.ActionState
}

func (s *clearStateSpy) DeleteAllForRecipient(ctx context.Context, recipientID string) error {
	s.seen = s.state()
	return s.NotificationStore.DeleteAllForRecipient(ctx, recipientID)
}

func TestClearNotificationsIsPendingWhileApplied(t *testing.T) {
	store := memory.New()
	gw := store.Gateway()
	spy := &clearStateSpy{NotificationStore: gw.Notifications}
	gw.Notifications = spy
	eng := engine.New(gw, zap.NewNop())
	spy.state = func() engine.ActionState { return eng.Actions().State("clear_notifications") }

	likedNotification(t, eng)

	if err := eng.ClearNotifications(context.Background(), "author"); err != nil {
		t.Fatalf("ClearNotifications: %v", err)
	}
	if spy.seen != engine.StatePending {
		t.Fatalf("state during write = %q, want %q", spy.seen, engine.StatePending)
	}
	if got := eng.Actions().State("clear_notifications"); got != engine.StateCommitted {
		t.Fatalf("state = %q, want %q", got, engine.StateCommitted)
	}
}

func TestClearNotificationsRollsBackOnGatewayFailure(t *testing.T) {
	eng, store := newTestEngine(t)
	likedNotification(t, eng)

	store.Fail["delete_all_notifications"] = errors.New("gateway down")
	if err := eng.ClearNotifications(context.Background(), "author"); err == nil {
		t.Fatal("expected error")
	}
	if got, want := len(eng.Notifications("author")), 1; got != want {
		t.Fatalf("notifications after rollback = %d, want %d", got, want)
	}
}
