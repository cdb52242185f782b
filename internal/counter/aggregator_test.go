package counter

import (
	"testing"
	"time"

	"github.com/musetera/comunidade/client/internal/models"
)

func TestRecomputeFoldsListings(t *testing.T) {
	a := New()
	likes := []models.PostLike{
		{PostID: "p1", UserID: "u1"},
		{PostID: "p1", UserID: "u2"},
		{PostID: "p2", UserID: "u1"},
	}
	comments := []models.PostComment{
		{ID: "c1", PostID: "p1"},
	}

	a.Recompute(likes, comments)

	if got, want := a.LikeCount("p1"), 2; got != want {
		t.Fatalf("LikeCount(p1) = %d, want %d", got, want)
	}
	if got, want := a.LikeCount("p2"), 1; got != want {
		t.Fatalf("LikeCount(p2) = %d, want %d", got, want)
	}
	if got, want := a.CommentCount("p1"), 1; got != want {
		t.Fatalf("CommentCount(p1) = %d, want %d", got, want)
	}
	if got, want := a.LikeCount("unknown"), 0; got != want {
		t.Fatalf("LikeCount(unknown) = %d, want %d", got, want)
	}
}

func TestRecomputeOverwritesOptimisticDelta(t *testing.T) {
	a := New()
	a.AdjustLikes("p1", +1)
	a.AdjustLikes("p1", +1)

	// Server truth says one like.
	a.Recompute([]models.PostLike{{PostID: "p1", UserID: "u1"}}, nil)

	if got, want := a.LikeCount("p1"), 1; got != want {
		t.Fatalf("LikeCount(p1) = %d, want %d", got, want)
	}
}

func TestAdjustFloorsAtZero(t *testing.T) {
	a := New()
	a.AdjustLikes("p1", -1)
	if got, want := a.LikeCount("p1"), 0; got != want {
		t.Fatalf("LikeCount(p1) = %d, want %d", got, want)
	}

	a.AdjustComments("p1", +1)
	a.AdjustComments("p1", -1)
	a.AdjustComments("p1", -1)
	if got, want := a.CommentCount("p1"), 0; got != want {
		t.Fatalf("CommentCount(p1) = %d, want %d", got, want)
	}
}

func TestUnreadCountsOthersAfterWatermark(t *testing.T) {
	a := New()
	base := time.Now()
	msgs := []models.Message{
		{ID: "m1", ChatID: "c1", SenderID: "other", CreatedAt: base.Add(1 * time.Second)},
		{ID: "m2", ChatID: "c1", SenderID: "me", CreatedAt: base.Add(2 * time.Second)},
		{ID: "m3", ChatID: "c1", SenderID: "other", CreatedAt: base.Add(3 * time.Second)},
	}

	a.RecomputeUnread("c1", "me", msgs)
	if got, want := a.Unread("c1"), 2; got != want {
		t.Fatalf("Unread = %d, want %d", got, want)
	}

	// Watermark between m1 and m3: only m3 counts.
	a.MarkSeen("c1", base.Add(2*time.Second))
	a.RecomputeUnread("c1", "me", msgs)
	if got, want := a.Unread("c1"), 1; got != want {
		t.Fatalf("Unread after watermark = %d, want %d", got, want)
	}
}

func TestMarkSeenClearsUnread(t *testing.T) {
	a := New()
	msgs := []models.Message{
		{ID: "m1", ChatID: "c1", SenderID: "other", CreatedAt: time.Now()},
	}
	a.RecomputeUnread("c1", "me", msgs)

	a.MarkSeen("c1", time.Now())
	if got, want := a.Unread("c1"), 0; got != want {
		t.Fatalf("Unread after MarkSeen = %d, want %d", got, want)
	}
}

func TestMarkSeenNeverMovesWatermarkBackwards(t *testing.T) {
	a := New()
	base := time.Now()
	a.MarkSeen("c1", base)
	a.MarkSeen("c1", base.Add(-time.Hour))

	msgs := []models.Message{
		{ID: "m1", ChatID: "c1", SenderID: "other", CreatedAt: base.Add(-time.Minute)},
	}
	a.RecomputeUnread("c1", "me", msgs)
	if got, want := a.Unread("c1"), 0; got != want {
		t.Fatalf("Unread = %d, want %d", got, want)
	}
}
