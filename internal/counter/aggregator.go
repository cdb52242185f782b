// Package counter derives the denormalized counts the views show. Counts are
// always recomputed from full relation listings; push deltas are never
// merged incrementally, so duplicate or out-of-order events cannot make a
// count drift.
package counter

import (
	"sync"
	"time"

	"github.com/musetera/comunidade/client/internal/models"
)

// Aggregator maps post ids to like/comment counts and chat ids to unread
// counts. Optimistic ±1 adjustments are visible immediately and overwritten
// by the next Recompute, which is authoritative.
type Aggregator struct {
	mu       sync.RWMutex
	likes    map[string]int
	comments map[string]int
	unread   map[string]int
	lastSeen map[string]time.Time
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{
		likes:    make(map[string]int),
		comments: make(map[string]int),
		unread:   make(map[string]int),
		lastSeen: make(map[string]time.Time),
	}
}

// Recompute replaces the like and comment counts with a fold over the full
// row listings.
func (a *Aggregator) Recompute(likes []models.PostLike, comments []models.PostComment) {
	nextLikes := make(map[string]int, len(likes))
	for _, l := range likes {
		nextLikes[l.PostID]++
	}
	nextComments := make(map[string]int, len(comments))
	for _, c := range comments {
		nextComments[c.PostID]++
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.likes = nextLikes
	a.comments = nextComments
}

// LikeCount returns the current like count for a post.
func (a *Aggregator) LikeCount(postID string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.likes[postID]
}

// CommentCount returns the current comment count for a post.
func (a *Aggregator) CommentCount(postID string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.comments[postID]
}

// AdjustLikes applies an optimistic delta to a post's like count, floored at
// zero. The next Recompute overwrites it.
func (a *Aggregator) AdjustLikes(postID string, delta int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if next := a.likes[postID] + delta; next > 0 {
		a.likes[postID] = next
	} else {
		delete(a.likes, postID)
	}
}

// AdjustComments applies an optimistic delta to a post's comment count,
// floored at zero.
func (a *Aggregator) AdjustComments(postID string, delta int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if next := a.comments[postID] + delta; next > 0 {
		a.comments[postID] = next
	} else {
		delete(a.comments, postID)
	}
}

// RecomputeUnread replaces a chat's unread count with the number of messages
// from other senders after the viewer's last-seen watermark.
func (a *Aggregator) RecomputeUnread(chatID, viewerID string, msgs []models.Message) {
	a.mu.RLock()
	seen := a.lastSeen[chatID]
	a.mu.RUnlock()

	n := 0
	for _, m := range msgs {
		if m.ChatID != chatID || m.SenderID == viewerID {
			continue
		}
		if m.CreatedAt.After(seen) {
			n++
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.unread[chatID] = n
}

// Unread returns the current unread count for a chat.
func (a *Aggregator) Unread(chatID string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.unread[chatID]
}

// MarkSeen advances the viewer's watermark for a chat and clears its unread
// count. Called when the chat view is opened.
func (a *Aggregator) MarkSeen(chatID string, at time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if at.After(a.lastSeen[chatID]) {
		a.lastSeen[chatID] = at
	}
	delete(a.unread, chatID)
}
