// Package chat resolves direct conversation threads: exactly one chat per
// unordered pair of participants, so conversations do not fragment.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/models"
)

// ErrSameUser is returned when both sides of the pair are the same identity.
var ErrSameUser = errors.New("chat: cannot open a chat with yourself")

// Resolver finds or creates the single direct chat between two users.
type Resolver struct {
	chats gateway.ChatStore
	log   *zap.Logger
	now   func() time.Time
}

// NewResolver creates a Resolver on top of the chat store.
func NewResolver(chats gateway.ChatStore, log *zap.Logger) *Resolver {
	return &Resolver{chats: chats, log: log, now: time.Now}
}

// Resolve returns the id of the direct chat between userID and otherID,
// creating the chat and its two participant rows when none exists. The
// lookup is idempotent. The read-then-write is not atomic; when another
// client wins the race the storage layer reports a pair-key conflict and the
// resolver re-runs the lookup.
func (r *Resolver) Resolve(ctx context.Context, userID, otherID string) (string, error) {
	if userID == "" || otherID == "" {
		return "", errors.New("chat: missing participant id")
	}
	if userID == otherID {
		return "", ErrSameUser
	}

	if id, err := r.lookup(ctx, userID, otherID); err != nil || id != "" {
		return id, err
	}

	c := models.Chat{
		ID:        uuid.NewString(),
		PairKey:   models.ChatPairKey(userID, otherID),
		CreatedAt: r.now(),
	}
	participants := []models.ChatParticipant{
		{ChatID: c.ID, UserID: userID},
		{ChatID: c.ID, UserID: otherID},
	}
	err := r.chats.CreateChat(ctx, &c, participants)
	if errors.Is(err, gateway.ErrConflict) {
		// Another client created the pair first; reuse theirs.
		r.log.Info("direct chat creation lost the race, re-resolving",
			zap.String("pair_key", c.PairKey))
		id, lerr := r.lookup(ctx, userID, otherID)
		if lerr != nil {
			return "", lerr
		}
		if id == "" {
			return "", fmt.Errorf("chat: pair conflict without a visible chat: %w", err)
		}
		return id, nil
	}
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}
	return c.ID, nil
}

// lookup intersects both users' chat id sets and returns the first common
// chat that is an exact 2-party thread. Group threads with more
// participants are never reused as direct chats.
func (r *Resolver) lookup(ctx context.Context, userID, otherID string) (string, error) {
	mine, err := r.chats.ListChatIDsForUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list chats for %s: %w", userID, err)
	}
	theirs, err := r.chats.ListChatIDsForUser(ctx, otherID)
	if err != nil {
		return "", fmt.Errorf("list chats for %s: %w", otherID, err)
	}

	other := make(map[string]bool, len(theirs))
	for _, id := range theirs {
		other[id] = true
	}
	for _, id := range mine {
		if !other[id] {
			continue
		}
		parts, err := r.chats.ListParticipants(ctx, id)
		if err != nil {
			return "", fmt.Errorf("list participants of %s: %w", id, err)
		}
		if len(parts) == 2 {
			return id, nil
		}
	}
	return "", nil
}
