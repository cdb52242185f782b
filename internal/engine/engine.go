// Package engine is the client-side synchronization core: it keeps the
// entity cache consistent with the remote store, applies user mutations
// optimistically before server confirmation and derives the counts the
// views show. Mutations follow one shape: validate, apply to the cache,
// write to the gateway, commit or revert. Refreshes re-derive state from
// full listings, never from push deltas.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/musetera/comunidade/client/internal/cache"
	"github.com/musetera/comunidade/client/internal/chat"
	"github.com/musetera/comunidade/client/internal/counter"
	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/models"
)

var (
	// ErrValidation rejects a mutation before any network call; no state
	// changes.
	ErrValidation = errors.New("engine: validation failed")
	// ErrNotParticipant rejects a message from a user outside the chat.
	ErrNotParticipant = errors.New("engine: sender is not a chat participant")
)

// Engine owns the cache, the aggregator and every mutating action. The
// acting identity is passed explicitly into each action; the engine never
// consults an ambient session.
type Engine struct {
	gw       *gateway.Gateway
	cache    *cache.Cache
	counts   *counter.Aggregator
	actions  *Tracker
	resolver *chat.Resolver
	members  *membership
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

// New creates an Engine over the given gateway.
func New(gw *gateway.Gateway, log *zap.Logger) *Engine {
	return &Engine{
		gw:       gw,
		cache:    cache.New(),
		counts:   counter.New(),
		actions:  NewTracker(),
		resolver: chat.NewResolver(gw.Chats, log),
		members:  newMembership(),
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

// Cache exposes the entity cache for the rendering layer.
func (e *Engine) Cache() *cache.Cache { return e.cache }

// Counts exposes the derived counters for the rendering layer.
func (e *Engine) Counts() *counter.Aggregator { return e.counts }

// Actions exposes the per-action state the rendering layer reads instead of
// ambient pending flags.
func (e *Engine) Actions() *Tracker { return e.actions }

// validateStruct maps validator errors into the validation taxonomy.
func (e *Engine) validateStruct(req any) error {
	if err := e.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// notifyAuthor emits the best-effort secondary notification after a primary
// mutation committed. Skipped entirely when the actor is the author; a
// failure here is logged and never rolls back the primary mutation.
func (e *Engine) notifyAuthor(ctx context.Context, actorID, authorID, kind, message, relatedID string) {
	if actorID == authorID {
		return
	}
	n := models.Notification{
		ID:          newID(),
		RecipientID: authorID,
		ActorID:     actorID,
		Type:        kind,
		Message:     message,
		RelatedID:   relatedID,
		CreatedAt:   e.now(),
	}
	if err := e.gw.Notifications.CreateNotification(ctx, &n); err != nil {
		e.log.Warn("notification side effect failed",
			zap.String("type", kind),
			zap.String("recipient", authorID),
			zap.Error(err))
	}
}

// profileFor returns the author profile from the cache, fetching and caching
// it on a miss. A missing profile degrades to a zero value, never an error:
// rendering must not fail because an author row lags.
func (e *Engine) profileFor(ctx context.Context, userID string) models.Profile {
	if p, ok := e.cache.Profiles.Get(userID); ok {
		return p
	}
	p, err := e.gw.Profiles.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, gateway.ErrNotFound) {
			e.log.Debug("profile fetch failed", zap.String("user", userID), zap.Error(err))
		}
		return models.Profile{ID: userID, Name: "Membro"}
	}
	e.cache.Profiles.Upsert(*p)
	return *p
}
