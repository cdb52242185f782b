package engine

import (
	"context"
	"fmt"

	"github.com/musetera/comunidade/client/internal/models"
)

// Profile returns the profile row for a user, from the cache when present.
func (e *Engine) Profile(ctx context.Context, userID string) models.Profile {
	return e.profileFor(ctx, userID)
}

// UpdateProfile edits the actor's own profile. Optimistic like every other
// mutation: the cache shows the edit before the gateway confirms it.
func (e *Engine) UpdateProfile(ctx context.Context, actorID string, req models.UpdateProfileRequest) (*models.Profile, error) {
	if err := e.validateStruct(req); err != nil {
		return nil, err
	}

	prev, hadPrev := e.cache.Profiles.Get(actorID)
	next := prev
	next.ID = actorID
	next.Name = req.Name
	next.Role = req.Role
	next.Bio = req.Bio
	next.Location = req.Location
	next.UpdatedAt = e.now()

	act := e.actions.Begin("update_profile")
	e.cache.Profiles.Upsert(next)

	if err := e.gw.Profiles.UpsertProfile(ctx, &next); err != nil {
		if hadPrev {
			e.cache.Profiles.Upsert(prev)
		} else {
			e.cache.Profiles.Remove(actorID)
		}
		act.RollBack(err)
		return nil, fmt.Errorf("update profile: %w", err)
	}
	act.Commit()
	return &next, nil
}

// SetAvatar writes a freshly uploaded avatar URL onto the actor's profile.
// The upload itself happened before this call; a failure here leaves an
// orphaned blob, which is accepted.
func (e *Engine) SetAvatar(ctx context.Context, actorID, avatarURL string) error {
	if avatarURL == "" {
		return fmt.Errorf("%w: missing avatar url", ErrValidation)
	}

	prev, hadPrev := e.cache.Profiles.Get(actorID)
	next := prev
	next.ID = actorID
	next.AvatarURL = avatarURL
	next.UpdatedAt = e.now()

	act := e.actions.Begin("set_avatar")
	e.cache.Profiles.Upsert(next)

	if err := e.gw.Profiles.UpsertProfile(ctx, &next); err != nil {
		if hadPrev {
			e.cache.Profiles.Upsert(prev)
		} else {
			e.cache.Profiles.Remove(actorID)
		}
		act.RollBack(err)
		return fmt.Errorf("set avatar: %w", err)
	}
	act.Commit()
	return nil
}
