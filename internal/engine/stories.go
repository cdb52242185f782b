package engine

import (
	"context"
	"fmt"

	"github.com/musetera/comunidade/client/internal/models"
	"github.com/musetera/comunidade/client/internal/stories"
)

// RefreshStories refetches the active story listing. The gateway query
// already excludes expired rows; Stories re-checks anyway.
func (e *Engine) RefreshStories(ctx context.Context) error {
	rows, err := e.gw.Stories.ListActiveStories(ctx, e.now())
	if err != nil {
		return fmt.Errorf("refresh stories: %w", err)
	}
	e.cache.Stories.Replace(rows)
	return nil
}

// Stories returns the visible stories, newest first. Expiry is re-validated
// at read time so a stale cache entry never renders past its expiry.
func (e *Engine) Stories() []models.Story {
	return stories.Visible(e.cache.Stories.All(), e.now())
}

// CreateStory publishes an ephemeral story for the actor, visible for the
// story TTL from now.
func (e *Engine) CreateStory(ctx context.Context, actorID string, req models.CreateStoryRequest) (*models.Story, error) {
	if err := e.validateStruct(req); err != nil {
		return nil, err
	}

	now := e.now()
	story := models.Story{
		ID:        newID(),
		UserID:    actorID,
		ImageURL:  req.ImageURL,
		CreatedAt: now,
		ExpiresAt: now.Add(models.StoryTTL),
	}

	act := e.actions.Begin("create_story")
	e.cache.Stories.Upsert(story)

	if err := e.gw.Stories.CreateStory(ctx, &story); err != nil {
		e.cache.Stories.Remove(story.ID)
		act.RollBack(err)
		return nil, fmt.Errorf("create story: %w", err)
	}
	act.Commit()
	return &story, nil
}
