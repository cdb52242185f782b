// Package stories filters ephemeral content. The remote query already
// restricts to expires_at > now; the filter re-validates the predicate at
// read time so a stale cache entry is never rendered past expiry.
package stories

import (
	"sort"
	"time"

	"github.com/musetera/comunidade/client/internal/models"
)

// State is the lifecycle state of a story.
type State int

const (
	// Active means now < expires_at.
	Active State = iota
	// Expired is terminal; the story is filtered out but not necessarily
	// purged from the cache.
	Expired
)

// StateAt returns the story's state at the given instant.
func StateAt(s models.Story, now time.Time) State {
	if now.Before(s.ExpiresAt) {
		return Active
	}
	return Expired
}

// Visible returns the stories still active at now, newest first.
func Visible(list []models.Story, now time.Time) []models.Story {
	out := make([]models.Story, 0, len(list))
	for _, s := range list {
		if StateAt(s, now) == Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
