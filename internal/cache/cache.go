// Package cache holds the in-memory mirror of remote rows. It is the source
// of truth for rendering; the remote store owns the durable copy.
package cache

import (
	"sync"

	"github.com/musetera/comunidade/client/internal/models"
)

// Table mirrors one remote table, keyed by row id. Upsert is idempotent and
// the last write to a given key wins.
type Table[T any] struct {
	mu   sync.RWMutex
	key  func(T) string
	rows map[string]T
}

// NewTable creates an empty table with the given key function.
func NewTable[T any](key func(T) string) *Table[T] {
	return &Table[T]{key: key, rows: make(map[string]T)}
}

// Get returns the row under id, if present.
func (t *Table[T]) Get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

// Upsert inserts or replaces one row.
func (t *Table[T]) Upsert(row T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[t.key(row)] = row
}

// UpsertMany inserts or replaces each row. Applying the same batch twice
// yields the same state.
func (t *Table[T]) UpsertMany(rows []T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range rows {
		t.rows[t.key(row)] = row
	}
}

// Replace swaps the entire table for the given rows. Used on a full refresh
// so rows deleted remotely disappear locally too.
func (t *Table[T]) Replace(rows []T) {
	next := make(map[string]T, len(rows))
	for _, row := range rows {
		next[t.key(row)] = row
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = next
}

// Remove deletes the row under id, if present.
func (t *Table[T]) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
}

// All returns a snapshot of every row, in unspecified order.
func (t *Table[T]) All() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, row)
	}
	return out
}

// Len returns the number of cached rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Cache groups one table per entity kind.
type Cache struct {
	Profiles      *Table[models.Profile]
	Posts         *Table[models.Post]
	Likes         *Table[models.PostLike]
	Comments      *Table[models.PostComment]
	Notifications *Table[models.Notification]
	Chats         *Table[models.Chat]
	Participants  *Table[models.ChatParticipant]
	Messages      *Table[models.Message]
	Stories       *Table[models.Story]
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		Profiles:      NewTable(func(p models.Profile) string { return p.ID }),
		Posts:         NewTable(func(p models.Post) string { return p.ID }),
		Likes:         NewTable(func(l models.PostLike) string { return l.Key() }),
		Comments:      NewTable(func(c models.PostComment) string { return c.ID }),
		Notifications: NewTable(func(n models.Notification) string { return n.ID }),
		Chats:         NewTable(func(c models.Chat) string { return c.ID }),
		Participants:  NewTable(func(p models.ChatParticipant) string { return p.Key() }),
		Messages:      NewTable(func(m models.Message) string { return m.ID }),
		Stories:       NewTable(func(s models.Story) string { return s.ID }),
	}
}
