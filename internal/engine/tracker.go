package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// newID mints a row id for optimistic inserts so the cache entry and the
// remote row share an identity.
func newID() string { return uuid.NewString() }

// ActionState is the lifecycle of one mutating action:
// idle → pending → committed or rolled_back.
type ActionState string

const (
	StateIdle       ActionState = "idle"
	StatePending    ActionState = "pending"
	StateCommitted  ActionState = "committed"
	StateRolledBack ActionState = "rolled_back"
)

// Action is the state of one mutation, exposed as a value the interface
// reads instead of pending flags scattered across views.
type Action struct {
	Name       string      `json:"name"`
	State      ActionState `json:"state"`
	Error      string      `json:"error,omitempty"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at,omitempty"`

	tracker *Tracker
}

// Tracker records the latest state per action name.
type Tracker struct {
	mu      sync.RWMutex
	actions map[string]*Action
	now     func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{actions: make(map[string]*Action), now: time.Now}
}

// Begin marks the named action pending and returns its handle.
func (t *Tracker) Begin(name string) *Action {
	t.mu.Lock()
	defer t.mu.Unlock()
	a := &Action{Name: name, State: StatePending, StartedAt: t.now(), tracker: t}
	t.actions[name] = a
	return a
}

// Commit marks the action committed.
func (a *Action) Commit() {
	a.tracker.finish(a, StateCommitted, nil)
}

// RollBack marks the action rolled back, recording the cause.
func (a *Action) RollBack(err error) {
	a.tracker.finish(a, StateRolledBack, err)
}

func (t *Tracker) finish(a *Action, state ActionState, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	a.State = state
	a.FinishedAt = t.now()
	if err != nil {
		a.Error = err.Error()
	}
}

// State returns the current state of the named action, StateIdle when it
// never ran.
func (t *Tracker) State(name string) ActionState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if a, ok := t.actions[name]; ok {
		return a.State
	}
	return StateIdle
}

// Snapshot returns a copy of every recorded action.
func (t *Tracker) Snapshot() []Action {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Action, 0, len(t.actions))
	for _, a := range t.actions {
		c := *a
		c.tracker = nil
		out = append(out, c)
	}
	return out
}
