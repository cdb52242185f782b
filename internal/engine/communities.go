package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Community membership is view-local state: the remote store has no
// membership table, so joining and leaving mutate only the engine. Both
// still run through the action tracker so the interface reads the same
// idle → pending → committed lifecycle as networked mutations.
type membership struct {
	mu     sync.RWMutex
	joined map[string]bool
}

func newMembership() *membership {
	return &membership{joined: make(map[string]bool)}
}

// JoinCommunity marks the actor a member of the community.
func (e *Engine) JoinCommunity(communityID string) error {
	if communityID == "" {
		return fmt.Errorf("%w: missing community id", ErrValidation)
	}
	act := e.actions.Begin("join_community:" + communityID)
	e.members.set(communityID, true)
	act.Commit()
	return nil
}

// LeaveCommunity removes the actor's membership.
func (e *Engine) LeaveCommunity(communityID string) error {
	if communityID == "" {
		return fmt.Errorf("%w: missing community id", ErrValidation)
	}
	act := e.actions.Begin("leave_community:" + communityID)
	e.members.set(communityID, false)
	act.Commit()
	return nil
}

// IsMember reports whether the actor joined the community.
func (e *Engine) IsMember(communityID string) bool {
	return e.members.get(communityID)
}

// JoinedCommunities returns the joined community ids, sorted.
func (e *Engine) JoinedCommunities() []string {
	e.members.mu.RLock()
	defer e.members.mu.RUnlock()
	out := make([]string, 0, len(e.members.joined))
	for id := range e.members.joined {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (m *membership) set(id string, joined bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if joined {
		m.joined[id] = true
	} else {
		delete(m.joined, id)
	}
}

func (m *membership) get(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.joined[id]
}
