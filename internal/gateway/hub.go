package gateway

import "sync"

// subscriptionBuffer bounds each subscriber channel. Delivery is lossy when
// a subscriber lags; a dropped signal is harmless because consumers refetch
// the full listing on the next one.
const subscriptionBuffer = 16

// Subscription is one registered change-stream listener.
type Subscription struct {
	table  string
	kinds  map[EventKind]bool
	filter Filter
	ch     chan ChangeEvent
}

// Events returns the channel change signals arrive on. It is closed by
// Unsubscribe.
func (s *Subscription) Events() <-chan ChangeEvent { return s.ch }

// Table returns the table this subscription watches.
func (s *Subscription) Table() string { return s.table }

// Hub is an in-process Notifier: adapters publish a signal after every
// successful write and the hub fans it out to matching subscriptions.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]bool)}
}

// Subscribe registers a listener for the given table and event kinds.
// An empty kinds slice subscribes to every kind.
func (h *Hub) Subscribe(table string, kinds []EventKind, filter Filter) *Subscription {
	sub := &Subscription{
		table:  table,
		filter: filter,
		ch:     make(chan ChangeEvent, subscriptionBuffer),
	}
	if len(kinds) > 0 {
		sub.kinds = make(map[EventKind]bool, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = true
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[table] == nil {
		h.subs[table] = make(map[*Subscription]bool)
	}
	h.subs[table][sub] = true
	return sub
}

// Unsubscribe removes the subscription and closes its channel. Safe to call
// once per subscription; the owning view calls it on teardown.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.subs[sub.table]
	if m == nil || !m[sub] {
		return
	}
	delete(m, sub)
	if len(m) == 0 {
		delete(h.subs, sub.table)
	}
	close(sub.ch)
}

// Publish fans the event out to every matching subscription. Sends never
// block: a full subscriber buffer drops the signal.
func (h *Hub) Publish(ev ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[ev.Table] {
		if sub.kinds != nil && !sub.kinds[ev.Kind] {
			continue
		}
		if !sub.filter.matches(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}
