package gateway

// EventKind is the kind of change a signal announces.
type EventKind string

const (
	EventInsert EventKind = "INSERT"
	EventUpdate EventKind = "UPDATE"
	EventDelete EventKind = "DELETE"
)

// ChangeEvent is a cache-invalidation signal. It identifies the changed row
// but carries no row payload: consumers must refetch, never patch from the
// event, so duplicate or out-of-order delivery cannot corrupt local state.
type ChangeEvent struct {
	Table string    `json:"table"`
	Kind  EventKind `json:"kind"`
	RowID string    `json:"row_id"`
	// Scope is the adapter-supplied routing predicate value, matching the
	// subscription filter of the remote store: the recipient id for
	// notifications, the chat id for messages, empty otherwise.
	Scope string `json:"scope,omitempty"`
}

// Filter restricts a subscription to one scope value. The zero Filter
// matches every event of the subscribed table.
type Filter struct {
	Scope string
}

func (f Filter) matches(ev ChangeEvent) bool {
	return f.Scope == "" || f.Scope == ev.Scope
}

// Notifier is the subscribe-to-change-stream primitive of the remote store.
type Notifier interface {
	Subscribe(table string, kinds []EventKind, filter Filter) *Subscription
	Unsubscribe(sub *Subscription)
	Publish(ev ChangeEvent)
}
