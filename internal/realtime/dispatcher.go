// Package realtime turns remote change signals into cache refreshes. Every
// signal is treated purely as a cache-invalidation hint: the dispatcher
// refetches the affected listing, never patches the cache from the event,
// so event loss, duplication and reordering are all harmless.
package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/musetera/comunidade/client/internal/gateway"
)

// Refresher is the slice of the engine the dispatcher drives.
type Refresher interface {
	RefreshFeed(ctx context.Context) error
	RefreshStories(ctx context.Context) error
	RefreshNotifications(ctx context.Context, recipientID string) error
	RefreshChat(ctx context.Context, chatID string) error
}

// Dispatcher owns one logical subscription per (entity kind, scope) pair
// currently in view and releases it when the view is torn down.
type Dispatcher struct {
	notifier gateway.Notifier
	refresh  Refresher
	log      *zap.Logger

	mu       sync.Mutex
	watchers map[string]*watcher
}

type watcher struct {
	subs []*gateway.Subscription
	wg   sync.WaitGroup
}

// New creates a Dispatcher.
func New(notifier gateway.Notifier, refresh Refresher, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		refresh:  refresh,
		log:      log,
		watchers: make(map[string]*watcher),
	}
}

// WatchFeed subscribes to the tables the feed is derived from. Any change
// to posts, likes or comments triggers a full feed refetch, which also
// re-runs the counter aggregation.
func (d *Dispatcher) WatchFeed(ctx context.Context) {
	d.watch(ctx, "feed", func(ctx context.Context, _ gateway.ChangeEvent) error {
		return d.refresh.RefreshFeed(ctx)
	},
		spec{table: gateway.TablePosts},
		spec{table: gateway.TablePostLikes},
		spec{table: gateway.TablePostComments},
	)
}

// WatchStories subscribes to story changes.
func (d *Dispatcher) WatchStories(ctx context.Context) {
	d.watch(ctx, "stories", func(ctx context.Context, _ gateway.ChangeEvent) error {
		return d.refresh.RefreshStories(ctx)
	}, spec{table: gateway.TableStories})
}

// WatchNotifications subscribes to notification changes addressed to one
// recipient.
func (d *Dispatcher) WatchNotifications(ctx context.Context, recipientID string) {
	d.watch(ctx, "notifications:"+recipientID, func(ctx context.Context, _ gateway.ChangeEvent) error {
		return d.refresh.RefreshNotifications(ctx, recipientID)
	}, spec{table: gateway.TableNotifications, filter: gateway.Filter{Scope: recipientID}})
}

// WatchChat subscribes to new messages in one chat.
func (d *Dispatcher) WatchChat(ctx context.Context, chatID string) {
	d.watch(ctx, "chat:"+chatID, func(ctx context.Context, _ gateway.ChangeEvent) error {
		return d.refresh.RefreshChat(ctx, chatID)
	}, spec{table: gateway.TableMessages, kinds: []gateway.EventKind{gateway.EventInsert}, filter: gateway.Filter{Scope: chatID}})
}

// Unwatch releases the subscriptions of one scope. Called when the owning
// view is torn down; no callbacks fire afterwards.
func (d *Dispatcher) Unwatch(scope string) {
	d.mu.Lock()
	w := d.watchers[scope]
	delete(d.watchers, scope)
	d.mu.Unlock()
	if w == nil {
		return
	}
	for _, sub := range w.subs {
		d.notifier.Unsubscribe(sub)
	}
	w.wg.Wait()
}

// UnwatchChat releases the chat scope subscription.
func (d *Dispatcher) UnwatchChat(chatID string) { d.Unwatch("chat:" + chatID) }

// Close releases every subscription.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	scopes := make([]string, 0, len(d.watchers))
	for s := range d.watchers {
		scopes = append(scopes, s)
	}
	d.mu.Unlock()
	for _, s := range scopes {
		d.Unwatch(s)
	}
}

type spec struct {
	table  string
	kinds  []gateway.EventKind
	filter gateway.Filter
}

// watch registers a watcher fully built before it is published, so an
// Unwatch racing with it either misses the scope entirely or sees every
// subscription. Subscribe never blocks, so holding the mutex is safe.
func (d *Dispatcher) watch(ctx context.Context, scope string, handle func(context.Context, gateway.ChangeEvent) error, specs ...spec) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.watchers[scope]; exists {
		// Already watching this scope; the view remounted without teardown.
		return
	}
	w := &watcher{}
	for _, s := range specs {
		sub := d.notifier.Subscribe(s.table, s.kinds, s.filter)
		w.subs = append(w.subs, sub)
		w.wg.Add(1)
		go func(sub *gateway.Subscription) {
			defer w.wg.Done()
			for ev := range sub.Events() {
				if err := handle(ctx, ev); err != nil {
					// Subscription errors never crash the interface; the
					// next signal retries the refetch.
					d.log.Warn("refetch on change signal failed",
						zap.String("scope", scope),
						zap.String("table", ev.Table),
						zap.Error(err))
				}
			}
		}(sub)
	}
	d.watchers[scope] = w
}
