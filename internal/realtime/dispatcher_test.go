package realtime_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/realtime"
)

// countingRefresher records refresh calls and signals them on a channel.
type countingRefresher struct {
	mu      sync.Mutex
	feed    int
	stories int
	notif   map[string]int
	chats   map[string]int
	called  chan string
}

func newCountingRefresher() *countingRefresher {
	return &countingRefresher{
		notif:  make(map[string]int),
		chats:  make(map[string]int),
		called: make(chan string, 64),
	}
}

func (r *countingRefresher) RefreshFeed(context.Context) error {
	r.mu.Lock()
	r.feed++
	r.mu.Unlock()
	r.called <- "feed"
	return nil
}

func (r *countingRefresher) RefreshStories(context.Context) error {
	r.mu.Lock()
	r.stories++
	r.mu.Unlock()
	r.called <- "stories"
	return nil
}

func (r *countingRefresher) RefreshNotifications(_ context.Context, recipientID string) error {
	r.mu.Lock()
	r.notif[recipientID]++
	r.mu.Unlock()
	r.called <- "notifications:" + recipientID
	return nil
}

func (r *countingRefresher) RefreshChat(_ context.Context, chatID string) error {
	r.mu.Lock()
	r.chats[chatID]++
	r.mu.Unlock()
	r.called <- "chat:" + chatID
	return nil
}

func (r *countingRefresher) await(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-r.called:
		if got != want {
			t.Fatalf("refreshed %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no %q refresh within deadline", want)
	}
}

func (r *countingRefresher) quiet(t *testing.T) {
	t.Helper()
	select {
	case got := <-r.called:
		t.Fatalf("unexpected refresh %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFeedSignalTriggersRefetch(t *testing.T) {
	hub := gateway.NewHub()
	refresher := newCountingRefresher()
	d := realtime.New(hub, refresher, zap.NewNop())
	defer d.Close()

	d.WatchFeed(context.Background())

	hub.Publish(gateway.ChangeEvent{Table: gateway.TablePostLikes, Kind: gateway.EventInsert, RowID: "l1"})
	refresher.await(t, "feed")

	hub.Publish(gateway.ChangeEvent{Table: gateway.TablePosts, Kind: gateway.EventInsert, RowID: "p1"})
	refresher.await(t, "feed")
}

func TestNotificationWatchIsScopedToRecipient(t *testing.T) {
	hub := gateway.NewHub()
	refresher := newCountingRefresher()
	d := realtime.New(hub, refresher, zap.NewNop())
	defer d.Close()

	d.WatchNotifications(context.Background(), "alice")

	hub.Publish(gateway.ChangeEvent{Table: gateway.TableNotifications, Kind: gateway.EventInsert, RowID: "n1", Scope: "bob"})
	refresher.quiet(t)

	hub.Publish(gateway.ChangeEvent{Table: gateway.TableNotifications, Kind: gateway.EventInsert, RowID: "n2", Scope: "alice"})
	refresher.await(t, "notifications:alice")
}

func TestChatWatchIgnoresNonInsertEvents(t *testing.T) {
	hub := gateway.NewHub()
	refresher := newCountingRefresher()
	d := realtime.New(hub, refresher, zap.NewNop())
	defer d.Close()

	d.WatchChat(context.Background(), "c1")

	hub.Publish(gateway.ChangeEvent{Table: gateway.TableMessages, Kind: gateway.EventDelete, RowID: "m1", Scope: "c1"})
	refresher.quiet(t)

	hub.Publish(gateway.ChangeEvent{Table: gateway.TableMessages, Kind: gateway.EventInsert, RowID: "m2", Scope: "c1"})
	refresher.await(t, "chat:c1")
}

func TestUnwatchStopsRefetches(t *testing.T) {
	hub := gateway.NewHub()
	refresher := newCountingRefresher()
	d := realtime.New(hub, refresher, zap.NewNop())
	defer d.Close()

	d.WatchChat(context.Background(), "c1")
	hub.Publish(gateway.ChangeEvent{Table: gateway.TableMessages, Kind: gateway.EventInsert, RowID: "m1", Scope: "c1"})
	refresher.await(t, "chat:c1")

	d.UnwatchChat("c1")

	hub.Publish(gateway.ChangeEvent{Table: gateway.TableMessages, Kind: gateway.EventInsert, RowID: "m2", Scope: "c1"})
	refresher.quiet(t)
}

func TestConcurrentWatchUnwatchLeavesNoSubscriptions(t *testing.T) {
	hub := gateway.NewHub()
	refresher := newCountingRefresher()
	d := realtime.New(hub, refresher, zap.NewNop())
	defer d.Close()

	// Watch and unwatch the same scope from competing goroutines, the way
	// concurrent HTTP requests open and close the same conversation.
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.WatchChat(ctx, "c1")
		}()
		go func() {
			defer wg.Done()
			d.UnwatchChat("c1")
		}()
	}
	wg.Wait()

	d.UnwatchChat("c1")

	hub.Publish(gateway.ChangeEvent{Table: gateway.TableMessages, Kind: gateway.EventInsert, RowID: "m1", Scope: "c1"})
	refresher.quiet(t)
}

func TestDoubleWatchIsDeduplicated(t *testing.T) {
	hub := gateway.NewHub()
	refresher := newCountingRefresher()
	d := realtime.New(hub, refresher, zap.NewNop())
	defer d.Close()

	ctx := context.Background()
	d.WatchStories(ctx)
	d.WatchStories(ctx)

	hub.Publish(gateway.ChangeEvent{Table: gateway.TableStories, Kind: gateway.EventInsert, RowID: "s1"})
	refresher.await(t, "stories")
	refresher.quiet(t)
}
