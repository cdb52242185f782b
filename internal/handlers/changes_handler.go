package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/musetera/comunidade/client/internal/gateway"
)

// ChangesHandler streams change signals to the browser over SSE so views
// can refetch without polling.
type ChangesHandler struct {
	notifier gateway.Notifier
	log      *zap.Logger
}

// NewChangesHandler creates a new ChangesHandler
func NewChangesHandler(notifier gateway.Notifier, log *zap.Logger) *ChangesHandler {
	return &ChangesHandler{notifier: notifier, log: log}
}

// RegisterChangesRoutes registers the event-stream route
func (h *ChangesHandler) RegisterChangesRoutes(g *echo.Group) {
	g.GET("/changes", h.Stream)
}

var streamTables = []string{
	gateway.TablePosts,
	gateway.TablePostLikes,
	gateway.TablePostComments,
	gateway.TableNotifications,
	gateway.TableMessages,
	gateway.TableStories,
}

// Stream subscribes to every table's change signals and forwards them as
// server-sent events until the client disconnects.
func (h *ChangesHandler) Stream(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	kinds := []gateway.EventKind{gateway.EventInsert, gateway.EventUpdate, gateway.EventDelete}

	merged := make(chan gateway.ChangeEvent, 32)
	done := make(chan struct{})
	subs := make([]*gateway.Subscription, 0, len(streamTables))
	for _, table := range streamTables {
		sub := h.notifier.Subscribe(table, kinds, gateway.Filter{})
		subs = append(subs, sub)
		go func(sub *gateway.Subscription) {
			for ev := range sub.Events() {
				select {
				case merged <- ev:
				case <-done:
					// Nobody reads merged once the handler returns; bail out
					// instead of blocking forever.
					return
				}
			}
		}(sub)
	}
	defer func() {
		close(done)
		for _, sub := range subs {
			h.notifier.Unsubscribe(sub)
		}
	}()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-merged:
			data, err := json.Marshal(ev)
			if err != nil {
				h.log.Warn("encode change event", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", data); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
