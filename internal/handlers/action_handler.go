package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/musetera/comunidade/client/internal/engine"
)

// ActionHandler exposes the state of recent optimistic mutations so views
// can show pending and rolled-back operations.
type ActionHandler struct {
	engine *engine.Engine
}

// NewActionHandler creates a new ActionHandler
func NewActionHandler(eng *engine.Engine) *ActionHandler {
	return &ActionHandler{engine: eng}
}

// RegisterActionRoutes registers action-state routes
func (h *ActionHandler) RegisterActionRoutes(g *echo.Group) {
	g.GET("/actions", h.ListActions)
}

// ListActions returns a snapshot of tracked mutations and their states.
func (h *ActionHandler) ListActions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.Actions().Snapshot())
}
