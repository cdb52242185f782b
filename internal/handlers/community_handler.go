package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/musetera/comunidade/client/internal/engine"
)

// CommunityHandler handles HTTP requests for community membership
type CommunityHandler struct {
	engine *engine.Engine
}

// NewCommunityHandler creates a new CommunityHandler
func NewCommunityHandler(eng *engine.Engine) *CommunityHandler {
	return &CommunityHandler{engine: eng}
}

// RegisterCommunityRoutes registers community-related routes
func (h *CommunityHandler) RegisterCommunityRoutes(g *echo.Group) {
	g.GET("/communities", h.ListJoined)
	g.POST("/communities/:id/join", h.Join)
	g.POST("/communities/:id/leave", h.Leave)
}

// ListJoined returns the communities the user has joined this session.
func (h *CommunityHandler) ListJoined(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.JoinedCommunities())
}

// Join adds the user to a community.
func (h *CommunityHandler) Join(c echo.Context) error {
	if err := h.engine.JoinCommunity(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// Leave removes the user from a community.
func (h *CommunityHandler) Leave(c echo.Context) error {
	if err := h.engine.LeaveCommunity(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
