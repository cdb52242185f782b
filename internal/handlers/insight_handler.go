package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/musetera/comunidade/client/internal/insight"
)

// InsightHandler serves the daily reflection sentence for the feed header
type InsightHandler struct {
	generator *insight.Generator
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(gen *insight.Generator) *InsightHandler {
	return &InsightHandler{generator: gen}
}

// RegisterInsightRoutes registers insight-related routes
func (h *InsightHandler) RegisterInsightRoutes(g *echo.Group) {
	g.GET("/insight", h.GetInsight)
}

// GetInsight returns a freshly generated reflection sentence. Generation
// never fails from the caller's point of view; worst case it returns the
// fixed fallback.
func (h *InsightHandler) GetInsight(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"insight": h.generator.Generate(c.Request().Context()),
	})
}
