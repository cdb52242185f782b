package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/musetera/comunidade/client/internal/engine"
	"github.com/musetera/comunidade/client/internal/models"
	"github.com/musetera/comunidade/client/internal/storage"
)

// StoryHandler handles HTTP requests for ephemeral stories
type StoryHandler struct {
	engine *engine.Engine
	blobs  storage.Store
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(eng *engine.Engine, blobs storage.Store) *StoryHandler {
	return &StoryHandler{engine: eng, blobs: blobs}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories", h.ListStories)
	g.POST("/stories", h.CreateStory)
	g.POST("/stories/image", h.UploadStoryImage)
}

// ListStories returns the currently visible stories, newest first.
func (h *StoryHandler) ListStories(c echo.Context) error {
	stories := h.engine.Stories()
	if len(stories) == 0 {
		if err := h.engine.RefreshStories(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		stories = h.engine.Stories()
	}
	return c.JSON(http.StatusOK, stories)
}

// CreateStory publishes a story for the authenticated user. The image was
// uploaded beforehand; its URL rides in the request.
func (h *StoryHandler) CreateStory(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	story, err := h.engine.CreateStory(c.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, engine.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, story)
}

// UploadStoryImage stores a story image and returns its public URL.
func (h *StoryHandler) UploadStoryImage(c echo.Context) error {
	return uploadImage(c, h.blobs, storage.BucketStories)
}
