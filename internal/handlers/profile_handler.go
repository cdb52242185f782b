package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/musetera/comunidade/client/internal/engine"
	"github.com/musetera/comunidade/client/internal/models"
	"github.com/musetera/comunidade/client/internal/storage"
)

// ProfileHandler handles HTTP requests for member profiles
type ProfileHandler struct {
	engine *engine.Engine
	blobs  storage.Store
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(eng *engine.Engine, blobs storage.Store) *ProfileHandler {
	return &ProfileHandler{engine: eng, blobs: blobs}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetOwnProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.POST("/profile/avatar", h.UploadAvatar)
	g.GET("/users/:id", h.GetProfile)
}

// GetOwnProfile returns the authenticated user's profile.
func (h *ProfileHandler) GetOwnProfile(c echo.Context) error {
	userID := c.Get("userID").(string)
	return c.JSON(http.StatusOK, h.engine.Profile(c.Request().Context(), userID))
}

// GetProfile returns another member's profile.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.Profile(c.Request().Context(), c.Param("id")))
}

// UpdateProfile edits the authenticated user's profile.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	profile, err := h.engine.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, engine.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, profile)
}

// UploadAvatar stores a new avatar image and writes its URL onto the
// authenticated user's profile.
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	userID := c.Get("userID").(string)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file part")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	object := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.blobs.Upload(c.Request().Context(), storage.BucketAvatars, object, contentType, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	if err := h.engine.SetAvatar(c.Request().Context(), userID, url); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"avatar_url": url})
}
