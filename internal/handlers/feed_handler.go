package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/musetera/comunidade/client/internal/engine"
	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/models"
	"github.com/musetera/comunidade/client/internal/storage"
)

// FeedHandler handles HTTP requests for the post feed
type FeedHandler struct {
	engine *engine.Engine
	blobs  storage.Store
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(eng *engine.Engine, blobs storage.Store) *FeedHandler {
	return &FeedHandler{engine: eng, blobs: blobs}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.POST("/feed/refresh", h.RefreshFeed)
	g.POST("/posts", h.CreatePost)
	g.POST("/posts/image", h.UploadPostImage)
	g.POST("/posts/:post_id/like", h.ToggleLike)
	g.GET("/posts/:post_id/comments", h.GetComments)
	g.POST("/posts/:post_id/comments", h.AddComment)
}

// GetFeed returns the cached feed view, refetching first when the cache is
// still empty.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID := c.Get("userID").(string)
	ctx := c.Request().Context()

	if h.engine.Cache().Posts.Len() == 0 {
		if err := h.engine.RefreshFeed(ctx); err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
	}

	return c.JSON(http.StatusOK, h.engine.Feed(ctx, userID))
}

// RefreshFeed forces a full feed refetch.
func (h *FeedHandler) RefreshFeed(c echo.Context) error {
	if err := h.engine.RefreshFeed(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// CreatePost creates a new post for the authenticated user.
func (h *FeedHandler) CreatePost(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	post, err := h.engine.CreatePost(c.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, engine.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// UploadPostImage stores a post image and returns its public URL. The post
// insert referencing the URL follows in a separate request; an upload
// failure therefore abandons the whole flow.
func (h *FeedHandler) UploadPostImage(c echo.Context) error {
	return uploadImage(c, h.blobs, storage.BucketPosts)
}

// ToggleLike flips the authenticated user's like on a post.
func (h *FeedHandler) ToggleLike(c echo.Context) error {
	userID := c.Get("userID").(string)
	postID := c.Param("post_id")

	if err := h.engine.ToggleLike(c.Request().Context(), userID, postID); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// GetComments returns the comments of a post, oldest first, joined with
// author details.
func (h *FeedHandler) GetComments(c echo.Context) error {
	postID := c.Param("post_id")
	return c.JSON(http.StatusOK, h.engine.Comments(c.Request().Context(), postID))
}

// AddComment adds a comment to a post.
func (h *FeedHandler) AddComment(c echo.Context) error {
	userID := c.Get("userID").(string)
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	comment, err := h.engine.AddComment(c.Request().Context(), userID, postID, req)
	if err != nil {
		if errors.Is(err, engine.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, gateway.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, comment)
}

// uploadImage reads the "file" form part and stores it in the given bucket
// under a fresh object name.
func uploadImage(c echo.Context, blobs storage.Store, bucket string) error {
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

	url, err := blobs.Upload(c.Request().Context(), bucket, object, contentType, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]string{"url": url})
}
