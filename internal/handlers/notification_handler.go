package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/musetera/comunidade/client/internal/engine"
	"github.com/musetera/comunidade/client/internal/gateway"
)

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	engine *engine.Engine
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(eng *engine.Engine) *NotificationHandler {
	return &NotificationHandler{engine: eng}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.ListNotifications)
	g.GET("/notifications/unread-count", h.UnreadCount)
	g.PATCH("/notifications/:id/read", h.MarkRead)
	g.POST("/notifications/read-all", h.MarkAllRead)
	g.DELETE("/notifications/:id", h.Delete)
	g.DELETE("/notifications", h.Clear)
}

// ListNotifications returns the user's notifications, newest first,
// refetching first when the cache has nothing for them.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	userID := c.Get("userID").(string)
	ctx := c.Request().Context()

	list := h.engine.Notifications(userID)
	if len(list) == 0 {
		if err := h.engine.RefreshNotifications(ctx, userID); err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		list = h.engine.Notifications(userID)
	}

	return c.JSON(http.StatusOK, list)
}

// UnreadCount returns how many of the user's notifications are unread.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID := c.Get("userID").(string)
	return c.JSON(http.StatusOK, map[string]int{"count": h.engine.UnreadNotifications(userID)})
}

// MarkRead marks one of the user's notifications as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID := c.Get("userID").(string)

	if err := h.engine.MarkNotificationRead(c.Request().Context(), userID, c.Param("id")); err != nil {
		return notificationError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead marks every notification of the user as read.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID := c.Get("userID").(string)

	if err := h.engine.MarkAllNotificationsRead(c.Request().Context(), userID); err != nil {
		return notificationError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes one of the user's notifications.
func (h *NotificationHandler) Delete(c echo.Context) error {
	userID := c.Get("userID").(string)

	if err := h.engine.DeleteNotification(c.Request().Context(), userID, c.Param("id")); err != nil {
		return notificationError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear removes every notification of the user.
func (h *NotificationHandler) Clear(c echo.Context) error {
	userID := c.Get("userID").(string)

	if err := h.engine.ClearNotifications(c.Request().Context(), userID); err != nil {
		return notificationError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func notificationError(err error) error {
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	case errors.Is(err, engine.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
