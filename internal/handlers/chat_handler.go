package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/musetera/comunidade/client/internal/chat"
	"github.com/musetera/comunidade/client/internal/engine"
	"github.com/musetera/comunidade/client/internal/models"
	"github.com/musetera/comunidade/client/internal/realtime"
)

// ChatHandler handles HTTP requests for direct-message chats
type ChatHandler struct {
	engine     *engine.Engine
	dispatcher *realtime.Dispatcher
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(eng *engine.Engine, disp *realtime.Dispatcher) *ChatHandler {
	return &ChatHandler{engine: eng, dispatcher: disp}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/chats", h.ListChats)
	g.POST("/chats", h.OpenChat)
	g.GET("/chats/:chat_id/messages", h.GetMessages)
	g.POST("/chats/:chat_id/messages", h.SendMessage)
	g.POST("/chats/:chat_id/seen", h.MarkSeen)
	g.DELETE("/chats/:chat_id/watch", h.CloseChat)
}

type openChatRequest struct {
	OtherID string `json:"other_id" validate:"required"`
}

// OpenChat resolves the direct chat with another member, creating it when
// none exists, and starts watching its change signals.
func (h *ChatHandler) OpenChat(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req openChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	chatID, err := h.engine.ResolveChat(c.Request().Context(), userID, req.OtherID)
	if err != nil {
		if errors.Is(err, chat.ErrSameUser) {
			return echo.NewHTTPError(http.StatusBadRequest, "Cannot open a chat with yourself")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.dispatcher.WatchChat(c.Request().Context(), chatID)

	return c.JSON(http.StatusOK, map[string]string{"chat_id": chatID})
}

// CloseChat stops watching a chat's change signals, typically when its view
// unmounts.
func (h *ChatHandler) CloseChat(c echo.Context) error {
	h.dispatcher.UnwatchChat(c.Param("chat_id"))
	return c.NoContent(http.StatusNoContent)
}

// ListChats returns the authenticated user's conversations, most recent
// first.
func (h *ChatHandler) ListChats(c echo.Context) error {
	userID := c.Get("userID").(string)

	chats, err := h.engine.Chats(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, chats)
}

// GetMessages returns a chat's cached messages, oldest first.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	userID := c.Get("userID").(string)
	chatID := c.Param("chat_id")

	return c.JSON(http.StatusOK, h.engine.Messages(chatID, userID))
}

// SendMessage sends a message into a chat the user participates in.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	userID := c.Get("userID").(string)
	chatID := c.Param("chat_id")

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	msg, err := h.engine.SendMessage(c.Request().Context(), userID, chatID, req)
	if err != nil {
		if errors.Is(err, engine.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, engine.ErrNotParticipant) {
			return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this chat")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, msg)
}

// MarkSeen moves the user's read watermark to now, zeroing the unread count.
func (h *ChatHandler) MarkSeen(c echo.Context) error {
	h.engine.MarkChatSeen(c.Param("chat_id"))
	return c.NoContent(http.StatusNoContent)
}
