package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/musetera/comunidade/client/internal/models"
)

// ChatView is one entry of the conversation list.
type ChatView struct {
	ID          string         `json:"id"`
	Other       models.Profile `json:"other"`
	LastMessage string         `json:"last_message,omitempty"`
	LastAt      time.Time      `json:"last_at"`
	Unread      int            `json:"unread"`
}

// ResolveChat finds or creates the single direct chat between the actor and
// the other user, refreshes its messages and marks it seen.
func (e *Engine) ResolveChat(ctx context.Context, actorID, otherID string) (string, error) {
	chatID, err := e.resolver.Resolve(ctx, actorID, otherID)
	if err != nil {
		return "", err
	}
	if err := e.RefreshChat(ctx, chatID); err != nil {
		return "", err
	}
	e.counts.MarkSeen(chatID, e.now())
	return chatID, nil
}

// RefreshChat refetches the full message listing of one chat into the cache
// along with its participant rows.
func (e *Engine) RefreshChat(ctx context.Context, chatID string) error {
	msgs, err := e.gw.Messages.ListMessagesByChat(ctx, chatID)
	if err != nil {
		return fmt.Errorf("refresh chat %s: %w", chatID, err)
	}
	e.cache.Messages.UpsertMany(msgs)

	parts, err := e.gw.Chats.ListParticipants(ctx, chatID)
	if err != nil {
		return fmt.Errorf("refresh chat %s participants: %w", chatID, err)
	}
	e.cache.Participants.UpsertMany(parts)
	return nil
}

// SendMessage appends a message from the actor to a chat they participate
// in. Optimistic: the message shows up before the gateway confirms it.
func (e *Engine) SendMessage(ctx context.Context, actorID, chatID string, req models.SendMessageRequest) (*models.Message, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := e.validateStruct(req); err != nil {
		return nil, err
	}
	member, err := e.isParticipant(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotParticipant
	}

	msg := models.Message{
		ID:        newID(),
		ChatID:    chatID,
		SenderID:  actorID,
		Content:   req.Content,
		CreatedAt: e.now(),
	}

	act := e.actions.Begin("send_message:" + chatID)
	e.cache.Messages.Upsert(msg)

	if err := e.gw.Messages.CreateMessage(ctx, &msg); err != nil {
		e.cache.Messages.Remove(msg.ID)
		act.RollBack(err)
		return nil, fmt.Errorf("send message: %w", err)
	}
	act.Commit()
	return &msg, nil
}

// Messages returns a chat's cached messages ascending by created-at and
// recomputes the viewer's unread count from the same rows.
func (e *Engine) Messages(chatID, viewerID string) []models.Message {
	all := e.cache.Messages.All()
	rows := make([]models.Message, 0, len(all))
	for _, m := range all {
		if m.ChatID == chatID {
			rows = append(rows, m)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	e.counts.RecomputeUnread(chatID, viewerID, rows)
	return rows
}

// MarkChatSeen advances the viewer's watermark; unread for the chat drops
// to zero until newer messages arrive.
func (e *Engine) MarkChatSeen(chatID string) {
	e.counts.MarkSeen(chatID, e.now())
}

// Chats returns the actor's conversation list with the other participant,
// last message and unread count per chat.
func (e *Engine) Chats(ctx context.Context, actorID string) ([]ChatView, error) {
	chats, err := e.gw.Chats.ListChatsForUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	e.cache.Chats.UpsertMany(chats)

	out := make([]ChatView, 0, len(chats))
	for _, c := range chats {
		view := ChatView{ID: c.ID}

		parts, err := e.gw.Chats.ListParticipants(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("list participants: %w", err)
		}
		e.cache.Participants.UpsertMany(parts)
		for _, p := range parts {
			if p.UserID != actorID {
				view.Other = e.profileFor(ctx, p.UserID)
				break
			}
		}

		msgs, err := e.gw.Messages.ListMessagesByChat(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}
		e.cache.Messages.UpsertMany(msgs)
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			view.LastMessage = last.Content
			view.LastAt = last.CreatedAt
		}
		e.counts.RecomputeUnread(c.ID, actorID, msgs)
		view.Unread = e.counts.Unread(c.ID)

		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastAt.After(out[j].LastAt) })
	return out, nil
}

func (e *Engine) isParticipant(ctx context.Context, chatID, userID string) (bool, error) {
	if _, ok := e.cache.Participants.Get(chatID + ":" + userID); ok {
		return true, nil
	}
	parts, err := e.gw.Chats.ListParticipants(ctx, chatID)
	if err != nil {
		return false, fmt.Errorf("list participants: %w", err)
	}
	e.cache.Participants.UpsertMany(parts)
	for _, p := range parts {
		if p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}
