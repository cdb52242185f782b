package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/musetera/comunidade/client/internal/engine"
	"github.com/musetera/comunidade/client/internal/models"
)

func TestResolveChatAndSendMessage(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()
	seedProfile(t, store, "alice", "Alice")
	seedProfile(t, store, "bob", "Bob")

	chatID, err := eng.ResolveChat(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("ResolveChat: %v", err)
	}

	if _, err := eng.SendMessage(ctx, "alice", chatID, models.SendMessageRequest{Content: "Olá"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	msgs := eng.Messages(chatID, "bob")
	if len(msgs) != 1 || msgs[0].Content != "Olá" {
		t.Fatalf("messages for bob = %+v, want one Olá", msgs)
	}
	if got, want := eng.Counts().Unread(chatID), 1; got != want {
		t.Fatalf("unread for bob = %d, want %d", got, want)
	}
}

func TestResolveChatIsIdempotentAcrossOrder(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := eng.ResolveChat(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("first ResolveChat: %v", err)
	}
	second, err := eng.ResolveChat(ctx, "bob", "alice")
	if err != nil {
		t.Fatalf("second ResolveChat: %v", err)
	}
	if first != second {
		t.Fatalf("got chats %s and %s, want one", first, second)
	}
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	chatID, err := eng.ResolveChat(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("ResolveChat: %v", err)
	}

	_, err = eng.SendMessage(ctx, "carol", chatID, models.SendMessageRequest{Content: "oi"})
	if !errors.Is(err, engine.ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
	if got := len(eng.Messages(chatID, "alice")); got != 0 {
		t.Fatalf("messages = %d, want 0", got)
	}
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	chatID, err := eng.ResolveChat(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("ResolveChat: %v", err)
	}

	_, err = eng.SendMessage(ctx, "alice", chatID, models.SendMessageRequest{Content: "   "})
	if !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestSendMessageRollsBackOnGatewayFailure(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()

	chatID, err := eng.ResolveChat(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("ResolveChat: %v", err)
	}

	store.Fail["create_message"] = errors.New("gateway down")
	if _, err := eng.SendMessage(ctx, "alice", chatID, models.SendMessageRequest{Content: "oi"}); err == nil {
		t.Fatal("expected error")
	}
	if got := len(eng.Messages(chatID, "alice")); got != 0 {
		t.Fatalf("messages after rollback = %d, want 0", got)
	}
	if got, want := eng.Actions().State("send_message:"+chatID), engine.StateRolledBack; got != want {
		t.Fatalf("action state = %v, want %v", got, want)
	}
}

func TestMessagesAscendingByCreatedAt(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	chatID, err := eng.ResolveChat(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("ResolveChat: %v", err)
	}

	if _, err := eng.SendMessage(ctx, "alice", chatID, models.SendMessageRequest{Content: "primeira"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := eng.SendMessage(ctx, "bob", chatID, models.SendMessageRequest{Content: "segunda"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	msgs := eng.Messages(chatID, "alice")
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "primeira" || msgs[1].Content != "segunda" {
		t.Fatalf("order = [%s %s], want [primeira segunda]", msgs[0].Content, msgs[1].Content)
	}
}

func TestMarkChatSeenClearsUnread(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	chatID, err := eng.ResolveChat(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("ResolveChat: %v", err)
	}
	if _, err := eng.SendMessage(ctx, "alice", chatID, models.SendMessageRequest{Content: "oi"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	eng.Messages(chatID, "bob")
	if got, want := eng.Counts().Unread(chatID), 1; got != want {
		t.Fatalf("unread = %d, want %d", got, want)
	}

	eng.MarkChatSeen(chatID)
	eng.Messages(chatID, "bob")
	if got, want := eng.Counts().Unread(chatID), 0; got != want {
		t.Fatalf("unread after seen = %d, want %d", got, want)
	}
}

func TestChatsConversationList(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()
	seedProfile(t, store, "alice", "Alice")
	seedProfile(t, store, "bob", "Bob")

	chatID, err := eng.ResolveChat(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("ResolveChat: %v", err)
	}
	if _, err := eng.SendMessage(ctx, "alice", chatID, models.SendMessageRequest{Content: "Olá"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	views, err := eng.Chats(ctx, "bob")
	if err != nil {
		t.Fatalf("Chats: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("chats = %d, want 1", len(views))
	}
	v := views[0]
	if v.ID != chatID {
		t.Fatalf("chat id = %s, want %s", v.ID, chatID)
	}
	if v.Other.ID != "alice" || v.Other.Name != "Alice" {
		t.Fatalf("other = %+v, want alice", v.Other)
	}
	if v.LastMessage != "Olá" {
		t.Fatalf("last message = %q, want Olá", v.LastMessage)
	}
	if got, want := v.Unread, 1; got != want {
		t.Fatalf("unread = %d, want %d", got, want)
	}
}
