// Package memory is an in-memory gateway implementation. It backs the test
// suite and local development without Postgres or Mongo, and publishes the
// same change signals the real adapters do.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/models"
)

// Store holds every table in maps. All methods are safe for concurrent use.
type Store struct {
	hub *gateway.Hub

	mu            sync.Mutex
	profiles      map[string]models.Profile
	posts         map[string]models.Post
	likes         map[string]models.PostLike
	comments      map[string]models.PostComment
	notifications map[string]models.Notification
	chats         map[string]models.Chat
	participants  map[string][]models.ChatParticipant
	messages      map[string][]models.Message
	stories       map[string]models.Story

	// Fail maps an operation name (e.g. "create_like") to an error the next
	// call returns instead of executing. Consumed once per hit.
	Fail map[string]error
}

// New creates an empty store with its own change hub.
func New() *Store {
	return &Store{
		hub:           gateway.NewHub(),
		profiles:      make(map[string]models.Profile),
		posts:         make(map[string]models.Post),
		likes:         make(map[string]models.PostLike),
		comments:      make(map[string]models.PostComment),
		notifications: make(map[string]models.Notification),
		chats:         make(map[string]models.Chat),
		participants:  make(map[string][]models.ChatParticipant),
		messages:      make(map[string][]models.Message),
		stories:       make(map[string]models.Story),
		Fail:          make(map[string]error),
	}
}

// Gateway bundles the store into the gateway contract.
func (s *Store) Gateway() *gateway.Gateway {
	return &gateway.Gateway{
		Profiles:      s,
		Posts:         s,
		Likes:         s,
		Comments:      s,
		Notifications: s,
		Chats:         s,
		Messages:      s,
		Stories:       s,
		Changes:       s.hub,
	}
}

// Hub exposes the change hub, e.g. to publish synthetic signals in tests.
func (s *Store) Hub() *gateway.Hub { return s.hub }

func (s *Store) fail(op string) error {
	if err := s.Fail[op]; err != nil {
		delete(s.Fail, op)
		return err
	}
	return nil
}

// GetProfile implements gateway.ProfileStore.
func (s *Store) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	return &p, nil
}

// UpsertProfile implements gateway.ProfileStore.
func (s *Store) UpsertProfile(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	if err := s.fail("upsert_profile"); err != nil {
		s.mu.Unlock()
		return err
	}
	s.profiles[profile.ID] = *profile
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{Table: gateway.TableProfiles, Kind: gateway.EventUpdate, RowID: profile.ID})
	return nil
}

// CreatePost implements gateway.PostStore.
func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	if err := s.fail("create_post"); err != nil {
		s.mu.Unlock()
		return err
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	s.posts[post.ID] = *post
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{Table: gateway.TablePosts, Kind: gateway.EventInsert, RowID: post.ID})
	return nil
}

// GetPostByID implements gateway.PostStore.
func (s *Store) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	return &p, nil
}

// ListPosts implements gateway.PostStore.
func (s *Store) ListPosts(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list_posts"); err != nil {
		return nil, err
	}
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CreateLike implements gateway.LikeStore. The pair is unique: a duplicate
// insert reports ErrConflict like the relational adapter does.
func (s *Store) CreateLike(_ context.Context, like *models.PostLike) error {
	s.mu.Lock()
	if err := s.fail("create_like"); err != nil {
		s.mu.Unlock()
		return err
	}
	key := like.Key()
	if _, exists := s.likes[key]; exists {
		s.mu.Unlock()
		return gateway.ErrConflict
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}
	s.likes[key] = *like
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{Table: gateway.TablePostLikes, Kind: gateway.EventInsert, RowID: key})
	return nil
}

// DeleteLike implements gateway.LikeStore.
func (s *Store) DeleteLike(_ context.Context, postID, userID string) error {
	s.mu.Lock()
	if err := s.fail("delete_like"); err != nil {
		s.mu.Unlock()
		return err
	}
	key := models.LikeKey(postID, userID)
	if _, exists := s.likes[key]; !exists {
		s.mu.Unlock()
		return gateway.ErrNotFound
	}
	delete(s.likes, key)
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{Table: gateway.TablePostLikes, Kind: gateway.EventDelete, RowID: key})
	return nil
}

// ListLikes implements gateway.LikeStore.
func (s *Store) ListLikes(_ context.Context) ([]models.PostLike, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list_likes"); err != nil {
		return nil, err
	}
	out := make([]models.PostLike, 0, len(s.likes))
	for _, l := range s.likes {
		out = append(out, l)
	}
	return out, nil
}

// ListLikesByUser implements gateway.LikeStore.
func (s *Store) ListLikesByUser(_ context.Context, userID string) ([]models.PostLike, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PostLike
	for _, l := range s.likes {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

// CreateComment implements gateway.CommentStore.
func (s *Store) CreateComment(_ context.Context, comment *models.PostComment) error {
	s.mu.Lock()
	if err := s.fail("create_comment"); err != nil {
		s.mu.Unlock()
		return err
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	s.comments[comment.ID] = *comment
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{Table: gateway.TablePostComments, Kind: gateway.EventInsert, RowID: comment.ID})
	return nil
}

// ListComments implements gateway.CommentStore.
func (s *Store) ListComments(_ context.Context) ([]models.PostComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list_comments"); err != nil {
		return nil, err
	}
	out := make([]models.PostComment, 0, len(s.comments))
	for _, c := range s.comments {
		out = append(out, c)
	}
	return out, nil
}

// ListCommentsByPost implements gateway.CommentStore.
func (s *Store) ListCommentsByPost(_ context.Context, postID string) ([]models.PostComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PostComment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// CreateNotification implements gateway.NotificationStore.
func (s *Store) CreateNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	if err := s.fail("create_notification"); err != nil {
		s.mu.Unlock()
		return err
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	s.notifications[n.ID] = *n
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{
		Table: gateway.TableNotifications,
		Kind:  gateway.EventInsert,
		RowID: n.ID,
		Scope: n.RecipientID,
	})
	return nil
}

// ListByRecipient implements gateway.NotificationStore.
func (s *Store) ListByRecipient(_ context.Context, recipientID string) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list_notifications"); err != nil {
		return nil, err
	}
	var out []models.Notification
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MarkRead implements gateway.NotificationStore.
func (s *Store) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	if err := s.fail("mark_read"); err != nil {
		s.mu.Unlock()
		return err
	}
	n, ok := s.notifications[id]
	if !ok {
		s.mu.Unlock()
		return gateway.ErrNotFound
	}
	n.IsRead = true
	s.notifications[id] = n
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{
		Table: gateway.TableNotifications,
		Kind:  gateway.EventUpdate,
		RowID: id,
		Scope: n.RecipientID,
	})
	return nil
}

// MarkAllRead implements gateway.NotificationStore.
func (s *Store) MarkAllRead(_ context.Context, recipientID string) error {
	s.mu.Lock()
	if err := s.fail("mark_all_read"); err != nil {
		s.mu.Unlock()
		return err
	}
	for id, n := range s.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			s.notifications[id] = n
		}
	}
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{
		Table: gateway.TableNotifications,
		Kind:  gateway.EventUpdate,
		Scope: recipientID,
	})
	return nil
}

// DeleteNotification implements gateway.NotificationStore.
func (s *Store) DeleteNotification(_ context.Context, id string) error {
	s.mu.Lock()
	if err := s.fail("delete_notification"); err != nil {
		s.mu.Unlock()
		return err
	}
	n, ok := s.notifications[id]
	if !ok {
		s.mu.Unlock()
		return gateway.ErrNotFound
	}
	delete(s.notifications, id)
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{
		Table: gateway.TableNotifications,
		Kind:  gateway.EventDelete,
		RowID: id,
		Scope: n.RecipientID,
	})
	return nil
}

// DeleteAllForRecipient implements gateway.NotificationStore.
func (s *Store) DeleteAllForRecipient(_ context.Context, recipientID string) error {
	s.mu.Lock()
	if err := s.fail("delete_all_notifications"); err != nil {
		s.mu.Unlock()
		return err
	}
	for id, n := range s.notifications {
		if n.RecipientID == recipientID {
			delete(s.notifications, id)
		}
	}
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{
		Table: gateway.TableNotifications,
		Kind:  gateway.EventDelete,
		Scope: recipientID,
	})
	return nil
}

// CreateChat implements gateway.ChatStore.
func (s *Store) CreateChat(_ context.Context, chat *models.Chat, participants []models.ChatParticipant) error {
	s.mu.Lock()
	if err := s.fail("create_chat"); err != nil {
		s.mu.Unlock()
		return err
	}
	for _, c := range s.chats {
		if c.PairKey != "" && c.PairKey == chat.PairKey {
			s.mu.Unlock()
			return gateway.ErrConflict
		}
	}
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}
	s.chats[chat.ID] = *chat
	for _, p := range participants {
		p.ChatID = chat.ID
		s.participants[chat.ID] = append(s.participants[chat.ID], p)
	}
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{Table: gateway.TableChats, Kind: gateway.EventInsert, RowID: chat.ID})
	return nil
}

// ListChatIDsForUser implements gateway.ChatStore.
func (s *Store) ListChatIDsForUser(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list_chat_ids"); err != nil {
		return nil, err
	}
	var out []string
	for chatID, parts := range s.participants {
		for _, p := range parts {
			if p.UserID == userID {
				out = append(out, chatID)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// ListChatsForUser implements gateway.ChatStore.
func (s *Store) ListChatsForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	ids, err := s.ListChatIDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Chat, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.chats[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// ListParticipants implements gateway.ChatStore.
func (s *Store) ListParticipants(_ context.Context, chatID string) ([]models.ChatParticipant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list_participants"); err != nil {
		return nil, err
	}
	return append([]models.ChatParticipant(nil), s.participants[chatID]...), nil
}

// CreateMessage implements gateway.MessageStore.
func (s *Store) CreateMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	if err := s.fail("create_message"); err != nil {
		s.mu.Unlock()
		return err
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.messages[msg.ChatID] = append(s.messages[msg.ChatID], *msg)
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{
		Table: gateway.TableMessages,
		Kind:  gateway.EventInsert,
		RowID: msg.ID,
		Scope: msg.ChatID,
	})
	return nil
}

// ListMessagesByChat implements gateway.MessageStore.
func (s *Store) ListMessagesByChat(_ context.Context, chatID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list_messages"); err != nil {
		return nil, err
	}
	out := append([]models.Message(nil), s.messages[chatID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// CreateStory implements gateway.StoryStore.
func (s *Store) CreateStory(_ context.Context, story *models.Story) error {
	s.mu.Lock()
	if err := s.fail("create_story"); err != nil {
		s.mu.Unlock()
		return err
	}
	if story.ID == "" {
		story.ID = uuid.NewString()
	}
	now := time.Now()
	if story.CreatedAt.IsZero() {
		story.CreatedAt = now
	}
	if story.ExpiresAt.IsZero() {
		story.ExpiresAt = story.CreatedAt.Add(models.StoryTTL)
	}
	s.stories[story.ID] = *story
	s.mu.Unlock()

	s.hub.Publish(gateway.ChangeEvent{Table: gateway.TableStories, Kind: gateway.EventInsert, RowID: story.ID})
	return nil
}

// ListActiveStories implements gateway.StoryStore.
func (s *Store) ListActiveStories(_ context.Context, now time.Time) ([]models.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list_stories"); err != nil {
		return nil, err
	}
	var out []models.Story
	for _, st := range s.stories {
		if now.Before(st.ExpiresAt) {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
