// Package gateway defines the contract of the remote data store the client
// core synchronizes against: per-table CRUD operations plus a change-signal
// subscription. Adapters under gateway/postgres, gateway/mongo and
// gateway/memory implement it.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/musetera/comunidade/client/internal/models"
)

// Tables of the remote store consumed by the client core.
const (
	TableProfiles         = "profiles"
	TablePosts            = "posts"
	TablePostLikes        = "post_likes"
	TablePostComments     = "post_comments"
	TableNotifications    = "notifications"
	TableChats            = "chats"
	TableChatParticipants = "chat_participants"
	TableMessages         = "messages"
	TableStories          = "stories"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("gateway: row not found")
	// ErrConflict is returned when a write violates a uniqueness constraint,
	// e.g. two clients racing to create the same direct chat.
	ErrConflict = errors.New("gateway: unique constraint violated")
)

// ProfileStore defines the operations on the profiles table
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}

// PostStore defines the operations on the posts collection
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	// ListPosts returns all posts, newest first.
	ListPosts(ctx context.Context) ([]models.Post, error)
}

// LikeStore defines the operations on the post_likes relation
type LikeStore interface {
	CreateLike(ctx context.Context, like *models.PostLike) error
	DeleteLike(ctx context.Context, postID, userID string) error
	// ListLikes returns every like row; counts are folded from the full
	// listing, never read from a stored counter.
	ListLikes(ctx context.Context) ([]models.PostLike, error)
	ListLikesByUser(ctx context.Context, userID string) ([]models.PostLike, error)
}

// CommentStore defines the operations on the post_comments relation
type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.PostComment) error
	ListComments(ctx context.Context) ([]models.PostComment, error)
	// ListCommentsByPost returns the post's comments ordered by created-at
	// ascending.
	ListCommentsByPost(ctx context.Context, postID string) ([]models.PostComment, error)
}

// NotificationStore defines the operations on the notifications table
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	// ListByRecipient returns the recipient's notifications, newest first.
	ListByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	DeleteNotification(ctx context.Context, id string) error
	DeleteAllForRecipient(ctx context.Context, recipientID string) error
}

// ChatStore defines the operations on the chats and chat_participants tables
type ChatStore interface {
	// CreateChat inserts the chat row and its participant rows, in that
	// order. Returns ErrConflict when a chat with the same pair key exists.
	CreateChat(ctx context.Context, chat *models.Chat, participants []models.ChatParticipant) error
	ListChatIDsForUser(ctx context.Context, userID string) ([]string, error)
	ListChatsForUser(ctx context.Context, userID string) ([]models.Chat, error)
	ListParticipants(ctx context.Context, chatID string) ([]models.ChatParticipant, error)
}

// MessageStore defines the operations on the messages table
type MessageStore interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	// ListMessagesByChat returns the chat's messages ordered by created-at
	// ascending.
	ListMessagesByChat(ctx context.Context, chatID string) ([]models.Message, error)
}

// StoryStore defines the operations on the stories collection
type StoryStore interface {
	CreateStory(ctx context.Context, story *models.Story) error
	// ListActiveStories returns stories with expires_at > now, newest first.
	ListActiveStories(ctx context.Context, now time.Time) ([]models.Story, error)
}

// Gateway bundles the per-table stores and the change-signal feed.
type Gateway struct {
	Profiles      ProfileStore
	Posts         PostStore
	Likes         LikeStore
	Comments      CommentStore
	Notifications NotificationStore
	Chats         ChatStore
	Messages      MessageStore
	Stories       StoryStore
	Changes       Notifier
}
