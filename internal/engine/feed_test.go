package engine_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/musetera/comunidade/client/internal/engine"
	"github.com/musetera/comunidade/client/internal/gateway/memory"
	"github.com/musetera/comunidade/client/internal/models"
)

func newTestEngine(t *testing.T) (*engine.Engine, *memory.Store) {
	t.Helper()
	store := memory.New()
	return engine.New(store.Gateway(), zap.NewNop()), store
}

func seedProfile(t *testing.T, store *memory.Store, id, name string) {
	t.Helper()
	err := store.UpsertProfile(context.Background(), &models.Profile{ID: id, Name: name})
	if err != nil {
		t.Fatalf("seed profile %s: %v", id, err)
	}
}

func TestCreatePostDefaultsCommunity(t *testing.T) {
	eng, _ := newTestEngine(t)

	post, err := eng.CreatePost(context.Background(), "author", models.CreatePostRequest{Content: "primeiro post"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if got, want := post.Community, models.DefaultCommunity; got != want {
		t.Fatalf("Community = %q, want %q", got, want)
	}
}

func TestCreatePostRequiresContentOrImage(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.CreatePost(context.Background(), "author", models.CreatePostRequest{Content: "   "})
	if !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	// An image alone is enough.
	_, err = eng.CreatePost(context.Background(), "author", models.CreatePostRequest{
		ImageURL: "https://storage.googleapis.com/posts/x.png",
	})
	if err != nil {
		t.Fatalf("CreatePost with image only: %v", err)
	}
}

func TestCreatePostRollsBackOnGatewayFailure(t *testing.T) {
	eng, store := newTestEngine(t)
	store.Fail["create_post"] = errors.New("gateway down")

	_, err := eng.CreatePost(context.Background(), "author", models.CreatePostRequest{Content: "oi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got, want := eng.Cache().Posts.Len(), 0; got != want {
		t.Fatalf("cached posts = %d, want %d", got, want)
	}
	if got, want := eng.Actions().State("create_post"), engine.StateRolledBack; got != want {
		t.Fatalf("action state = %v, want %v", got, want)
	}
}

func TestToggleLikeRoundTrip(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()
	seedProfile(t, store, "author", "Ana")

	post, err := eng.CreatePost(ctx, "author", models.CreatePostRequest{Content: "post"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if err := eng.ToggleLike(ctx, "viewer", post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if got, want := eng.Counts().LikeCount(post.ID), 1; got != want {
		t.Fatalf("LikeCount after like = %d, want %d", got, want)
	}
	feed := eng.Feed(ctx, "viewer")
	if len(feed) != 1 || !feed[0].LikedByMe {
		t.Fatalf("feed = %+v, want one post liked by viewer", feed)
	}

	if err := eng.ToggleLike(ctx, "viewer", post.ID); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if got, want := eng.Counts().LikeCount(post.ID), 0; got != want {
		t.Fatalf("LikeCount after unlike = %d, want %d", got, want)
	}
	if eng.Feed(ctx, "viewer")[0].LikedByMe {
		t.Fatal("post still marked liked after unlike")
	}
}

func TestLikeNotifiesAuthorAndUnlikeKeepsIt(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()

	post, err := eng.CreatePost(ctx, "author", models.CreatePostRequest{Content: "post"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if err := eng.ToggleLike(ctx, "viewer", post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	rows, err := store.ListByRecipient(ctx, "author")
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("notifications = %d, want 1", len(rows))
	}
	if rows[0].Type != models.NotificationLike || rows[0].Message != "curtiu seu post" {
		t.Fatalf("notification = %+v, want LIKE / curtiu seu post", rows[0])
	}
	if rows[0].ActorID != "viewer" || rows[0].RelatedID != post.ID {
		t.Fatalf("notification = %+v, want actor viewer and related post", rows[0])
	}

	// Unliking never retracts the notification.
	if err := eng.ToggleLike(ctx, "viewer", post.ID); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	rows, _ = store.ListByRecipient(ctx, "author")
	if len(rows) != 1 {
		t.Fatalf("notifications after unlike = %d, want 1", len(rows))
	}
}

func TestSelfLikeCreatesNoNotification(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()

	post, err := eng.CreatePost(ctx, "author", models.CreatePostRequest{Content: "post"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := eng.ToggleLike(ctx, "author", post.ID); err != nil {
		t.Fatalf("self like: %v", err)
	}

	rows, _ := store.ListByRecipient(ctx, "author")
	if len(rows) != 0 {
		t.Fatalf("notifications = %d, want 0 for self-like", len(rows))
	}
}

func TestToggleLikeRollsBackOnGatewayFailure(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()

	post, err := eng.CreatePost(ctx, "author", models.CreatePostRequest{Content: "post"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	store.Fail["create_like"] = errors.New("gateway down")
	if err := eng.ToggleLike(ctx, "viewer", post.ID); err == nil {
		t.Fatal("expected error")
	}

	if got, want := eng.Counts().LikeCount(post.ID), 0; got != want {
		t.Fatalf("LikeCount = %d, want %d", got, want)
	}
	if _, liked := eng.Cache().Likes.Get(models.LikeKey(post.ID, "viewer")); liked {
		t.Fatal("like still cached after rollback")
	}
	if got, want := eng.Actions().State("toggle_like:"+post.ID), engine.StateRolledBack; got != want {
		t.Fatalf("action state = %v, want %v", got, want)
	}
}

func TestNotificationFailureNeverRollsBackTheLike(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()

	post, err := eng.CreatePost(ctx, "author", models.CreatePostRequest{Content: "post"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	store.Fail["create_notification"] = errors.New("notifications down")
	if err := eng.ToggleLike(ctx, "viewer", post.ID); err != nil {
		t.Fatalf("like must commit despite notification failure, got %v", err)
	}

	if got, want := eng.Counts().LikeCount(post.ID), 1; got != want {
		t.Fatalf("LikeCount = %d, want %d", got, want)
	}
	rows, _ := store.ListByRecipient(ctx, "author")
	if len(rows) != 0 {
		t.Fatalf("notifications = %d, want 0", len(rows))
	}
}

func TestDoubleToggleConvergesAfterRefresh(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()

	post, err := eng.CreatePost(ctx, "author", models.CreatePostRequest{Content: "post"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if err := eng.ToggleLike(ctx, "viewer", post.ID); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if err := eng.ToggleLike(ctx, "viewer", post.ID); err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	if err := eng.RefreshFeed(ctx); err != nil {
		t.Fatalf("RefreshFeed: %v", err)
	}
	if got, want := eng.Counts().LikeCount(post.ID), 0; got != want {
		t.Fatalf("LikeCount = %d, want %d", got, want)
	}
	likes, _ := store.ListLikes(ctx)
	if len(likes) != 0 {
		t.Fatalf("server likes = %d, want 0", len(likes))
	}
}

func TestAddCommentNotifiesAuthor(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()
	seedProfile(t, store, "viewer", "Vitor")

	post, err := eng.CreatePost(ctx, "author", models.CreatePostRequest{Content: "post"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	comment, err := eng.AddComment(ctx, "viewer", post.ID, models.CreateCommentRequest{Content: "lindo!"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if got, want := eng.Counts().CommentCount(post.ID), 1; got != want {
		t.Fatalf("CommentCount = %d, want %d", got, want)
	}

	views := eng.Comments(ctx, post.ID)
	if len(views) != 1 || views[0].ID != comment.ID {
		t.Fatalf("Comments = %+v, want the new comment", views)
	}
	if got, want := views[0].AuthorName, "Vitor"; got != want {
		t.Fatalf("AuthorName = %q, want %q", got, want)
	}

	rows, _ := store.ListByRecipient(ctx, "author")
	if len(rows) != 1 || rows[0].Message != "comentou no seu post" {
		t.Fatalf("notifications = %+v, want comentou no seu post", rows)
	}
}

func TestAddCommentRollsBackOnGatewayFailure(t *testing.T) {
	eng, store := newTestEngine(t)
	ctx := context.Background()

	post, err := eng.CreatePost(ctx, "author", models.CreatePostRequest{Content: "post"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	store.Fail["create_comment"] = errors.New("gateway down")
	if _, err := eng.AddComment(ctx, "viewer", post.ID, models.CreateCommentRequest{Content: "oi"}); err == nil {
		t.Fatal("expected error")
	}
	if got, want := eng.Counts().CommentCount(post.ID), 0; got != want {
		t.Fatalf("CommentCount = %d, want %d", got, want)
	}
	if got := len(eng.Comments(ctx, post.ID)); got != 0 {
		t.Fatalf("cached comments = %d, want 0", got)
	}
}

func TestRefreshFeedReplacesStaleRows(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	// A row the server never had, e.g. left over from a rolled-back insert.
	eng.Cache().Posts.Upsert(models.Post{ID: "ghost", Content: "ghost"})

	if err := eng.RefreshFeed(ctx); err != nil {
		t.Fatalf("RefreshFeed: %v", err)
	}
	if _, ok := eng.Cache().Posts.Get("ghost"); ok {
		t.Fatal("ghost row survived the refresh")
	}
}
