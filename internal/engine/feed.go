package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/musetera/comunidade/client/internal/models"
)

// Portuguese notification messages, matching what recipients see in the app.
const (
	msgLikedPost     = "curtiu seu post"
	msgCommentedPost = "comentou no seu post"
)

// PostView is a post joined with its author and derived counts.
type PostView struct {
	models.Post
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar"`
	Likes        int    `json:"likes"`
	Comments     int    `json:"comments"`
	LikedByMe    bool   `json:"liked_by_me"`
}

// CommentView is a comment joined with its author.
type CommentView struct {
	models.PostComment
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar"`
}

// RefreshFeed refetches the full post, like and comment listings, replaces
// the cached tables and recomputes the counts. It is the convergence point:
// whatever optimistic deltas or push signals preceded it, the cache equals
// server truth afterwards.
func (e *Engine) RefreshFeed(ctx context.Context) error {
	posts, err := e.gw.Posts.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("refresh feed: list posts: %w", err)
	}
	likes, err := e.gw.Likes.ListLikes(ctx)
	if err != nil {
		return fmt.Errorf("refresh feed: list likes: %w", err)
	}
	comments, err := e.gw.Comments.ListComments(ctx)
	if err != nil {
		return fmt.Errorf("refresh feed: list comments: %w", err)
	}

	e.cache.Posts.Replace(posts)
	e.cache.Likes.Replace(likes)
	e.cache.Comments.Replace(comments)
	e.counts.Recompute(likes, comments)

	for _, p := range posts {
		e.profileFor(ctx, p.UserID)
	}
	return nil
}

// Feed returns the cached posts newest first, joined with authors and
// counts for the given viewer.
func (e *Engine) Feed(ctx context.Context, viewerID string) []PostView {
	posts := e.cache.Posts.All()
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })

	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		author := e.profileFor(ctx, p.UserID)
		_, liked := e.cache.Likes.Get(models.LikeKey(p.ID, viewerID))
		out = append(out, PostView{
			Post:         p,
			AuthorName:   author.Name,
			AuthorAvatar: author.AvatarURL,
			Likes:        e.counts.LikeCount(p.ID),
			Comments:     e.counts.CommentCount(p.ID),
			LikedByMe:    liked,
		})
	}
	return out
}

// CreatePost publishes a post by the actor. The post appears in the cache
// before the gateway write; a failed write removes it again.
func (e *Engine) CreatePost(ctx context.Context, actorID string, req models.CreatePostRequest) (*models.Post, error) {
	if err := e.validateStruct(req); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && req.ImageURL == "" {
		return nil, fmt.Errorf("%w: post needs content or an image", ErrValidation)
	}
	community := req.Community
	if community == "" {
		community = models.DefaultCommunity
	}

	post := models.Post{
		ID:        newID(),
		UserID:    actorID,
		Content:   content,
		ImageURL:  req.ImageURL,
		Community: community,
		CreatedAt: e.now(),
	}

	act := e.actions.Begin("create_post")
	e.cache.Posts.Upsert(post)

	if err := e.gw.Posts.CreatePost(ctx, &post); err != nil {
		e.cache.Posts.Remove(post.ID)
		act.RollBack(err)
		return nil, fmt.Errorf("create post: %w", err)
	}
	act.Commit()

	if err := e.RefreshFeed(ctx); err != nil {
		e.log.Warn("post-create feed refresh failed", zap.Error(err))
	}
	return &post, nil
}

// ToggleLike flips the actor's like on a post. The desired target state is
// decided by cache membership at call time, so a second toggle while the
// first write is in flight flips the intent instead of double-inserting.
func (e *Engine) ToggleLike(ctx context.Context, actorID, postID string) error {
	if postID == "" {
		return fmt.Errorf("%w: missing post id", ErrValidation)
	}
	post, ok := e.cache.Posts.Get(postID)
	if !ok {
		fetched, err := e.gw.Posts.GetPostByID(ctx, postID)
		if err != nil {
			return fmt.Errorf("%w: unknown post %s", ErrValidation, postID)
		}
		post = *fetched
		e.cache.Posts.Upsert(post)
	}

	key := models.LikeKey(postID, actorID)
	act := e.actions.Begin("toggle_like:" + postID)

	if prev, liked := e.cache.Likes.Get(key); liked {
		e.cache.Likes.Remove(key)
		e.counts.AdjustLikes(postID, -1)
		if err := e.gw.Likes.DeleteLike(ctx, postID, actorID); err != nil {
			e.cache.Likes.Upsert(prev)
			e.counts.AdjustLikes(postID, +1)
			act.RollBack(err)
			return fmt.Errorf("unlike post: %w", err)
		}
		act.Commit()
		// Unliking never retracts the notification the like produced.
		return nil
	}

	like := models.PostLike{PostID: postID, UserID: actorID, CreatedAt: e.now()}
	e.cache.Likes.Upsert(like)
	e.counts.AdjustLikes(postID, +1)
	if err := e.gw.Likes.CreateLike(ctx, &like); err != nil {
		e.cache.Likes.Remove(key)
		e.counts.AdjustLikes(postID, -1)
		act.RollBack(err)
		return fmt.Errorf("like post: %w", err)
	}
	act.Commit()

	e.notifyAuthor(ctx, actorID, post.UserID, models.NotificationLike, msgLikedPost, postID)
	return nil
}

// AddComment appends the actor's comment to a post and notifies the post's
// author when it is someone else.
func (e *Engine) AddComment(ctx context.Context, actorID, postID string, req models.CreateCommentRequest) (*models.PostComment, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := e.validateStruct(req); err != nil {
		return nil, err
	}
	post, ok := e.cache.Posts.Get(postID)
	if !ok {
		fetched, err := e.gw.Posts.GetPostByID(ctx, postID)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown post %s", ErrValidation, postID)
		}
		post = *fetched
		e.cache.Posts.Upsert(post)
	}

	comment := models.PostComment{
		ID:        newID(),
		PostID:    postID,
		UserID:    actorID,
		Content:   req.Content,
		CreatedAt: e.now(),
	}

	act := e.actions.Begin("add_comment:" + postID)
	e.cache.Comments.Upsert(comment)
	e.counts.AdjustComments(postID, +1)

	if err := e.gw.Comments.CreateComment(ctx, &comment); err != nil {
		e.cache.Comments.Remove(comment.ID)
		e.counts.AdjustComments(postID, -1)
		act.RollBack(err)
		return nil, fmt.Errorf("add comment: %w", err)
	}
	act.Commit()

	e.notifyAuthor(ctx, actorID, post.UserID, models.NotificationComment, msgCommentedPost, postID)
	return &comment, nil
}

// Comments returns a post's cached comments ascending by created-at, joined
// with authors.
func (e *Engine) Comments(ctx context.Context, postID string) []CommentView {
	all := e.cache.Comments.All()
	rows := make([]models.PostComment, 0, len(all))
	for _, c := range all {
		if c.PostID == postID {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })

	out := make([]CommentView, 0, len(rows))
	for _, c := range rows {
		author := e.profileFor(ctx, c.UserID)
		out = append(out, CommentView{
			PostComment:  c,
			AuthorName:   author.Name,
			AuthorAvatar: author.AvatarURL,
		})
	}
	return out
}
