package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/models"
)

// CommentStore implements gateway.CommentStore for PostgreSQL
type CommentStore struct {
	db      *gorm.DB
	changes gateway.Notifier
}

// CreateComment inserts a comment row.
func (s *CommentStore) CreateComment(ctx context.Context, comment *models.PostComment) error {
	if err := translate(s.db.WithContext(ctx).Create(comment).Error); err != nil {
		return err
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TablePostComments,
		Kind:  gateway.EventInsert,
		RowID: comment.ID,
	})
	return nil
}

// ListComments returns every comment row.
func (s *CommentStore) ListComments(ctx context.Context) ([]models.PostComment, error) {
	var comments []models.PostComment
	if err := s.db.WithContext(ctx).Find(&comments).Error; err != nil {
		return nil, translate(err)
	}
	return comments, nil
}

// ListCommentsByPost returns a post's comments ordered by created_at ascending.
func (s *CommentStore) ListCommentsByPost(ctx context.Context, postID string) ([]models.PostComment, error) {
	var comments []models.PostComment
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err)
	}
	return comments, nil
}
