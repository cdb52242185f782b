package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/models"
)

// LikeStore implements gateway.LikeStore for PostgreSQL
type LikeStore struct {
	db      *gorm.DB
	changes gateway.Notifier
}

// CreateLike inserts a like row; the unique pair index rejects duplicates.
func (s *LikeStore) CreateLike(ctx context.Context, like *models.PostLike) error {
	if err := translate(s.db.WithContext(ctx).Create(like).Error); err != nil {
		return err
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TablePostLikes,
		Kind:  gateway.EventInsert,
		RowID: like.Key(),
	})
	return nil
}

// DeleteLike removes the (post, user) like row.
func (s *LikeStore) DeleteLike(ctx context.Context, postID, userID string) error {
	res := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gateway.ErrNotFound
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TablePostLikes,
		Kind:  gateway.EventDelete,
		RowID: models.LikeKey(postID, userID),
	})
	return nil
}

// ListLikes returns every like row.
func (s *LikeStore) ListLikes(ctx context.Context) ([]models.PostLike, error) {
	var likes []models.PostLike
	if err := s.db.WithContext(ctx).Find(&likes).Error; err != nil {
		return nil, translate(err)
	}
	return likes, nil
}

// ListLikesByUser returns the user's like rows.
func (s *LikeStore) ListLikesByUser(ctx context.Context, userID string) ([]models.PostLike, error) {
	var likes []models.PostLike
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&likes).Error; err != nil {
		return nil, translate(err)
	}
	return likes, nil
}
