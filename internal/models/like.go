package models

import "time"

// PostLike represents a like on a post. One row per (post, user) pair;
// the existence of the row is the liked state, it is never updated.
type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like;size:64"`
	UserID    string    `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like;size:64"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the pair key a like row is cached under.
func (l PostLike) Key() string { return LikeKey(l.PostID, l.UserID) }

// LikeKey builds the cache key for a (post, user) like pair.
func LikeKey(postID, userID string) string { return postID + ":" + userID }
