package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/models"
)

// PostStore implements gateway.PostStore for MongoDB
type PostStore struct {
	collection *mongo.Collection
	changes    gateway.Notifier
}

// CreatePost inserts a post document. An id minted by the caller (for the
// optimistic cache entry) is kept; otherwise a new object id is assigned.
func (s *PostStore) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = primitive.NewObjectID().Hex()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if _, err := s.collection.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TablePosts,
		Kind:  gateway.EventInsert,
		RowID: post.ID,
	})
	return nil
}

// GetPostByID retrieves a post document by id.
func (s *PostStore) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, gateway.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListPosts retrieves all posts, newest first.
func (s *PostStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
