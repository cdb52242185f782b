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

// StoryStore implements gateway.StoryStore for MongoDB
type StoryStore struct {
	collection *mongo.Collection
	changes    gateway.Notifier
}

// CreateStory inserts a story document with the standard TTL when the
// caller set no expiry.
func (s *StoryStore) CreateStory(ctx context.Context, story *models.Story) error {
	if story.ID == "" {
		story.ID = primitive.NewObjectID().Hex()
	}
	if story.CreatedAt.IsZero() {
		story.CreatedAt = time.Now()
	}
	if story.ExpiresAt.IsZero() {
		story.ExpiresAt = story.CreatedAt.Add(models.StoryTTL)
	}
	if _, err := s.collection.InsertOne(ctx, story); err != nil {
		return fmt.Errorf("insert story: %w", err)
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TableStories,
		Kind:  gateway.EventInsert,
		RowID: story.ID,
	})
	return nil
}

// ListActiveStories retrieves stories with expires_at > now, newest first.
func (s *StoryStore) ListActiveStories(ctx context.Context, now time.Time) ([]models.Story, error) {
	filter := bson.M{"expires_at": bson.M{"$gt": now}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stories []models.Story
	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}
