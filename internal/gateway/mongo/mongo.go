// Package mongo implements the document half of the gateway contract:
// posts and stories collections, as the upstream deployment stores them.
package mongo

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/musetera/comunidade/client/internal/gateway"
)

// Stores bundles the document collection adapters over one database.
type Stores struct {
	Posts   *PostStore
	Stories *StoryStore
}

// New returns adapters for the posts and stories collections.
func New(db *mongo.Database, changes gateway.Notifier) *Stores {
	return &Stores{
		Posts:   &PostStore{collection: db.Collection("posts"), changes: changes},
		Stories: &StoryStore{collection: db.Collection("stories"), changes: changes},
	}
}
