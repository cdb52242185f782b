package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/models"
)

// ProfileStore implements gateway.ProfileStore for PostgreSQL
type ProfileStore struct {
	db      *gorm.DB
	changes gateway.Notifier
}

// GetProfile retrieves a profile row by id.
func (s *ProfileStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// UpsertProfile inserts or fully replaces the profile row.
func (s *ProfileStore) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(profile).Error
	if err != nil {
		return translate(err)
	}
	s.changes.Publish(gateway.ChangeEvent{
		Table: gateway.TableProfiles,
		Kind:  gateway.EventUpdate,
		RowID: profile.ID,
	})
	return nil
}
