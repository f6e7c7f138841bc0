package repository

import (
	"context"

	"github.com/vytor/mathadventures/internal/models"
)

// ProfileRepository handles profile data access
type ProfileRepository interface {
	Get(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, name string) (*models.Profile, error)
	Delete(ctx context.Context, id int64) error
}
