package ports

import (
	"context"

	"github.com/placesdir/places-api/internal/core/domain"
)

// PlaceRepository defines persistence operations for places.
type PlaceRepository interface {
	Insert(ctx context.Context, place *domain.Place) error
	FindByID(ctx context.Context, id string) (*domain.Place, error)
	// FindByIDs returns the places for the given IDs in the same order,
	// silently skipping IDs that no longer resolve.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Place, error)
	Update(ctx context.Context, place *domain.Place) error
	Delete(ctx context.Context, id string) error
	// ImagePaths returns every place image path currently referenced, for
	// the orphan-file sweeper.
	ImagePaths(ctx context.Context) ([]string, error)
}
