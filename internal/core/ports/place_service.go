package ports

import (
	"context"

	"github.com/placesdir/places-api/internal/core/domain"
)

// CreatePlaceInput carries all data needed to create a place. ImagePath is
// the path already returned by FileStore.Save; the transport layer is
// responsible for rolling the file back when creation fails.
type CreatePlaceInput struct {
	Title       string
	Description string
	Address     string
	Lat         float64
	Lng         float64
	ImagePath   string
}

// UpdatePlaceInput carries the mutable place fields. Creator and image are
// immutable after creation.
type UpdatePlaceInput struct {
	Title       string
	Description string
}

// PlaceService defines the use-case operations on places, including the
// atomic dual-entity mutations that keep User.Places and Place.Creator
// consistent.
type PlaceService interface {
	GetPlaceByID(ctx context.Context, placeID string) (*domain.Place, error)
	GetPlacesByUser(ctx context.Context, userID string) ([]*domain.Place, error)
	CreatePlaceAndLink(ctx context.Context, userID string, input CreatePlaceInput) (*domain.Place, error)
	UpdatePlace(ctx context.Context, placeID, requesterID string, input UpdatePlaceInput) (*domain.Place, error)
	DeletePlaceAndUnlink(ctx context.Context, placeID, requesterID string) error
}
