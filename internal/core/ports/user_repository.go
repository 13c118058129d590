package ports

import (
	"context"

	"github.com/placesdir/places-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
//
// AppendPlace and PullPlace mutate only the places reference list; they are
// issued inside a transaction together with the matching place write so the
// bidirectional relation is never half-visible.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns all users, password hashes omitted.
	List(ctx context.Context) ([]*domain.User, error)
	AppendPlace(ctx context.Context, userID, placeID string) error
	PullPlace(ctx context.Context, userID, placeID string) error
	// ImagePaths returns every avatar path currently referenced, for the
	// orphan-file sweeper.
	ImagePaths(ctx context.Context) ([]string, error)
}
