package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/placesdir/places-api/internal/core/domain"
	"github.com/placesdir/places-api/internal/core/ports"
)

// PlaceCache abstracts the read-through cache for place-by-id lookups (Redis).
// A miss is reported as (nil, nil); cache failures are never fatal.
type PlaceCache interface {
	Get(ctx context.Context, placeID string) (*domain.Place, error)
	Set(ctx context.Context, place *domain.Place) error
	Invalidate(ctx context.Context, placeID string) error
}

// PlaceService holds the cross-entity consistency core: the atomic
// create-and-link / delete-and-unlink mutations that keep User.Places and
// Place.Creator mutually consistent.
type PlaceService struct {
	users  ports.UserRepository
	places ports.PlaceRepository
	tx     ports.Transactor
	files  ports.FileStore
	cache  PlaceCache
	log    zerolog.Logger
}

func NewPlaceService(
	users ports.UserRepository,
	places ports.PlaceRepository,
	tx ports.Transactor,
	files ports.FileStore,
	cache PlaceCache,
	log zerolog.Logger,
) *PlaceService {
	return &PlaceService{users: users, places: places, tx: tx, files: files, cache: cache, log: log}
}

func (s *PlaceService) GetPlaceByID(ctx context.Context, placeID string) (*domain.Place, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, placeID)
		if err != nil {
			s.log.Warn().Err(err).Str("place_id", placeID).Msg("place cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	place, err := s.places.FindByID(ctx, placeID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, place); err != nil {
			s.log.Warn().Err(err).Str("place_id", placeID).Msg("place cache write failed")
		}
	}
	return place, nil
}

// GetPlacesByUser resolves the user's place references with an explicit
// two-step read. An unknown user and a user with zero places both surface as
// ErrNoPlacesForUser: the two are indistinguishable to a client.
func (s *PlaceService) GetPlacesByUser(ctx context.Context, userID string) ([]*domain.Place, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNoPlacesForUser
		}
		return nil, fmt.Errorf("get places by user: %w", err)
	}
	if len(user.Places) == 0 {
		return nil, domain.ErrNoPlacesForUser
	}

	return s.places.FindByIDs(ctx, user.Places)
}

// CreatePlaceAndLink persists a new place and appends its reference to the
// creator's places list in one transaction. When it fails, the caller still
// owns the uploaded file at input.ImagePath and must roll it back.
func (s *PlaceService) CreatePlaceAndLink(ctx context.Context, userID string, input ports.CreatePlaceInput) (*domain.Place, error) {
	if input.Title == "" || input.Address == "" || len(input.Description) < 5 || input.ImagePath == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	place := &domain.Place{
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Location:    domain.Coordinates{Lat: input.Lat, Lng: input.Lng},
		Image:       input.ImagePath,
		Creator:     user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.places.Insert(txCtx, place); err != nil {
			return err
		}
		return s.users.AppendPlace(txCtx, user.ID, place.ID)
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("create place transaction aborted")
		return nil, fmt.Errorf("%w: %v", domain.ErrLinkFailed, err)
	}

	s.log.Info().Str("place_id", place.ID).Str("user_id", user.ID).Msg("place created")
	return place, nil
}

// UpdatePlace mutates title and description. Only the creator may update;
// no cross-entity write is involved.
func (s *PlaceService) UpdatePlace(ctx context.Context, placeID, requesterID string, input ports.UpdatePlaceInput) (*domain.Place, error) {
	if input.Title == "" || len(input.Description) < 5 {
		return nil, domain.ErrInvalidInput
	}

	place, err := s.places.FindByID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if place.Creator != requesterID {
		return nil, domain.ErrEditForbidden
	}

	place.Title = input.Title
	place.Description = input.Description
	place.UpdatedAt = time.Now().UTC()

	if err := s.places.Update(ctx, place); err != nil {
		return nil, fmt.Errorf("update place: %w", err)
	}

	s.invalidate(ctx, place.ID)
	return place, nil
}

// DeletePlaceAndUnlink removes the place and its reference from the owning
// user in one transaction, then deletes the backing image best-effort.
func (s *PlaceService) DeletePlaceAndUnlink(ctx context.Context, placeID, requesterID string) error {
	place, err := s.places.FindByID(ctx, placeID)
	if err != nil {
		return err
	}
	if place.Creator != requesterID {
		return domain.ErrDeleteForbidden
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.places.Delete(txCtx, place.ID); err != nil {
			return err
		}
		return s.users.PullPlace(txCtx, place.Creator, place.ID)
	})
	if err != nil {
		s.log.Error().Err(err).Str("place_id", place.ID).Msg("delete place transaction aborted")
		return fmt.Errorf("%w: %v", domain.ErrUnlinkFailed, err)
	}

	// Image removal is compensating cleanup, never part of the transaction;
	// a failure is logged inside the store and must not fail the delete.
	s.files.Remove(place.Image)
	s.invalidate(ctx, place.ID)

	s.log.Info().Str("place_id", place.ID).Str("user_id", place.Creator).Msg("place deleted")
	return nil
}

func (s *PlaceService) invalidate(ctx context.Context, placeID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, placeID); err != nil {
		s.log.Warn().Err(err).Str("place_id", placeID).Msg("place cache invalidation failed")
	}
}
