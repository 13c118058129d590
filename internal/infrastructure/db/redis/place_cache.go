package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/placesdir/places-api/internal/api/metrics"
	"github.com/placesdir/places-api/internal/core/domain"
)

const cacheTTL = 5 * time.Minute

// PlaceCache is a read-through cache for place-by-id lookups backed by Redis.
// Key format: place:<id>
type PlaceCache struct {
	client *redis.Client
}

// NewPlaceCache creates a PlaceCache wrapping the given Redis client.
func NewPlaceCache(client *redis.Client) *PlaceCache {
	return &PlaceCache{client: client}
}

// Get returns the cached place, or (nil, nil) on a miss.
func (c *PlaceCache) Get(ctx context.Context, placeID string) (*domain.Place, error) {
	raw, err := c.client.Get(ctx, c.key(placeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.PlaceCacheTotal.WithLabelValues("miss").Inc()
			return nil, nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var place domain.Place
	if err := json.Unmarshal(raw, &place); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}

	metrics.PlaceCacheTotal.WithLabelValues("hit").Inc()
	return &place, nil
}

// Set stores the place for cacheTTL.
func (c *PlaceCache) Set(ctx context.Context, place *domain.Place) error {
	raw, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(place.ID), raw, cacheTTL).Err()
}

// Invalidate drops the cached entry after an update or delete.
func (c *PlaceCache) Invalidate(ctx context.Context, placeID string) error {
	return c.client.Del(ctx, c.key(placeID)).Err()
}

func (c *PlaceCache) key(placeID string) string {
	return "place:" + placeID
}
