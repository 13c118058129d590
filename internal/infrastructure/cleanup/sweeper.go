// Package cleanup removes upload files that no database record references
// anymore. File writes are not covered by the store's transactions, so a
// crash between accepting an upload and rolling it back can leave a file
// behind; the sweeper provides the eventual cleanup for that window.
package cleanup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/placesdir/places-api/internal/api/metrics"
	"github.com/placesdir/places-api/internal/core/ports"
)

const (
	defaultInterval = time.Hour
	// defaultMinAge keeps the sweeper away from files belonging to requests
	// still in flight.
	defaultMinAge = 15 * time.Minute
)

// Sweeper periodically diffs the upload directory against the image paths
// referenced by users and places, deleting unreferenced files older than a
// grace period.
type Sweeper struct {
	dir      string
	interval time.Duration
	minAge   time.Duration
	users    ports.UserRepository
	places   ports.PlaceRepository
	log      zerolog.Logger
}

// NewSweeper creates a Sweeper over dir. Non-positive interval or minAge fall
// back to the defaults.
func NewSweeper(dir string, interval, minAge time.Duration, users ports.UserRepository, places ports.PlaceRepository, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	if minAge <= 0 {
		minAge = defaultMinAge
	}
	return &Sweeper{dir: dir, interval: interval, minAge: minAge, users: users, places: places, log: log}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := s.Sweep(ctx); err != nil {
					s.log.Error().Err(err).Msg("orphan sweep failed")
				} else if n > 0 {
					s.log.Info().Int("removed", n).Msg("orphan files swept")
				}
			}
		}
	}()
}

// Sweep runs a single pass and returns the number of files removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	referenced, err := s.referencedPaths(ctx)
	if err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read upload dir: %w", err)
	}

	removed := 0
	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if _, ok := referenced[filepath.Clean(path)]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil || now.Sub(info.ModTime()) < s.minAge {
			continue
		}

		if err := os.Remove(path); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("failed to remove orphan file")
			continue
		}
		metrics.OrphanFilesSweptTotal.Inc()
		s.log.Debug().Str("path", path).Msg("orphan file removed")
		removed++
	}
	return removed, nil
}

func (s *Sweeper) referencedPaths(ctx context.Context) (map[string]struct{}, error) {
	userPaths, err := s.users.ImagePaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("user image paths: %w", err)
	}
	placePaths, err := s.places.ImagePaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("place image paths: %w", err)
	}

	referenced := make(map[string]struct{}, len(userPaths)+len(placePaths))
	for _, p := range userPaths {
		referenced[filepath.Clean(p)] = struct{}{}
	}
	for _, p := range placePaths {
		referenced[filepath.Clean(p)] = struct{}{}
	}
	return referenced, nil
}
