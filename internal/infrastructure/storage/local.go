// Package storage implements the upload lifecycle: validated writes of image
// files into a local directory and best-effort removal. File writes are not
// transactional with the database; callers roll back via Remove when the
// database mutation that follows an accepted upload fails.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/placesdir/places-api/internal/api/metrics"
	"github.com/placesdir/places-api/internal/core/domain"
)

// mimeExtensions is the image allow-list; anything else is rejected before a
// single byte is written.
var mimeExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// LocalStore writes uploads to a fixed directory on the local filesystem.
type LocalStore struct {
	dir      string
	maxBytes int64
	log      zerolog.Logger
}

// NewLocalStore creates the upload directory if needed and returns the store.
func NewLocalStore(dir string, maxBytes int64, log zerolog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes, log: log}, nil
}

// Save validates the declared MIME type, enforces the byte ceiling, and
// writes the stream under a time-ordered unique filename. It returns the
// stored path relative to the process working directory.
func (s *LocalStore) Save(r io.Reader, declaredMIME string) (string, error) {
	ext, ok := mimeExtensions[declaredMIME]
	if !ok {
		metrics.UploadsRejectedTotal.WithLabelValues("unsupported_media").Inc()
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, declaredMIME)
	}

	id, err := uuid.NewUUID() // version 1: time-ordered
	if err != nil {
		return "", fmt.Errorf("generate filename: %w", err)
	}
	path := filepath.Join(s.dir, id.String()+"."+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	// Copy one byte past the ceiling so an oversized stream is detectable
	// without buffering it whole.
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()

	switch {
	case err != nil:
		s.discard(path)
		return "", fmt.Errorf("write upload: %w", err)
	case closeErr != nil:
		s.discard(path)
		return "", fmt.Errorf("write upload: %w", closeErr)
	case written > s.maxBytes:
		s.discard(path)
		metrics.UploadsRejectedTotal.WithLabelValues("payload_too_large").Inc()
		return "", fmt.Errorf("%w: limit %d bytes", domain.ErrPayloadTooLarge, s.maxBytes)
	}

	return path, nil
}

// Remove deletes a stored file best-effort. A failure is logged and counted
// but never escalates: it must not mask the error that triggered the
// rollback, and it must not fail a user-visible delete.
func (s *LocalStore) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return
		}
		metrics.ImageCleanupFailuresTotal.Inc()
		s.log.Warn().Err(err).Str("path", path).Msg("image cleanup failed")
	}
}

// discard removes a partially written file after a failed Save.
func (s *LocalStore) discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("path", path).Msg("failed to discard partial upload")
	}
}
