package ports

import "io"

// FileStore persists uploaded images and disposes of them again.
type FileStore interface {
	// Save validates the declared MIME type against the image allow-list,
	// enforces the byte-size ceiling, and writes the stream under a
	// collision-resistant name. It returns the stored path.
	Save(r io.Reader, declaredMIME string) (string, error)
	// Remove deletes a stored file best-effort. Failures are logged by the
	// implementation and never returned.
	Remove(path string)
}
