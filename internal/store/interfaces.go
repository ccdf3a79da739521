package store

import (
	"context"

	"github.com/MKhiriev/go-note-keeper/models"
)

// ImageRepository is the transactional, content-addressed blob store for
// editor images. The image id is the SHA-256 hex digest of the compressed
// payload, so storing the same bytes twice yields a single row.
type ImageRepository interface {
	// Add persists the image inside a transaction and returns its id.
	// Adding an image whose id is already present is a no-op that still
	// succeeds, preserving the original row.
	Add(ctx context.Context, image models.Image) (string, error)

	// Get returns the image stored under id, or ErrImageNotFound.
	Get(ctx context.Context, id string) (models.Image, error)

	// Delete removes the image stored under id. The boolean reports whether
	// a row was actually deleted.
	Delete(ctx context.Context, id string) (bool, error)
}

// IDGenerator produces unique string identifiers for new records.
type IDGenerator interface {
	Generate() string
}
