package models

import (
	"crypto/sha256"
	"encoding/hex"
)

// Image is a binary image blob persisted by the blob store. Images are
// content-addressed: ID is the SHA-256 hex digest of the originally uploaded
// bytes, so selecting the same file twice naturally deduplicates.
type Image struct {
	// ID is the content hash of the original upload.
	ID string `json:"id"`

	// Data is the compressed image encoded as a base64 data URL, ready to be
	// placed into an img src attribute.
	Data string `json:"data"`

	// Timestamp is the creation time in unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// ContentHash returns the SHA-256 hex digest of data. It is the canonical
// image id derivation.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
