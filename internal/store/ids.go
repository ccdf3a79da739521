package store

import "github.com/google/uuid"

// UUIDGenerator issues UUIDv7 identifiers so that freshly created notes and
// categories sort by creation time. Falls back to a random UUID if the
// monotonic source fails.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
