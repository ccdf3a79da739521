package store

import (
	"database/sql"
	"sync"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger

	migrateOnce sync.Once
	migrateErr  error
}

// Migrate applies pending schema migrations. Repeated and concurrent calls
// share a single migration run per open handle.
func (db *DB) Migrate() error {
	db.migrateOnce.Do(func() {
		db.migrateErr = migrations.Migrate(db.DB)
	})

	return db.migrateErr
}
