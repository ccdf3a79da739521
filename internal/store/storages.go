package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
)

// Storages groups both persistence backends into a single value that can be
// passed around the editor layer: the JSON-file record store for notes and
// categories, and the SQLite blob store for images.
type Storages struct {
	// Records is the key-based store holding the notes and category
	// collections.
	Records *RecordStore

	// Images is the transactional, content-addressed image repository.
	Images ImageRepository
}

// NewStorages initialises the storage layer using the supplied configuration
// and logger. It performs the following steps:
//  1. Opens the record store directory, seeding the built-in category list on
//     first run.
//  2. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  3. Runs pending schema migrations via [DB.Migrate].
//  4. Constructs and returns a [Storages] value wired to a fresh
//     [ImageRepository].
//
// Returns an error if either backend cannot be opened or if migration fails.
func NewStorages(cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	records, err := NewRecordStore(cfg.Records, logger)
	if err != nil {
		return nil, fmt.Errorf("record store init error: %w", err)
	}

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Records: records,
		Images:  NewImageRepository(db, logger),
	}, nil
}
