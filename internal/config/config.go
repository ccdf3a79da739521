// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-note-keeper application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Storage holds configuration for both persistence backends: the
	// JSON-file record store and the SQLite blob store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Editor holds tuning knobs for the editor core: autosave cadence,
	// undo history debounce, and image upload limits.
	Editor Editor `envPrefix:"EDITOR_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration for all storage backends used by the
// application.
type Storage struct {
	// Records holds the JSON-file record store settings.
	Records Records `envPrefix:"RECORDS_"`

	// DB holds the SQLite blob store connection settings.
	DB DB `envPrefix:"DB_"`
}

// Records holds settings for the key-based record store that persists notes
// and categories.
type Records struct {
	// Dir is the directory in which the record store keeps one JSON file per
	// well-known key ("notes", "categories").
	// Env: STORAGE_RECORDS_DIR
	Dir string `env:"DIR"`
}

// DB holds connection settings for the SQLite blob store backend.
type DB struct {
	// DSN is the SQLite file path (or DSN) used to open the image database
	// (e.g. "note-data/images.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Editor holds tuning knobs for the editor core. All durations and limits
// receive defaults during validation when left unset.
type Editor struct {
	// AutosaveInterval is the cadence of the periodic forced save that runs
	// regardless of debounce state (durability backstop).
	// Env: EDITOR_AUTOSAVE_INTERVAL
	AutosaveInterval time.Duration `env:"AUTOSAVE_INTERVAL"`

	// MinSaveInterval is the minimum gap between two completed saves;
	// change-triggered saves arriving earlier are deferred and coalesced.
	// Env: EDITOR_MIN_SAVE_INTERVAL
	MinSaveInterval time.Duration `env:"MIN_SAVE_INTERVAL"`

	// HistoryDebounce is the quiet period after a content change before a
	// snapshot is recorded on the undo stack.
	// Env: EDITOR_HISTORY_DEBOUNCE
	HistoryDebounce time.Duration `env:"HISTORY_DEBOUNCE"`

	// MaxImageBytes is the upload size limit for a single image.
	// Env: EDITOR_MAX_IMAGE_BYTES
	MaxImageBytes int64 `env:"MAX_IMAGE_BYTES"`

	// MaxImageDimension caps both width and height of stored images; larger
	// uploads are downscaled preserving aspect ratio.
	// Env: EDITOR_MAX_IMAGE_DIMENSION
	MaxImageDimension int `env:"MAX_IMAGE_DIMENSION"`

	// JPEGQuality is the re-encoding quality used when compressing uploads.
	// Env: EDITOR_JPEG_QUALITY
	JPEGQuality int `env:"JPEG_QUALITY"`

	// UploadRetries is how many times a failed image persist is retried
	// before the upload is abandoned.
	// Env: EDITOR_UPLOAD_RETRIES
	UploadRetries int `env:"UPLOAD_RETRIES"`

	// RetryBackoff is the base delay of the linearly increasing retry
	// backoff (1×, 2×, 3×, ...).
	// Env: EDITOR_RETRY_BACKOFF
	RetryBackoff time.Duration `env:"RETRY_BACKOFF"`
}

// GetConfig loads, merges, and validates the application configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
