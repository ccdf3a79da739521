// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"path/filepath"
	"time"
)

// Default values applied by applyDefaults for every field left unset by all
// configuration sources. They mirror the behaviour of the original editor:
// 60s periodic autosave, 1s minimum save gap, 300ms undo debounce, 5 MiB
// upload limit, 1200px downscale bound, quality-80 JPEG re-encoding and a
// three-attempt linear retry starting at 1s.
const (
	DefaultRecordsDir        = "note-data"
	DefaultAutosaveInterval  = 60 * time.Second
	DefaultMinSaveInterval   = time.Second
	DefaultHistoryDebounce   = 300 * time.Millisecond
	DefaultMaxImageBytes     = 5 << 20
	DefaultMaxImageDimension = 1200
	DefaultJPEGQuality       = 80
	DefaultUploadRetries     = 3
	DefaultRetryBackoff      = time.Second
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Storage.Records.Dir == "" {
		cfg.Storage.Records.Dir = DefaultRecordsDir
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = filepath.Join(cfg.Storage.Records.Dir, "images.db")
	}

	e := &cfg.Editor
	if e.AutosaveInterval == 0 {
		e.AutosaveInterval = DefaultAutosaveInterval
	}
	if e.MinSaveInterval == 0 {
		e.MinSaveInterval = DefaultMinSaveInterval
	}
	if e.HistoryDebounce == 0 {
		e.HistoryDebounce = DefaultHistoryDebounce
	}
	if e.MaxImageBytes == 0 {
		e.MaxImageBytes = DefaultMaxImageBytes
	}
	if e.MaxImageDimension == 0 {
		e.MaxImageDimension = DefaultMaxImageDimension
	}
	if e.JPEGQuality == 0 {
		e.JPEGQuality = DefaultJPEGQuality
	}
	if e.UploadRetries == 0 {
		e.UploadRetries = DefaultUploadRetries
	}
	if e.RetryBackoff == 0 {
		e.RetryBackoff = DefaultRetryBackoff
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. It runs after
// applyDefaults, so zero values have already been filled in; only actively
// invalid settings remain to be rejected.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.Records.Dir == "" || cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	e := cfg.Editor
	if e.AutosaveInterval < 0 || e.MinSaveInterval < 0 || e.HistoryDebounce < 0 || e.RetryBackoff < 0 {
		return ErrInvalidEditorConfigs
	}
	if e.MaxImageBytes < 0 || e.MaxImageDimension < 0 || e.UploadRetries < 0 {
		return ErrInvalidEditorConfigs
	}
	if e.JPEGQuality < 1 || e.JPEGQuality > 100 {
		return ErrInvalidEditorConfigs
	}

	return nil
}
