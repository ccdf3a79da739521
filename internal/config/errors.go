package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when the merged
// configuration is incomplete or inconsistent.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings (for
	// example, an empty record store directory after defaulting).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidEditorConfigs indicates invalid editor settings (for
	// example, a negative save interval or a JPEG quality out of range).
	ErrInvalidEditorConfigs = errors.New("invalid editor configuration")
)
