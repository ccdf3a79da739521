// Package config loads and merges the go-note-keeper configuration from
// environment variables, command-line flags and an optional JSON file.
//
// The three sources are merged with mergo (first non-zero value wins in the
// order env, flags, JSON), then defaults are applied for everything still
// unset and the result is validated. [GetConfig] is the single entry point.
package config
