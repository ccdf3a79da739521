package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Empty(t *testing.T) {
	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Empty(t, cfg.Storage.Records.Dir)
	assert.Empty(t, cfg.Storage.DB.DSN)
	assert.Zero(t, cfg.Editor.AutosaveInterval)
}

func TestParseEnv_AllFields(t *testing.T) {
	t.Setenv("STORAGE_RECORDS_DIR", "/tmp/records")
	t.Setenv("STORAGE_DB_DATABASE_URI", "/tmp/images.db")
	t.Setenv("EDITOR_AUTOSAVE_INTERVAL", "45s")
	t.Setenv("EDITOR_MIN_SAVE_INTERVAL", "2s")
	t.Setenv("EDITOR_HISTORY_DEBOUNCE", "250ms")
	t.Setenv("EDITOR_MAX_IMAGE_BYTES", "1048576")
	t.Setenv("EDITOR_MAX_IMAGE_DIMENSION", "800")
	t.Setenv("EDITOR_JPEG_QUALITY", "70")
	t.Setenv("EDITOR_UPLOAD_RETRIES", "5")
	t.Setenv("EDITOR_RETRY_BACKOFF", "500ms")
	t.Setenv("CONFIG", "/tmp/config.json")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "/tmp/records", cfg.Storage.Records.Dir)
	assert.Equal(t, "/tmp/images.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 45*time.Second, cfg.Editor.AutosaveInterval)
	assert.Equal(t, 2*time.Second, cfg.Editor.MinSaveInterval)
	assert.Equal(t, 250*time.Millisecond, cfg.Editor.HistoryDebounce)
	assert.Equal(t, int64(1048576), cfg.Editor.MaxImageBytes)
	assert.Equal(t, 800, cfg.Editor.MaxImageDimension)
	assert.Equal(t, 70, cfg.Editor.JPEGQuality)
	assert.Equal(t, 5, cfg.Editor.UploadRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Editor.RetryBackoff)
	assert.Equal(t, "/tmp/config.json", cfg.JSONFilePath)
}

func TestParseEnv_BadDuration(t *testing.T) {
	t.Setenv("EDITOR_AUTOSAVE_INTERVAL", "not-a-duration")

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}
