package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.applyDefaults()

	assert.Equal(t, DefaultRecordsDir, cfg.Storage.Records.Dir)
	assert.Equal(t, "note-data/images.db", cfg.Storage.DB.DSN)
	assert.Equal(t, DefaultAutosaveInterval, cfg.Editor.AutosaveInterval)
	assert.Equal(t, DefaultMinSaveInterval, cfg.Editor.MinSaveInterval)
	assert.Equal(t, DefaultHistoryDebounce, cfg.Editor.HistoryDebounce)
	assert.Equal(t, int64(DefaultMaxImageBytes), cfg.Editor.MaxImageBytes)
	assert.Equal(t, DefaultMaxImageDimension, cfg.Editor.MaxImageDimension)
	assert.Equal(t, DefaultJPEGQuality, cfg.Editor.JPEGQuality)
	assert.Equal(t, DefaultUploadRetries, cfg.Editor.UploadRetries)
	assert.Equal(t, DefaultRetryBackoff, cfg.Editor.RetryBackoff)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.Storage.Records.Dir = "/custom"
	cfg.Editor.AutosaveInterval = 5 * time.Minute
	cfg.applyDefaults()

	assert.Equal(t, "/custom", cfg.Storage.Records.Dir)
	assert.Equal(t, "/custom/images.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 5*time.Minute, cfg.Editor.AutosaveInterval)
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.applyDefaults()
	require.NoError(t, cfg.validate())
}

func TestValidate_RejectsNegativeInterval(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.applyDefaults()
	cfg.Editor.MinSaveInterval = -time.Second

	err := cfg.validate()
	require.ErrorIs(t, err, ErrInvalidEditorConfigs)
}

func TestValidate_RejectsBadJPEGQuality(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.applyDefaults()
	cfg.Editor.JPEGQuality = 101

	err := cfg.validate()
	require.ErrorIs(t, err, ErrInvalidEditorConfigs)
}

func TestBuilder_ErrorIsPropagated(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	_, err := b.build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error occured during building config")
}
