package config

import (
	"flag"
	"time"
)

// parseFlags parses configuration flags from args into a fresh
// [StructuredConfig]. A dedicated flag.FlagSet is used instead of the global
// one so the function can be exercised repeatedly in tests.
//
// Flags:
//
//	-records-dir record store directory
//	-d database DSN (SQLite file path)
//	-c/-config json file path with configs
//	-autosave-interval periodic forced-save cadence (e.g., "60s")
//	-min-save-interval minimum gap between saves (e.g., "1s")
//	-history-debounce undo snapshot quiet period (e.g., "300ms")
//	-max-image-bytes image upload size limit
//	-max-image-dimension image downscale bound in pixels
//	-jpeg-quality re-encoding quality (1-100)
//	-upload-retries image persist retry count
//	-retry-backoff base retry delay (e.g., "1s")
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-note-keeper", flag.ContinueOnError)

	var recordsDir string
	var databaseDSN string
	var jsonConfigPath string
	var autosaveInterval time.Duration
	var minSaveInterval time.Duration
	var historyDebounce time.Duration
	var maxImageBytes int64
	var maxImageDimension int
	var jpegQuality int
	var uploadRetries int
	var retryBackoff time.Duration

	fs.StringVar(&recordsDir, "records-dir", "", "Record store directory")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.DurationVar(&autosaveInterval, "autosave-interval", 0, "Periodic autosave interval (e.g., 60s)")
	fs.DurationVar(&minSaveInterval, "min-save-interval", 0, "Minimum interval between saves (e.g., 1s)")
	fs.DurationVar(&historyDebounce, "history-debounce", 0, "Undo snapshot quiet period (e.g., 300ms)")
	fs.Int64Var(&maxImageBytes, "max-image-bytes", 0, "Image upload size limit in bytes")
	fs.IntVar(&maxImageDimension, "max-image-dimension", 0, "Image downscale bound in pixels")
	fs.IntVar(&jpegQuality, "jpeg-quality", 0, "JPEG re-encoding quality (1-100)")
	fs.IntVar(&uploadRetries, "upload-retries", 0, "Image persist retry count")
	fs.DurationVar(&retryBackoff, "retry-backoff", 0, "Base retry delay (e.g., 1s)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		Storage: Storage{
			Records: Records{
				Dir: recordsDir,
			},
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Editor: Editor{
			AutosaveInterval:  autosaveInterval,
			MinSaveInterval:   minSaveInterval,
			HistoryDebounce:   historyDebounce,
			MaxImageBytes:     maxImageBytes,
			MaxImageDimension: maxImageDimension,
			JPEGQuality:       jpegQuality,
			UploadRetries:     uploadRetries,
			RetryBackoff:      retryBackoff,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
