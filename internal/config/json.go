package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Storage struct {
		Records struct {
			Dir string `json:"dir"`
		} `json:"records,omitempty"`

		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Editor struct {
		AutosaveInterval  Duration `json:"autosave_interval"`
		MinSaveInterval   Duration `json:"min_save_interval"`
		HistoryDebounce   Duration `json:"history_debounce"`
		MaxImageBytes     int64    `json:"max_image_bytes"`
		MaxImageDimension int      `json:"max_image_dimension"`
		JPEGQuality       int      `json:"jpeg_quality"`
		UploadRetries     int      `json:"upload_retries"`
		RetryBackoff      Duration `json:"retry_backoff"`
	} `json:"editor,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Storage: Storage{
			Records: Records{
				Dir: jsonCfg.Storage.Records.Dir,
			},
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Editor: Editor{
			AutosaveInterval:  time.Duration(jsonCfg.Editor.AutosaveInterval),
			MinSaveInterval:   time.Duration(jsonCfg.Editor.MinSaveInterval),
			HistoryDebounce:   time.Duration(jsonCfg.Editor.HistoryDebounce),
			MaxImageBytes:     jsonCfg.Editor.MaxImageBytes,
			MaxImageDimension: jsonCfg.Editor.MaxImageDimension,
			JPEGQuality:       jsonCfg.Editor.JPEGQuality,
			UploadRetries:     jsonCfg.Editor.UploadRetries,
			RetryBackoff:      time.Duration(jsonCfg.Editor.RetryBackoff),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
