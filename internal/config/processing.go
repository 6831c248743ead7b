// Package config loads processing configuration from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ProcessingConfig holds optional overrides for a processing run. All
// fields are pointers so a partial config file only overrides what it
// names; nil fields keep their defaults.
type ProcessingConfig struct {
	// ProgressEvery is the number of depth records between progress log
	// lines.
	ProgressEvery *int `json:"progress_every,omitempty"`

	// DBPath, when set, enables sqlite export of the finished dataset.
	DBPath *string `json:"db_path,omitempty"`

	// Quiet suppresses per-column summary output.
	Quiet *bool `json:"quiet,omitempty"`
}

// LoadProcessingConfig loads a ProcessingConfig from a JSON file. The file
// must have a .json extension and stay under the size cap; fields omitted
// from the file retain their defaults, so partial configs are safe.
func LoadProcessingConfig(path string) (*ProcessingConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ProcessingConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}
