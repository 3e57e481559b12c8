// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"config/config.yaml",
	"config/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Ratings columns the loader understands.
const (
	ColumnUserID  = "user_id"
	ColumnAnimeID = "anime_id"
	ColumnRating  = "rating"
)

// defaultConfig returns a Config with every default applied.
// These defaults are loaded first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Ingestion: IngestionConfig{
			Source:        "gcs",
			Bucket:        "",
			Files:         []string{"anime.csv", "anime_with_synopsis.csv", "animelist.csv"},
			MaxRatingRows: 5_000_000,
			Timeout:       30 * time.Minute,
		},
		Paths: PathsConfig{
			RawDir:       "artifacts/raw",
			ProcessedDir: "artifacts/processed",
			RatingsFile:  "animelist.csv",
			AnimeFile:    "anime.csv",
			SynopsisFile: "anime_with_synopsis.csv",
		},
		Preprocess: PreprocessConfig{
			Columns:    []string{ColumnUserID, ColumnAnimeID, ColumnRating},
			MinRatings: 400,
			TestSize:   1000,
			Seed:       43,
			SortIDs:    false,
		},
		CodebookIndex: CodebookIndexConfig{
			Enabled:    false,
			Path:       "artifacts/codebooks",
			SyncWrites: true,
		},
		Warehouse: WarehouseConfig{
			Enabled:   false,
			Path:      "artifacts/warehouse.duckdb",
			MaxMemory: "2GB",
			Threads:   0,
		},
		Metrics: MetricsConfig{
			Enabled:      false,
			TextfilePath: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// Default returns the built-in configuration without consulting files or the environment.
func Default() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config File: path if non-empty, else the first of CONFIG_PATH / DefaultConfigPaths that exists
//  3. Environment Variables: override any mapped setting
//
// An explicit path that does not exist is an error; a missing default file is not.
func LoadWithKoanf(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// GCS_BUCKET -> ingestion.bucket, MIN_RATINGS -> preprocess.min_ratings
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"ingestion.files",
	"preprocess.columns",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Ingestion
	"ingest_source":           "ingestion.source",
	"gcs_bucket":              "ingestion.bucket",
	"gcp_project_id":          "ingestion.project_id",
	"google_credentials_file": "ingestion.credentials_file",
	"ingest_source_dir":       "ingestion.source_dir",
	"ingest_files":            "ingestion.files",
	"ingest_max_rating_rows":  "ingestion.max_rating_rows",
	"ingest_timeout":          "ingestion.timeout",

	// Paths
	"raw_dir":       "paths.raw_dir",
	"processed_dir": "paths.processed_dir",
	"ratings_file":  "paths.ratings_file",
	"anime_file":    "paths.anime_file",
	"synopsis_file": "paths.synopsis_file",

	// Preprocess
	"rating_columns": "preprocess.columns",
	"min_ratings":    "preprocess.min_ratings",
	"test_size":      "preprocess.test_size",
	"split_seed":     "preprocess.seed",
	"sort_ids":       "preprocess.sort_ids",

	// Codebook index
	"codebook_index_enabled": "codebook_index.enabled",
	"codebook_index_path":    "codebook_index.path",

	// Warehouse
	"warehouse_enabled":    "warehouse.enabled",
	"warehouse_path":       "warehouse.path",
	"warehouse_max_memory": "warehouse.max_memory",
	"warehouse_threads":    "warehouse.threads",

	// Metrics
	"metrics_enabled":  "metrics.enabled",
	"metrics_textfile": "metrics.textfile_path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped so unrelated environment
// does not leak into the config.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
