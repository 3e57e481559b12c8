// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package config

import (
	"path/filepath"
	"time"
)

// Config holds all pipeline configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (config.yaml, config/config.yaml or CONFIG_PATH)
//  3. Environment Variables: explicit mappings in envTransformFunc
//
// A *Config is built once by the CLI and passed to every component
// constructor. Components never read files or environment themselves.
type Config struct {
	Ingestion     IngestionConfig     `koanf:"ingestion"`
	Paths         PathsConfig         `koanf:"paths"`
	Preprocess    PreprocessConfig    `koanf:"preprocess"`
	CodebookIndex CodebookIndexConfig `koanf:"codebook_index"`
	Warehouse     WarehouseConfig     `koanf:"warehouse"`
	Metrics       MetricsConfig       `koanf:"metrics"`
	Logging       LoggingConfig       `koanf:"logging"`
}

// IngestionConfig controls how raw CSV files are fetched.
type IngestionConfig struct {
	// Source selects the fetcher: "gcs" downloads from a bucket, "local"
	// copies from SourceDir.
	Source string `koanf:"source" validate:"oneof=gcs local"`

	// Bucket is the GCS bucket name. Required when Source is "gcs".
	Bucket string `koanf:"bucket"`

	// ProjectID is the quota project: the GCP project charged for API quota
	// and billing of requests, sent as X-Goog-User-Project. It does not select
	// the bucket, which is addressed by name alone. Optional.
	ProjectID string `koanf:"project_id"`

	// CredentialsFile points at a service account JSON key. When empty the
	// client uses Application Default Credentials.
	CredentialsFile string `koanf:"credentials_file"`

	// SourceDir is the directory copied from when Source is "local".
	SourceDir string `koanf:"source_dir"`

	// Files lists the object names to fetch, in order.
	Files []string `koanf:"files" validate:"min=1,dive,required"`

	// MaxRatingRows truncates the ratings file to this many data rows at
	// fetch time. 0 disables truncation.
	MaxRatingRows int `koanf:"max_rating_rows" validate:"gte=0"`

	// Timeout bounds a single object download.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
}

// PathsConfig holds input and output locations.
type PathsConfig struct {
	// RawDir receives fetched files and is read by the loader.
	RawDir string `koanf:"raw_dir" validate:"required"`

	// ProcessedDir receives all committed artifacts.
	ProcessedDir string `koanf:"processed_dir" validate:"required"`

	// RatingsFile is the ratings CSV name inside RawDir.
	RatingsFile string `koanf:"ratings_file" validate:"required"`

	// AnimeFile is the item attributes CSV name inside RawDir.
	AnimeFile string `koanf:"anime_file" validate:"required"`

	// SynopsisFile is the synopsis CSV name inside RawDir.
	SynopsisFile string `koanf:"synopsis_file" validate:"required"`
}

// RatingsPath returns the full path of the raw ratings file.
func (p PathsConfig) RatingsPath() string {
	return filepath.Join(p.RawDir, p.RatingsFile)
}

// AnimePath returns the full path of the raw item attributes file.
func (p PathsConfig) AnimePath() string {
	return filepath.Join(p.RawDir, p.AnimeFile)
}

// SynopsisPath returns the full path of the raw synopsis file.
func (p PathsConfig) SynopsisPath() string {
	return filepath.Join(p.RawDir, p.SynopsisFile)
}

// PreprocessConfig holds encoder/partitioner parameters.
type PreprocessConfig struct {
	// Columns are the ratings columns loaded, in order.
	Columns []string `koanf:"columns" validate:"min=3,dive,required"`

	// MinRatings is the minimum number of ratings a user needs to be kept.
	// Default: 400
	MinRatings int `koanf:"min_ratings" validate:"gte=1"`

	// TestSize is the number of rows held out as the test partition.
	// Default: 1000
	TestSize int `koanf:"test_size" validate:"gte=1"`

	// Seed drives the shuffle before splitting.
	// Default: 43
	Seed int64 `koanf:"seed"`

	// SortIDs assigns dense indices in ascending external-id order instead
	// of first-seen order.
	SortIDs bool `koanf:"sort_ids"`
}

// CodebookIndexConfig controls the BadgerDB copy of the codebooks.
type CodebookIndexConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"`
	SyncWrites bool   `koanf:"sync_writes"`
}

// WarehouseConfig controls the optional DuckDB export of committed tables.
type WarehouseConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"gte=0"` // 0 = use runtime.NumCPU()
}

// MetricsConfig controls the Prometheus textfile written at the end of a run.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`

	// TextfilePath is where the node_exporter textfile collector picks up
	// the run's metrics, e.g. /var/lib/node_exporter/animeprep.prom.
	TextfilePath string `koanf:"textfile_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`

	// Format is the output format: json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load loads configuration from the default config file locations and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf("")
}
