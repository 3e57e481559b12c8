// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns the documented defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Preprocess.MinRatings != 400 {
		t.Errorf("Preprocess.MinRatings = %d, want 400", cfg.Preprocess.MinRatings)
	}
	if cfg.Preprocess.TestSize != 1000 {
		t.Errorf("Preprocess.TestSize = %d, want 1000", cfg.Preprocess.TestSize)
	}
	if cfg.Preprocess.Seed != 43 {
		t.Errorf("Preprocess.Seed = %d, want 43", cfg.Preprocess.Seed)
	}
	if cfg.Ingestion.MaxRatingRows != 5_000_000 {
		t.Errorf("Ingestion.MaxRatingRows = %d, want 5000000", cfg.Ingestion.MaxRatingRows)
	}
	if cfg.Paths.RatingsFile != "animelist.csv" {
		t.Errorf("Paths.RatingsFile = %q, want animelist.csv", cfg.Paths.RatingsFile)
	}
	if cfg.Ingestion.Source != "gcs" {
		t.Errorf("Ingestion.Source = %q, want gcs", cfg.Ingestion.Source)
	}
	if cfg.Warehouse.Enabled || cfg.CodebookIndex.Enabled || cfg.Metrics.Enabled {
		t.Error("optional sinks should be disabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() = %v, want nil", err)
	}
}

func TestPathsHelpers(t *testing.T) {
	p := PathsConfig{RawDir: "raw", RatingsFile: "r.csv", AnimeFile: "a.csv", SynopsisFile: "s.csv"}

	if got := p.RatingsPath(); got != filepath.Join("raw", "r.csv") {
		t.Errorf("RatingsPath() = %q", got)
	}
	if got := p.AnimePath(); got != filepath.Join("raw", "a.csv") {
		t.Errorf("AnimePath() = %q", got)
	}
	if got := p.SynopsisPath(); got != filepath.Join("raw", "s.csv") {
		t.Errorf("SynopsisPath() = %q", got)
	}
}

// TestLoadWithKoanf_FileAndEnv verifies precedence: env > file > defaults
func TestLoadWithKoanf_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
ingestion:
  source: local
  source_dir: /data/kaggle
paths:
  processed_dir: /tmp/processed
preprocess:
  min_ratings: 50
  test_size: 200
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TEST_SIZE", "25")
	t.Setenv("INGEST_TIMEOUT", "90s")
	t.Setenv("INGEST_FILES", "a.csv, b.csv")

	cfg, err := LoadWithKoanf(path)
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Ingestion.Source != "local" {
		t.Errorf("Ingestion.Source = %q, want local", cfg.Ingestion.Source)
	}
	if cfg.Ingestion.SourceDir != "/data/kaggle" {
		t.Errorf("Ingestion.SourceDir = %q", cfg.Ingestion.SourceDir)
	}
	if cfg.Paths.ProcessedDir != "/tmp/processed" {
		t.Errorf("Paths.ProcessedDir = %q", cfg.Paths.ProcessedDir)
	}
	if cfg.Paths.RawDir != "artifacts/raw" {
		t.Errorf("Paths.RawDir = %q, want default", cfg.Paths.RawDir)
	}
	if cfg.Preprocess.MinRatings != 50 {
		t.Errorf("Preprocess.MinRatings = %d, want 50 (file)", cfg.Preprocess.MinRatings)
	}
	if cfg.Preprocess.TestSize != 25 {
		t.Errorf("Preprocess.TestSize = %d, want 25 (env)", cfg.Preprocess.TestSize)
	}
	if cfg.Ingestion.Timeout != 90*time.Second {
		t.Errorf("Ingestion.Timeout = %v, want 90s", cfg.Ingestion.Timeout)
	}
	if strings.Join(cfg.Ingestion.Files, "|") != "a.csv|b.csv" {
		t.Errorf("Ingestion.Files = %v, want [a.csv b.csv]", cfg.Ingestion.Files)
	}
}

func TestLoadWithKoanf_MissingExplicitFile(t *testing.T) {
	_, err := LoadWithKoanf(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadWithKoanf() with missing explicit file should fail")
	}
}

func TestLoadWithKoanf_InvalidValue(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("MIN_RATINGS", "0")

	_, err := LoadWithKoanf("")
	if err == nil {
		t.Fatal("LoadWithKoanf() should reject min_ratings=0")
	}
	if !strings.Contains(err.Error(), "preprocess.min_ratings") {
		t.Errorf("error %q should name preprocess.min_ratings", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"GCS_BUCKET", "ingestion.bucket"},
		{"GCP_PROJECT_ID", "ingestion.project_id"},
		{"MIN_RATINGS", "preprocess.min_ratings"},
		{"SPLIT_SEED", "preprocess.seed"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestValidate_CrossField(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "columns missing rating",
			mutate:  func(c *Config) { c.Preprocess.Columns = []string{"user_id", "anime_id", "score"} },
			wantErr: `missing "rating"`,
		},
		{
			name:    "columns too many",
			mutate:  func(c *Config) { c.Preprocess.Columns = []string{"user_id", "anime_id", "rating", "x"} },
			wantErr: "exactly",
		},
		{
			name:    "codebook index without path",
			mutate:  func(c *Config) { c.CodebookIndex.Enabled = true; c.CodebookIndex.Path = "" },
			wantErr: "codebook_index.path",
		},
		{
			name:    "warehouse without path",
			mutate:  func(c *Config) { c.Warehouse.Enabled = true; c.Warehouse.Path = "" },
			wantErr: "warehouse.path",
		},
		{
			name:    "metrics without textfile",
			mutate:  func(c *Config) { c.Metrics.Enabled = true },
			wantErr: "metrics.textfile_path",
		},
		{
			name:    "bad source",
			mutate:  func(c *Config) { c.Ingestion.Source = "s3" },
			wantErr: "ingestion.source",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
