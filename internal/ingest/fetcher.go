// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/animeprep/internal/config"
	"github.com/tomtom215/animeprep/internal/logging"
)

var (
	// ErrMissingBucket is returned when the gcs source has no bucket configured.
	ErrMissingBucket = errors.New("ingestion.bucket is required for the gcs source")

	// ErrMissingSourceDir is returned when the local source has no directory configured.
	ErrMissingSourceDir = errors.New("ingestion.source_dir is required for the local source")

	// ErrUnknownSource is returned for an unsupported ingestion.source.
	ErrUnknownSource = errors.New("unknown ingestion source")
)

// Fetcher makes a named raw file available on local disk.
type Fetcher interface {
	// Fetch stores the object name under the raw directory and returns its path.
	Fetch(ctx context.Context, name string) (string, error)
	Close() error
}

// Options are shared by all fetchers.
type Options struct {
	// RawDir receives fetched files.
	RawDir string
	// RatingsFile is the object truncated to MaxRatingRows.
	RatingsFile string
	// MaxRatingRows caps the data rows kept from RatingsFile. 0 keeps all.
	MaxRatingRows int
	// Timeout bounds a single fetch. 0 means no limit.
	Timeout time.Duration
}

// OptionsFromConfig extracts fetcher options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		RawDir:        cfg.Paths.RawDir,
		RatingsFile:   cfg.Paths.RatingsFile,
		MaxRatingRows: cfg.Ingestion.MaxRatingRows,
		Timeout:       cfg.Ingestion.Timeout,
	}
}

// rowLimit returns the truncation limit for name.
func (o Options) rowLimit(name string) int {
	if name == o.RatingsFile {
		return o.MaxRatingRows
	}
	return 0
}

// NewFetcher builds the fetcher selected by cfg.Ingestion.Source.
func NewFetcher(ctx context.Context, cfg *config.Config) (Fetcher, error) {
	opts := OptionsFromConfig(cfg)
	switch cfg.Ingestion.Source {
	case "gcs":
		if cfg.Ingestion.Bucket == "" {
			return nil, ErrMissingBucket
		}
		f, err := NewGCSFetcher(ctx, cfg.Ingestion.Bucket, cfg.Ingestion.ProjectID, cfg.Ingestion.CredentialsFile, opts)
		if err != nil {
			return nil, err
		}
		return f, nil
	case "local":
		if cfg.Ingestion.SourceDir == "" {
			return nil, ErrMissingSourceDir
		}
		return NewLocalFetcher(cfg.Ingestion.SourceDir, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Ingestion.Source)
	}
}

// Ingest fetches every name in order and returns the local paths.
// The first failure stops ingestion; there are no retries.
func Ingest(ctx context.Context, f Fetcher, names []string) ([]string, error) {
	log := logging.Ctx(ctx)
	paths := make([]string, 0, len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		start := time.Now()
		path, err := f.Fetch(ctx, name)
		if err != nil {
			return paths, fmt.Errorf("fetch %s: %w", name, err)
		}
		log.Info().Str("file", name).Str("path", path).Dur("duration", time.Since(start)).Msg("Fetched raw file")
		paths = append(paths, path)
	}
	return paths, nil
}
