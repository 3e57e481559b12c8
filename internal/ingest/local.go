// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalFetcher copies raw files from a directory. Used for offline runs.
type LocalFetcher struct {
	sourceDir string
	opts      Options
}

// NewLocalFetcher creates a LocalFetcher reading from sourceDir.
func NewLocalFetcher(sourceDir string, opts Options) *LocalFetcher {
	return &LocalFetcher{sourceDir: sourceDir, opts: opts}
}

// Fetch copies sourceDir/name into the raw directory.
func (f *LocalFetcher) Fetch(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := os.Open(filepath.Join(f.sourceDir, name)) //nolint:gosec // operator-configured source directory
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = src.Close() }()

	return writeRaw(f.opts.RawDir, name, src, f.opts.rowLimit(name))
}

// Close is a no-op.
func (f *LocalFetcher) Close() error {
	return nil
}
