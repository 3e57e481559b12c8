// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package config

import (
	"fmt"
	"slices"

	"github.com/tomtom215/animeprep/internal/validation"
)

// Validate checks struct tags first, then the cross-field rules tags cannot express.
//
// Ingestion credentials (bucket, source_dir) are not checked here: they are
// only needed by the ingest stage and are validated when a fetcher is built.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateColumns(); err != nil {
		return err
	}

	if err := c.validateCodebookIndex(); err != nil {
		return err
	}

	if err := c.validateWarehouse(); err != nil {
		return err
	}

	return c.validateMetrics()
}

// validateColumns requires the ratings columns to be exactly user_id, anime_id and rating, in any order.
func (c *Config) validateColumns() error {
	cols := c.Preprocess.Columns
	if len(cols) != 3 {
		return fmt.Errorf("preprocess.columns must list exactly %s, %s and %s", ColumnUserID, ColumnAnimeID, ColumnRating)
	}
	for _, want := range []string{ColumnUserID, ColumnAnimeID, ColumnRating} {
		if !slices.Contains(cols, want) {
			return fmt.Errorf("preprocess.columns is missing %q", want)
		}
	}
	return nil
}

func (c *Config) validateCodebookIndex() error {
	if c.CodebookIndex.Enabled && c.CodebookIndex.Path == "" {
		return fmt.Errorf("codebook_index.path is required when codebook_index.enabled=true")
	}
	return nil
}

func (c *Config) validateWarehouse() error {
	if !c.Warehouse.Enabled {
		return nil
	}
	if c.Warehouse.Path == "" {
		return fmt.Errorf("warehouse.path is required when warehouse.enabled=true")
	}
	if c.Warehouse.MaxMemory == "" {
		return fmt.Errorf("warehouse.max_memory is required when warehouse.enabled=true")
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Enabled && c.Metrics.TextfilePath == "" {
		return fmt.Errorf("metrics.textfile_path is required when metrics.enabled=true")
	}
	return nil
}
