// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Field names reported in errors are
// taken from the koanf struct tag, so a failure on Config.Preprocess.TestSize
// is reported as "preprocess.test_size".
//
//	type PreprocessConfig struct {
//	    MinRatings int `koanf:"min_ratings" validate:"gte=1"`
//	}
//
//	if err := validation.ValidateStruct(cfg); err != nil {
//	    return fmt.Errorf("invalid config: %w", err)
//	}
package validation
