// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

// Package dataset loads the raw CSV inputs of the pipeline.
//
// LoadRatings streams the ratings file into three typed columns, keeping only
// user_id, anime_id and rating. ReadFrame loads the smaller metadata files as
// string tables. Both preserve file row order and report every failure as a
// *DataLoadError carrying the path and, where known, the column and line.
//
//	ratings, err := dataset.LoadRatings(cfg.Paths.RatingsPath(), cfg.Preprocess.Columns)
//	var dle *dataset.DataLoadError
//	if errors.As(err, &dle) && errors.Is(err, dataset.ErrMissingColumn) {
//	    // dle.Column names the absent column
//	}
package dataset
