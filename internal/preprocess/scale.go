// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package preprocess

import (
	"math"

	"github.com/tomtom215/animeprep/internal/dataset"
)

// Range is the observed rating range before scaling.
type Range struct {
	Min float64
	Max float64
}

// ScaleRatings returns a copy of r with each rating mapped to
// (x-min)/(max-min), so the smallest rating becomes 0 and the largest 1.
//
// An empty table scales to an empty table. A NaN or infinite rating returns
// *NonFiniteRatingError, and a table whose ratings are all equal returns
// *DegenerateRangeError.
func ScaleRatings(r *dataset.Ratings) (*dataset.Ratings, Range, error) {
	out := &dataset.Ratings{
		UserID:  r.UserID,
		AnimeID: r.AnimeID,
		Rating:  make([]float64, len(r.Rating)),
	}
	if len(r.Rating) == 0 {
		return out, Range{}, nil
	}

	for i, v := range r.Rating {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, Range{}, &NonFiniteRatingError{Row: i, Value: v}
		}
	}

	rng := Range{Min: r.Rating[0], Max: r.Rating[0]}
	for _, v := range r.Rating[1:] {
		if v < rng.Min {
			rng.Min = v
		}
		if v > rng.Max {
			rng.Max = v
		}
	}
	if rng.Max == rng.Min {
		return nil, rng, &DegenerateRangeError{Value: rng.Min, Rows: len(r.Rating)}
	}

	span := rng.Max - rng.Min
	for i, v := range r.Rating {
		out.Rating[i] = (v - rng.Min) / span
	}
	return out, rng, nil
}
