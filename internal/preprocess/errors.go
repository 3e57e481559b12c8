// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package preprocess

import (
	"fmt"
	"math"
)

// DegenerateRangeError is returned by ScaleRatings when every rating has the
// same value, which leaves min-max scaling undefined.
type DegenerateRangeError struct {
	Value float64
	Rows  int
}

func (e *DegenerateRangeError) Error() string {
	return fmt.Sprintf("cannot scale ratings: all %d ratings equal %g", e.Rows, e.Value)
}

// NonFiniteRatingError is returned by ScaleRatings when a rating is NaN or
// infinite. Row is the zero-based position in the input table.
type NonFiniteRatingError struct {
	Row   int
	Value float64
}

func (e *NonFiniteRatingError) Error() string {
	kind := "infinite"
	if math.IsNaN(e.Value) {
		kind = "NaN"
	}
	return fmt.Sprintf("cannot scale ratings: row %d has %s rating", e.Row, kind)
}

// InsufficientDataError is returned by ShuffleSplit when the table has fewer
// rows than the requested test partition.
type InsufficientDataError struct {
	Rows     int
	TestSize int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d rows, test partition needs %d", e.Rows, e.TestSize)
}
