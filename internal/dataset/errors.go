// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("required column missing")

	// ErrUnsupportedColumn is returned when LoadRatings is asked for a column it cannot type.
	ErrUnsupportedColumn = errors.New("unsupported ratings column")

	// ErrMalformedValue is returned when a cell cannot be parsed into its column type.
	ErrMalformedValue = errors.New("malformed value")

	// ErrEmptyFile is returned when the file has no header row.
	ErrEmptyFile = errors.New("file has no header")
)

// DataLoadError reports a failure to load an input table.
// Line and Column are set when the failure is tied to a cell.
type DataLoadError struct {
	Path   string
	Column string
	Line   int
	Err    error
}

func (e *DataLoadError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("load %s: line %d column %q: %v", e.Path, e.Line, e.Column, e.Err)
	case e.Column != "":
		return fmt.Sprintf("load %s: column %q: %v", e.Path, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}
