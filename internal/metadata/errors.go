// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDisplayName means neither the English name nor the name is present.
	ErrNoDisplayName = errors.New("no english name or name")

	// ErrInvalidID means MAL_ID is missing or not an integer.
	ErrInvalidID = errors.New("missing or invalid MAL_ID")
)

// ResolutionError describes a metadata row that was skipped.
// It is collected, not returned: one bad row never fails the stage.
type ResolutionError struct {
	// AnimeID is the row's MAL_ID, or the raw cell when it did not parse.
	AnimeID string
	// Row is the 1-based data row in the attributes file.
	Row int
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("anime %q (row %d): %v", e.AnimeID, e.Row, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
