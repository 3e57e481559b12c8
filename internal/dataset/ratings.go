// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package dataset

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Ratings column names.
const (
	ColumnUserID  = "user_id"
	ColumnAnimeID = "anime_id"
	ColumnRating  = "rating"
)

// DefaultRatingColumns is the column set the encoder needs.
var DefaultRatingColumns = []string{ColumnUserID, ColumnAnimeID, ColumnRating}

// Ratings is a columnar ratings table. The three slices always have equal length
// and row i is (UserID[i], AnimeID[i], Rating[i]).
type Ratings struct {
	UserID  []int64
	AnimeID []int64
	Rating  []float64
}

// Len returns the number of rows.
func (r *Ratings) Len() int {
	return len(r.UserID)
}

// LoadRatings reads the ratings CSV at path, keeping only columns, in file row order.
//
// Records are streamed with a reused buffer so peak memory is the three typed
// columns plus one record. Every column must be one of user_id, anime_id or
// rating, all three are required, and each must appear in the header.
func LoadRatings(path string, columns []string) (*Ratings, error) {
	for _, col := range columns {
		switch col {
		case ColumnUserID, ColumnAnimeID, ColumnRating:
		default:
			return nil, &DataLoadError{Path: path, Column: col, Err: ErrUnsupportedColumn}
		}
	}
	if len(columns) == 0 {
		columns = DefaultRatingColumns
	}

	src, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	pos, err := src.positions(columns)
	if err != nil {
		return nil, err
	}

	userPos, animePos, ratingPos := -1, -1, -1
	for i, col := range columns {
		switch col {
		case ColumnUserID:
			userPos = pos[i]
		case ColumnAnimeID:
			animePos = pos[i]
		case ColumnRating:
			ratingPos = pos[i]
		}
	}

	for i, p := range []int{userPos, animePos, ratingPos} {
		if p < 0 {
			return nil, &DataLoadError{Path: path, Column: DefaultRatingColumns[i], Err: ErrMissingColumn}
		}
	}

	out := &Ratings{}
	for {
		rec, err := src.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Path: path, Err: err}
		}

		user, err := parseInt(rec[userPos])
		if err != nil {
			return nil, &DataLoadError{Path: path, Column: ColumnUserID, Line: src.line(), Err: err}
		}
		anime, err := parseInt(rec[animePos])
		if err != nil {
			return nil, &DataLoadError{Path: path, Column: ColumnAnimeID, Line: src.line(), Err: err}
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(rec[ratingPos]), 64)
		if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
			return nil, &DataLoadError{Path: path, Column: ColumnRating, Line: src.line(), Err: fmt.Errorf("%w: %q", ErrMalformedValue, rec[ratingPos])}
		}

		out.UserID = append(out.UserID, user)
		out.AnimeID = append(out.AnimeID, anime)
		out.Rating = append(out.Rating, rating)
	}

	return out, nil
}

func parseInt(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedValue, s)
	}
	return v, nil
}
