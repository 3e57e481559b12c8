// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package metadata

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tomtom215/animeprep/internal/dataset"
)

// MissingMarker is the placeholder the source uses for absent values.
const MissingMarker = "Unknown"

// Attribute file columns.
const (
	ColumnMALID       = "MAL_ID"
	ColumnName        = "Name"
	ColumnEnglishName = "English name"
	ColumnScore       = "Score"
	ColumnGenres      = "Genres"
	ColumnEpisodes    = "Episodes"
	ColumnType        = "Type"
	ColumnPremiered   = "Premiered"
	ColumnMembers     = "Members"
	ColumnSynopsis    = "sypnopsis"
)

// AttributeColumns are read from the attributes file.
var AttributeColumns = []string{
	ColumnMALID, ColumnName, ColumnEnglishName, ColumnScore, ColumnGenres,
	ColumnEpisodes, ColumnType, ColumnPremiered, ColumnMembers,
}

// SynopsisColumns are projected from the synopsis file.
var SynopsisColumns = []string{ColumnMALID, ColumnName, ColumnGenres, ColumnSynopsis}

// ProjectionColumns is the header of anime_df.csv.
var ProjectionColumns = []string{
	"anime_id", "eng_version", "Score", "Genres", "Episodes", "Type", "Premiered", "Members",
}

// Row is one normalized anime. Empty strings are missing values.
type Row struct {
	AnimeID    int64
	EngVersion string
	Score      string
	Genres     string
	Episodes   string
	Type       string
	Premiered  string
	Members    string

	score    float64
	hasScore bool
}

// ScoreValue returns the parsed score. ok is false when the score is missing
// or not a number.
func (r Row) ScoreValue() (float64, bool) {
	return r.score, r.hasScore
}

func (r Row) record() []string {
	return []string{
		strconv.FormatInt(r.AnimeID, 10),
		r.EngVersion, r.Score, r.Genres, r.Episodes, r.Type, r.Premiered, r.Members,
	}
}

// IsMissing reports whether a cell holds no value.
func IsMissing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == MissingMarker
}

// NormalizeMissing replaces every missing marker in f with the empty string.
func NormalizeMissing(f *dataset.Frame) {
	for _, row := range f.Rows {
		for i, cell := range row {
			if IsMissing(cell) {
				row[i] = ""
			}
		}
	}
}

// ResolveDisplayName picks the English name, falling back to the name.
// ok is false when neither is present.
func ResolveDisplayName(englishName, name string) (string, bool) {
	if !IsMissing(englishName) {
		return englishName, true
	}
	if !IsMissing(name) {
		return name, true
	}
	return "", false
}

// SortByScore orders rows by score, highest first. Rows without a score go
// last and rows with equal scores keep their input order.
func SortByScore(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		switch {
		case a.hasScore && b.hasScore:
			return cmp.Compare(b.score, a.score)
		case a.hasScore:
			return -1
		case b.hasScore:
			return 1
		default:
			return 0
		}
	})
}

// Normalize builds the ranked projection from a normalized attributes frame.
// Rows whose name cannot be resolved, or whose MAL_ID is not an integer, are
// returned as skipped instead of failing the whole table.
func Normalize(attrs *dataset.Frame) ([]Row, []*ResolutionError) {
	col := func(name string) int {
		i, ok := attrs.Index(name)
		if !ok {
			return -1
		}
		return i
	}
	idx := struct {
		id, name, english, score, genres, episodes, typ, premiered, members int
	}{
		col(ColumnMALID), col(ColumnName), col(ColumnEnglishName), col(ColumnScore), col(ColumnGenres),
		col(ColumnEpisodes), col(ColumnType), col(ColumnPremiered), col(ColumnMembers),
	}
	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rows := make([]Row, 0, attrs.Len())
	var skipped []*ResolutionError
	for n, rec := range attrs.Rows {
		rawID := cell(rec, idx.id)
		id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
		if err != nil {
			skipped = append(skipped, &ResolutionError{AnimeID: rawID, Row: n + 1, Err: ErrInvalidID})
			continue
		}

		name, ok := ResolveDisplayName(cell(rec, idx.english), cell(rec, idx.name))
		if !ok {
			skipped = append(skipped, &ResolutionError{AnimeID: rawID, Row: n + 1, Err: ErrNoDisplayName})
			continue
		}

		r := Row{
			AnimeID:    id,
			EngVersion: name,
			Score:      cell(rec, idx.score),
			Genres:     cell(rec, idx.genres),
			Episodes:   cell(rec, idx.episodes),
			Type:       cell(rec, idx.typ),
			Premiered:  cell(rec, idx.premiered),
			Members:    cell(rec, idx.members),
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(r.Score), 64); err == nil && !math.IsNaN(v) {
			r.score, r.hasScore = v, true
		}
		rows = append(rows, r)
	}

	SortByScore(rows)
	return rows, skipped
}
