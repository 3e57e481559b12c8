// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package warehouse

import (
	"context"
	"database/sql"
	"fmt"
)

// Summary describes the loaded ratings.
type Summary struct {
	Ratings    int64
	Users      int64
	Anime      int64
	MeanRating float64
	TopAnime   []AnimeCount
}

// AnimeCount is an anime with its number of ratings.
type AnimeCount struct {
	AnimeID int64
	Name    string
	Ratings int64
}

// Summarize computes rating statistics and the top most-rated anime.
func (w *Warehouse) Summarize(ctx context.Context, top int) (*Summary, error) {
	s := &Summary{}

	var mean sql.NullFloat64
	err := w.conn.QueryRowContext(ctx, `
		SELECT count(*), count(DISTINCT "user"), count(DISTINCT anime), avg(rating)
		FROM ratings`).Scan(&s.Ratings, &s.Users, &s.Anime, &mean)
	if err != nil {
		return nil, fmt.Errorf("summarize ratings: %w", err)
	}
	s.MeanRating = mean.Float64

	rows, err := w.conn.QueryContext(ctx, `
		SELECT r.anime_id, coalesce(CAST(a.eng_version AS VARCHAR), '') AS name, count(*) AS n
		FROM ratings r
		LEFT JOIN anime a ON a.anime_id = r.anime_id
		GROUP BY r.anime_id, name
		ORDER BY n DESC, r.anime_id
		LIMIT ?`, top)
	if err != nil {
		return nil, fmt.Errorf("query top anime: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var ac AnimeCount
		if err := rows.Scan(&ac.AnimeID, &ac.Name, &ac.Ratings); err != nil {
			return nil, fmt.Errorf("scan top anime: %w", err)
		}
		s.TopAnime = append(s.TopAnime, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top anime: %w", err)
	}
	return s, nil
}
