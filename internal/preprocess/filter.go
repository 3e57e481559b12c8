// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package preprocess

import "github.com/tomtom215/animeprep/internal/dataset"

// FilterUsers keeps the rows of users with at least minRatings ratings, in
// their original order. An empty result is not an error.
func FilterUsers(r *dataset.Ratings, minRatings int) *dataset.Ratings {
	counts := make(map[int64]int)
	for _, u := range r.UserID {
		counts[u]++
	}

	kept := 0
	for _, u := range r.UserID {
		if counts[u] >= minRatings {
			kept++
		}
	}

	out := &dataset.Ratings{
		UserID:  make([]int64, 0, kept),
		AnimeID: make([]int64, 0, kept),
		Rating:  make([]float64, 0, kept),
	}
	for i, u := range r.UserID {
		if counts[u] < minRatings {
			continue
		}
		out.UserID = append(out.UserID, u)
		out.AnimeID = append(out.AnimeID, r.AnimeID[i])
		out.Rating = append(out.Rating, r.Rating[i])
	}
	return out
}
