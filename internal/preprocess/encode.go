// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package preprocess

import "github.com/tomtom215/animeprep/internal/dataset"

// EncodedDataset is the scaled ratings table augmented with dense indices.
// All columns have equal length.
type EncodedDataset struct {
	UserID  []int64
	AnimeID []int64
	Rating  []float32
	User    []int32
	Anime   []int32

	UserCodebook  *Codebook
	AnimeCodebook *Codebook
}

// Len returns the number of rows.
func (d *EncodedDataset) Len() int {
	return len(d.UserID)
}

// Encode builds the user and anime codebooks over r and adds the index columns.
// Ratings are narrowed to float32, the trainer's target type.
func Encode(r *dataset.Ratings, sortIDs bool) *EncodedDataset {
	users := NewCodebook(r.UserID, sortIDs)
	anime := NewCodebook(r.AnimeID, sortIDs)

	n := r.Len()
	ds := &EncodedDataset{
		UserID:        r.UserID,
		AnimeID:       r.AnimeID,
		Rating:        make([]float32, n),
		User:          make([]int32, n),
		Anime:         make([]int32, n),
		UserCodebook:  users,
		AnimeCodebook: anime,
	}
	for i := 0; i < n; i++ {
		ds.User[i], _ = users.Encode(r.UserID[i])
		ds.Anime[i], _ = anime.Encode(r.AnimeID[i])
		ds.Rating[i] = float32(r.Rating[i])
	}
	return ds
}
