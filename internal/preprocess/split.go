// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package preprocess

import "math/rand"

// Split is a shuffled train/test partition of an EncodedDataset.
// XTrain and XTest hold [users, animes] index columns.
type Split struct {
	// Order is the shuffled row order; Order[i] is the source row placed at i.
	Order []int

	XTrain [2][]int32
	XTest  [2][]int32
	YTrain []float32
	YTest  []float32
}

// ShuffleSplit permutes the rows of ds with a generator seeded by seed and
// takes the last testSize rows as the test partition. The same seed and input
// always yield the same split.
//
// Returns *InsufficientDataError when ds has fewer than testSize rows.
func ShuffleSplit(ds *EncodedDataset, testSize int, seed int64) (*Split, error) {
	rows := ds.Len()
	if rows < testSize {
		return nil, &InsufficientDataError{Rows: rows, TestSize: testSize}
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible shuffle, not security
	order := rng.Perm(rows)

	trainRows := rows - testSize
	s := &Split{
		Order:  order,
		XTrain: [2][]int32{make([]int32, trainRows), make([]int32, trainRows)},
		XTest:  [2][]int32{make([]int32, testSize), make([]int32, testSize)},
		YTrain: make([]float32, trainRows),
		YTest:  make([]float32, testSize),
	}
	for i, src := range order {
		if i < trainRows {
			s.XTrain[0][i] = ds.User[src]
			s.XTrain[1][i] = ds.Anime[src]
			s.YTrain[i] = ds.Rating[src]
			continue
		}
		j := i - trainRows
		s.XTest[0][j] = ds.User[src]
		s.XTest[1][j] = ds.Anime[src]
		s.YTest[j] = ds.Rating[src]
	}
	return s, nil
}
