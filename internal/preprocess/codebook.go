// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package preprocess

import "slices"

// Codebook is a bijection between external ids and dense indices 0..n-1.
// It is immutable once built.
type Codebook struct {
	ids   []int64
	index map[int64]int32
}

// NewCodebook builds a codebook from a column of ids, which may repeat.
// Indices follow first-seen order, or ascending id order when sorted is set.
func NewCodebook(column []int64, sorted bool) *Codebook {
	cb := &Codebook{index: make(map[int64]int32)}
	for _, id := range column {
		if _, seen := cb.index[id]; seen {
			continue
		}
		cb.index[id] = int32(len(cb.ids)) //nolint:gosec // bounded by table size
		cb.ids = append(cb.ids, id)
	}

	if sorted {
		slices.Sort(cb.ids)
		for i, id := range cb.ids {
			cb.index[id] = int32(i) //nolint:gosec // bounded by table size
		}
	}
	return cb
}

// Encode returns the index of id.
func (c *Codebook) Encode(id int64) (int32, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Decode returns the id at index i.
func (c *Codebook) Decode(i int32) (int64, bool) {
	if i < 0 || int(i) >= len(c.ids) {
		return 0, false
	}
	return c.ids[i], true
}

// Len returns the number of distinct ids.
func (c *Codebook) Len() int {
	return len(c.ids)
}

// IDs returns the ids in index order.
func (c *Codebook) IDs() []int64 {
	return slices.Clone(c.ids)
}

// EncodedMap returns the id to index mapping for serialization.
func (c *Codebook) EncodedMap() map[int64]int32 {
	m := make(map[int64]int32, len(c.ids))
	for i, id := range c.ids {
		m[id] = int32(i) //nolint:gosec // bounded by table size
	}
	return m
}

// DecodedMap returns the index to id mapping for serialization.
func (c *Codebook) DecodedMap() map[int32]int64 {
	m := make(map[int32]int64, len(c.ids))
	for i, id := range c.ids {
		m[int32(i)] = id //nolint:gosec // bounded by table size
	}
	return m
}
