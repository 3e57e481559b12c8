// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package preprocess

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/tomtom215/animeprep/internal/dataset"
)

func ratings(rows ...[3]float64) *dataset.Ratings {
	r := &dataset.Ratings{}
	for _, row := range rows {
		r.UserID = append(r.UserID, int64(row[0]))
		r.AnimeID = append(r.AnimeID, int64(row[1]))
		r.Rating = append(r.Rating, row[2])
	}
	return r
}

func TestFilterUsers(t *testing.T) {
	// 401 users with one rating each and one user with exactly 400.
	r := &dataset.Ratings{}
	for u := int64(1); u <= 401; u++ {
		r.UserID = append(r.UserID, u)
		r.AnimeID = append(r.AnimeID, 1)
		r.Rating = append(r.Rating, 5)
	}
	for i := 0; i < 400; i++ {
		r.UserID = append(r.UserID, 1000)
		r.AnimeID = append(r.AnimeID, int64(i))
		r.Rating = append(r.Rating, float64(i%10))
	}

	got := FilterUsers(r, 400)

	if got.Len() != 400 {
		t.Fatalf("Len() = %d, want 400", got.Len())
	}
	for i, u := range got.UserID {
		if u != 1000 {
			t.Fatalf("row %d user = %d, want 1000", i, u)
		}
		if got.AnimeID[i] != int64(i) {
			t.Fatalf("row %d anime = %d, want %d (order not preserved)", i, got.AnimeID[i], i)
		}
	}
}

func TestFilterUsers_Empty(t *testing.T) {
	got := FilterUsers(ratings([3]float64{1, 1, 5}, [3]float64{2, 1, 6}), 400)
	if got.Len() != 0 {
		t.Errorf("Len() = %d, want 0", got.Len())
	}
}

func TestScaleRatings(t *testing.T) {
	r := ratings(
		[3]float64{1, 10, 2},
		[3]float64{1, 11, 10},
		[3]float64{2, 10, 6},
		[3]float64{2, 12, 4},
	)

	got, rng, err := ScaleRatings(r)
	if err != nil {
		t.Fatalf("ScaleRatings() error = %v", err)
	}

	if rng.Min != 2 || rng.Max != 10 {
		t.Errorf("range = %+v, want {2 10}", rng)
	}
	want := []float64{0, 1, 0.5, 0.25}
	if !slices.Equal(got.Rating, want) {
		t.Errorf("Rating = %v, want %v", got.Rating, want)
	}
	if slices.Min(got.Rating) != 0 || slices.Max(got.Rating) != 1 {
		t.Errorf("scaled range = [%v, %v], want [0, 1]", slices.Min(got.Rating), slices.Max(got.Rating))
	}
	if r.Rating[1] != 10 {
		t.Error("ScaleRatings modified its input")
	}
}

func TestScaleRatings_Degenerate(t *testing.T) {
	r := ratings([3]float64{1, 1, 7}, [3]float64{2, 2, 7}, [3]float64{3, 3, 7})

	_, _, err := ScaleRatings(r)

	var dre *DegenerateRangeError
	if !errors.As(err, &dre) {
		t.Fatalf("error = %v, want *DegenerateRangeError", err)
	}
	if dre.Value != 7 || dre.Rows != 3 {
		t.Errorf("DegenerateRangeError = %+v", dre)
	}
}

func TestScaleRatings_NonFinite(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantRow int
	}{
		{"NaN", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
		{"negative infinity", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ratings([3]float64{1, 1, tt.value}, [3]float64{1, 2, 3}, [3]float64{1, 3, 9})

			got, _, err := ScaleRatings(r)

			var nfe *NonFiniteRatingError
			if !errors.As(err, &nfe) {
				t.Fatalf("error = %v, want *NonFiniteRatingError", err)
			}
			if nfe.Row != tt.wantRow {
				t.Errorf("Row = %d, want %d", nfe.Row, tt.wantRow)
			}
			if got != nil {
				t.Errorf("scaled table = %+v, want nil", got)
			}
		})
	}
}

func TestScaleRatings_Empty(t *testing.T) {
	got, _, err := ScaleRatings(&dataset.Ratings{})
	if err != nil {
		t.Fatalf("ScaleRatings() error = %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("Len() = %d, want 0", got.Len())
	}
}

func TestCodebook(t *testing.T) {
	tests := []struct {
		name    string
		column  []int64
		sorted  bool
		wantIDs []int64
	}{
		{
			name:    "first seen order",
			column:  []int64{42, 7, 42, 99, 7},
			wantIDs: []int64{42, 7, 99},
		},
		{
			name:    "sorted order",
			column:  []int64{42, 7, 42, 99, 7},
			sorted:  true,
			wantIDs: []int64{7, 42, 99},
		},
		{
			name:    "empty",
			column:  nil,
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := NewCodebook(tt.column, tt.sorted)

			if cb.Len() != len(tt.wantIDs) {
				t.Fatalf("Len() = %d, want %d", cb.Len(), len(tt.wantIDs))
			}
			if !slices.Equal(cb.IDs(), tt.wantIDs) {
				t.Errorf("IDs() = %v, want %v", cb.IDs(), tt.wantIDs)
			}

			// Indices are exactly 0..n-1 and round trip.
			for i := int32(0); int(i) < cb.Len(); i++ {
				id, ok := cb.Decode(i)
				if !ok {
					t.Fatalf("Decode(%d) missing", i)
				}
				idx, ok := cb.Encode(id)
				if !ok || idx != i {
					t.Errorf("Encode(Decode(%d)) = %d, %v", i, idx, ok)
				}
			}
			for _, id := range tt.column {
				idx, _ := cb.Encode(id)
				if back, _ := cb.Decode(idx); back != id {
					t.Errorf("Decode(Encode(%d)) = %d", id, back)
				}
			}

			if _, ok := cb.Decode(int32(cb.Len())); ok {
				t.Error("Decode(n) should fail")
			}
			if _, ok := cb.Decode(-1); ok {
				t.Error("Decode(-1) should fail")
			}
			if _, ok := cb.Encode(123456); ok {
				t.Error("Encode(unknown) should fail")
			}
		})
	}
}

func TestCodebookMaps(t *testing.T) {
	cb := NewCodebook([]int64{5, 3, 5, 8}, false)

	enc, dec := cb.EncodedMap(), cb.DecodedMap()
	if len(enc) != 3 || len(dec) != 3 {
		t.Fatalf("map sizes = %d/%d, want 3/3", len(enc), len(dec))
	}
	for id, idx := range enc {
		if dec[idx] != id {
			t.Errorf("decoded[encoded[%d]] = %d", id, dec[idx])
		}
	}
	if enc[5] != 0 || enc[3] != 1 || enc[8] != 2 {
		t.Errorf("EncodedMap() = %v, want first-seen indices", enc)
	}
}

func TestEncode(t *testing.T) {
	r := ratings(
		[3]float64{100, 7, 0},
		[3]float64{200, 7, 0.5},
		[3]float64{100, 9, 1},
	)

	ds := Encode(r, false)

	if !slices.Equal(ds.User, []int32{0, 1, 0}) {
		t.Errorf("User = %v, want [0 1 0]", ds.User)
	}
	if !slices.Equal(ds.Anime, []int32{0, 0, 1}) {
		t.Errorf("Anime = %v, want [0 0 1]", ds.Anime)
	}
	if !slices.Equal(ds.Rating, []float32{0, 0.5, 1}) {
		t.Errorf("Rating = %v, want [0 0.5 1]", ds.Rating)
	}
	if ds.Len() != 3 || len(ds.UserID) != 3 {
		t.Errorf("Len() = %d", ds.Len())
	}
}

func encodedRows(n int) *EncodedDataset {
	r := &dataset.Ratings{}
	for i := 0; i < n; i++ {
		r.UserID = append(r.UserID, int64(i%7))
		r.AnimeID = append(r.AnimeID, int64(i))
		r.Rating = append(r.Rating, float64(i)/float64(n))
	}
	return Encode(r, false)
}

func TestShuffleSplit(t *testing.T) {
	ds := encodedRows(1500)

	s, err := ShuffleSplit(ds, 1000, 43)
	if err != nil {
		t.Fatalf("ShuffleSplit() error = %v", err)
	}

	if len(s.YTrain) != 500 || len(s.YTest) != 1000 {
		t.Errorf("split = %d/%d, want 500/1000", len(s.YTrain), len(s.YTest))
	}
	if len(s.XTrain[0]) != 500 || len(s.XTrain[1]) != 500 || len(s.XTest[0]) != 1000 || len(s.XTest[1]) != 1000 {
		t.Error("X arrays do not match target lengths")
	}

	// Every source row lands exactly once.
	sorted := slices.Clone(s.Order)
	slices.Sort(sorted)
	for i, v := range sorted {
		if v != i {
			t.Fatalf("Order is not a permutation at %d", i)
		}
	}

	// Rows stay aligned across columns.
	for i, src := range s.Order[:500] {
		if s.XTrain[1][i] != ds.Anime[src] || s.YTrain[i] != ds.Rating[src] {
			t.Fatalf("train row %d misaligned with source %d", i, src)
		}
	}

	again, err := ShuffleSplit(ds, 1000, 43)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(s.Order, again.Order) {
		t.Error("same seed produced different order")
	}

	other, err := ShuffleSplit(ds, 1000, 44)
	if err != nil {
		t.Fatal(err)
	}
	if slices.Equal(s.Order, other.Order) {
		t.Error("different seeds produced the same order")
	}
}

func TestShuffleSplit_Insufficient(t *testing.T) {
	tests := []struct {
		name     string
		rows     int
		testSize int
	}{
		{name: "500 rows for 1000 test rows", rows: 500, testSize: 1000},
		{name: "empty table", rows: 0, testSize: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ShuffleSplit(encodedRows(tt.rows), tt.testSize, 43)

			var ide *InsufficientDataError
			if !errors.As(err, &ide) {
				t.Fatalf("error = %v, want *InsufficientDataError", err)
			}
			if ide.Rows != tt.rows || ide.TestSize != tt.testSize {
				t.Errorf("InsufficientDataError = %+v", ide)
			}
		})
	}
}

func TestShuffleSplit_ExactSize(t *testing.T) {
	s, err := ShuffleSplit(encodedRows(10), 10, 43)
	if err != nil {
		t.Fatalf("ShuffleSplit() error = %v", err)
	}
	if len(s.YTrain) != 0 || len(s.YTest) != 10 {
		t.Errorf("split = %d/%d, want 0/10", len(s.YTrain), len(s.YTest))
	}
}
