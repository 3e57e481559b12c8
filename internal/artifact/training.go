// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// TrainingSet is everything the embedding trainer reads from the encoder stage.
type TrainingSet struct {
	UserEncoded  map[int64]int32
	UserDecoded  map[int32]int64
	AnimeEncoded map[int64]int32
	AnimeDecoded map[int32]int64

	// XTrain and XTest hold [users, animes] index columns.
	XTrain [2][]int32
	XTest  [2][]int32
	YTrain []float32
	YTest  []float32

	Manifest *Manifest
}

// NumUsers returns the user codebook size, the trainer's embedding input dimension.
func (ts *TrainingSet) NumUsers() int {
	return len(ts.UserEncoded)
}

// NumAnime returns the anime codebook size.
func (ts *TrainingSet) NumAnime() int {
	return len(ts.AnimeEncoded)
}

// LoadTrainingSet loads and checks the committed encoder artifacts in dir.
//
// It fails when the encoder manifest or any artifact is missing, a checksum
// does not match, a codebook is empty, or the arrays disagree in length.
func LoadTrainingSet(dir string) (*TrainingSet, error) {
	m, err := Verify(dir, StageEncoder, EncoderFiles)
	if err != nil {
		return nil, err
	}

	ts := &TrainingSet{Manifest: m}
	targets := []struct {
		name string
		v    any
	}{
		{UserEncodedFile, &ts.UserEncoded},
		{UserDecodedFile, &ts.UserDecoded},
		{AnimeEncodedFile, &ts.AnimeEncoded},
		{AnimeDecodedFile, &ts.AnimeDecoded},
		{YTrainFile, &ts.YTrain},
		{YTestFile, &ts.YTest},
	}
	for _, tgt := range targets {
		if err := readJSON(dir, tgt.name, tgt.v); err != nil {
			return nil, err
		}
	}

	if ts.XTrain, err = readPairs(dir, XTrainFile); err != nil {
		return nil, err
	}
	if ts.XTest, err = readPairs(dir, XTestFile); err != nil {
		return nil, err
	}

	if err := ts.check(); err != nil {
		return nil, err
	}
	return ts, nil
}

func (ts *TrainingSet) check() error {
	codebooks := []struct {
		name    string
		encoded int
		decoded int
	}{
		{UserEncodedFile, len(ts.UserEncoded), len(ts.UserDecoded)},
		{AnimeEncodedFile, len(ts.AnimeEncoded), len(ts.AnimeDecoded)},
	}
	for _, cb := range codebooks {
		if cb.encoded == 0 {
			return &FileError{Stage: StageEncoder, File: cb.name, Err: ErrEmptyCodebook}
		}
		if cb.encoded != cb.decoded {
			return &FileError{Stage: StageEncoder, File: cb.name,
				Err: fmt.Errorf("encoded has %d entries, decoded has %d", cb.encoded, cb.decoded)}
		}
	}

	if len(ts.XTrain[0]) != len(ts.YTrain) {
		return &FileError{Stage: StageEncoder, File: YTrainFile,
			Err: fmt.Errorf("%d targets for %d training rows", len(ts.YTrain), len(ts.XTrain[0]))}
	}
	if len(ts.XTest[0]) != len(ts.YTest) {
		return &FileError{Stage: StageEncoder, File: YTestFile,
			Err: fmt.Errorf("%d targets for %d test rows", len(ts.YTest), len(ts.XTest[0]))}
	}
	return nil
}

func readJSON(dir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec // fixed name inside dir
	if err != nil {
		return &FileError{Stage: StageEncoder, File: name, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &FileError{Stage: StageEncoder, File: name, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// readPairs reads a [users, animes] array.
func readPairs(dir, name string) ([2][]int32, error) {
	var cols [][]int32
	if err := readJSON(dir, name, &cols); err != nil {
		return [2][]int32{}, err
	}
	if len(cols) != 2 {
		return [2][]int32{}, &FileError{Stage: StageEncoder, File: name,
			Err: fmt.Errorf("expected 2 columns, got %d", len(cols))}
	}
	if len(cols[0]) != len(cols[1]) {
		return [2][]int32{}, &FileError{Stage: StageEncoder, File: name,
			Err: errors.New("user and anime columns differ in length")}
	}
	return [2][]int32{cols[0], cols[1]}, nil
}
