// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package pipeline

import (
	"errors"
	"fmt"

	"github.com/tomtom215/animeprep/internal/artifact"
	"github.com/tomtom215/animeprep/internal/dataset"
)

// ErrUnknownStage is returned when a stage name is not recognized.
var ErrUnknownStage = errors.New("unknown stage")

// StageError wraps the failure of one pipeline stage.
type StageError struct {
	Stage string
	// File is the input or artifact involved, when known.
	File string
	Err  error
}

func (e *StageError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("stage %s (%s): %v", e.Stage, e.File, e.Err)
	}
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// wrapStage attaches the stage name and, where the cause carries one, the file.
func wrapStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	se := &StageError{Stage: stage, Err: err}

	var dle *dataset.DataLoadError
	var fe *artifact.FileError
	switch {
	case errors.As(err, &dle):
		se.File = dle.Path
	case errors.As(err, &fe):
		se.File = fe.File
	}
	return se
}
