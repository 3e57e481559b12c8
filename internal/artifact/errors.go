// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package artifact

import (
	"errors"
	"fmt"
)

var (
	// ErrLocked is returned when another process holds the store lock.
	ErrLocked = errors.New("artifact store is locked by another run")

	// ErrNotLocked is returned when a stage is started without holding the lock.
	ErrNotLocked = errors.New("artifact store lock not held")

	// ErrNoManifest is returned when a stage has never been committed.
	ErrNoManifest = errors.New("stage manifest not found")

	// ErrStageClosed is returned when a committed or aborted stage is used again.
	ErrStageClosed = errors.New("stage already committed or aborted")

	// ErrChecksumMismatch is returned when a committed file no longer matches its manifest.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrEmptyCodebook is returned when a loaded codebook has no entries.
	ErrEmptyCodebook = errors.New("codebook is empty")
)

// FileError reports a problem with one committed file.
type FileError struct {
	Stage string
	File  string
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s artifact %s: %v", e.Stage, e.File, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
