// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/tomtom215/animeprep/internal/logging"
)

const (
	lockFileName  = ".animeprep.lock"
	stagingPrefix = ".staging-"
)

// Store is the processed artifacts directory.
//
// Writers must hold the store lock for the whole run. Each stage writes into
// its own staging directory and Commit moves the files into place, so a
// reader never observes a half-written stage.
type Store struct {
	dir    string
	lock   *flock.Flock
	locked bool
}

// Open creates dir if needed and returns a Store for it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create processed directory: %w", err)
	}
	return &Store{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, lockFileName)),
	}, nil
}

// Dir returns the processed directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path of a committed file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Lock acquires the store lock without blocking.
// Returns ErrLocked when another process holds it.
func (s *Store) Lock() error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock file %s)", ErrLocked, s.lock.Path())
	}
	s.locked = true

	if err := s.cleanStaging(); err != nil {
		logging.Warn().Err(err).Str("dir", s.dir).Msg("Failed to remove stale staging directories")
	}
	return nil
}

// Unlock releases the store lock.
func (s *Store) Unlock() error {
	if !s.locked {
		return nil
	}
	s.locked = false
	return s.lock.Unlock()
}

// cleanStaging removes staging directories left behind by a crashed run.
// Only called with the lock held.
func (s *Store) cleanStaging() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), stagingPrefix) {
			if err := os.RemoveAll(filepath.Join(s.dir, e.Name())); err != nil {
				return err
			}
			logging.Debug().Str("staging", e.Name()).Msg("Removed stale staging directory")
		}
	}
	return nil
}
