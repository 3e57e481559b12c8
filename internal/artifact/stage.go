// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package artifact

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/zeebo/xxh3"

	"github.com/tomtom215/animeprep/internal/logging"
)

// Stage collects the files of one pipeline stage before they are committed.
//
// Files are written into a private staging directory. Commit publishes them
// and writes the stage manifest last; Abort discards them. Exactly one of the
// two must be called.
type Stage struct {
	store   *Store
	name    string
	runID   string
	dir     string
	entries []FileEntry
	closed  bool
}

// Begin starts a new stage. The store lock must be held.
func (s *Store) Begin(stage, runID string) (*Stage, error) {
	if !s.locked {
		return nil, ErrNotLocked
	}

	dir := filepath.Join(s.dir, stagingPrefix+stage+"-"+runID)
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("reset staging directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	return &Stage{store: s, name: stage, runID: runID, dir: dir}, nil
}

// Name returns the stage name.
func (st *Stage) Name() string {
	return st.name
}

// Write creates name in the staging directory and fills it with fn.
// The file is buffered and checksummed while it is written.
func (st *Stage) Write(name string, fn func(w io.Writer) error) error {
	if st.closed {
		return ErrStageClosed
	}

	path := filepath.Join(st.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o640) //nolint:gosec // path inside staging dir
	if err != nil {
		return &FileError{Stage: st.name, File: name, Err: err}
	}

	h := xxh3.New()
	cw := &countingWriter{w: io.MultiWriter(f, h)}
	bw := bufio.NewWriterSize(cw, 1<<20)

	writeErr := fn(bw)
	if writeErr == nil {
		writeErr = bw.Flush()
	}
	if writeErr == nil {
		writeErr = f.Sync()
	}
	if err := f.Close(); err != nil && writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		return &FileError{Stage: st.name, File: name, Err: writeErr}
	}

	st.entries = append(st.entries, FileEntry{Name: name, Size: cw.n, Checksum: formatChecksum(h)})
	return nil
}

// WriteJSON writes v as JSON to name.
func (st *Stage) WriteJSON(name string, v any) error {
	return st.Write(name, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(v)
	})
}

// Files returns the entries written so far.
func (st *Stage) Files() []FileEntry {
	return append([]FileEntry(nil), st.entries...)
}

// Commit publishes the staged files and writes the manifest.
//
// The previous manifest of the stage is removed before any file is replaced,
// so an interrupted commit leaves the stage without a manifest and readers
// refuse it instead of mixing old and new files.
func (st *Stage) Commit() (*Manifest, error) {
	if st.closed {
		return nil, ErrStageClosed
	}
	st.closed = true

	log := logging.With().Str("stage", st.name).Str("run_id", st.runID).Logger()

	manifestPath := st.store.Path(ManifestName(st.name))
	if err := os.Remove(manifestPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = os.RemoveAll(st.dir)
		return nil, fmt.Errorf("remove previous %s manifest: %w", st.name, err)
	}

	for _, e := range st.entries {
		if err := os.Rename(filepath.Join(st.dir, e.Name), st.store.Path(e.Name)); err != nil {
			_ = os.RemoveAll(st.dir)
			return nil, &FileError{Stage: st.name, File: e.Name, Err: fmt.Errorf("publish: %w", err)}
		}
	}

	m := &Manifest{
		Stage:       st.name,
		RunID:       st.runID,
		CommittedAt: time.Now().UTC(),
		Files:       st.entries,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		_ = os.RemoveAll(st.dir)
		return nil, fmt.Errorf("encode %s manifest: %w", st.name, err)
	}

	tmp := filepath.Join(st.dir, ManifestName(st.name))
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		_ = os.RemoveAll(st.dir)
		return nil, fmt.Errorf("write %s manifest: %w", st.name, err)
	}
	if err := os.Rename(tmp, manifestPath); err != nil {
		_ = os.RemoveAll(st.dir)
		return nil, fmt.Errorf("publish %s manifest: %w", st.name, err)
	}

	if err := os.RemoveAll(st.dir); err != nil {
		log.Warn().Err(err).Msg("Failed to remove staging directory")
	}

	log.Info().Int("files", len(m.Files)).Int64("bytes", m.TotalSize()).Msg("Stage committed")
	return m, nil
}

// Abort discards the staged files. It is safe to call after Commit.
func (st *Stage) Abort() error {
	if st.closed {
		return nil
	}
	st.closed = true
	if err := os.RemoveAll(st.dir); err != nil {
		return fmt.Errorf("remove staging directory: %w", err)
	}
	logging.Debug().Str("stage", st.name).Str("run_id", st.runID).Msg("Stage aborted")
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
