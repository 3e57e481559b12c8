// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/zeebo/xxh3"
)

// Manifest records the files of one committed stage.
type Manifest struct {
	Stage       string      `json:"stage"`
	RunID       string      `json:"run_id"`
	CommittedAt time.Time   `json:"committed_at"`
	Files       []FileEntry `json:"files"`
}

// FileEntry is one committed file.
type FileEntry struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Checksum string `json:"xxh3"`
}

// File returns the entry for name.
func (m *Manifest) File(name string) (FileEntry, bool) {
	for _, f := range m.Files {
		if f.Name == name {
			return f, true
		}
	}
	return FileEntry{}, false
}

// TotalSize returns the sum of all file sizes.
func (m *Manifest) TotalSize() int64 {
	var n int64
	for _, f := range m.Files {
		n += f.Size
	}
	return n
}

func formatChecksum(h *xxh3.Hasher) string {
	sum := h.Sum128()
	return fmt.Sprintf("%016x%016x", sum.Hi, sum.Lo)
}

// checksumFile returns the size and xxh3-128 checksum of path.
func checksumFile(path string) (int64, string, error) {
	f, err := os.Open(path) //nolint:gosec // path is inside the processed directory
	if err != nil {
		return 0, "", err
	}
	defer func() { _ = f.Close() }()

	h := xxh3.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", err
	}
	return n, formatChecksum(h), nil
}

// ReadManifest reads the committed manifest of stage in dir.
// Returns an error wrapping ErrNoManifest when the stage was never committed.
func ReadManifest(dir, stage string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName(stage))) //nolint:gosec // fixed name inside dir
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", stage, ErrNoManifest)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s manifest: %w", stage, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s manifest: %w", stage, err)
	}
	return &m, nil
}

// Verify checks every file of a committed stage against its manifest.
// Each required file must be listed; a missing or modified file is reported
// as a *FileError.
func Verify(dir, stage string, required []string) (*Manifest, error) {
	m, err := ReadManifest(dir, stage)
	if err != nil {
		return nil, err
	}

	for _, name := range required {
		if _, ok := m.File(name); !ok {
			return nil, &FileError{Stage: stage, File: name, Err: errors.New("not listed in manifest")}
		}
	}

	for _, entry := range m.Files {
		size, sum, err := checksumFile(filepath.Join(dir, entry.Name))
		if err != nil {
			return nil, &FileError{Stage: stage, File: entry.Name, Err: err}
		}
		if size != entry.Size || sum != entry.Checksum {
			return nil, &FileError{Stage: stage, File: entry.Name, Err: ErrChecksumMismatch}
		}
	}
	return m, nil
}
