// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tomtom215/animeprep/internal/metrics"
)

// writeRaw copies r to rawDir/name through a temporary file, keeping at most
// maxRows CSV data rows when maxRows > 0. The destination is only replaced
// once the copy is complete.
func writeRaw(rawDir, name string, r io.Reader, maxRows int) (string, error) {
	if err := os.MkdirAll(rawDir, 0o750); err != nil {
		return "", fmt.Errorf("create raw directory: %w", err)
	}

	dst := filepath.Join(rawDir, name)
	tmp, err := os.CreateTemp(rawDir, "."+filepath.Base(name)+".*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	cw := &countingWriter{w: tmp}
	if maxRows > 0 {
		err = copyRows(cw, r, maxRows)
	} else {
		_, err = io.Copy(cw, r)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", err
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return "", fmt.Errorf("publish %s: %w", name, err)
	}
	metrics.RecordIngest(name, cw.n)
	return dst, nil
}

// copyRows copies the header and the first maxRows records of a CSV stream.
// Records are re-encoded, so quoted fields spanning lines are counted once.
func copyRows(w io.Writer, r io.Reader, maxRows int) error {
	cr := csv.NewReader(bufio.NewReaderSize(r, 1<<20))
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	bw := bufio.NewWriterSize(w, 1<<20)
	out := csv.NewWriter(bw)

	for n := 0; n <= maxRows; n++ { // header plus maxRows data rows
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read csv: %w", err)
		}
		if err := out.Write(rec); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return bw.Flush()
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
