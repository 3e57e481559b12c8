// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

const readBufferSize = 1 << 20

// csvSource is an open CSV file with its header already consumed.
type csvSource struct {
	path   string
	file   *os.File
	reader *csv.Reader
	header []string
}

// openCSV opens path and reads the header row.
// The returned reader reuses its record slice between Read calls.
func openCSV(path string) (*csvSource, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}

	r := csv.NewReader(bufio.NewReaderSize(f, readBufferSize))
	r.ReuseRecord = true
	r.FieldsPerRecord = 0

	header, err := r.Read()
	if err == io.EOF {
		_ = f.Close()
		return nil, &DataLoadError{Path: path, Err: ErrEmptyFile}
	}
	if err != nil {
		_ = f.Close()
		return nil, &DataLoadError{Path: path, Err: fmt.Errorf("read header: %w", err)}
	}

	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}
	names[0] = strings.TrimPrefix(names[0], "\ufeff")

	return &csvSource{path: path, file: f, reader: r, header: names}, nil
}

// positions resolves each requested column to its index in the header.
func (s *csvSource) positions(columns []string) ([]int, error) {
	idx := make(map[string]int, len(s.header))
	for i, name := range s.header {
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	pos := make([]int, len(columns))
	for i, col := range columns {
		p, ok := idx[col]
		if !ok {
			return nil, &DataLoadError{Path: s.path, Column: col, Err: ErrMissingColumn}
		}
		pos[i] = p
	}
	return pos, nil
}

// line returns the input line of the most recently read record.
func (s *csvSource) line() int {
	line, _ := s.reader.FieldPos(0)
	return line
}

func (s *csvSource) Close() error {
	return s.file.Close()
}
