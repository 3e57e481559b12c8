// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Frame is a small string table used for the metadata sources.
// Cells are kept verbatim; interpretation (missing markers, numbers) is left
// to the caller.
type Frame struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// NewFrame returns an empty frame with the given columns.
func NewFrame(columns []string) *Frame {
	f := &Frame{Columns: append([]string(nil), columns...)}
	f.buildIndex()
	return f
}

func (f *Frame) buildIndex() {
	f.index = make(map[string]int, len(f.Columns))
	for i, c := range f.Columns {
		if _, dup := f.index[c]; !dup {
			f.index[c] = i
		}
	}
}

// Index returns the position of col.
func (f *Frame) Index(col string) (int, bool) {
	i, ok := f.index[col]
	return i, ok
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Append adds a row. The row must have one cell per column.
func (f *Frame) Append(row []string) {
	f.Rows = append(f.Rows, row)
}

// ReadFrame reads the CSV at path into a Frame holding columns in the given
// order. A nil or empty columns reads every column in header order.
func ReadFrame(path string, columns []string) (*Frame, error) {
	src, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	if len(columns) == 0 {
		columns = src.header
	}
	pos, err := src.positions(columns)
	if err != nil {
		return nil, err
	}

	f := NewFrame(columns)
	for {
		rec, err := src.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Path: path, Err: err}
		}

		// The reader reuses rec, so copy the cells we keep.
		row := make([]string, len(pos))
		for i, p := range pos {
			row[i] = rec[p]
		}
		f.Append(row)
	}

	return f, nil
}

// WriteCSV writes f with a header row.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range f.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
