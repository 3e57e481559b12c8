// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package codebookindex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const (
	// lastRunKey is the BadgerDB key for the most recent run record.
	lastRunKey = "ledger:last_run"
)

// RunRecord summarizes one pipeline run.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Stages     []string  `json:"stages"`
	Status     string    `json:"status"` // "success" or "error"
	Error      string    `json:"error,omitempty"`

	RawRows      int `json:"raw_rows"`
	FilteredRows int `json:"filtered_rows"`
	Users        int `json:"users"`
	Anime        int `json:"anime"`
	TrainRows    int `json:"train_rows"`
	TestRows     int `json:"test_rows"`
	MetadataRows int `json:"metadata_rows"`
	Skipped      int `json:"skipped"`
}

// Ledger keeps the record of the last run next to the codebooks it
// produced, so inspect can report both from one database.
type Ledger struct {
	db *badger.DB
}

// NewLedger creates a ledger in the provided BadgerDB instance.
func NewLedger(db *badger.DB) *Ledger {
	return &Ledger{db: db}
}

// Save persists rec, replacing the previous record.
func (l *Ledger) Save(_ context.Context, rec *RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(lastRunKey), data)
	})
}

// Load returns the last saved record, or nil, nil if none was saved.
func (l *Ledger) Load(_ context.Context) (*RunRecord, error) {
	var rec *RunRecord

	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(lastRunKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			rec = &RunRecord{}
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load run record: %w", err)
	}
	return rec, nil
}
