// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package metadata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/animeprep/internal/artifact"
	"github.com/tomtom215/animeprep/internal/config"
	"github.com/tomtom215/animeprep/internal/dataset"
	"github.com/tomtom215/animeprep/internal/logging"
	"github.com/tomtom215/animeprep/internal/metrics"
)

// Result is the outcome of a metadata run.
type Result struct {
	Rows         int
	SynopsisRows int
	Skipped      []*ResolutionError
	Duration     time.Duration
	Manifest     *artifact.Manifest
}

// Normalizer runs the metadata stage.
type Normalizer struct {
	animePath    string
	synopsisPath string
	store        *artifact.Store
}

// NewNormalizer creates a Normalizer for the configured attribute and
// synopsis files. The caller must hold the store lock.
func NewNormalizer(cfg *config.Config, store *artifact.Store) *Normalizer {
	return &Normalizer{
		animePath:    cfg.Paths.AnimePath(),
		synopsisPath: cfg.Paths.SynopsisPath(),
		store:        store,
	}
}

// Run reads both metadata sources, writes anime_df.csv and synopsis_df.csv,
// and commits them together.
func (n *Normalizer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	log := logging.Ctx(ctx)

	attrs, err := dataset.ReadFrame(n.animePath, AttributeColumns)
	if err != nil {
		return nil, err
	}
	synopsis, err := dataset.ReadFrame(n.synopsisPath, SynopsisColumns)
	if err != nil {
		return nil, err
	}

	NormalizeMissing(attrs)
	rows, skipped := Normalize(attrs)
	for _, s := range skipped {
		log.Warn().
			Str("anime_id", s.AnimeID).
			Int("row", s.Row).
			Err(s.Err).
			Msg("Skipping anime without resolvable name")
	}
	metrics.RecordSkipped(len(skipped))
	metrics.SetRows("anime", len(rows))
	metrics.SetRows("synopsis", synopsis.Len())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stage, err := n.store.Begin(artifact.StageMetadata, logging.RunIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	defer func() { _ = stage.Abort() }()

	if err := stage.Write(artifact.AnimeTableFile, func(w io.Writer) error {
		return writeProjection(w, rows)
	}); err != nil {
		return nil, err
	}
	if err := stage.Write(artifact.SynopsisTableFile, synopsis.WriteCSV); err != nil {
		return nil, err
	}

	manifest, err := stage.Commit()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Rows:         len(rows),
		SynopsisRows: synopsis.Len(),
		Skipped:      skipped,
		Duration:     time.Since(start),
		Manifest:     manifest,
	}
	log.Info().
		Int("anime", res.Rows).
		Int("synopsis", res.SynopsisRows).
		Int("skipped", len(skipped)).
		Dur("duration", res.Duration).
		Msg("Metadata stage complete")
	return res, nil
}

func writeProjection(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ProjectionColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
