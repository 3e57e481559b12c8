// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/animeprep/internal/artifact"
	"github.com/tomtom215/animeprep/internal/codebookindex"
	"github.com/tomtom215/animeprep/internal/config"
	"github.com/tomtom215/animeprep/internal/ingest"
	"github.com/tomtom215/animeprep/internal/logging"
	"github.com/tomtom215/animeprep/internal/metadata"
	"github.com/tomtom215/animeprep/internal/metrics"
	"github.com/tomtom215/animeprep/internal/preprocess"
	"github.com/tomtom215/animeprep/internal/warehouse"
)

// Stage names, in execution order.
const (
	StageIngest     = "ingest"
	StagePreprocess = "preprocess"
	StageMetadata   = "metadata"
	StageIndex      = "index"
	StageWarehouse  = "warehouse"
)

// AllStages is the full run.
var AllStages = []string{StageIngest, StagePreprocess, StageMetadata}

// FetcherFactory builds the ingestion fetcher.
type FetcherFactory func(ctx context.Context, cfg *config.Config) (ingest.Fetcher, error)

// Report is the outcome of a run. Fields of stages that did not run are nil.
type Report struct {
	RunID     string
	Stages    []string
	Ingested  []string
	Encoder   *preprocess.Result
	Metadata  *metadata.Result
	Warehouse *warehouse.LoadStats
	Duration  time.Duration
}

// Runner executes pipeline stages against one configuration.
type Runner struct {
	cfg        *config.Config
	newFetcher FetcherFactory
}

// NewRunner creates a Runner for cfg.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg, newFetcher: ingest.NewFetcher}
}

// WithFetcherFactory replaces the fetcher constructor.
func (r *Runner) WithFetcherFactory(f FetcherFactory) *Runner {
	r.newFetcher = f
	return r
}

// Run executes the named stages in pipeline order, stopping at the first
// failure. The processed directory is locked for the whole run. After a
// successful encoder stage the codebook index is refreshed, and after every
// requested stage succeeds the warehouse is reloaded, when enabled.
func (r *Runner) Run(ctx context.Context, stages ...string) (*Report, error) {
	start := time.Now()
	selected, err := orderStages(stages)
	if err != nil {
		return nil, err
	}

	if logging.RunIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewRunID(ctx)
	}
	report := &Report{RunID: logging.RunIDFromContext(ctx), Stages: selected}
	log := logging.Ctx(ctx)
	log.Info().Strs("stages", selected).Msg("Pipeline run starting")

	store, err := artifact.Open(r.cfg.Paths.ProcessedDir)
	if err != nil {
		return nil, err
	}
	if err := store.Lock(); err != nil {
		return nil, err
	}
	defer func() {
		if err := store.Unlock(); err != nil {
			log.Warn().Err(err).Msg("Failed to release artifact store lock")
		}
	}()

	var index *codebookindex.Index
	if r.cfg.CodebookIndex.Enabled {
		index, err = codebookindex.Open(r.cfg.CodebookIndex)
		if err != nil {
			return nil, wrapStage(StageIndex, err)
		}
		defer func() { _ = index.Close() }()
	}

	runErr := r.runStages(ctx, selected, store, index, report)
	if runErr == nil && r.cfg.Warehouse.Enabled {
		runErr = r.runTimed(ctx, StageWarehouse, func(ctx context.Context) error {
			return r.loadWarehouse(ctx, store, report)
		})
	}
	report.Duration = time.Since(start)

	// The ledger lives in the index database; without it there is nowhere
	// to keep the record.
	if index != nil {
		if err := index.Ledger().Save(ctx, runRecord(report, start, runErr)); err != nil {
			log.Warn().Err(err).Msg("Failed to save run record")
		}
	}
	if r.cfg.Metrics.Enabled {
		if err := metrics.WriteTextfile(r.cfg.Metrics.TextfilePath); err != nil {
			log.Warn().Err(err).Msg("Failed to write metrics textfile")
		}
	}

	if runErr != nil {
		log.Error().Err(runErr).Dur("duration", report.Duration).Msg("Pipeline run failed")
		return report, runErr
	}
	log.Info().Dur("duration", report.Duration).Msg("Pipeline run complete")
	return report, nil
}

func (r *Runner) runStages(ctx context.Context, stages []string, store *artifact.Store, index *codebookindex.Index, report *Report) error {
	for _, stage := range stages {
		var fn func(ctx context.Context) error
		switch stage {
		case StageIngest:
			fn = func(ctx context.Context) error {
				paths, err := r.ingest(ctx)
				report.Ingested = paths
				return err
			}
		case StagePreprocess:
			fn = func(ctx context.Context) error {
				res, err := preprocess.NewProcessor(r.cfg, store).Run(ctx)
				report.Encoder = res
				return err
			}
		case StageMetadata:
			fn = func(ctx context.Context) error {
				res, err := metadata.NewNormalizer(r.cfg, store).Run(ctx)
				report.Metadata = res
				return err
			}
		}

		if err := r.runTimed(ctx, stage, fn); err != nil {
			return err
		}

		if stage == StagePreprocess && index != nil {
			if err := r.runTimed(ctx, StageIndex, func(ctx context.Context) error {
				return refreshIndex(ctx, index, report.Encoder)
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// runTimed runs one stage with cancellation, metrics and error wrapping.
func (r *Runner) runTimed(ctx context.Context, stage string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return wrapStage(stage, err)
	}

	ctx = logging.ContextWithStage(ctx, stage)
	start := time.Now()
	err := fn(ctx)
	metrics.RecordStage(stage, time.Since(start), err)
	return wrapStage(stage, err)
}

func (r *Runner) ingest(ctx context.Context) ([]string, error) {
	f, err := r.newFetcher(ctx, r.cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ingest.Ingest(ctx, f, r.cfg.Ingestion.Files)
}

func refreshIndex(ctx context.Context, index *codebookindex.Index, res *preprocess.Result) error {
	runID := res.Manifest.RunID
	if err := index.Replace(ctx, runID, res.UserCodebook.IDs(), res.AnimeCodebook.IDs()); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().
		Str("codebook_run", runID).
		Int("users", res.UserCodebook.Len()).
		Int("anime", res.AnimeCodebook.Len()).
		Msg("Codebook index refreshed")
	return nil
}

// loadWarehouse reloads DuckDB from the committed artifacts. Both stages must
// have verified manifests, whichever of them ran in this invocation.
func (r *Runner) loadWarehouse(ctx context.Context, store *artifact.Store, report *Report) error {
	if _, err := artifact.Verify(store.Dir(), artifact.StageEncoder, artifact.EncoderFiles); err != nil {
		return err
	}
	if _, err := artifact.Verify(store.Dir(), artifact.StageMetadata, artifact.MetadataFiles); err != nil {
		return err
	}

	wh, err := warehouse.Open(r.cfg.Warehouse)
	if err != nil {
		return err
	}
	defer func() { _ = wh.Close() }()

	stats, err := wh.Load(ctx, store.Dir())
	if err != nil {
		return err
	}
	report.Warehouse = stats
	logging.Ctx(ctx).Info().
		Int64("ratings", stats.Ratings).
		Int64("anime", stats.Anime).
		Str("path", r.cfg.Warehouse.Path).
		Msg("Warehouse loaded")
	return nil
}

// orderStages validates names and returns them in pipeline order without
// duplicates. No names means every stage.
func orderStages(names []string) ([]string, error) {
	if len(names) == 0 {
		return append([]string(nil), AllStages...), nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		known := false
		for _, s := range AllStages {
			if n == s {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStage, n)
		}
		want[n] = true
	}

	var out []string
	for _, s := range AllStages {
		if want[s] {
			out = append(out, s)
		}
	}
	return out, nil
}

func runRecord(report *Report, start time.Time, runErr error) *codebookindex.RunRecord {
	rec := &codebookindex.RunRecord{
		RunID:      report.RunID,
		StartedAt:  start.UTC(),
		FinishedAt: time.Now().UTC(),
		Stages:     report.Stages,
		Status:     "success",
	}
	if runErr != nil {
		rec.Status = "error"
		rec.Error = runErr.Error()
	}
	if res := report.Encoder; res != nil {
		rec.RawRows = res.Stats.RawRows
		rec.FilteredRows = res.Stats.FilteredRows
		rec.Users = res.Stats.Users
		rec.Anime = res.Stats.Anime
		rec.TrainRows = res.Stats.TrainRows
		rec.TestRows = res.Stats.TestRows
	}
	if res := report.Metadata; res != nil {
		rec.MetadataRows = res.Rows
		rec.Skipped = len(res.Skipped)
	}
	return rec
}

// IsStageError reports whether err came from the named stage.
func IsStageError(err error, stage string) bool {
	var se *StageError
	return errors.As(err, &se) && se.Stage == stage
}
