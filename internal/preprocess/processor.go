// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package preprocess

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tomtom215/animeprep/internal/artifact"
	"github.com/tomtom215/animeprep/internal/config"
	"github.com/tomtom215/animeprep/internal/dataset"
	"github.com/tomtom215/animeprep/internal/logging"
	"github.com/tomtom215/animeprep/internal/metrics"
)

// ratingTableHeader is the column order of rating_df.csv.
var ratingTableHeader = []string{"user_id", "anime_id", "rating", "user", "anime"}

// Options are the encoder/partitioner parameters.
type Options struct {
	Columns    []string
	MinRatings int
	TestSize   int
	Seed       int64
	SortIDs    bool
}

// OptionsFromConfig converts the preprocess config section.
func OptionsFromConfig(c config.PreprocessConfig) Options {
	return Options{
		Columns:    c.Columns,
		MinRatings: c.MinRatings,
		TestSize:   c.TestSize,
		Seed:       c.Seed,
		SortIDs:    c.SortIDs,
	}
}

// Stats summarizes one encoder run.
type Stats struct {
	RawRows      int           `json:"raw_rows"`
	FilteredRows int           `json:"filtered_rows"`
	Users        int           `json:"users"`
	Anime        int           `json:"anime"`
	TrainRows    int           `json:"train_rows"`
	TestRows     int           `json:"test_rows"`
	MinRating    float64       `json:"min_rating"`
	MaxRating    float64       `json:"max_rating"`
	Duration     time.Duration `json:"duration"`
}

// Result is the outcome of a successful encoder run.
type Result struct {
	Stats         Stats
	UserCodebook  *Codebook
	AnimeCodebook *Codebook
	Manifest      *artifact.Manifest
}

// Processor runs the encoder stage: load, filter, scale, encode, split, persist.
type Processor struct {
	ratingsPath string
	opts        Options
	store       *artifact.Store
}

// NewProcessor creates a Processor reading the configured ratings file and
// committing into store. The caller must hold the store lock.
func NewProcessor(cfg *config.Config, store *artifact.Store) *Processor {
	return &Processor{
		ratingsPath: cfg.Paths.RatingsPath(),
		opts:        OptionsFromConfig(cfg.Preprocess),
		store:       store,
	}
}

// Run executes the stage. On any error nothing is committed and the previous
// encoder artifacts, if any, are left untouched.
func (p *Processor) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	log := logging.Ctx(ctx)

	raw, err := dataset.LoadRatings(p.ratingsPath, p.opts.Columns)
	if err != nil {
		return nil, err
	}
	metrics.SetRows("raw", raw.Len())
	log.Info().Int("rows", raw.Len()).Str("path", p.ratingsPath).Msg("Loaded ratings")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := FilterUsers(raw, p.opts.MinRatings)
	metrics.SetRows("filtered", filtered.Len())
	log.Info().
		Int("rows", filtered.Len()).
		Int("dropped", raw.Len()-filtered.Len()).
		Int("min_ratings", p.opts.MinRatings).
		Msg("Filtered sparse users")

	scaled, rng, err := ScaleRatings(filtered)
	if err != nil {
		return nil, err
	}

	ds := Encode(scaled, p.opts.SortIDs)
	metrics.SetCodebookSize("user", ds.UserCodebook.Len())
	metrics.SetCodebookSize("anime", ds.AnimeCodebook.Len())
	log.Info().
		Int("users", ds.UserCodebook.Len()).
		Int("anime", ds.AnimeCodebook.Len()).
		Bool("sorted", p.opts.SortIDs).
		Msg("Built codebooks")

	split, err := ShuffleSplit(ds, p.opts.TestSize, p.opts.Seed)
	if err != nil {
		return nil, err
	}
	metrics.SetRows("train", len(split.YTrain))
	metrics.SetRows("test", len(split.YTest))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest, err := p.persist(ctx, ds, split)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Stats: Stats{
			RawRows:      raw.Len(),
			FilteredRows: filtered.Len(),
			Users:        ds.UserCodebook.Len(),
			Anime:        ds.AnimeCodebook.Len(),
			TrainRows:    len(split.YTrain),
			TestRows:     len(split.YTest),
			MinRating:    rng.Min,
			MaxRating:    rng.Max,
			Duration:     time.Since(start),
		},
		UserCodebook:  ds.UserCodebook,
		AnimeCodebook: ds.AnimeCodebook,
		Manifest:      manifest,
	}
	log.Info().
		Int("train", res.Stats.TrainRows).
		Int("test", res.Stats.TestRows).
		Dur("duration", res.Stats.Duration).
		Msg("Encoder stage complete")
	return res, nil
}

// persist writes every encoder artifact into a stage and commits it.
func (p *Processor) persist(ctx context.Context, ds *EncodedDataset, split *Split) (*artifact.Manifest, error) {
	stage, err := p.store.Begin(artifact.StageEncoder, logging.RunIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	defer func() { _ = stage.Abort() }()

	jsonFiles := []struct {
		name string
		v    any
	}{
		{artifact.UserEncodedFile, ds.UserCodebook.EncodedMap()},
		{artifact.UserDecodedFile, ds.UserCodebook.DecodedMap()},
		{artifact.AnimeEncodedFile, ds.AnimeCodebook.EncodedMap()},
		{artifact.AnimeDecodedFile, ds.AnimeCodebook.DecodedMap()},
		{artifact.XTrainFile, split.XTrain},
		{artifact.XTestFile, split.XTest},
		{artifact.YTrainFile, split.YTrain},
		{artifact.YTestFile, split.YTest},
	}
	for _, f := range jsonFiles {
		if err := stage.WriteJSON(f.name, f.v); err != nil {
			return nil, err
		}
	}

	if err := stage.Write(artifact.RatingTableFile, func(w io.Writer) error {
		return writeRatingTable(w, ds, split.Order)
	}); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return stage.Commit()
}

// writeRatingTable writes the augmented table in shuffled order.
func writeRatingTable(w io.Writer, ds *EncodedDataset, order []int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ratingTableHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rec := make([]string, len(ratingTableHeader))
	for _, i := range order {
		rec[0] = strconv.FormatInt(ds.UserID[i], 10)
		rec[1] = strconv.FormatInt(ds.AnimeID[i], 10)
		rec[2] = strconv.FormatFloat(float64(ds.Rating[i]), 'g', -1, 32)
		rec[3] = strconv.FormatInt(int64(ds.User[i]), 10)
		rec[4] = strconv.FormatInt(int64(ds.Anime[i]), 10)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
