// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tomtom215/animeprep/internal/pipeline"
	"github.com/tomtom215/animeprep/internal/preprocess"
)

type stageFlags struct {
	index     bool
	warehouse bool
	metrics   string
	json      bool
}

func newStageCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newStageCommand(ctx, "run", "Run ingest, preprocess and metadata in order", pipeline.AllStages...),
		newStageCommand(ctx, pipeline.StageIngest, "Fetch the raw CSVs into the raw directory", pipeline.StageIngest),
		newStageCommand(ctx, pipeline.StagePreprocess, "Build codebooks and the train/test split", pipeline.StagePreprocess),
		newStageCommand(ctx, pipeline.StageMetadata, "Normalize and rank the anime metadata", pipeline.StageMetadata),
	}
}

func newStageCommand(ctx *commandContext, use, short string, stages ...string) *cobra.Command {
	var flags stageFlags

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("index") {
				cfg.CodebookIndex.Enabled = flags.index
			}
			if cmd.Flags().Changed("warehouse") {
				cfg.Warehouse.Enabled = flags.warehouse
			}
			if flags.metrics != "" {
				cfg.Metrics.Enabled = true
				cfg.Metrics.TextfilePath = flags.metrics
			}

			report, err := pipeline.NewRunner(cfg).Run(cmd.Context(), stages...)
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(cmd, summarizeReport(report))
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.index, "index", false, "Refresh the codebook index (overrides codebook_index.enabled)")
	cmd.Flags().BoolVar(&flags.warehouse, "warehouse", false, "Reload the DuckDB warehouse (overrides warehouse.enabled)")
	cmd.Flags().StringVar(&flags.metrics, "metrics-textfile", "", "Write Prometheus metrics to this textfile")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the run report as JSON")
	return cmd
}

type runSummary struct {
	RunID        string            `json:"run_id"`
	Stages       []string          `json:"stages"`
	Duration     string            `json:"duration"`
	Ingested     []string          `json:"ingested,omitempty"`
	Encoder      *preprocess.Stats `json:"encoder,omitempty"`
	MetadataRows *int              `json:"metadata_rows,omitempty"`
	Skipped      []string          `json:"skipped,omitempty"`
	Warehouse    *warehouseSummary `json:"warehouse,omitempty"`
}

type warehouseSummary struct {
	Ratings  int64 `json:"ratings"`
	Anime    int64 `json:"anime"`
	Synopsis int64 `json:"synopsis"`
}

func summarizeReport(r *pipeline.Report) runSummary {
	s := runSummary{
		RunID:    r.RunID,
		Stages:   r.Stages,
		Duration: r.Duration.Round(time.Millisecond).String(),
		Ingested: r.Ingested,
	}
	if r.Encoder != nil {
		stats := r.Encoder.Stats
		s.Encoder = &stats
	}
	if r.Metadata != nil {
		rows := r.Metadata.Rows
		s.MetadataRows = &rows
		for _, skip := range r.Metadata.Skipped {
			s.Skipped = append(s.Skipped, skip.Error())
		}
	}
	if r.Warehouse != nil {
		s.Warehouse = &warehouseSummary{
			Ratings:  r.Warehouse.Ratings,
			Anime:    r.Warehouse.Anime,
			Synopsis: r.Warehouse.Synopsis,
		}
	}
	return s
}

func printReport(w io.Writer, r *pipeline.Report) {
	var rows [][]string
	if r.Ingested != nil {
		rows = append(rows, []string{pipeline.StageIngest, fmt.Sprintf("%d files fetched", len(r.Ingested))})
	}
	if e := r.Encoder; e != nil {
		st := e.Stats
		rows = append(rows,
			[]string{pipeline.StagePreprocess, fmt.Sprintf("%s of %s ratings kept", humanize.Comma(int64(st.FilteredRows)), humanize.Comma(int64(st.RawRows)))},
			[]string{"", fmt.Sprintf("%s users, %s anime", humanize.Comma(int64(st.Users)), humanize.Comma(int64(st.Anime)))},
			[]string{"", fmt.Sprintf("%s train, %s test", humanize.Comma(int64(st.TrainRows)), humanize.Comma(int64(st.TestRows)))},
			[]string{"", fmt.Sprintf("rating range %g..%g", st.MinRating, st.MaxRating)},
		)
	}
	if m := r.Metadata; m != nil {
		rows = append(rows, []string{pipeline.StageMetadata, fmt.Sprintf("%s anime ranked, %d skipped", humanize.Comma(int64(m.Rows)), len(m.Skipped))})
	}
	if wh := r.Warehouse; wh != nil {
		rows = append(rows, []string{pipeline.StageWarehouse, fmt.Sprintf("%s ratings, %s anime loaded", humanize.Comma(wh.Ratings), humanize.Comma(wh.Anime))})
	}

	fmt.Fprintf(w, "Run %s finished in %s\n", r.RunID, r.Duration.Round(time.Millisecond))
	if len(rows) > 0 {
		fmt.Fprintln(w, renderTable([]string{"Stage", "Result"}, rows, nil))
	}
}
