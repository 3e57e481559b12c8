// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tomtom215/animeprep/internal/artifact"
	"github.com/tomtom215/animeprep/internal/codebookindex"
	"github.com/tomtom215/animeprep/internal/config"
	"github.com/tomtom215/animeprep/internal/warehouse"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show committed artifacts, the last run and warehouse statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if err := printManifests(out, cfg.Paths.ProcessedDir); err != nil {
				return err
			}
			if cfg.CodebookIndex.Enabled {
				if err := printLastRun(cmd, cfg.CodebookIndex, cfg.Paths.ProcessedDir); err != nil {
					return err
				}
			}
			if cfg.Warehouse.Enabled {
				if err := printWarehouse(cmd, cfg.Warehouse, top); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 5, "Number of most-rated anime to list from the warehouse")
	return cmd
}

func printManifests(out io.Writer, dir string) error {
	var rows [][]string
	for _, stage := range []string{artifact.StageEncoder, artifact.StageMetadata} {
		m, err := artifact.ReadManifest(dir, stage)
		if errors.Is(err, artifact.ErrNoManifest) {
			rows = append(rows, []string{stage, "(not committed)", "", ""})
			continue
		}
		if err != nil {
			return err
		}
		for i, f := range m.Files {
			name := ""
			if i == 0 {
				name = stage
			}
			rows = append(rows, []string{
				name,
				f.Name,
				humanize.Bytes(uint64(f.Size)), //nolint:gosec // sizes are non-negative
				f.Checksum,
			})
		}
	}

	fmt.Fprintf(out, "Artifacts in %s\n", dir)
	fmt.Fprintln(out, renderTable(
		[]string{"Stage", "File", "Size", "xxh3"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}

func printLastRun(cmd *cobra.Command, cfg config.CodebookIndexConfig, processedDir string) error {
	ix, err := codebookindex.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ix.Close() }()

	rec, err := ix.Ledger().Load(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	status, err := indexStatus(ix, processedDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Codebook index: %s\n", status)
	if rec == nil {
		fmt.Fprintln(out, "No run recorded")
		return nil
	}

	rows := [][]string{
		{"Run", rec.RunID},
		{"Stages", strings.Join(rec.Stages, ", ")},
		{"Status", rec.Status},
		{"Finished", humanize.Time(rec.FinishedAt)},
		{"Duration", rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond).String()},
		{"Ratings kept", fmt.Sprintf("%s of %s", humanize.Comma(int64(rec.FilteredRows)), humanize.Comma(int64(rec.RawRows)))},
		{"Users / anime", fmt.Sprintf("%s / %s", humanize.Comma(int64(rec.Users)), humanize.Comma(int64(rec.Anime)))},
		{"Metadata rows", fmt.Sprintf("%s (%d skipped)", humanize.Comma(int64(rec.MetadataRows)), rec.Skipped)},
	}
	if rec.Error != "" {
		rows = append(rows, []string{"Error", rec.Error})
	}
	fmt.Fprintln(out, "Last run")
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
	return nil
}

func indexStatus(ix *codebookindex.Index, processedDir string) (string, error) {
	var stale *codebookindex.StaleError
	err := ix.CheckCurrent(processedDir)
	switch {
	case err == nil:
		runID, err := ix.RunID()
		if err != nil {
			return "", err
		}
		return "current (run " + runID + ")", nil
	case errors.Is(err, artifact.ErrNoManifest):
		return "no encoder artifacts", nil
	case errors.As(err, &stale):
		return "stale, " + stale.Error(), nil
	default:
		return "", err
	}
}

func printWarehouse(cmd *cobra.Command, cfg config.WarehouseConfig, top int) error {
	out := cmd.OutOrStdout()
	if _, err := os.Stat(cfg.Path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "Warehouse %s not loaded yet\n", cfg.Path)
		return nil
	}

	wh, err := warehouse.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = wh.Close() }()

	s, err := wh.Summarize(cmd.Context(), top)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Warehouse: %s ratings, %s users, %s anime, mean scaled rating %.3f\n",
		humanize.Comma(s.Ratings), humanize.Comma(s.Users), humanize.Comma(s.Anime), s.MeanRating)
	if len(s.TopAnime) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(s.TopAnime))
	for _, a := range s.TopAnime {
		rows = append(rows, []string{fmt.Sprintf("%d", a.AnimeID), a.Name, humanize.Comma(a.Ratings)})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"MAL ID", "Name", "Ratings"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight},
	))
	return nil
}
