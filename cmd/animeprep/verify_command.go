// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tomtom215/animeprep/internal/artifact"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check committed artifacts against their manifests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.Paths.ProcessedDir
			out := cmd.OutOrStdout()

			stages := []struct {
				name  string
				files []string
			}{
				{artifact.StageEncoder, artifact.EncoderFiles},
				{artifact.StageMetadata, artifact.MetadataFiles},
			}
			rows := make([][]string, 0, len(stages))
			for _, st := range stages {
				m, err := artifact.Verify(dir, st.name, st.files)
				if err != nil {
					return fmt.Errorf("verify %s: %w", st.name, err)
				}
				rows = append(rows, []string{
					st.name,
					m.RunID,
					fmt.Sprintf("%d", len(m.Files)),
					humanize.Bytes(uint64(m.TotalSize())), //nolint:gosec // sizes are non-negative
					humanize.Time(m.CommittedAt),
				})
			}

			ts, err := artifact.LoadTrainingSet(dir)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Stage", "Run", "Files", "Size", "Committed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "Training set OK: %s users, %s anime, %s train, %s test\n",
				humanize.Comma(int64(ts.NumUsers())),
				humanize.Comma(int64(ts.NumAnime())),
				humanize.Comma(int64(len(ts.YTrain))),
				humanize.Comma(int64(len(ts.YTest))),
			)
			return nil
		},
	}
}
