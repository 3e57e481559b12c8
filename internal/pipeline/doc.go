// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

/*
Package pipeline orchestrates a run: ingest, preprocess, metadata.

Runner.Run assigns a run ID, takes the processed directory lock, and executes
the requested stages in order. Each stage is timed into the metrics registry
and any failure is returned as a *StageError naming the stage and, when known,
the file involved:

	report, err := pipeline.NewRunner(cfg).Run(ctx)
	var se *pipeline.StageError
	if errors.As(err, &se) {
	    log.Error().Str("stage", se.Stage).Str("file", se.File).Err(se.Err).Msg("Run failed")
	}

Optional follow-up steps run when enabled in the config: the codebook index
is refreshed after the encoder stage, and the DuckDB warehouse is reloaded
once every requested stage has committed. Every run, successful or not, is
recorded in the run ledger.
*/
package pipeline
