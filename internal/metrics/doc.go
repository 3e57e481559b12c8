// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

/*
Package metrics provides Prometheus metrics for pipeline runs.

Metrics live on a dedicated Registry rather than the default registerer. A run
is a short-lived batch job, so instead of serving /metrics the pipeline writes
the registry once at the end of the run with WriteTextfile, for pickup by the
node_exporter textfile collector:

	metrics:
	  enabled: true
	  textfile_path: /var/lib/node_exporter/textfile/animeprep.prom

# Available Metrics

Stage Metrics:
  - animeprep_stage_duration_seconds: Stage execution time (histogram)
    Labels: stage
  - animeprep_stage_runs_total: Stage executions (counter)
    Labels: stage, status
  - animeprep_stage_last_success_timestamp: Last successful stage (gauge)
    Labels: stage

Data Metrics:
  - animeprep_rows: Rows per table (gauge)
    Labels: table (raw, filtered, train, test, anime, synopsis)
  - animeprep_codebook_entries: Codebook sizes (gauge)
    Labels: entity (user, anime)
  - animeprep_metadata_skipped_total: Unresolvable metadata rows (counter)

Ingestion and Artifact Metrics:
  - animeprep_ingest_bytes_total: Bytes fetched (counter)
    Labels: file
  - animeprep_artifact_bytes: Committed artifact sizes (gauge)
    Labels: file

# Usage

	start := time.Now()
	res, err := processor.Run(ctx)
	metrics.RecordStage("preprocess", time.Since(start), err)

# Testing

Tests read values back with prometheus/testutil:

	got := testutil.ToFloat64(metrics.Rows.WithLabelValues("train"))
*/
package metrics
