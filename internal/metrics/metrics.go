// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every pipeline metric. A batch run has no /metrics endpoint,
// so the registry is written to a node_exporter textfile at the end of a run.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Stage Metrics
	StageDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animeprep_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 1800},
		},
		[]string{"stage"},
	)

	StageRuns = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animeprep_stage_runs_total",
			Help: "Total number of pipeline stage executions",
		},
		[]string{"stage", "status"}, // status: "success", "error"
	)

	StageLastSuccess = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "animeprep_stage_last_success_timestamp",
			Help: "Unix timestamp of the last successful stage execution",
		},
		[]string{"stage"},
	)

	// Data Metrics
	Rows = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "animeprep_rows",
			Help: "Number of rows at each point of the pipeline",
		},
		[]string{"table"}, // "raw", "filtered", "train", "test", "anime", "synopsis"
	)

	CodebookSize = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "animeprep_codebook_entries",
			Help: "Number of distinct identifiers in each codebook",
		},
		[]string{"entity"}, // "user", "anime"
	)

	MetadataSkipped = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "animeprep_metadata_skipped_total",
			Help: "Total number of metadata rows skipped because no display name could be resolved",
		},
	)

	// Ingestion Metrics
	IngestBytes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animeprep_ingest_bytes_total",
			Help: "Total bytes written to the raw directory by the fetcher",
		},
		[]string{"file"},
	)

	// Artifact Metrics
	ArtifactBytes = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "animeprep_artifact_bytes",
			Help: "Size of each committed artifact in bytes",
		},
		[]string{"file"},
	)
)

// RecordStage records the outcome of one pipeline stage.
func RecordStage(stage string, duration time.Duration, err error) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if err != nil {
		StageRuns.WithLabelValues(stage, "error").Inc()
		return
	}
	StageRuns.WithLabelValues(stage, "success").Inc()
	StageLastSuccess.WithLabelValues(stage).Set(float64(time.Now().Unix()))
}

// SetRows records the row count of a table.
func SetRows(table string, n int) {
	Rows.WithLabelValues(table).Set(float64(n))
}

// SetCodebookSize records the number of entries of a codebook.
func SetCodebookSize(entity string, n int) {
	CodebookSize.WithLabelValues(entity).Set(float64(n))
}

// RecordSkipped adds n skipped metadata rows.
func RecordSkipped(n int) {
	if n > 0 {
		MetadataSkipped.Add(float64(n))
	}
}

// RecordIngest adds n fetched bytes for file.
func RecordIngest(file string, n int64) {
	IngestBytes.WithLabelValues(file).Add(float64(n))
}

// SetArtifactSize records the committed size of an artifact.
func SetArtifactSize(file string, n int64) {
	ArtifactBytes.WithLabelValues(file).Set(float64(n))
}

// WriteTextfile writes the registry to path in the Prometheus text format.
// The write goes through a temporary file so the collector never reads a
// partial file.
func WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
