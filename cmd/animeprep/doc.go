// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

/*
Command animeprep prepares the Kaggle anime rating dataset for an embedding
recommender.

Usage:

	animeprep run          # ingest, preprocess, metadata
	animeprep ingest       # fetch raw CSVs only
	animeprep preprocess   # codebooks and train/test split
	animeprep metadata     # ranked anime_df.csv and synopsis_df.csv
	animeprep verify       # check manifests and load the training set
	animeprep inspect      # artifacts, last run, warehouse summary
	animeprep lookup anime 5114
	animeprep lookup user --index 0

Configuration is read from --config, CONFIG_PATH or config.yaml and can be
overridden with environment variables (GCS_BUCKET, MIN_RATINGS, TEST_SIZE,
LOG_LEVEL, ...). The stage commands take --index and --warehouse to enable
the optional sinks for one invocation, and --metrics-textfile to export
Prometheus metrics for node_exporter's textfile collector.

SIGINT and SIGTERM cancel the run; a stage interrupted before commit leaves
the previously committed artifacts in place.
*/
package main
