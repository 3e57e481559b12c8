// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

// Package config loads and validates animeprep configuration.
//
// # Sources
//
// Configuration is layered with Koanf v2, highest priority last:
//
//  1. Built-in defaults (defaultConfig)
//  2. A YAML file: the --config flag, CONFIG_PATH, or the first of
//     config.yaml, config.yml, config/config.yaml, config/config.yml
//  3. Environment variables listed in envMappings
//
// # Example config.yaml
//
//	ingestion:
//	  source: gcs
//	  bucket: anime-recsys-raw
//	  files: [anime.csv, anime_with_synopsis.csv, animelist.csv]
//	  max_rating_rows: 5000000
//	paths:
//	  raw_dir: artifacts/raw
//	  processed_dir: artifacts/processed
//	preprocess:
//	  min_ratings: 400
//	  test_size: 1000
//	  seed: 43
//
// # Environment Variables
//
//	GCS_BUCKET, GCP_PROJECT_ID, GOOGLE_CREDENTIALS_FILE, INGEST_SOURCE,
//	INGEST_SOURCE_DIR, INGEST_FILES, INGEST_MAX_RATING_ROWS, RAW_DIR,
//	PROCESSED_DIR, MIN_RATINGS, TEST_SIZE, SPLIT_SEED, SORT_IDS,
//	CODEBOOK_INDEX_ENABLED, CODEBOOK_INDEX_PATH, WAREHOUSE_ENABLED,
//	WAREHOUSE_PATH, METRICS_ENABLED, METRICS_TEXTFILE, LOG_LEVEL,
//	LOG_FORMAT, LOG_CALLER
//
// Comma-separated values are accepted for INGEST_FILES and RATING_COLUMNS.
// GCP_PROJECT_ID sets the quota project charged for Cloud Storage requests,
// which only matters for requester-pays buckets.
package config
