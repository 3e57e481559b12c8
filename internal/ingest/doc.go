// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

// Package ingest fetches the raw CSV files into the raw directory.
//
// GCSFetcher downloads from a Cloud Storage bucket; LocalFetcher copies from a
// directory. Both write through a temporary file so a failed download never
// replaces a good file, and both cap the ratings file at max_rating_rows data
// rows while streaming.
//
// Files are published one at a time, in the configured order. The raw
// directory has no manifest, so an ingest that fails partway leaves the files
// already published from this run next to older copies of the rest. Rerun
// ingest until it succeeds before running preprocess or metadata.
package ingest
