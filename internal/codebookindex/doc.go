// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

// Package codebookindex keeps a BadgerDB copy of the user and anime codebooks
// and a ledger of the last pipeline run.
//
// The JSON codebooks in the processed directory are what the trainer loads.
// This index serves point lookups (`animeprep lookup anime --id 5114`) without
// decoding a multi-megabyte JSON map, and survives across runs until the next
// successful encoder stage replaces it.
//
// Codebooks are stored per encoder run and published by pointing
// codebook:meta at the run ID once both entities are written. An encoder run
// that skips the index leaves the pointer on an older run; CheckCurrent
// compares it with the committed encoder manifest so callers can fall back to
// the JSON codebooks instead of answering from stale data.
package codebookindex
