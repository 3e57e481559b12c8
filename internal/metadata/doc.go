// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

// Package metadata builds the ranked anime table and the synopsis projection.
//
// "Unknown" cells are treated as missing. Each anime is shown under its
// English name when it has one, else under its original name; rows with
// neither are skipped and reported as *ResolutionError. The output is sorted
// by Score, highest first, with unscored anime last in input order.
package metadata
