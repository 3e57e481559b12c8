// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

/*
Package artifact manages the processed artifacts directory.

# Commit Protocol

Every stage (encoder, metadata) publishes its files as a unit:

 1. Begin creates processed/.staging-<stage>-<runid>/
 2. Write/WriteJSON fill it, computing an xxh3-128 checksum per file
 3. Commit removes the old <stage>.manifest.json, renames each file into
    processed/, then writes the new manifest
 4. Abort (on any failure) deletes the staging directory

A stage without a manifest is treated as absent, so a crash mid-commit is
detected instead of silently mixing files from two runs.

# Locking

Store.Lock takes a gofrs/flock lock on processed/.animeprep.lock. Begin refuses
to start a stage without it, which keeps two runs from interleaving commits.

# Reading

LoadTrainingSet is the interface of the downstream trainer: it verifies the
encoder manifest and returns the codebooks and split arrays.

	ts, err := artifact.LoadTrainingSet("artifacts/processed")
	if errors.Is(err, artifact.ErrNoManifest) {
	    // run `animeprep preprocess` first
	}
*/
package artifact
