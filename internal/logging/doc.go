// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

// Package logging provides centralized zerolog-based structured logging for animeprep.
//
// The pipeline is a batch job, so the default format is console output on
// stderr. JSON output is available for runs collected by a log shipper.
//
// # Quick Start
//
//	if err := logging.Init(logging.Config{
//	    Level:         cfg.Logging.Level,
//	    LevelOverride: levelFlag,
//	    Format:        "json",
//	}); err != nil {
//	    return err
//	}
//
//	logging.Warn().Str("dir", dir).Msg("stale staging directory")
//
// # Run Context
//
// Every pipeline run carries a short run ID. Stages add their name to the
// context so that log lines can be grouped per run and per stage:
//
//	ctx = logging.ContextWithNewRunID(ctx)
//	ctx = logging.ContextWithStage(ctx, "encode")
//	logging.Ctx(ctx).Info().Int("users", n).Msg("user codebook built")
//
// # Configuration
//
// The logging section of the animeprep config (or LOG_LEVEL, LOG_FORMAT,
// LOG_CALLER in the environment) is passed to Init by the CLI.
//
// # Library Loggers
//
// PrintfAdapter routes printf-style library logs (BadgerDB) into zerolog,
// tagged with a component field.
//
// Always terminate log chains with .Msg() or .Send().
package logging
