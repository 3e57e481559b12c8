// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package logging

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// PrintfAdapter bridges printf-style library loggers to zerolog.
// It satisfies badger.Logger (Errorf, Warningf, Infof, Debugf), so the
// codebook index logs through the same sink as the rest of the pipeline.
//
// Usage:
//
//	opts := badger.DefaultOptions(path)
//	opts.Logger = logging.NewPrintfAdapter("codebookindex")
type PrintfAdapter struct {
	logger zerolog.Logger
}

// NewPrintfAdapter creates an adapter over the global logger tagged with component.
func NewPrintfAdapter(component string) *PrintfAdapter {
	return &PrintfAdapter{logger: WithComponent(component)}
}

// NewPrintfAdapterWithLogger creates an adapter over a specific zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPrintfAdapterWithLogger(logger zerolog.Logger) *PrintfAdapter {
	return &PrintfAdapter{logger: logger}
}

func (a *PrintfAdapter) Errorf(format string, args ...interface{}) {
	a.logger.Error().Msg(trimMessage(format, args))
}

func (a *PrintfAdapter) Warningf(format string, args ...interface{}) {
	a.logger.Warn().Msg(trimMessage(format, args))
}

// Infof logs at debug: storage engines report compaction and replay at info,
// which is noise next to pipeline progress.
func (a *PrintfAdapter) Infof(format string, args ...interface{}) {
	a.logger.Debug().Msg(trimMessage(format, args))
}

func (a *PrintfAdapter) Debugf(format string, args ...interface{}) {
	a.logger.Trace().Msg(trimMessage(format, args))
}

// trimMessage formats and drops the trailing newline printf loggers append.
func trimMessage(format string, args []interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
