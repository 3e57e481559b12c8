// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrUnknownLevel is returned by Init for a level zerolog does not know.
	ErrUnknownLevel = errors.New("unknown log level")

	// ErrUnknownFormat is returned by Init for a format other than json or console.
	ErrUnknownFormat = errors.New("unknown log format")
)

// Config selects where pipeline logs go and how much is written.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error, disabled.
	Level string

	// LevelOverride replaces Level when set, e.g. from --log-level.
	LevelOverride string

	// Format is json (for log shippers) or console (for terminals).
	Format string

	// Caller adds file:line to each entry.
	Caller bool

	// Output defaults to os.Stderr so stdout stays free for reports.
	Output io.Writer
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

//nolint:gochecknoinits // logging works before the CLI has loaded its config
func init() {
	level := zerolog.InfoLevel
	// Keep `go test ./...` output readable unless a test opts in.
	if os.Getenv("ANIMEPREP_QUIET") == "1" {
		level = zerolog.ErrorLevel
	}
	log = newLogger(os.Stderr, "console", level, false)
}

// Init replaces the global logger. It may be called again to reconfigure,
// and leaves the current logger untouched when cfg is invalid.
func Init(cfg Config) error {
	levelName := cfg.Level
	if cfg.LevelOverride != "" {
		levelName = cfg.LevelOverride
	}
	level, err := parseLevel(levelName)
	if err != nil {
		return err
	}

	format := strings.ToLower(cfg.Format)
	switch format {
	case "":
		format = "console"
	case "json", "console":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	mu.Lock()
	defer mu.Unlock()
	log = newLogger(out, format, level, cfg.Caller)
	return nil
}

func newLogger(out io.Writer, format string, level zerolog.Level, caller bool) zerolog.Logger {
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// parseLevel accepts zerolog's level names plus "warning". Empty means info.
func parseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
	return level, nil
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With creates a child of the global logger.
//
//	log := logging.With().Str("stage", "encoder").Logger()
func With() zerolog.Context {
	l := current()
	return l.With()
}

// Debug starts a debug message on the global logger.
func Debug() *zerolog.Event {
	l := current()
	return l.Debug()
}

// Warn starts a warning on the global logger.
func Warn() *zerolog.Event {
	l := current()
	return l.Warn()
}
