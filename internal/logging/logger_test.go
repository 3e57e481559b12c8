// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// initForTest routes the global logger to a buffer and restores stderr
// logging when the test ends.
func initForTest(t *testing.T, cfg Config) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	cfg.Output = &buf
	if err := Init(cfg); err != nil {
		t.Fatalf("Init(%+v) error = %v", cfg, err)
	}
	t.Cleanup(func() { _ = Init(Config{Level: "error"}) })
	return &buf
}

func TestInit_LevelAndOverride(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		override  string
		wantDebug bool
		wantWarn  bool
	}{
		{"config level", "warn", "", false, true},
		{"override wins", "warn", "debug", true, true},
		{"warning alias", "warning", "", false, true},
		{"empty is info", "", "", false, true},
		{"disabled", "disabled", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := initForTest(t, Config{Level: tt.level, LevelOverride: tt.override, Format: "json"})

			Debug().Msg("codebook sizes")
			if got := strings.Contains(buf.String(), "codebook sizes"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v (%s)", got, tt.wantDebug, buf.String())
			}
			Warn().Msg("rows skipped")
			if got := strings.Contains(buf.String(), "rows skipped"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v (%s)", got, tt.wantWarn, buf.String())
			}
		})
	}
}

func TestInit_Invalid(t *testing.T) {
	buf := initForTest(t, Config{Level: "info", Format: "json"})

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"unknown level", Config{Level: "verbose"}, ErrUnknownLevel},
		{"unknown override", Config{Level: "info", LevelOverride: "loud"}, ErrUnknownLevel},
		{"unknown format", Config{Level: "info", Format: "xml"}, ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var other bytes.Buffer
			tt.cfg.Output = &other
			if err := Init(tt.cfg); !errors.Is(err, tt.wantErr) {
				t.Errorf("Init() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// A rejected config keeps the previous logger.
	Warn().Msg("still here")
	if !strings.Contains(buf.String(), "still here") {
		t.Errorf("previous logger replaced after invalid Init: %q", buf.String())
	}
}

func TestInit_JSONFields(t *testing.T) {
	buf := initForTest(t, Config{Level: "info", Format: "json", Caller: true})

	With().Str("stage", "metadata").Logger().Warn().Int("skipped", 2).Msg("unresolved names")

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"stage":"metadata"`, `"skipped":2`, `"time":`, `"caller":`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output: %s", want, out)
		}
	}
}

func TestInit_Console(t *testing.T) {
	buf := initForTest(t, Config{Level: "info", Format: "console"})

	Warn().Str("file", "anime.csv").Msg("Missing score")

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("console output looks like JSON: %s", out)
	}
	if !strings.Contains(out, "Missing score") || !strings.Contains(out, "anime.csv") {
		t.Errorf("console output = %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestWithComponent(t *testing.T) {
	buf := initForTest(t, Config{Level: "info", Format: "json"})

	l := WithComponent("codebookindex")
	l.Warn().Msg("value log replay")

	if !strings.Contains(buf.String(), `"component":"codebookindex"`) {
		t.Errorf("component field missing: %s", buf.String())
	}
}
