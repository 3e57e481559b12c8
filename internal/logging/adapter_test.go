// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestPrintfAdapterLevels(t *testing.T) {
	original := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(original)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		name      string
		log       func(a *PrintfAdapter)
		wantLevel string
		wantMsg   string
	}{
		{"errorf", func(a *PrintfAdapter) { a.Errorf("open %s failed\n", "vlog") }, `"level":"error"`, `"message":"open vlog failed"`},
		{"warningf", func(a *PrintfAdapter) { a.Warningf("retry %d", 2) }, `"level":"warn"`, `"message":"retry 2"`},
		{"infof", func(a *PrintfAdapter) { a.Infof("replaying %d entries", 10) }, `"level":"debug"`, `"message":"replaying 10 entries"`},
		{"debugf", func(a *PrintfAdapter) { a.Debugf("compaction") }, `"level":"trace"`, `"message":"compaction"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			a := NewPrintfAdapterWithLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))
			tt.log(a)

			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("output %q missing %s", out, tt.wantLevel)
			}
			if !strings.Contains(out, tt.wantMsg) {
				t.Errorf("output %q missing %s", out, tt.wantMsg)
			}
		})
	}
}

func TestPrintfAdapterRespectsLevel(t *testing.T) {
	original := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(original)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	a := NewPrintfAdapterWithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))
	a.Infof("hidden")
	a.Debugf("hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output below info, got %q", buf.String())
	}
}
