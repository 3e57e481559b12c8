// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package warehouse

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/animeprep/internal/artifact"
	"github.com/tomtom215/animeprep/internal/config"
)

func setupTestWarehouse(t *testing.T) *Warehouse {
	t.Helper()
	w, err := Open(config.WarehouseConfig{
		Enabled:   true,
		Path:      filepath.Join(t.TempDir(), "wh", "warehouse.duckdb"),
		MaxMemory: "256MB",
		Threads:   1,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func writeProcessed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		artifact.RatingTableFile: "user_id,anime_id,rating,user,anime\n" +
			"10,1,1,0,0\n" +
			"10,6,0.5,0,1\n" +
			"20,1,0,1,0\n" +
			"30,1,0.25,2,0\n",
		artifact.AnimeTableFile: "anime_id,eng_version,Score,Genres,Episodes,Type,Premiered,Members\n" +
			"1,Cowboy Bebop,8.78,\"Action, Adventure\",26,TV,Spring 1998,1251960\n" +
			"6,Trigun,8.24,Action,26,TV,Spring 1998,558913\n",
		artifact.SynopsisTableFile: "MAL_ID,Name,Genres,sypnopsis\n" +
			"1,Cowboy Bebop,\"Action, Adventure\",\"In the year 2071, humanity...\"\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadAndSummarize(t *testing.T) {
	w := setupTestWarehouse(t)
	ctx := context.Background()

	stats, err := w.Load(ctx, writeProcessed(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if stats.Ratings != 4 || stats.Anime != 2 || stats.Synopsis != 1 {
		t.Errorf("LoadStats = %+v, want 4/2/1", stats)
	}

	s, err := w.Summarize(ctx, 5)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if s.Ratings != 4 || s.Users != 3 || s.Anime != 2 {
		t.Errorf("Summary = %+v", s)
	}
	if s.MeanRating < 0.437 || s.MeanRating > 0.438 {
		t.Errorf("MeanRating = %v, want 0.4375", s.MeanRating)
	}
	if len(s.TopAnime) != 2 {
		t.Fatalf("TopAnime = %+v, want 2 entries", s.TopAnime)
	}
	if s.TopAnime[0].AnimeID != 1 || s.TopAnime[0].Name != "Cowboy Bebop" || s.TopAnime[0].Ratings != 3 {
		t.Errorf("TopAnime[0] = %+v", s.TopAnime[0])
	}
}

func TestLoadReplacesTables(t *testing.T) {
	w := setupTestWarehouse(t)
	ctx := context.Background()
	dir := writeProcessed(t)

	if _, err := w.Load(ctx, dir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, artifact.RatingTableFile),
		[]byte("user_id,anime_id,rating,user,anime\n10,1,1,0,0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	stats, err := w.Load(ctx, dir)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if stats.Ratings != 1 {
		t.Errorf("Ratings = %d after reload, want 1", stats.Ratings)
	}
}

func TestLoadMissingFile(t *testing.T) {
	w := setupTestWarehouse(t)
	dir := writeProcessed(t)
	if err := os.Remove(filepath.Join(dir, artifact.SynopsisTableFile)); err != nil {
		t.Fatal(err)
	}

	if _, err := w.Load(context.Background(), dir); err == nil {
		t.Fatal("Load() = nil error, want missing file failure")
	}
}

func TestQuoteLiteral(t *testing.T) {
	if got := quoteLiteral("/data/o'brien/rating_df.csv"); got != "'/data/o''brien/rating_df.csv'" {
		t.Errorf("quoteLiteral() = %s", got)
	}
}
