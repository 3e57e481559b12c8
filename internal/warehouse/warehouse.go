// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/animeprep/internal/artifact"
	"github.com/tomtom215/animeprep/internal/config"
	"github.com/tomtom215/animeprep/internal/logging"
	"github.com/tomtom215/animeprep/internal/metrics"
)

// Table names in the warehouse.
const (
	TableRatings  = "ratings"
	TableAnime    = "anime"
	TableSynopsis = "synopsis"
)

// ratingColumns pins the types of rating_df.csv instead of sniffing them.
const ratingColumns = `{'user_id': 'BIGINT', 'anime_id': 'BIGINT', 'rating': 'FLOAT', 'user': 'INTEGER', 'anime': 'INTEGER'}`

// Warehouse is a DuckDB database holding the committed tables for SQL inspection.
type Warehouse struct {
	conn *sql.DB
	cfg  config.WarehouseConfig
}

// Open opens or creates the DuckDB file at cfg.Path.
func Open(cfg config.WarehouseConfig) (*Warehouse, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create warehouse directory: %w", err)
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	// Only the built-in CSV reader is used, so extension autoloading stays off.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, threads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}
	if err := conn.Ping(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}

	return &Warehouse{conn: conn, cfg: cfg}, nil
}

// Close closes the database.
func (w *Warehouse) Close() error {
	return w.conn.Close()
}

// LoadStats reports the row counts loaded by Load.
type LoadStats struct {
	Ratings  int64
	Anime    int64
	Synopsis int64
	Duration time.Duration
}

// Load replaces the warehouse tables with the committed CSVs in processedDir.
// All three tables are replaced in one transaction.
func (w *Warehouse) Load(ctx context.Context, processedDir string) (*LoadStats, error) {
	start := time.Now()

	sources := []struct {
		table string
		file  string
		opts  string
	}{
		{TableRatings, artifact.RatingTableFile, "header = true, columns = " + ratingColumns},
		{TableAnime, artifact.AnimeTableFile, "header = true, auto_detect = true"},
		{TableSynopsis, artifact.SynopsisTableFile, "header = true, auto_detect = true, all_varchar = true"},
	}

	tx, err := w.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin load: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, src := range sources {
		path := filepath.Join(processedDir, src.file)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", src.table, err)
		}
		query := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv(%s, %s)",
			src.table, quoteLiteral(path), src.opts)

		qStart := time.Now()
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return nil, fmt.Errorf("load %s: %w", src.table, err)
		}
		logging.Debug().Str("table", src.table).Dur("duration", time.Since(qStart)).Msg("Loaded warehouse table")
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit load: %w", err)
	}

	stats := &LoadStats{Duration: time.Since(start)}
	counts := []struct {
		table string
		dst   *int64
	}{
		{TableRatings, &stats.Ratings},
		{TableAnime, &stats.Anime},
		{TableSynopsis, &stats.Synopsis},
	}
	for _, c := range counts {
		if err := w.conn.QueryRowContext(ctx, "SELECT count(*) FROM "+c.table).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
	}
	metrics.SetRows("warehouse_ratings", int(stats.Ratings))
	return stats, nil
}

// quoteLiteral quotes s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
