// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package codebookindex

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/tomtom215/animeprep/internal/artifact"
	"github.com/tomtom215/animeprep/internal/config"
	"github.com/tomtom215/animeprep/internal/logging"
)

// Entity names a codebook.
type Entity string

const (
	EntityUser  Entity = "user"
	EntityAnime Entity = "anime"
)

var (
	// ErrUnknownEntity is returned for an entity other than user or anime.
	ErrUnknownEntity = errors.New("unknown codebook entity")

	// ErrNoRunID is returned by Replace without a run ID.
	ErrNoRunID = errors.New("codebook refresh needs a run id")
)

// StaleError is returned by CheckCurrent when the index does not hold the
// codebooks of the committed encoder artifacts.
type StaleError struct {
	// IndexRunID is empty when no refresh ever completed.
	IndexRunID    string
	ArtifactRunID string
}

func (e *StaleError) Error() string {
	if e.IndexRunID == "" {
		return fmt.Sprintf("codebook index is empty, encoder artifacts are from run %s", e.ArtifactRunID)
	}
	return fmt.Sprintf("codebook index is from run %s, encoder artifacts are from run %s", e.IndexRunID, e.ArtifactRunID)
}

// Key layout. Each refresh writes a generation named by the encoder run ID and
// then points metaKey at it, so readers never see a half-written generation.
//
//	codebook:meta                       -> run id of the published generation
//	codebook:<run>:<entity>:enc:<id>    -> uint32 index (big endian)
//	codebook:<run>:<entity>:dec:<idx>   -> int64 id (big endian)
//	codebook:<run>:<entity>:size        -> uint32 entry count
const metaKey = "codebook:meta"

func generationPrefix(runID string) []byte {
	return []byte("codebook:" + runID + ":")
}

func entityPrefix(runID string, e Entity) []byte {
	return append(generationPrefix(runID), string(e)+":"...)
}

func encKey(runID string, e Entity, id int64) []byte {
	return append(entityPrefix(runID, e), "enc:"+strconv.FormatInt(id, 10)...)
}

func decKey(runID string, e Entity, idx int32) []byte {
	return append(entityPrefix(runID, e), "dec:"+strconv.FormatInt(int64(idx), 10)...)
}

func sizeKey(runID string, e Entity) []byte {
	return append(entityPrefix(runID, e), "size"...)
}

func checkEntity(e Entity) error {
	if e != EntityUser && e != EntityAnime {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, e)
	}
	return nil
}

// Index is a BadgerDB copy of the codebooks for lookups outside the trainer,
// such as mapping a recommendation's dense index back to a MAL id.
type Index struct {
	db *badger.DB
}

// Open opens or creates the index at cfg.Path.
func Open(cfg config.CodebookIndexConfig) (*Index, error) {
	if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
		return nil, fmt.Errorf("create codebook index directory: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Path)
	opts.SyncWrites = cfg.SyncWrites
	opts.Compression = options.Snappy
	opts.Logger = logging.NewPrintfAdapter("codebookindex")

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open codebook index: %w", err)
	}
	return &Index{db: db}, nil
}

// New wraps an already opened database.
func New(db *badger.DB) *Index {
	return &Index{db: db}
}

// Ledger returns the run ledger stored in the same database.
func (ix *Index) Ledger() *Ledger {
	return NewLedger(ix.db)
}

// Close closes the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Replace stores the user and anime codebooks of encoder run runID, where
// ids[i] has index i, and publishes them in place of the previous run's.
//
// Until the final pointer update readers keep seeing the previous
// generation, so a failed refresh never leaves a partial codebook visible.
func (ix *Index) Replace(ctx context.Context, runID string, users, anime []int64) error {
	if runID == "" {
		return ErrNoRunID
	}
	prev, err := ix.RunID()
	if err != nil {
		return err
	}
	if prev == runID {
		// Rewriting the published generation: unpublish it first.
		if err := ix.db.Update(func(txn *badger.Txn) error {
			return txn.Delete([]byte(metaKey))
		}); err != nil {
			return fmt.Errorf("unpublish codebooks: %w", err)
		}
	}
	// Leftovers of an interrupted refresh with the same run ID.
	if err := ix.db.DropPrefix(generationPrefix(runID)); err != nil {
		return fmt.Errorf("clear codebook generation %s: %w", runID, err)
	}

	wb := ix.db.NewWriteBatch()
	defer wb.Cancel()

	if err := writeEntity(ctx, wb, runID, EntityUser, users); err != nil {
		return err
	}
	if err := writeEntity(ctx, wb, runID, EntityAnime, anime); err != nil {
		return err
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush codebooks: %w", err)
	}

	if err := ix.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(metaKey), []byte(runID))
	}); err != nil {
		return fmt.Errorf("publish codebooks: %w", err)
	}

	if prev != "" && prev != runID {
		if err := ix.db.DropPrefix(generationPrefix(prev)); err != nil {
			logging.Warn().Err(err).Str("generation", prev).Msg("Failed to drop previous codebook generation")
		}
	}
	return nil
}

func writeEntity(ctx context.Context, wb *badger.WriteBatch, runID string, entity Entity, ids []int64) error {
	for i, id := range ids {
		if i%100_000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		idx := int32(i) //nolint:gosec // bounded by codebook size

		var idxBuf [4]byte
		binary.BigEndian.PutUint32(idxBuf[:], uint32(idx)) //nolint:gosec // non-negative
		if err := wb.Set(encKey(runID, entity, id), idxBuf[:]); err != nil {
			return fmt.Errorf("write %s codebook: %w", entity, err)
		}

		var idBuf [8]byte
		binary.BigEndian.PutUint64(idBuf[:], uint64(id)) //nolint:gosec // round-trips through int64
		if err := wb.Set(decKey(runID, entity, idx), idBuf[:]); err != nil {
			return fmt.Errorf("write %s codebook: %w", entity, err)
		}
	}

	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(ids))) //nolint:gosec // bounded by codebook size
	if err := wb.Set(sizeKey(runID, entity), sizeBuf[:]); err != nil {
		return fmt.Errorf("write %s codebook size: %w", entity, err)
	}
	return nil
}

// RunID returns the encoder run whose codebooks are published, or "" when
// no refresh has completed.
func (ix *Index) RunID() (string, error) {
	var runID string
	err := ix.db.View(func(txn *badger.Txn) error {
		val, err := readValue(txn, []byte(metaKey))
		runID = string(val)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("read codebook index run: %w", err)
	}
	return runID, nil
}

// CheckCurrent returns *StaleError unless the published codebooks belong to
// the encoder manifest committed in processedDir.
func (ix *Index) CheckCurrent(processedDir string) error {
	m, err := artifact.ReadManifest(processedDir, artifact.StageEncoder)
	if err != nil {
		return err
	}
	runID, err := ix.RunID()
	if err != nil {
		return err
	}
	if runID != m.RunID {
		return &StaleError{IndexRunID: runID, ArtifactRunID: m.RunID}
	}
	return nil
}

// get returns a copy of the published value built by key, or nil when absent.
func (ix *Index) get(key func(runID string) []byte) ([]byte, error) {
	var val []byte
	err := ix.db.View(func(txn *badger.Txn) error {
		runID, err := readValue(txn, []byte(metaKey))
		if err != nil || runID == nil {
			return err
		}
		val, err = readValue(txn, key(string(runID)))
		return err
	})
	return val, err
}

func readValue(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// Encode returns the dense index of id.
func (ix *Index) Encode(entity Entity, id int64) (int32, bool, error) {
	if err := checkEntity(entity); err != nil {
		return 0, false, err
	}
	val, err := ix.get(func(run string) []byte { return encKey(run, entity, id) })
	if err != nil || len(val) != 4 {
		return 0, false, err
	}
	return int32(binary.BigEndian.Uint32(val)), true, nil //nolint:gosec // written from int32
}

// Decode returns the external id at index idx.
func (ix *Index) Decode(entity Entity, idx int32) (int64, bool, error) {
	if err := checkEntity(entity); err != nil {
		return 0, false, err
	}
	val, err := ix.get(func(run string) []byte { return decKey(run, entity, idx) })
	if err != nil || len(val) != 8 {
		return 0, false, err
	}
	return int64(binary.BigEndian.Uint64(val)), true, nil //nolint:gosec // written from int64
}

// Size returns the number of entries of entity, 0 when never written.
func (ix *Index) Size(entity Entity) (int, error) {
	if err := checkEntity(entity); err != nil {
		return 0, err
	}
	val, err := ix.get(func(run string) []byte { return sizeKey(run, entity) })
	if err != nil || len(val) != 4 {
		return 0, err
	}
	return int(binary.BigEndian.Uint32(val)), nil
}
