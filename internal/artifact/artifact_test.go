// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package artifact

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func lockedStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Lock(); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Unlock() })
	return s
}

// commitEncoder commits a small but consistent encoder artifact set.
func commitEncoder(t *testing.T, s *Store, runID string, users map[int64]int32) *Manifest {
	t.Helper()
	st, err := s.Begin(StageEncoder, runID)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	userDecoded := make(map[int32]int64, len(users))
	for id, idx := range users {
		userDecoded[idx] = id
	}
	files := []struct {
		name string
		v    any
	}{
		{UserEncodedFile, users},
		{UserDecodedFile, userDecoded},
		{AnimeEncodedFile, map[int64]int32{67: 0, 242: 1}},
		{AnimeDecodedFile, map[int32]int64{0: 67, 1: 242}},
		{XTrainFile, [][]int32{{0, 0}, {0, 1}}},
		{XTestFile, [][]int32{{0}, {1}}},
		{YTrainFile, []float32{1, 0}},
		{YTestFile, []float32{0.5}},
	}
	for _, f := range files {
		if err := st.WriteJSON(f.name, f.v); err != nil {
			t.Fatalf("WriteJSON(%s) error = %v", f.name, err)
		}
	}
	if err := st.Write(RatingTableFile, func(w io.Writer) error {
		_, err := io.WriteString(w, "user_id,anime_id,rating,user,anime\n")
		return err
	}); err != nil {
		t.Fatalf("Write(%s) error = %v", RatingTableFile, err)
	}

	m, err := st.Commit()
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	return m
}

func TestStoreLock(t *testing.T) {
	dir := t.TempDir()
	first, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	second, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := first.Lock(); err != nil {
		t.Fatalf("first Lock() error = %v", err)
	}
	if err := second.Lock(); !errors.Is(err, ErrLocked) {
		t.Errorf("second Lock() error = %v, want ErrLocked", err)
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := second.Lock(); err != nil {
		t.Errorf("Lock() after release error = %v", err)
	}
	_ = second.Unlock()
}

func TestBeginRequiresLock(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := s.Begin(StageEncoder, "run1"); !errors.Is(err, ErrNotLocked) {
		t.Errorf("Begin() error = %v, want ErrNotLocked", err)
	}
}

func TestLockRemovesStaleStaging(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, stagingPrefix+StageEncoder+"-deadbeef")
	if err := os.MkdirAll(stale, 0o750); err != nil {
		t.Fatal(err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Lock(); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	defer func() { _ = s.Unlock() }()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale staging directory still present: %v", err)
	}
}

func TestCommitAndVerify(t *testing.T) {
	s := lockedStore(t)
	m := commitEncoder(t, s, "run1", map[int64]int32{0: 0})

	if m.Stage != StageEncoder || m.RunID != "run1" {
		t.Errorf("manifest = %s/%s, want encoder/run1", m.Stage, m.RunID)
	}
	if len(m.Files) != len(EncoderFiles) {
		t.Errorf("manifest lists %d files, want %d", len(m.Files), len(EncoderFiles))
	}
	for _, name := range EncoderFiles {
		if _, err := os.Stat(s.Path(name)); err != nil {
			t.Errorf("%s not published: %v", name, err)
		}
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), stagingPrefix) {
			t.Errorf("staging directory %s left behind", e.Name())
		}
	}

	if _, err := Verify(s.Dir(), StageEncoder, EncoderFiles); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestVerify_DetectsTampering(t *testing.T) {
	s := lockedStore(t)
	commitEncoder(t, s, "run1", map[int64]int32{0: 0})

	if err := os.WriteFile(s.Path(YTestFile), []byte("[0.9]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Verify(s.Dir(), StageEncoder, EncoderFiles)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("Verify() error = %v, want ErrChecksumMismatch", err)
	}
	var fe *FileError
	if !errors.As(err, &fe) || fe.File != YTestFile {
		t.Errorf("error = %v, want FileError for %s", err, YTestFile)
	}
}

func TestVerify_RequiredFileNotListed(t *testing.T) {
	s := lockedStore(t)
	st, err := s.Begin(StageMetadata, "run1")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.WriteJSON(AnimeTableFile, []string{}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Commit(); err != nil {
		t.Fatal(err)
	}

	var fe *FileError
	if _, err := Verify(s.Dir(), StageMetadata, MetadataFiles); !errors.As(err, &fe) || fe.File != SynopsisTableFile {
		t.Errorf("Verify() error = %v, want FileError for %s", err, SynopsisTableFile)
	}
}

func TestAbortKeepsPreviousCommit(t *testing.T) {
	s := lockedStore(t)
	commitEncoder(t, s, "run1", map[int64]int32{0: 0})

	st, err := s.Begin(StageEncoder, "run2")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.WriteJSON(UserEncodedFile, map[int64]int32{99: 0}); err != nil {
		t.Fatal(err)
	}
	if err := st.Abort(); err != nil {
		t.Fatalf("Abort() error = %v", err)
	}
	if _, err := st.Commit(); !errors.Is(err, ErrStageClosed) {
		t.Errorf("Commit() after Abort error = %v, want ErrStageClosed", err)
	}

	m, err := Verify(s.Dir(), StageEncoder, EncoderFiles)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if m.RunID != "run1" {
		t.Errorf("RunID = %q, want run1", m.RunID)
	}
}

func TestWriteErrorIsFileError(t *testing.T) {
	s := lockedStore(t)
	st, err := s.Begin(StageEncoder, "run1")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = st.Abort() }()

	boom := errors.New("boom")
	err = st.Write(RatingTableFile, func(io.Writer) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("Write() error = %v, want boom", err)
	}
	if len(st.Files()) != 0 {
		t.Errorf("failed write recorded in entries: %v", st.Files())
	}
}

func TestLoadTrainingSet(t *testing.T) {
	s := lockedStore(t)
	commitEncoder(t, s, "run1", map[int64]int32{10: 0, 20: 1})

	ts, err := LoadTrainingSet(s.Dir())
	if err != nil {
		t.Fatalf("LoadTrainingSet() error = %v", err)
	}

	if ts.NumUsers() != 2 || ts.NumAnime() != 2 {
		t.Errorf("codebook sizes = %d/%d, want 2/2", ts.NumUsers(), ts.NumAnime())
	}
	for id, idx := range ts.UserEncoded {
		if ts.UserDecoded[idx] != id {
			t.Errorf("decode(encode(%d)) = %d", id, ts.UserDecoded[idx])
		}
	}
	if len(ts.XTrain[0]) != 2 || len(ts.YTrain) != 2 || len(ts.XTest[1]) != 1 || len(ts.YTest) != 1 {
		t.Errorf("unexpected split shapes: %v %v %v %v", ts.XTrain, ts.YTrain, ts.XTest, ts.YTest)
	}
}

func TestLoadTrainingSet_Errors(t *testing.T) {
	t.Run("no manifest", func(t *testing.T) {
		if _, err := LoadTrainingSet(t.TempDir()); !errors.Is(err, ErrNoManifest) {
			t.Errorf("error = %v, want ErrNoManifest", err)
		}
	})

	t.Run("empty codebook", func(t *testing.T) {
		s := lockedStore(t)
		commitEncoder(t, s, "run1", map[int64]int32{})
		if _, err := LoadTrainingSet(s.Dir()); !errors.Is(err, ErrEmptyCodebook) {
			t.Errorf("error = %v, want ErrEmptyCodebook", err)
		}
	})

	t.Run("missing artifact", func(t *testing.T) {
		s := lockedStore(t)
		commitEncoder(t, s, "run1", map[int64]int32{0: 0})
		if err := os.Remove(s.Path(XTestFile)); err != nil {
			t.Fatal(err)
		}
		_, err := LoadTrainingSet(s.Dir())
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}
