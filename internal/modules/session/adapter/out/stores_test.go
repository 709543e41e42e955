package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sessionadapter "blazectl/internal/modules/session/adapter/out"
	"blazectl/internal/modules/session/domain"
	apperrors "blazectl/internal/platform/errors"
)

func TestActiveStateRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := sessionadapter.NewFileActiveStateStore(dir)
	ctx := context.Background()

	state, err := store.LoadActive(ctx)
	if err != nil || !state.Idle() {
		t.Fatalf("missing file should load idle, got %+v err %v", state, err)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	state, _ = state.Start(domain.Train, start)
	if err := store.SaveActive(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	payload, err := os.ReadFile(filepath.Join(dir, "active.json"))
	if err != nil {
		t.Fatalf("read active file: %v", err)
	}
	if !strings.Contains(string(payload), `"train": "2024-01-01T00:00:00Z"`) || strings.Contains(string(payload), "battle") {
		t.Fatalf("unexpected active file: %s", payload)
	}

	loaded, err := store.LoadActive(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, ok := loaded.StartedAt(domain.Train); !ok || !got.Equal(start) {
		t.Fatalf("unexpected loaded train start %v", got)
	}
	if _, ok := loaded.StartedAt(domain.Battle); ok {
		t.Fatalf("battle should be idle")
	}
}

func TestActiveStateEmptyAndMalformed(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "active.json")
	store := sessionadapter.NewFileActiveStateStore(dir)

	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if state, err := store.LoadActive(context.Background()); err != nil || !state.Idle() {
		t.Fatalf("empty file should be idle, got %v", err)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.LoadActive(context.Background()); !errors.Is(err, apperrors.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestRecordStoreAppendAndReadBack(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := sessionadapter.NewJSONLRecordStore(dir)
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := domain.NewRecord(domain.Train, start, start.Add(90*time.Minute))
	second := domain.NewRecord(domain.Battle, time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC), time.Date(2024, 2, 3, 10, 0, 45, 0, time.UTC))
	for _, r := range []domain.Record{first, second} {
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	payload, err := os.ReadFile(filepath.Join(dir, "track-2024-01.jsonl"))
	if err != nil {
		t.Fatalf("read partition: %v", err)
	}
	want := `{"activity":"train","start":"2024-01-01T00:00:00Z","end":"2024-01-01T01:30:00Z","duration":"PT1H30M0S"}` + "\n"
	if string(payload) != want {
		t.Fatalf("unexpected line:\n%s\nwant:\n%s", payload, want)
	}
	if _, err := os.Stat(filepath.Join(dir, sessionadapter.PartitionName(2024, time.February))); err != nil {
		t.Fatalf("expected february partition: %v", err)
	}

	var got []domain.Record
	for r, err := range store.All(ctx) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, r)
	}
	if len(got) != 2 || got[0] != first || got[1] != second {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestRecordStoreToleratesBadLines(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	lines := strings.Join([]string{
		`{"activity":"train","start":"2024-01-01T00:00:00Z","end":"2024-01-01T00:10:00Z","duration":"PT0H10M0S"}`,
		`garbage`,
		``,
		`{"activity":"nap","start":"2024-01-01T00:00:00Z","end":"2024-01-01T00:10:00Z","duration":"PT0H10M0S"}`,
		`{"activity":"train","start":"2024-01-01T00:00:00Z","end":"2024-01-01T00:10:00Z","duration":"PT9999999999999H"}`,
		`{"activity":"battle","start":"2024-01-02T00:00:00Z","end":"2024-01-02T00:05:00Z","duration":"PT5M"}`,
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, "track-2024-01.jsonl"), []byte(lines), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.jsonl"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ok, parseErrs := 0, 0
	for _, err := range sessionadapter.NewJSONLRecordStore(dir).All(context.Background()) {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperrors.ErrParse):
			parseErrs++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 2 || parseErrs != 3 {
		t.Fatalf("expected 2 records and 3 parse errors, got %d and %d", ok, parseErrs)
	}
}

func TestRecordStoreMissingDirYieldsNothing(t *testing.T) {
	t.Parallel()
	store := sessionadapter.NewJSONLRecordStore(filepath.Join(t.TempDir(), "absent"))
	for r, err := range store.All(context.Background()) {
		t.Fatalf("expected no items, got %+v %v", r, err)
	}
}

func TestSQLiteRecordIndexUpsertAndRecent(t *testing.T) {
	t.Parallel()
	index, err := sessionadapter.NewSQLiteRecordIndex(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer index.Close()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	older := domain.NewRecord(domain.Train, base, base.Add(time.Hour))
	newer := domain.NewRecord(domain.Battle, base.Add(24*time.Hour), base.Add(25*time.Hour))
	for _, r := range []domain.Record{older, newer, older} {
		if err := index.Upsert(ctx, r); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	recent, err := index.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0] != newer || recent[1] != older {
		t.Fatalf("unexpected recent list %+v", recent)
	}

	if err := index.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	recent, err = index.Recent(ctx, 10)
	if err != nil || len(recent) != 0 {
		t.Fatalf("expected empty index after reset, got %d err %v", len(recent), err)
	}
}

func TestFileLockerExcludesSecondHolder(t *testing.T) {
	t.Parallel()
	locker := sessionadapter.NewFileLocker(filepath.Join(t.TempDir(), "blazectl.lock"))
	release, err := locker.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := locker.Acquire(); !errors.Is(err, apperrors.ErrLocked) {
		t.Fatalf("expected locked error, got %v", err)
	}
	release()
	release2, err := locker.Acquire()
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	release2()
}
