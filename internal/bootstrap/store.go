package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sessionoutadapter "blazectl/internal/modules/session/adapter/out"
	"blazectl/internal/modules/session/domain"
	sessionout "blazectl/internal/modules/session/port/out"
	"blazectl/internal/platform/config"
	apperrors "blazectl/internal/platform/errors"
)

// ensureStoreIgnore keeps the index and lock out of auto-commits, which stage
// the whole store directory.
func ensureStoreIgnore(cfg config.Config) error {
	if err := os.MkdirAll(cfg.StoreDir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w: %w", apperrors.ErrIO, err)
	}
	path := filepath.Join(cfg.StoreDir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	body := fmt.Sprintf("%s*\n%s\n", filepath.Base(cfg.IndexPath), filepath.Base(cfg.LockPath))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write store ignore: %w: %w", apperrors.ErrIO, err)
	}
	return nil
}

// lazyRecordIndex opens the SQLite index on the first call that needs it, so
// read-only commands in a fresh directory leave no files behind.
type lazyRecordIndex struct {
	cfg config.Config

	mu    sync.Mutex
	index *sessionoutadapter.SQLiteRecordIndex
}

var _ sessionout.RecordIndex = (*lazyRecordIndex)(nil)

func newLazyRecordIndex(cfg config.Config) *lazyRecordIndex {
	return &lazyRecordIndex{cfg: cfg}
}

// open returns the index, creating the database only when create is set.
// A nil index with a nil error means there is nothing to read yet.
func (l *lazyRecordIndex) open(create bool) (*sessionoutadapter.SQLiteRecordIndex, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index != nil {
		return l.index, nil
	}
	if !create {
		if _, err := os.Stat(l.cfg.IndexPath); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
	}
	if err := ensureStoreIgnore(l.cfg); err != nil {
		return nil, err
	}
	index, err := sessionoutadapter.NewSQLiteRecordIndex(l.cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("record index %s: %w", l.cfg.IndexPath, err)
	}
	l.index = index
	return index, nil
}

func (l *lazyRecordIndex) Reset(ctx context.Context) error {
	index, err := l.open(true)
	if err != nil {
		return err
	}
	return index.Reset(ctx)
}

func (l *lazyRecordIndex) Upsert(ctx context.Context, record domain.Record) error {
	index, err := l.open(true)
	if err != nil {
		return err
	}
	return index.Upsert(ctx, record)
}

func (l *lazyRecordIndex) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	index, err := l.open(false)
	if err != nil || index == nil {
		return nil, err
	}
	return index.Recent(ctx, limit)
}

func (l *lazyRecordIndex) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index == nil {
		return nil
	}
	err := l.index.Close()
	l.index = nil
	return err
}

// storeLocker writes the store ignore file before the first lock file appears.
type storeLocker struct {
	cfg  config.Config
	next sessionout.Locker
}

func (s storeLocker) Acquire() (func(), error) {
	if err := ensureStoreIgnore(s.cfg); err != nil {
		return nil, err
	}
	return s.next.Acquire()
}
