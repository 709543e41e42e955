package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	reportout "blazectl/internal/modules/report/port/out"
	"blazectl/internal/platform/logger"
)

const defaultDebounce = 250 * time.Millisecond

// FSNotifyWatcher reports changes to the record logs in a store directory.
type FSNotifyWatcher struct {
	dir      string
	debounce time.Duration
}

func NewFSNotifyWatcher(storeDir string, debounce time.Duration) reportout.ChangeWatcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &FSNotifyWatcher{dir: storeDir, debounce: debounce}
}

func (w *FSNotifyWatcher) Watch(ctx context.Context, onChange func()) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
	}()
	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRecordLog(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

func isRecordLog(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, "track-") && strings.HasSuffix(base, ".jsonl")
}
