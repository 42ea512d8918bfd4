// Package watcher watches the selected folders for changes and triggers
// reindexing after a quiet period.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driving"
	"github.com/vellumlabs/docchat-cli/internal/logger"
)

// DefaultDebounce is the quiet period after the last event before a
// reindex is triggered. Editors produce bursts of writes; one run per
// burst is enough.
const DefaultDebounce = 2 * time.Second

// Watcher triggers reindex runs in response to filesystem changes.
type Watcher struct {
	indexer  driving.Indexer
	folders  []string
	debounce time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over the given folders.
func New(indexer driving.Indexer, folders []string, opts ...Option) *Watcher {
	w := &Watcher{
		indexer:  indexer,
		folders:  folders,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until the context is cancelled. Each burst of filesystem
// events is followed by one reindex of all folders; bursts arriving while
// an operation is already running are retried after the next quiet period.
func (w *Watcher) Run(ctx context.Context) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer notifier.Close()

	for _, folder := range w.folders {
		if err := addRecursive(notifier, folder); err != nil {
			return err
		}
	}

	logger.Info("Watching %d folder(s), debounce %s", len(w.folders), w.debounce)

	var timer *time.Timer
	var timerC <-chan time.Time
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			// New directories need watching too.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addRecursive(notifier, event.Name); err != nil {
						logger.Warn("Watching new directory %s: %v", event.Name, err)
					}
				}
			}
			logger.Debug("Change detected: %s %s", event.Op, event.Name)
			pending = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-timerC:
			if !pending {
				continue
			}
			pending = false
			if w.reindex(ctx) {
				// Busy: keep the burst and try again after another
				// quiet period.
				pending = true
				timer.Reset(w.debounce)
			}
		}
	}
}

// reindex runs one indexing pass. It reports whether the indexer was busy
// so the caller can retry the burst.
func (w *Watcher) reindex(ctx context.Context) bool {
	summary, err := w.indexer.Reindex(ctx, w.folders)
	switch {
	case errors.Is(err, domain.ErrBusy):
		logger.Info("Reindex deferred: another operation is running")
		return true
	case err != nil:
		logger.Error("Reindex failed: %v", err)
	default:
		logger.Info("Reindex triggered by file change: indexed=%d updated=%d deleted=%d",
			summary.Indexed, summary.Updated, summary.Deleted)
	}
	return false
}

// relevant filters out noise the indexer would ignore anyway.
func relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return true
}

// addRecursive registers the folder and all of its subdirectories, skipping
// hidden directories.
func addRecursive(notifier *fsnotify.Watcher, folder string) error {
	return filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name != "." && strings.HasPrefix(name, ".") && path != folder {
			return fs.SkipDir
		}
		if err := notifier.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
