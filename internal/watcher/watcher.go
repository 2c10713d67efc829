// Package watcher reloads the data store when another process writes to
// its database file.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/circles/internal/logger"
)

// Reloader is implemented by *datastore.Store.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher watches one storage file and calls Reload after a burst of
// changes has settled.
type Watcher struct {
	path     string
	target   Reloader
	debounce time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	done    chan struct{}
	reloads int
}

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, target Reloader, debounce time.Duration) *Watcher {
	return &Watcher{path: path, target: target, debounce: debounce}
}

// Start watches the file's directory, so sidecar files (sqlite journals,
// atomic-rename temp files) and recreated files are seen too.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	go w.run(ctx, fsw, w.done)
	logger.Debug("Watching storage for external changes", "path", w.path)
	return nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	fsw, done := w.fsw, w.done
	w.fsw, w.done = nil, nil
	w.mu.Unlock()
	if fsw == nil {
		return nil
	}

	err := fsw.Close()
	<-done
	return err
}

// Reloads reports how many reloads the watcher has triggered.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	// circles.db, circles.db-wal, circles.db-journal
	return strings.HasPrefix(filepath.Base(ev.Name), filepath.Base(w.path))
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			logger.Debug("Storage changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error", "error", err)

		case <-timer.C:
			if err := w.target.Reload(ctx); err != nil {
				logger.Warn("Failed to reload storage", "path", w.path, "error", err)
				continue
			}
			w.mu.Lock()
			w.reloads++
			w.mu.Unlock()
		}
	}
}
