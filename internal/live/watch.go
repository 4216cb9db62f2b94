// Package live re-runs the star-schema build whenever the source file
// changes. One watcher, one source, debounced rebuilds.
package live

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher rebuilds a destination from a source path on change.
type Watcher struct {
	SourcePath string
	Debounce   time.Duration
	// Rebuild runs one full build+export pass. Errors are logged, never fatal:
	// the watcher keeps running and retries on the next change.
	Rebuild func(ctx context.Context) error
	Logf    func(format string, args ...any)
}

// NewWatcher returns a watcher with the default debounce window.
func NewWatcher(sourcePath string, rebuild func(ctx context.Context) error) *Watcher {
	return &Watcher{
		SourcePath: sourcePath,
		Debounce:   2 * time.Second,
		Rebuild:    rebuild,
		Logf:       log.Printf,
	}
}

// Run watches the source until the context is cancelled. The build runs once
// at startup, then again after every debounced change to the source file.
// Watching covers the whole parent directory because spreadsheet tools and
// sqlite replace or sidecar the file rather than writing in place.
func (w *Watcher) Run(ctx context.Context) error {
	logf := w.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	dir := filepath.Dir(w.SourcePath)
	base := filepath.Base(w.SourcePath)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logf("Watching %s for changes (debounce: %s)", w.SourcePath, w.Debounce)

	runBuild := func() {
		start := time.Now()
		if err := w.Rebuild(ctx); err != nil {
			logf("rebuild error: %v", err)
			return
		}
		logf("rebuilt in %s", time.Since(start).Round(time.Millisecond))
	}

	runBuild()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if !relatedToSource(event.Name, base) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.Debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			runBuild()

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			logf("watch error: %v", err)
		}
	}
}

// relatedToSource matches the source file and its sidecars (sqlite -wal/-shm,
// editor temp files that land on the same stem).
func relatedToSource(eventPath, base string) bool {
	name := filepath.Base(eventPath)
	if name == base {
		return true
	}
	return len(name) > len(base) && name[:len(base)] == base
}
