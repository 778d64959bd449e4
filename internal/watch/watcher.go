// Package watch monitors project source trees and triggers metadata
// regeneration on change. The default mechanism is interval-based snapshot
// diffing: simple, portable, and sufficient for this tool's responsiveness
// needs. An fsnotify-backed mode is available for callers that want OS file
// events instead.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/forgeline-labs/ccforge/internal/config"
)

// DefaultInterval is the default poll interval.
const DefaultInterval = 2 * time.Second

// Options configures a Watcher.
type Options struct {
	// Dirs are the directories to watch.
	Dirs []string
	// Extensions filters which files are considered, headers included.
	Extensions map[string]bool
	// Interval is the poll interval; zero means DefaultInterval.
	Interval time.Duration
	// UseEvents selects the fsnotify backend instead of polling.
	UseEvents bool
	// Logger receives loop diagnostics; nil discards.
	Logger *slog.Logger
	// OnChange runs once per detected change, not once per changed file.
	// A failing pass is logged and the loop keeps running.
	OnChange func(ctx context.Context) error
}

// Watcher runs a change-detection loop until its context is cancelled.
type Watcher struct {
	dirs     []string
	exts     map[string]bool
	interval time.Duration
	events   bool
	logger   *slog.Logger
	onChange func(ctx context.Context) error
}

// New creates a watcher from opts.
func New(opts Options) *Watcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	onChange := opts.OnChange
	if onChange == nil {
		onChange = func(context.Context) error { return nil }
	}
	return &Watcher{
		dirs:     opts.Dirs,
		exts:     opts.Extensions,
		interval: interval,
		events:   opts.UseEvents,
		logger:   logger,
		onChange: onChange,
	}
}

// WatchedDirs extracts all source and include directories from the project
// configuration, deduplicated and restricted to those that exist, sorted for
// deterministic logs.
func WatchedDirs(cfg *config.ProjectConfig) []string {
	seen := make(map[string]bool)
	for _, group := range cfg.SourceGroups {
		for _, dir := range append(append([]string{}, group.SourceDirs...), group.IncludeDirs...) {
			if seen[dir] {
				continue
			}
			if _, err := os.Stat(dir); err != nil {
				continue
			}
			seen[dir] = true
		}
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// Run blocks until ctx is cancelled, invoking OnChange once per detected
// change. Cancellation interrupts the sleep promptly and exits cleanly.
func (w *Watcher) Run(ctx context.Context) error {
	if w.events {
		return w.runEvents(ctx)
	}
	return w.runPolling(ctx)
}

func (w *Watcher) runPolling(ctx context.Context) error {
	last := w.snapshot()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil
		case <-time.After(w.interval):
		}

		current := w.snapshot()
		if maps.Equal(current, last) {
			continue
		}
		last = current

		w.logger.Info("change detected, regenerating")
		if err := w.onChange(ctx); err != nil {
			// Transient failures don't kill the watch loop; the next change
			// retries naturally.
			w.logger.Error("regeneration failed", "error", err)
		}
	}
}

// snapshot captures the modification time of every watched file.
func (w *Watcher) snapshot() map[string]int64 {
	mtimes := make(map[string]int64)
	for _, dir := range w.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // deleted mid-walk; the next snapshot catches up
			}
			if d.IsDir() || !w.exts[filepath.Ext(path)] {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			mtimes[path] = info.ModTime().UnixNano()
			return nil
		})
		if err != nil {
			w.logger.Warn("failed to walk watched directory", "dir", dir, "error", err)
		}
	}
	return mtimes
}

// runEvents watches via OS file events. Every directory under the watched
// roots is registered; newly created directories are added on the fly.
func (w *Watcher) runEvents(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range w.dirs {
		if err := addRecursive(watcher, dir); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
					continue
				}
			}
			if !w.exts[filepath.Ext(event.Name)] {
				continue
			}
			w.logger.Info("change detected, regenerating", "path", event.Name)
			if err := w.onChange(ctx); err != nil {
				w.logger.Error("regeneration failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
}
