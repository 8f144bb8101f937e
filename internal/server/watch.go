package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/folio/internal/logging"
	"github.com/yaklabco/folio/pkg/fsutil"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 250 * time.Millisecond

// watchedExtensions are the post and manifest files that trigger a reload.
//
//nolint:gochecknoglobals // Read-only lookup table.
var watchedExtensions = []string{".md", ".markdown", ".yaml", ".yml"}

// Reloader is the part of the post store the watcher drives.
type Reloader interface {
	Load(ctx context.Context) error
	InvalidateFile(file string)
}

// Watcher reloads the post store when files under a directory change.
// Bursts of events are collapsed into one reload, and files whose content
// did not change are ignored.
type Watcher struct {
	dir      string
	store    Reloader
	debounce time.Duration
	fsw      *fsnotify.Watcher

	// known holds the last seen state of each watched file, keyed by path.
	known map[string]*fsutil.FileInfo
}

// NewWatcher watches dir and its non-hidden subdirectories.
func NewWatcher(dir string, store Reloader, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		store:    store,
		debounce: debounce,
		fsw:      fsw,
		known:    map[string]*fsutil.FileInfo{},
	}
	if err := w.addTree(context.Background(), dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run handles events until ctx is cancelled and then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	logger := logging.FromContext(ctx).With(logging.FieldPath, w.dir)
	logger.Info("watching posts")

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	pending := map[string]struct{}{}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.track(ctx, event) {
				pending[event.Name] = struct{}{}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logging.FieldError, err)

		case <-timer.C:
			w.flush(ctx, pending)
			clear(pending)
		}
	}
}

// track reports whether event concerns a post file. New directories are
// added to the watch.
func (w *Watcher) track(ctx context.Context, event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if isHidden(w.dir, event.Name) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(ctx, event.Name); err != nil {
				logging.FromContext(ctx).Warn("watch directory", logging.FieldPath, event.Name, logging.FieldError, err)
			}
			return true
		}
	}

	return slices.Contains(watchedExtensions, strings.ToLower(filepath.Ext(event.Name)))
}

// flush invalidates changed posts and reloads the index.
func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}) {
	logger := logging.FromContext(ctx)

	changed := 0
	for path := range pending {
		if !w.changed(ctx, path) {
			continue
		}
		changed++

		if rel, err := filepath.Rel(w.dir, path); err == nil {
			w.store.InvalidateFile(filepath.ToSlash(rel))
		}
	}
	if changed == 0 {
		logger.Debug("no content changes")
		return
	}

	if err := w.store.Load(ctx); err != nil {
		logger.Error("reload posts", logging.FieldError, err)
		return
	}
	logger.Info("posts reloaded", logging.FieldChanged, changed)
}

// changed compares path with its last known state and records the new one.
// Directories always count as changed.
func (w *Watcher) changed(ctx context.Context, path string) bool {
	if prev, ok := w.known[path]; ok {
		modified, err := fsutil.CheckModified(ctx, prev)
		if err == nil && !modified {
			return false
		}
	}

	_, info, err := fsutil.ReadFile(ctx, path)
	switch {
	case err == nil:
		w.known[path] = info
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, fsutil.ErrIsDirectory):
		delete(w.known, path)
	}
	return true
}

// addTree watches dir and its subdirectories and records the files found.
func (w *Watcher) addTree(ctx context.Context, dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		if slices.Contains(watchedExtensions, strings.ToLower(filepath.Ext(path))) {
			if _, info, err := fsutil.ReadFile(ctx, path); err == nil {
				w.known[path] = info
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

func isHidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
