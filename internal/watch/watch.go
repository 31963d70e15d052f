// Package watch reports notebooks written below a book directory, batched
// over a quiet period.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/bookctl/internal/logfields"
	"git.home.luguber.info/inful/bookctl/internal/util/sets"
)

// DefaultDebounce is the quiet period after the last change before a batch is delivered.
const DefaultDebounce = 500 * time.Millisecond

// Handler receives the sorted paths changed since the previous batch.
type Handler func(ctx context.Context, changed []string)

// Options configure a Watcher.
type Options struct {
	Patterns []string
	Exclude  []string
	Debounce time.Duration
}

// Watcher monitors a directory tree. Excluded directories are never watched.
type Watcher struct {
	root     string
	patterns []string
	exclude  sets.Set[string]
	debounce time.Duration
	handler  Handler
	watcher  *fsnotify.Watcher
}

// New creates a watcher for root. Call Run to start delivering batches.
func New(root string, opts Options, handler Handler) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", root)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"*.ipynb"}
	}
	w := &Watcher{
		root:     root,
		patterns: patterns,
		exclude:  sets.New(opts.Exclude...),
		debounce: debounce,
		handler:  handler,
		watcher:  fw,
	}
	if err := w.addTree(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers batches until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()
	slog.Info("Watching for notebook changes", logfields.Path(w.root))

	pending := sets.New[string]()
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				pending.Add(event.Name)
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := sets.Sorted(pending)
			pending = sets.New[string]()
			slog.Debug("Delivering changed notebooks", logfields.Count(len(batch)))
			w.handler(ctx, batch)
		}
	}
}

// handle watches newly created directories and reports whether the event
// names a matching file that was written or created.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	info, err := os.Stat(event.Name)
	if err != nil {
		return false
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) && !w.exclude.Has(filepath.Base(event.Name)) {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
		}
		return false
	}
	if w.excluded(event.Name) {
		return false
	}
	return matchesAny(filepath.Base(event.Name), w.patterns)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && w.exclude.Has(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

// excluded reports whether any directory between root and p is excluded.
func (w *Watcher) excluded(p string) bool {
	rel, err := filepath.Rel(w.root, filepath.Dir(p))
	if err != nil {
		return false
	}
	for dir := filepath.ToSlash(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if w.exclude.Has(path.Base(dir)) {
			return true
		}
	}
	return false
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}
