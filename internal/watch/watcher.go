// Package watch reruns a callback when schema sources change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher monitors files and directories and reports settled changes.
//
// Changes arriving within the debounce window are coalesced into one
// OnChange call carrying every changed path, sorted.
type Watcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	files    map[string]*fileState
	dirs     map[string]func(name string) bool
	debounce time.Duration
	pending  map[string]struct{}
	timer    *time.Timer

	// OnChange is called with the changed paths. Calls never overlap.
	OnChange func(paths []string) error
	// OnError receives watch errors and errors returned by OnChange.
	OnError func(err error)

	running sync.Mutex
}

type fileState struct {
	lastModified time.Time
	size         int64
}

// New creates a watcher. A debounce of zero selects DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  fsWatcher,
		files:    make(map[string]*fileState),
		dirs:     make(map[string]func(string) bool),
		debounce: debounce,
		pending:  make(map[string]struct{}),
	}, nil
}

// File starts watching a single file. Its directory is watched so that
// editors replacing the file by rename are seen.
func (w *Watcher) File(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	stat, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	w.mu.Lock()
	w.files[absPath] = &fileState{lastModified: stat.ModTime(), size: stat.Size()}
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	return nil
}

// Dir starts watching every file in dir whose base name match accepts.
// A nil match accepts everything.
func (w *Watcher) Dir(dir string, match func(name string) bool) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if match == nil {
		match = func(string) bool { return true }
	}

	w.mu.Lock()
	w.dirs[absDir] = match
	w.mu.Unlock()

	if err := w.watcher.Add(absDir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	return nil
}

// Run starts the watch loop. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			absPath, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if w.interested(absPath) {
				w.schedule(absPath)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.report(err)
		}
	}
}

func (w *Watcher) interested(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[path]; ok {
		return true
	}
	match, ok := w.dirs[filepath.Dir(path)]
	return ok && match(filepath.Base(path))
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// flush delivers the pending paths that actually changed.
func (w *Watcher) flush() {
	w.running.Lock()
	defer w.running.Unlock()

	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		if w.changedLocked(path) {
			paths = append(paths, path)
		}
	}
	clear(w.pending)
	w.mu.Unlock()

	if len(paths) == 0 || w.OnChange == nil {
		return
	}
	slices.Sort(paths)
	if err := w.OnChange(paths); err != nil {
		w.report(err)
	}
}

// changedLocked filters out events that left an individually watched file
// untouched. Directory members are always reported.
func (w *Watcher) changedLocked(path string) bool {
	state, ok := w.files[path]
	if !ok {
		return true
	}
	stat, err := os.Stat(path)
	if err != nil {
		return true
	}
	if stat.ModTime().Equal(state.lastModified) && stat.Size() == state.size {
		return false
	}
	state.lastModified = stat.ModTime()
	state.size = stat.Size()
	return true
}

func (w *Watcher) report(err error) {
	if w.OnError != nil {
		w.OnError(err)
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.watcher.Close()
}
