package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNoWatchPaths is returned by Watcher.Start when there is nothing to watch.
var ErrNoWatchPaths = errors.New("config: no paths to watch")

// WatchLogger receives watcher diagnostics.
type WatchLogger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchDebounce sets how long a file must stay quiet before it is
// reported as changed.
func WithWatchDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatchLogger sets the logger for the watcher.
func WithWatchLogger(l WatchLogger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// Watcher monitors config files and calls onChange with the paths whose
// content actually changed. It watches the parent directories so editors
// that save by renaming over the file are noticed too.
type Watcher struct {
	paths    []string
	debounce time.Duration
	logger   WatchLogger
	onChange func(changed []string)

	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup

	mu      sync.Mutex
	pending map[string]time.Time
	hashes  map[string]string
}

// NewWatcher creates a watcher for paths.
func NewWatcher(paths []string, onChange func(changed []string), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		debounce: 250 * time.Millisecond,
		onChange: onChange,
		done:     make(chan struct{}),
		pending:  make(map[string]time.Time),
		hashes:   make(map[string]string),
	}
	for _, p := range paths {
		w.paths = append(w.paths, filepath.Clean(p))
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start records the current content of every path and begins watching.
func (w *Watcher) Start() error {
	if len(w.paths) == 0 {
		return ErrNoWatchPaths
	}
	for _, p := range w.paths {
		h, err := hashFile(p)
		if err != nil {
			return fmt.Errorf("config watcher: initial hash: %w", err)
		}
		w.hashes[p] = h
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: create fsnotify: %w", err)
	}
	w.fsWatcher = fsw

	dirs := make(map[string]struct{})
	for _, p := range w.paths {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return fmt.Errorf("config watcher: watch %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop terminates the watcher. It is safe to call Stop more than once.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.done) })
	w.wg.Wait()
	if w.fsWatcher != nil {
		return w.fsWatcher.Close() //nolint:wrapcheck // passthrough
	}
	return nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if _, watched := w.hashes[name]; !watched {
				continue
			}
			w.mu.Lock()
			w.pending[name] = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Error("config watcher error", "error", err)
			}

		case <-ticker.C:
			w.processPending()
		}
	}
}

func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, t := range w.pending {
		if now.Sub(t) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	w.mu.Unlock()

	var changed []string
	for _, path := range ready {
		h, err := hashFile(path)
		if err != nil {
			if w.logger != nil {
				w.logger.Error("config watcher: failed to hash config", "path", path, "error", err)
			}
			continue
		}
		if h == w.hashes[path] {
			if w.logger != nil {
				w.logger.Debug("config watcher: content unchanged, skipping", "path", path)
			}
			continue
		}
		w.hashes[path] = h
		changed = append(changed, path)
	}
	if len(changed) > 0 {
		sort.Strings(changed)
		w.onChange(changed)
	}
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err //nolint:wrapcheck // wrapped by callers
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
