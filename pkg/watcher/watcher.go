// Package watcher re-runs work when input files change on disk.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Handler is called with the absolute path of a changed file
type Handler func(path string)

// FileWatcher watches files for changes and calls a Handler once per burst
// of events. The parent directories are watched so that editors replacing
// a file through rename are noticed as well.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	debounce time.Duration

	mu       sync.Mutex
	handlers map[string]Handler
	timers   map[string]*time.Timer
	dirs     map[string]int
	started  bool
	done     chan struct{}
}

// NewFileWatcher creates a new file watcher. A nil logger discards output.
func NewFileWatcher(debounce time.Duration, log *zap.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &FileWatcher{
		watcher:  w,
		log:      log,
		debounce: debounce,
		handlers: make(map[string]Handler),
		timers:   make(map[string]*time.Timer),
		dirs:     make(map[string]int),
		done:     make(chan struct{}),
	}, nil
}

// Watch registers handler for the given files
func (fw *FileWatcher) Watch(files []string, handler Handler) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		if _, ok := fw.handlers[absPath]; ok {
			fw.handlers[absPath] = handler
			continue
		}

		dir := filepath.Dir(absPath)
		if fw.dirs[dir] == 0 {
			if err := fw.watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
		}
		fw.dirs[dir]++
		fw.handlers[absPath] = handler
		fw.log.Debug("watching file", zap.String("path", absPath))
	}

	return nil
}

// Start begins dispatching file changes in a background goroutine
func (fw *FileWatcher) Start() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.started {
		return
	}
	fw.started = true

	go func() {
		defer close(fw.done)
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					fw.handleFileChange(event.Name)
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.log.Warn("watcher error", zap.Error(err))
			}
		}
	}()
}

// handleFileChange restarts the debounce timer of a watched file
func (fw *FileWatcher) handleFileChange(name string) {
	path, err := filepath.Abs(name)
	if err != nil {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	handler, ok := fw.handlers[path]
	if !ok {
		return
	}

	if timer, ok := fw.timers[path]; ok {
		timer.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		fw.log.Debug("file changed", zap.String("path", path))
		handler(path)
	})
}

// Close stops pending timers and the watcher. It waits for the dispatch
// goroutine when Start was called.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, timer := range fw.timers {
		timer.Stop()
	}
	fw.timers = make(map[string]*time.Timer)
	started := fw.started
	fw.mu.Unlock()

	err := fw.watcher.Close()
	if started {
		<-fw.done
	}
	return err
}

// RemoveAll forgets all watched files
func (fw *FileWatcher) RemoveAll() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	var err error
	for dir := range fw.dirs {
		err = multierr.Append(err, fw.watcher.Remove(dir))
	}
	for _, timer := range fw.timers {
		timer.Stop()
	}

	fw.handlers = make(map[string]Handler)
	fw.timers = make(map[string]*time.Timer)
	fw.dirs = make(map[string]int)
	return err
}
