package fsys

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a single directory on the host filesystem.
// Bursts of events are coalesced: at most one notification is pending at a
// time.
type Watcher struct {
	w       *fsnotify.Watcher
	changes chan string
	logger  *log.Logger

	mu  sync.Mutex
	dir string
}

// NewWatcher starts a watcher. Call Close to release it. A nil logger
// discards watch errors.
func NewWatcher(logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{w: fw, changes: make(chan string, 1), logger: logger}, nil
}

// Watch switches the watched directory to dir. Watching "" stops watching.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.w.Remove(w.dir)
	}
	w.dir = ""
	if dir == "" {
		return nil
	}
	if err := w.w.Add(dir); err != nil {
		return err
	}
	w.dir = dir
	return nil
}

// Dir returns the directory currently watched.
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Changes delivers the watched directory each time its entries change.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Run forwards filesystem events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			select {
			case w.changes <- w.Dir():
			default:
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Debug("watch error", "err", err)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.w.Close()
}
