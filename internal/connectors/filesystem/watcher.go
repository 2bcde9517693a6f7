package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/overlap-cli/internal/logger"
)

// DefaultDebounce is how long the watcher waits for further events before
// reporting a batch.
const DefaultDebounce = 2 * time.Second

// Watcher reports new or rewritten regular files in one directory.
// Subdirectories, hidden files and removals are ignored.
type Watcher struct {
	dir      string
	debounce time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period that closes a batch.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for dir.
func New(dir string, opts ...Option) *Watcher {
	w := &Watcher{dir: dir, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Watch starts watching and returns a channel of batches. Each batch holds
// the sorted base names of files changed within one debounce window. The
// channel is closed when ctx is done.
func (w *Watcher) Watch(ctx context.Context) (<-chan []string, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close() //nolint:errcheck
		return nil, fmt.Errorf("watching %s: %w", w.dir, err)
	}

	out := make(chan []string)
	go w.loop(ctx, fw, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, out chan<- []string) {
	defer close(out)
	defer fw.Close() //nolint:errcheck

	pending := make(map[string]struct{})
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			name, changed := w.handleFsEvent(event)
			if !changed {
				continue
			}
			logger.Debug("Watch: %s %s", event.Op, name)
			pending[name] = struct{}{}
			flush = time.After(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watch error on %s: %v", w.dir, err)

		case <-flush:
			flush = nil
			batch := make([]string, 0, len(pending))
			for name := range pending {
				batch = append(batch, name)
			}
			sort.Strings(batch)
			clear(pending)

			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleFsEvent reports the base name of a created or written regular file.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return name, true
}
