// Package watch invalidates the search index when content files change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
	"blogsearch/internal/search"
	"blogsearch/internal/source"
)

// DefaultQuiet is how long a burst of file events is coalesced
const DefaultQuiet = 250 * time.Millisecond

// Invalidator drops a cached index
type Invalidator interface {
	Invalidate(reason string)
}

// Watcher watches a content directory tree
type Watcher struct {
	watcher   *fsnotify.Watcher
	dir       string
	target    Invalidator
	bus       eventbus.EventBus
	debouncer *search.Debouncer
}

// New watches dir and every directory below it. bus may be nil.
func New(dir string, target Invalidator, bus eventbus.EventBus, quiet time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if bus == nil {
		bus = eventbus.Null()
	}
	w := &Watcher{
		watcher:   fw,
		dir:       dir,
		target:    target,
		bus:       bus,
		debouncer: search.NewDebouncer(quiet),
	}
	if err := w.addTree(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// Run handles events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Content watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				log.Printf("Content watcher: %v", err)
			}
			return
		}
	}
	if !source.IsContentFile(event.Name) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	path := event.Name
	w.bus.Publish(domain.ContentChangedEvent{Path: path})
	w.debouncer.Trigger(func() {
		w.target.Invalidate("content changed: " + path)
	})
}

// Close stops watching
func (w *Watcher) Close() error {
	w.debouncer.Stop()
	return w.watcher.Close()
}
