package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ChangeSource = (*FSWatcher)(nil)

// skippedDirectories are never watched in recursive mode.
var skippedDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

const channelBuffer = 100

// FSWatcher implements ports.ChangeSource using fsnotify.
// A stopped FSWatcher can be started again.
type FSWatcher struct {
	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	pattern   string
	recursive bool
	events    chan domain.ChangeEvent
	errs      chan error
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewFSWatcher creates an idle file system change source.
func NewFSWatcher() *FSWatcher {
	return &FSWatcher{}
}

// Start begins watching root. Calling Start on a running watcher is a no-op.
func (w *FSWatcher) Start(ctx context.Context, root, pattern string, recursive bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher != nil {
		return nil
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve watch root"), "root", root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}

	w.pattern = pattern
	w.recursive = recursive

	for dir := range w.directories(abs) {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.fsWatcher = watcher
	w.events = make(chan domain.ChangeEvent, channelBuffer)
	w.errs = make(chan error, channelBuffer)
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.processEvents(runCtx, watcher, w.events, w.errs, w.done)

	return nil
}

// Stop stops the watcher and waits for its event loop to exit.
// It is safe to call Stop multiple times.
func (w *FSWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher == nil {
		return nil
	}

	w.cancel()
	err := w.fsWatcher.Close()
	<-w.done

	w.fsWatcher = nil
	w.cancel = nil

	return err
}

// Events returns an iterator over the matching change events of the current run.
func (w *FSWatcher) Events() iter.Seq[domain.ChangeEvent] {
	w.mu.Lock()
	ch := w.events
	w.mu.Unlock()

	return drain(ch)
}

// Errors returns an iterator over the errors reported by fsnotify.
func (w *FSWatcher) Errors() iter.Seq[error] {
	w.mu.Lock()
	ch := w.errs
	w.mu.Unlock()

	return drain(ch)
}

func drain[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		if ch == nil {
			return
		}
		for v := range ch {
			if !yield(v) {
				return
			}
		}
	}
}

// directories yields root and, in recursive mode, every directory below it.
func (w *FSWatcher) directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !w.recursive {
			yield(root)
			return
		}
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // Unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skippedDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

//nolint:cyclop // Event loop multiplexes events, errors and cancellation
func (w *FSWatcher) processEvents(
	ctx context.Context,
	watcher *fsnotify.Watcher,
	events chan<- domain.ChangeEvent,
	errs chan<- error,
	done chan<- struct{},
) {
	defer close(done)
	defer close(errs)
	defer close(events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if w.recursive && event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !skippedDirectories[info.Name()] {
						for dir := range w.directories(event.Name) {
							_ = watcher.Add(dir)
						}
					}
					continue
				}
			}

			change, ok := w.convertEvent(event)
			if !ok {
				continue
			}

			select {
			case events <- change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			select {
			case errs <- err:
			case <-ctx.Done():
				return
			}
		}
	}
}

// convertEvent maps an fsnotify event for a matching file to a domain.ChangeEvent.
// Chmod-only events are dropped.
func (w *FSWatcher) convertEvent(event fsnotify.Event) (domain.ChangeEvent, bool) {
	if ok, _ := filepath.Match(w.pattern, filepath.Base(event.Name)); !ok {
		return domain.ChangeEvent{}, false
	}

	var op domain.ChangeOp
	switch {
	case event.Has(fsnotify.Write):
		op = domain.OpWrite
	case event.Has(fsnotify.Create):
		op = domain.OpCreate
	case event.Has(fsnotify.Remove):
		op = domain.OpRemove
	case event.Has(fsnotify.Rename):
		op = domain.OpRename
	default:
		return domain.ChangeEvent{}, false
	}

	return domain.ChangeEvent{Path: event.Name, Op: op}, true
}
