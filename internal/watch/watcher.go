// Package watch detects changes to the listed directory.
//
// Events are buffered by fsnotify and only inspected when Changed is called,
// so the caller decides when to look and no goroutine of ours runs in the
// background.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	serr "nordify/internal/errors"
	"nordify/internal/log"
)

// DefaultBuffer is the number of events held between two Changed calls.
const DefaultBuffer = 256

// Watcher reports changes to one directory at a time.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	closed    bool
}

// New creates a watcher that is not yet watching anything.
func New(buffer int) (*Watcher, error) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	fsWatcher, err := fsnotify.NewBufferedWatcher(uint(buffer))
	if err != nil {
		return nil, serr.Wrap(err, "failed to create fsnotify watcher")
	}
	return &Watcher{fsWatcher: fsWatcher}, nil
}

// Dir returns the watched directory, or "".
func (w *Watcher) Dir() string {
	return w.dir
}

// Watch moves the watch to dir. Events still buffered for the previous
// directory are discarded.
func (w *Watcher) Watch(dir string) error {
	if w.closed {
		return serr.New("watcher is closed")
	}
	if dir == w.dir {
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return serr.NewFileError("error accessing directory", dir, serr.FileNotFound, err)
	}
	if !info.IsDir() {
		return serr.NewFileError("not a directory", dir, serr.InvalidPath, nil)
	}

	if w.dir != "" {
		if err := w.fsWatcher.Remove(w.dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			log.LogWithFields(log.F("directory", w.dir)).WithError(err).Warn("failed to remove watch")
		}
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		w.dir = ""
		return serr.NewFileError("failed to watch directory", dir, serr.FileAccessDenied, err)
	}

	w.dir = dir
	w.drain()
	log.LogWithFields(log.F("directory", dir)).Debug("watching directory")
	return nil
}

// Changed reports whether the watched directory changed since the last call.
// It never blocks. Hidden names and permission-only changes are ignored.
func (w *Watcher) Changed() bool {
	if w.closed || w.dir == "" {
		return false
	}
	return w.drain()
}

func (w *Watcher) drain() bool {
	changed := false
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return changed
			}
			if w.relevant(event) {
				log.LogWithFields(log.F("file", event.Name), log.F("op", event.Op.String())).Debug("directory changed")
				changed = true
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return changed
			}
			// Dropped events mean we cannot tell what changed
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				changed = true
			}
			log.LogWithFields(log.F("error", err)).Warn("fsnotify watcher error")
		default:
			return changed
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Dir(event.Name) != w.dir {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename) || event.Op.Has(fsnotify.Write)
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	if w == nil || w.closed {
		return nil
	}
	w.closed = true
	w.dir = ""
	if err := w.fsWatcher.Close(); err != nil {
		return serr.Wrap(err, "failed to close fsnotify watcher")
	}
	return nil
}
