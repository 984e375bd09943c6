package fileio

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/textcore/internal/engine"
)

// SyncResult reports what a Watcher did after the file changed.
type SyncResult int

const (
	// SyncUnchanged means the file matches the document.
	SyncUnchanged SyncResult = iota
	// SyncReloaded means the document was reloaded from the file.
	SyncReloaded
	// SyncKept means the file differs but the document was kept because it
	// has unsaved changes or is read-only.
	SyncKept
)

// String returns the result name.
func (r SyncResult) String() string {
	switch r {
	case SyncReloaded:
		return "reloaded"
	case SyncKept:
		return "kept"
	default:
		return "unchanged"
	}
}

// WatchFunc is called from the watch goroutine after each sync.
type WatchFunc func(result SyncResult, err error)

// DefaultDebounce is how long a Watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a shared document when its file changes on disk.
type Watcher struct {
	fs       FS
	doc      *engine.Locked
	path     string
	notify   WatchFunc
	logger   *slog.Logger
	debounce time.Duration
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithNotify sets the function called after each sync.
func WithNotify(fn WatchFunc) WatchOption {
	return func(w *Watcher) {
		w.notify = fn
	}
}

// WithDebounce sets how long to wait for writes to settle.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the logger.
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher keeping doc in step with the file at path.
func NewWatcher(fsys FS, doc *engine.Locked, path string, opts ...WatchOption) *Watcher {
	w := &Watcher{
		fs:       fsys,
		doc:      doc,
		path:     path,
		logger:   slog.New(slog.DiscardHandler),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(slog.String("watch", path))
	return w
}

// Sync compares the file with the document. An unmodified, writable
// document is reloaded; otherwise it is kept.
func (w *Watcher) Sync() (SyncResult, error) {
	result := SyncUnchanged
	err := w.doc.Do(func(d *engine.Document) error {
		if d.Modified() || d.IsReadOnly() {
			data, err := w.fs.ReadFile(w.path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", w.path, err)
			}
			if string(data) != d.Text() {
				result = SyncKept
			}
			return nil
		}

		loaded, err := Reload(w.fs, w.path, d)
		if loaded {
			result = SyncReloaded
		}
		return err
	})
	return result, err
}

// Run watches the file until ctx is done. The parent directory is watched
// so that saves which rename a new file over the old one are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	dir, name := filepath.Split(abs)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name || !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			result, err := w.Sync()
			if err != nil {
				w.logger.Warn("sync failed", slog.Any("err", err))
			} else if result != SyncUnchanged {
				w.logger.Info("file changed on disk", slog.String("result", result.String()))
			}
			if w.notify != nil {
				w.notify(result, err)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.Any("err", err))
		}
	}
}
