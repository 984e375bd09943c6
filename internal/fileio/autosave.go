package fileio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/textcore/internal/engine"
)

// Autosaver periodically writes a shared document to a side file while it
// has unsaved changes. It reads the document through engine.Locked and
// never marks it saved.
type Autosaver struct {
	mu       sync.Mutex
	fs       FS
	doc      *engine.Locked
	path     string
	interval time.Duration
	logger   *slog.Logger

	running bool
	stop    chan struct{}
	done    chan struct{}

	lastRev engine.RevisionID
	saves   int
}

// NewAutosaver creates an autosaver writing doc to path every interval.
func NewAutosaver(fsys FS, doc *engine.Locked, path string, interval time.Duration, logger *slog.Logger) *Autosaver {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Autosaver{
		fs:       fsys,
		doc:      doc,
		path:     path,
		interval: interval,
		logger:   logger.With(slog.String("autosave", path)),
		lastRev:  doc.Revision(),
	}
}

// Start begins autosaving in the background until ctx is done or Stop is
// called.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return
	}

	a.running = true
	a.stop = make(chan struct{})
	a.done = make(chan struct{})

	go a.loop(ctx, a.stop, a.done)
}

// Stop stops autosaving and waits for an in-flight save to finish.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	close(a.stop)
	done := a.done
	a.mu.Unlock()

	<-done
}

// IsRunning returns true if the autosaver is running.
func (a *Autosaver) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Saves returns the number of autosave files written.
func (a *Autosaver) Saves() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}

func (a *Autosaver) loop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.mu.Lock()
			a.running = false
			a.mu.Unlock()
			return
		case <-stop:
			return
		case <-ticker.C:
			if _, err := a.SaveNow(ctx); err != nil {
				a.logger.Warn("autosave failed", slog.Any("err", err))
			}
		}
	}
}

// SaveNow writes the document if it has unsaved changes that were not
// autosaved yet. It reports whether a file was written.
func (a *Autosaver) SaveNow(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var (
		snap     *engine.Snapshot
		modified bool
	)
	_ = a.doc.Do(func(d *engine.Document) error {
		snap = d.Snapshot()
		modified = d.Modified()
		return nil
	})

	a.mu.Lock()
	defer a.mu.Unlock()

	if !modified || snap.Revision() == a.lastRev {
		return false, nil
	}

	if err := a.fs.WriteFile(a.path, []byte(snap.Text()), DefaultPerm); err != nil {
		return false, err
	}

	a.lastRev = snap.Revision()
	a.saves++
	a.logger.Debug("autosaved", slog.Int("len", snap.Len()), slog.Uint64("revision", uint64(snap.Revision())))
	return true, nil
}
