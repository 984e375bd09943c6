package engine

import (
	"log/slog"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// Option configures a Document during creation.
type Option func(*Document)

// ChangeListener is called after every change to a document's text,
// including changes made by undo, redo and Load.
type ChangeListener func(doc *Document, change Change)

// WithContent sets the initial content of the document.
// The initial content is the base the history replays from.
func WithContent(content string) Option {
	return func(d *Document) {
		d.initContent = content
	}
}

// WithMaxUndoEntries bounds the undo history. 0 means unbounded.
func WithMaxUndoEntries(max int) Option {
	return func(d *Document) {
		if max >= 0 {
			d.maxUndoEntries = max
		}
	}
}

// WithIndexStrategy selects how the line index follows edits.
func WithIndexStrategy(s buffer.IndexStrategy) Option {
	return func(d *Document) {
		d.strategy = s
	}
}

// WithReadOnly creates a read-only document.
// Mutations return ErrReadOnly.
func WithReadOnly() Option {
	return func(d *Document) {
		d.readOnly = true
	}
}

// WithLogger sets the logger for document events. Events are logged at
// debug level. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithChangeListener registers a listener for text changes.
func WithChangeListener(fn ChangeListener) Option {
	return func(d *Document) {
		if fn != nil {
			d.listeners = append(d.listeners, fn)
		}
	}
}
