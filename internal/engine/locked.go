package engine

import "sync"

// Locked serializes access to a Document shared between goroutines.
type Locked struct {
	mu  sync.Mutex
	doc *Document
}

// NewLocked wraps doc. The caller must not use doc directly afterwards.
func NewLocked(doc *Document) *Locked {
	return &Locked{doc: doc}
}

// Do calls fn with exclusive access to the document.
func (l *Locked) Do(fn func(*Document) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.doc)
}

// Snapshot returns an immutable view of the current text.
func (l *Locked) Snapshot() *Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Snapshot()
}

// Revision returns the current revision of the text.
func (l *Locked) Revision() RevisionID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Revision()
}

// Modified reports whether the text changed since the last save.
func (l *Locked) Modified() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Modified()
}
