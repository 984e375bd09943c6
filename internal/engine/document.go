package engine

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the document.
	ByteOffset = buffer.ByteOffset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a byte range in the document.
	Range = buffer.Range

	// Change describes one change to the document text.
	Change = buffer.Change

	// LineEnding specifies a line ending style.
	LineEnding = buffer.LineEnding

	// RevisionID identifies a state of the document text.
	RevisionID = buffer.RevisionID

	// Snapshot is an immutable view of the document text.
	Snapshot = buffer.Snapshot

	// Command is a reversible edit.
	Command = history.Command

	// OperationInfo describes a recorded command.
	OperationInfo = history.OperationInfo
)

// Document is an editable text document with undo/redo.
//
// A Document is not safe for concurrent use; see Locked.
type Document struct {
	id      uuid.UUID
	buf     *buffer.Buffer
	history *history.History
	logger  *slog.Logger

	listeners []ChangeListener

	// generation counts Load calls; saved is the text at the last
	// Load or MarkSaved.
	generation uint64
	saved      string

	// Configuration
	readOnly       bool
	maxUndoEntries int
	strategy       buffer.IndexStrategy
	initContent    string
}

// New creates a new Document with the given options.
func New(opts ...Option) *Document {
	d := &Document{
		id:     uuid.New(),
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.logger = d.logger.With(slog.String("doc", d.id.String()))
	d.buf = buffer.NewFromString(d.initContent,
		buffer.WithIndexStrategy(d.strategy),
		buffer.WithChangeHook(d.notify),
	)
	d.history = history.New(d.maxUndoEntries)
	d.saved = d.initContent
	d.initContent = ""

	return d
}

func (d *Document) notify(ch Change) {
	for _, fn := range d.listeners {
		fn(d, ch)
	}
}

// ============================================================================
// Identity and State
// ============================================================================

// ID returns the document's unique identifier.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Generation returns the number of times Load has been called.
func (d *Document) Generation() uint64 {
	return d.generation
}

// Revision returns the current revision of the text.
// It changes on every mutation, including undo and redo.
func (d *Document) Revision() RevisionID {
	return d.buf.Revision()
}

// IsReadOnly returns true if the document rejects mutations.
func (d *Document) IsReadOnly() bool {
	return d.readOnly
}

// Modified returns true if the text differs from the text at the last
// Load or MarkSaved.
func (d *Document) Modified() bool {
	return d.buf.Text() != d.saved
}

// MarkSaved records the current text as saved.
func (d *Document) MarkSaved() {
	d.saved = d.buf.Text()
}

// ============================================================================
// Load and Save
// ============================================================================

// Load replaces the whole content with text and clears the history.
// Any byte sequence is accepted.
func (d *Document) Load(text string) error {
	if d.readOnly {
		return ErrReadOnly
	}

	d.history.Clear()
	d.buf.Load(text)
	d.generation++
	d.saved = text

	d.logger.Debug("load",
		slog.Int("len", len(text)),
		slog.Int("lines", d.buf.LineCount()),
		slog.Uint64("generation", d.generation))
	return nil
}

// SaveContent returns the exact current content.
func (d *Document) SaveContent() string {
	return d.buf.Text()
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full content.
func (d *Document) Text() string {
	return d.buf.Text()
}

// Len returns the content length in bytes.
func (d *Document) Len() int {
	return d.buf.Len()
}

// IsEmpty returns true if the document has no content.
func (d *Document) IsEmpty() bool {
	return d.buf.IsEmpty()
}

// TextRange returns text in [start, end), clamped to the content.
func (d *Document) TextRange(start, end ByteOffset) string {
	return d.buf.TextRange(start, end)
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	return d.buf.LineCount()
}

// GetLine returns line n without its terminator. ok is false when the
// line does not exist.
func (d *Document) GetLine(n int) (line string, ok bool) {
	return d.buf.Line(n)
}

// LineSpan returns the byte range of line n, terminator included.
func (d *Document) LineSpan(n int) (Range, error) {
	return d.buf.LineSpan(n)
}

// OffsetToPoint converts a byte offset to line/column.
func (d *Document) OffsetToPoint(offset ByteOffset) Point {
	return d.buf.OffsetToPoint(offset)
}

// PointToOffset converts line/column to a byte offset.
func (d *Document) PointToOffset(p Point) ByteOffset {
	return d.buf.PointToOffset(p)
}

// LineEnding returns the dominant line ending style.
func (d *Document) LineEnding() LineEnding {
	return d.buf.LineEnding()
}

// LineEndingCounts returns the number of terminators of each style.
func (d *Document) LineEndingCounts() buffer.LineEndingCounts {
	return buffer.CountLineEndings(d.buf.Text())
}

// Snapshot returns an immutable view of the current text.
// It may be handed to other goroutines.
func (d *Document) Snapshot() *Snapshot {
	return d.buf.Snapshot()
}

// ============================================================================
// Commands
// ============================================================================

// Apply executes cmd and records it for undo. On failure the content is
// unchanged and cmd is not recorded.
func (d *Document) Apply(cmd Command) error {
	if d.readOnly {
		return ErrReadOnly
	}

	if err := d.history.Apply(cmd, d.buf); err != nil {
		d.logger.Debug("apply failed", slog.String("op", cmd.Description()), slog.Any("err", err))
		return err
	}

	d.logger.Debug("apply", slog.String("op", cmd.Description()), slog.Int("len", d.buf.Len()))
	return nil
}

// Undo reverses the most recent command.
// Returns ErrNothingToUndo when there is nothing to undo and ErrGroupOpen
// while an undo group is open.
func (d *Document) Undo() error {
	if d.readOnly {
		return ErrReadOnly
	}

	info, _ := d.history.PeekUndo()
	if err := d.history.Undo(d.buf); err != nil {
		return err
	}

	d.logger.Debug("undo", slog.String("op", info.Description), slog.Int("len", d.buf.Len()))
	return nil
}

// Redo re-applies the most recently undone command.
// Returns ErrNothingToRedo when there is nothing to redo and ErrGroupOpen
// while an undo group is open.
func (d *Document) Redo() error {
	if d.readOnly {
		return ErrReadOnly
	}

	info, _ := d.history.PeekRedo()
	if err := d.history.Redo(d.buf); err != nil {
		return err
	}

	d.logger.Debug("redo", slog.String("op", info.Description), slog.Int("len", d.buf.Len()))
	return nil
}

// Insert inserts text at pos as an undoable command.
func (d *Document) Insert(pos ByteOffset, text string) error {
	return d.Apply(history.NewInsertCommand(pos, text))
}

// Delete removes n bytes at pos as an undoable command and returns them.
func (d *Document) Delete(pos ByteOffset, n int) (string, error) {
	cmd := history.NewDeleteCommand(pos, n)
	if err := d.Apply(cmd); err != nil {
		return "", err
	}
	return cmd.Removed(), nil
}

// Replace replaces n bytes at pos with text as an undoable command and
// returns the replaced bytes.
func (d *Document) Replace(pos ByteOffset, n int, text string) (string, error) {
	cmd := history.NewReplaceCommand(pos, n, text)
	if err := d.Apply(cmd); err != nil {
		return "", err
	}
	return cmd.Replaced(), nil
}

// Clear removes all content as an undoable command.
func (d *Document) Clear() error {
	if d.buf.IsEmpty() {
		return nil
	}
	_, err := d.Delete(0, d.buf.Len())
	return err
}

// ============================================================================
// History
// ============================================================================

// CanUndo returns true if there is a command to undo.
func (d *Document) CanUndo() bool {
	return d.history.CanUndo()
}

// CanRedo returns true if there is a command to redo.
func (d *Document) CanRedo() bool {
	return d.history.CanRedo()
}

// UndoCount returns the number of commands that can be undone.
func (d *Document) UndoCount() int {
	return d.history.UndoCount()
}

// RedoCount returns the number of commands that can be redone.
func (d *Document) RedoCount() int {
	return d.history.RedoCount()
}

// UndoInfo describes the undoable commands, oldest first.
func (d *Document) UndoInfo() []OperationInfo {
	return d.history.UndoInfo()
}

// RedoInfo describes the redoable commands, oldest first.
func (d *Document) RedoInfo() []OperationInfo {
	return d.history.RedoInfo()
}

// ClearHistory drops all undo and redo entries. The content is unchanged.
func (d *Document) ClearHistory() {
	d.history.Clear()
}

// BeginUndoGroup starts grouping commands into a single undo unit.
// Groups nest; the outermost group becomes the undo unit.
func (d *Document) BeginUndoGroup(name string) {
	d.history.BeginGroup(name, d.buf)
}

// EndUndoGroup finishes the current undo group.
func (d *Document) EndUndoGroup() {
	d.history.EndGroup(d.buf)
}

// CancelUndoGroup reverts the edits made since the innermost
// BeginUndoGroup and closes that group.
func (d *Document) CancelUndoGroup() error {
	return d.history.CancelGroup(d.buf)
}

// Transaction runs fn inside an undo group. If fn returns an error, its
// edits are reverted. Transactions nest.
func (d *Document) Transaction(name string, fn func() error) error {
	if d.readOnly {
		return ErrReadOnly
	}
	return d.history.Transaction(name, d.buf, fn)
}
