package history

import (
	"fmt"
	"time"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/editerr"
)

// Errors for history operations.
var (
	ErrNothingToUndo = editerr.ErrNothingToUndo
	ErrNothingToRedo = editerr.ErrNothingToRedo
	ErrGroupOpen     = editerr.ErrGroupOpen
)

// undoEntry wraps a command with metadata.
type undoEntry struct {
	command   Command
	timestamp time.Time
	delta     int // change in buffer length caused by the last Execute
}

// History manages undo/redo state for a buffer.
// It is not safe for concurrent use.
type History struct {
	undoStack []*undoEntry
	redoStack []*undoEntry

	// Grouping state. groupMarks holds len(groupCmds) at each open
	// BeginGroup, outermost first.
	groupName  string
	groupCmds  []Command
	groupMarks []int
	groupLen   int // buffer length when the outermost group began

	// Configuration
	maxEntries int // 0 means unbounded
}

// New creates a new history manager. maxEntries bounds the undo stack;
// 0 or less means unbounded. A bounded history discards its oldest
// entries, after which the undo stack no longer replays from the
// original text.
func New(maxEntries int) *History {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &History{
		maxEntries: maxEntries,
	}
}

// Apply executes cmd and records it on the undo stack, clearing the redo
// stack. If cmd fails, it is dropped, the buffer is unchanged, and the
// error is returned.
func (h *History) Apply(cmd Command, buf *buffer.Buffer) error {
	before := buf.Len()
	if err := cmd.Execute(buf); err != nil {
		return err
	}

	h.redoStack = nil

	if h.IsGrouping() {
		h.groupCmds = append(h.groupCmds, cmd)
		return nil
	}

	h.push(&undoEntry{command: cmd, timestamp: time.Now(), delta: buf.Len() - before})
	return nil
}

// push adds an entry to the undo stack and enforces the size bound.
func (h *History) push(entry *undoEntry) {
	h.undoStack = append(h.undoStack, entry)

	if h.maxEntries > 0 && len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		clear(h.undoStack[:excess])
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo inverts the most recent command and moves it to the redo stack.
// It fails with ErrGroupOpen while a group is open. If the inversion
// fails, the command is dropped rather than put back, and the error is
// returned.
func (h *History) Undo(buf *buffer.Buffer) error {
	if h.IsGrouping() {
		return editerr.New("undo", editerr.GroupOpen)
	}
	if len(h.undoStack) == 0 {
		return ErrNothingToUndo
	}

	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack[len(h.undoStack)-1] = nil
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	if err := entry.command.Invert(buf); err != nil {
		return fmt.Errorf("undo %q: %w", entry.command.Description(), err)
	}

	h.redoStack = append(h.redoStack, entry)
	return nil
}

// Redo executes the most recently undone command again and moves it back
// to the undo stack. It fails with ErrGroupOpen while a group is open. If
// it fails otherwise, the command is dropped and the error is returned.
func (h *History) Redo(buf *buffer.Buffer) error {
	if h.IsGrouping() {
		return editerr.New("redo", editerr.GroupOpen)
	}
	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}

	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack[len(h.redoStack)-1] = nil
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	before := buf.Len()
	if err := entry.command.Execute(buf); err != nil {
		return fmt.Errorf("redo %q: %w", entry.command.Description(), err)
	}

	entry.delta = buf.Len() - before
	h.push(entry)
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// BeginGroup starts a command group.
// Commands applied while grouping are combined into a single undo unit.
// Groups nest: an inner group's commands become part of the outermost
// group, which is recorded when it ends. buf is the buffer the group
// will edit.
func (h *History) BeginGroup(name string, buf *buffer.Buffer) {
	if !h.IsGrouping() {
		h.groupName = name
		h.groupCmds = nil
		h.groupLen = buf.Len()
	}
	h.groupMarks = append(h.groupMarks, len(h.groupCmds))
}

// EndGroup finishes the innermost open group. Ending the outermost group
// combines all its commands into a CompoundCommand on the undo stack.
func (h *History) EndGroup(buf *buffer.Buffer) {
	if !h.IsGrouping() {
		return
	}

	h.groupMarks = h.groupMarks[:len(h.groupMarks)-1]
	if h.IsGrouping() {
		return
	}
	h.recordGroup(buf)
}

// recordGroup pushes the collected commands as one entry.
func (h *History) recordGroup(buf *buffer.Buffer) {
	cmds := h.groupCmds
	h.groupCmds = nil
	if len(cmds) == 0 {
		return
	}

	compound := &CompoundCommand{
		Name:     h.groupName,
		Commands: cmds,
		executed: true,
	}
	h.push(&undoEntry{command: compound, timestamp: time.Now(), delta: buf.Len() - h.groupLen})
}

// CancelGroup ends the innermost open group by inverting the commands
// applied since its BeginGroup, newest first. Commands of enclosing groups
// are kept. If an inversion fails, the commands already inverted are
// executed again and the group ends as EndGroup would, so the history
// still describes the buffer; the error is returned.
func (h *History) CancelGroup(buf *buffer.Buffer) error {
	if !h.IsGrouping() {
		return nil
	}

	mark := h.groupMarks[len(h.groupMarks)-1]
	steps := &CompoundCommand{
		Name:     h.groupName,
		Commands: h.groupCmds[mark:],
		executed: true,
	}
	if err := steps.Invert(buf); err != nil {
		h.EndGroup(buf)
		return fmt.Errorf("cancel group '%s': %w", h.groupName, err)
	}

	clear(h.groupCmds[mark:])
	h.groupCmds = h.groupCmds[:mark]
	h.EndGroup(buf)
	return nil
}

// IsGrouping returns true if currently in a command group.
func (h *History) IsGrouping() bool {
	return len(h.groupMarks) > 0
}

// GroupDepth returns the number of open groups.
func (h *History) GroupDepth() int {
	return len(h.groupMarks)
}

// Clear removes all undo/redo history and abandons any open group without
// reverting it.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.groupMarks = nil
	h.groupCmds = nil
}

// UndoInfo returns info about available undo operations, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	return stackInfo(h.undoStack)
}

// RedoInfo returns info about available redo operations, oldest first.
func (h *History) RedoInfo() []OperationInfo {
	return stackInfo(h.redoStack)
}

// PeekUndo returns info about the next undo operation without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo operation without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max < 0 {
		max = 0
	}

	h.maxEntries = max

	if max > 0 && len(h.undoStack) > max {
		excess := len(h.undoStack) - max
		h.undoStack = h.undoStack[excess:]
	}
}

// MaxEntries returns the maximum number of undo entries, 0 if unbounded.
func (h *History) MaxEntries() int {
	return h.maxEntries
}

// OperationInfo provides read-only info about a recorded command.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	Description string    // Human-readable description
	Timestamp   time.Time // When the command was recorded
	BytesDelta  int       // Positive for insertions, negative for deletions
}

func (e *undoEntry) info() OperationInfo {
	return OperationInfo{
		Description: e.command.Description(),
		Timestamp:   e.timestamp,
		BytesDelta:  e.delta,
	}
}

func stackInfo(stack []*undoEntry) []OperationInfo {
	result := make([]OperationInfo, len(stack))
	for i, entry := range stack {
		result[i] = entry.info()
	}
	return result
}
