package history

import (
	"errors"
	"fmt"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// GroupScope provides a convenient way to group commands using defer.
// Usage:
//
//	func doComplexEdit(h *History, buf *buffer.Buffer) {
//	    defer h.GroupScope("Complex Edit", buf).End()
//	    // ... multiple edits ...
//	}
type GroupScope struct {
	history *History
	buf     *buffer.Buffer
	active  bool
}

// GroupScope starts a new group scope.
// Call End() or use with defer to properly close the group.
func (h *History) GroupScope(name string, buf *buffer.Buffer) *GroupScope {
	h.BeginGroup(name, buf)
	return &GroupScope{
		history: h,
		buf:     buf,
		active:  true,
	}
}

// End ends the group scope.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup(g.buf)
		g.active = false
	}
}

// Cancel reverts the edits made in the scope and records nothing.
func (g *GroupScope) Cancel() error {
	if !g.active {
		return nil
	}
	g.active = false
	return g.history.CancelGroup(g.buf)
}

// Transaction applies the commands issued by fn as a single undo unit.
// If fn returns an error, its edits are reverted and the error returned.
// Transactions nest: an inner transaction that fails reverts only its own
// edits. Groups fn leaves open are closed; if fn closes the transaction's
// own group, Transaction reports an error and cannot revert.
func (h *History) Transaction(name string, buf *buffer.Buffer, fn func() error) error {
	h.BeginGroup(name, buf)
	depth := h.GroupDepth()

	err := fn()

	if h.GroupDepth() < depth {
		closed := fmt.Errorf("transaction '%s': group closed inside transaction", name)
		return errors.Join(err, closed)
	}
	for h.GroupDepth() > depth {
		h.EndGroup(buf)
	}

	if err != nil {
		if cerr := h.CancelGroup(buf); cerr != nil {
			return errors.Join(err, cerr)
		}
		return err
	}

	h.EndGroup(buf)
	return nil
}

// ApplyGrouped applies multiple commands as a single undo unit.
// If any command fails, the ones already applied are reverted.
func (h *History) ApplyGrouped(name string, buf *buffer.Buffer, cmds ...Command) error {
	if len(cmds) == 0 {
		return nil
	}

	if len(cmds) == 1 {
		// Single command doesn't need grouping
		return h.Apply(cmds[0], buf)
	}

	return h.Transaction(name, buf, func() error {
		for _, cmd := range cmds {
			if err := h.Apply(cmd, buf); err != nil {
				return err
			}
		}
		return nil
	})
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// CreateCheckpoint creates a checkpoint at the current history position.
func (h *History) CreateCheckpoint() Checkpoint {
	return Checkpoint{undoDepth: len(h.undoStack)}
}

// UndoToCheckpoint undoes all operations since the checkpoint.
func (h *History) UndoToCheckpoint(cp Checkpoint, buf *buffer.Buffer) error {
	for h.UndoCount() > cp.undoDepth {
		if err := h.Undo(buf); err != nil {
			return err
		}
	}
	return nil
}

// RedoToCheckpoint redoes all operations up to the checkpoint depth.
// Note: This only works if the redo stack has the operations.
func (h *History) RedoToCheckpoint(cp Checkpoint, buf *buffer.Buffer) error {
	for h.UndoCount() < cp.undoDepth && h.CanRedo() {
		if err := h.Redo(buf); err != nil {
			return err
		}
	}
	return nil
}
