// Package history provides undo/redo for the editing core.
//
// Every mutation of a document is expressed as a Command: a value that can
// apply itself to a buffer and later invert itself. Commands carry the
// state they need to invert exactly; a DeleteCommand, for instance,
// records the bytes it removed when it executes.
//
// # Commands
//
// Built-in commands:
//   - InsertCommand: insert text at a byte offset
//   - DeleteCommand: remove a byte range, capturing the removed text
//   - ReplaceCommand: replace a byte range, capturing the replaced text
//   - CompoundCommand: run several commands as one undo unit
//
// Inverting a command that has not executed fails with NotExecuted.
//
// # History Stack
//
// History keeps an undo stack and a redo stack, most recent last:
//
//	h := history.New(0) // 0 = unbounded
//
//	h.Apply(history.NewInsertCommand(5, " world"), buf)
//	h.Undo(buf)
//	h.Redo(buf)
//
// Applying a new command clears the redo stack. A command that fails to
// apply, undo, or redo is dropped and its error returned; the buffer is
// left exactly as it was before the failed step.
//
// # Command Grouping
//
// Multiple commands can be grouped as a single undo unit:
//
//	h.BeginGroup("Indent block")
//	// ... several Apply calls ...
//	h.EndGroup()
//
// Now all edits undo together.
package history
