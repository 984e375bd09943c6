// Package engine provides the editable document at the core of textcore.
//
// A Document combines a text buffer, its line index, and an undo/redo
// history behind a small API. Every mutation is a history.Command applied
// through the document, so the content, the line index and the history
// always describe the same text.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - lineindex: line start offsets with "\n", "\r\n" and lone "\r" terminators
//   - buffer: byte-addressable text with validated splices
//   - history: reversible commands and the undo/redo stacks
//   - editerr: error kinds shared by the packages above
//
// # Basic Usage
//
//	doc := engine.New()
//
//	doc.Insert(0, "hello")          // "hello"
//	doc.Apply(history.NewDeleteCommand(0, 1)) // "ello"
//	doc.Undo()                      // "hello"
//	doc.Redo()                      // "ello"
//
//	line, ok := doc.GetLine(0) // "ello", true
//	_, ok = doc.GetLine(1)     // ok == false
//
// # Loading and Saving
//
// The document never touches files. Collaborators hand it text with Load
// and take it back with SaveContent:
//
//	doc.Load("one\r\ntwo\rthree\n") // 4 lines, history cleared
//	text := doc.SaveContent()       // exact bytes, never normalized
//
// # Undo Groups
//
// Several edits can be undone as one unit:
//
//	doc.BeginUndoGroup("Wrap")
//	doc.Insert(0, "(")
//	doc.Insert(doc.Len(), ")")
//	doc.EndUndoGroup()
//	doc.Undo() // removes both parentheses
//
// # Thread Safety
//
// A Document is not safe for concurrent use. Wrap it in a Locked when a
// second goroutine, such as an autosaver, needs access.
package engine
