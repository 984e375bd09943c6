// Package buffer provides the text buffer at the center of the editing core.
//
// A Buffer owns the document bytes and a line index derived from them. All
// mutation goes through the splice methods (Insert, Delete, Replace,
// Splice), which validate bounds before touching content and then keep the
// line index in step, so the index is never stale relative to the text.
//
// Content is opaque: any byte sequence is accepted and nothing is
// normalized. Offsets are byte offsets. A splice boundary that falls inside
// a valid multi-byte UTF-8 character is rejected with an InvalidBoundary
// error rather than silently splitting the character.
//
// Basic usage:
//
//	buf := buffer.NewFromString("hello")
//
//	buf.Insert(5, " world")        // "hello world"
//	removed, _, _ := buf.Delete(0, 6) // removed == "hello ", text "world"
//
//	buf.LineCount()   // 1
//	buf.Line(0)       // "world", true
//
// Line Endings:
//
// "\n", "\r\n" and lone "\r" all terminate lines, in any mix. LineEnding
// reports the dominant style for display purposes only.
//
// Thread Safety:
//
// A Buffer is not safe for concurrent use. It is owned by a single
// document, which serializes access; use Snapshot to hand an immutable
// view to another goroutine.
package buffer
