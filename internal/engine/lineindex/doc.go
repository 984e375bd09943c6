// Package lineindex maps between byte offsets and line numbers in a text.
//
// An Index stores the byte offset at which every line begins. Line
// terminators are classified three ways:
//
//   - "\n" ends a line; the next line starts after it
//   - "\r\n" is a single terminator; the next line starts after the "\n"
//   - a lone "\r" (not followed by "\n") ends a line on its own
//
// A text therefore always has 1 + (number of terminators) lines, and a
// text ending in a terminator has a final empty line.
//
// The index can be rebuilt from scratch in one pass, or adjusted in place
// after a splice with Insert and Delete. Both paths produce identical
// indexes:
//
//	idx := lineindex.New("ab\ncd")
//	idx.LineCount()          // 2
//	idx.LineText(text, 1)    // "cd"
//
//	text = text[:2] + "\r\n" + text[2:]
//	idx.Insert(text, 2, 2)   // same as idx.Rebuild(text)
package lineindex
