package buffer

import (
	"unicode/utf8"

	"github.com/dshills/textcore/internal/engine/editerr"
	"github.com/dshills/textcore/internal/engine/lineindex"
)

// Buffer holds document text and its line index.
type Buffer struct {
	content  string
	index    *lineindex.Index
	strategy IndexStrategy
	revision RevisionID
	onChange func(Change)
}

// New creates a new empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		index: lineindex.New(""),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewFromString creates a buffer with initial content.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.Load(s)
	return b
}

// Load replaces the content with text and rebuilds the line index.
// Any byte sequence is accepted.
func (b *Buffer) Load(text string) Change {
	old := b.content
	b.content = text
	b.index.Rebuild(text)
	b.revision++
	return b.resetChange(old)
}

// Clear empties the buffer, leaving a single empty line.
func (b *Buffer) Clear() Change {
	old := b.content
	b.content = ""
	b.index.Reset()
	b.revision++
	return b.resetChange(old)
}

func (b *Buffer) resetChange(old string) Change {
	ch := Change{
		Type:     ChangeReset,
		Range:    Range{Start: 0, End: len(old)},
		NewRange: Range{Start: 0, End: len(b.content)},
		OldText:  old,
		NewText:  b.content,
		Revision: b.revision,
	}
	b.notify(ch)
	return ch
}

func (b *Buffer) notify(ch Change) {
	if b.onChange != nil {
		b.onChange(ch)
	}
}

// Read Operations

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	return b.content
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() int {
	return len(b.content)
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	return len(b.content) == 0
}

// TextRange returns text in [start, end). Out-of-range bounds are clamped.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	start = min(max(start, 0), len(b.content))
	end = min(max(end, start), len(b.content))
	return b.content[start:end]
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	return b.index.LineCount()
}

// Line returns the text of a line without its terminator.
// ok is false when the line does not exist.
func (b *Buffer) Line(line int) (text string, ok bool) {
	text, err := b.index.LineText(b.content, line)
	if err != nil {
		return "", false
	}
	return text, true
}

// LineSpan returns the byte range of a line, terminator included.
func (b *Buffer) LineSpan(line int) (Range, error) {
	start, end, err := b.index.LineSpan(line)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

// LineStarts returns a copy of the line start offsets.
func (b *Buffer) LineStarts() []int {
	return b.index.Starts()
}

// OffsetToPoint converts a byte offset to line/column.
// Offsets are clamped to the buffer.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	offset = min(max(offset, 0), len(b.content))
	line := b.index.LineAt(offset)
	return Point{Line: line, Column: offset - b.index.LineStart(line)}
}

// PointToOffset converts line/column to byte offset.
// The column is clamped to the line's text, excluding its terminator.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= b.index.LineCount() {
		return len(b.content)
	}
	start := b.index.LineStart(p.Line)
	text, _ := b.index.LineText(b.content, p.Line)
	return start + min(max(p.Column, 0), len(text))
}

// ValidBoundary reports whether a splice may begin or end at pos without
// splitting a UTF-8 encoded character. Bytes that do not belong to a valid
// multi-byte sequence impose no constraint.
func (b *Buffer) ValidBoundary(pos ByteOffset) bool {
	if pos <= 0 || pos >= len(b.content) {
		return true
	}
	if utf8.RuneStart(b.content[pos]) {
		return true
	}
	for back := 1; back < utf8.UTFMax && pos-back >= 0; back++ {
		i := pos - back
		if !utf8.RuneStart(b.content[i]) {
			continue
		}
		_, size := utf8.DecodeRuneInString(b.content[i:])
		return size <= back
	}
	return true
}

// LineEnding returns the dominant line ending style of the content.
func (b *Buffer) LineEnding() LineEnding {
	return DetectLineEnding(b.content)
}

// Revision returns the current revision.
func (b *Buffer) Revision() RevisionID {
	return b.revision
}

// IndexStrategy returns how the line index is maintained.
func (b *Buffer) IndexStrategy() IndexStrategy {
	return b.strategy
}

// Write Operations

// Insert inserts text at pos.
func (b *Buffer) Insert(pos ByteOffset, text string) (Change, error) {
	if pos < 0 || pos > len(b.content) {
		return Change{}, editerr.At("insert", editerr.OutOfRange, pos, 0)
	}
	if !b.ValidBoundary(pos) {
		return Change{}, editerr.At("insert", editerr.InvalidBoundary, pos, 0)
	}
	_, ch := b.splice(pos, 0, text)
	return ch, nil
}

// Delete removes n bytes at pos and returns them.
func (b *Buffer) Delete(pos ByteOffset, n int) (string, Change, error) {
	if err := b.checkRange("delete", pos, n, true); err != nil {
		return "", Change{}, err
	}
	removed, ch := b.splice(pos, n, "")
	return removed, ch, nil
}

// Replace replaces n bytes at pos with text and returns the removed bytes.
func (b *Buffer) Replace(pos ByteOffset, n int, text string) (string, Change, error) {
	if err := b.checkRange("replace", pos, n, true); err != nil {
		return "", Change{}, err
	}
	removed, ch := b.splice(pos, n, text)
	return removed, ch, nil
}

// Splice replaces n bytes at pos with text like Replace, but does not
// check character boundaries. It exists to put back bytes exactly as they
// were, which is always well-formed relative to the surrounding text.
func (b *Buffer) Splice(pos ByteOffset, n int, text string) (string, Change, error) {
	if err := b.checkRange("splice", pos, n, false); err != nil {
		return "", Change{}, err
	}
	removed, ch := b.splice(pos, n, text)
	return removed, ch, nil
}

func (b *Buffer) checkRange(op string, pos ByteOffset, n int, boundaries bool) error {
	if pos < 0 || n < 0 || pos > len(b.content) || n > len(b.content)-pos {
		return editerr.At(op, editerr.OutOfRange, pos, n)
	}
	if boundaries && !(b.ValidBoundary(pos) && b.ValidBoundary(pos+n)) {
		return editerr.At(op, editerr.InvalidBoundary, pos, n)
	}
	return nil
}

// splice applies a validated edit and brings the index up to date.
func (b *Buffer) splice(pos, n int, text string) (string, Change) {
	removed := b.content[pos : pos+n]
	b.content = b.content[:pos] + text + b.content[pos+n:]

	if b.strategy == IndexRebuild {
		b.index.Rebuild(b.content)
	} else {
		if n > 0 {
			without := b.content
			if len(text) > 0 {
				without = b.content[:pos] + b.content[pos+len(text):]
			}
			b.index.Delete(without, pos, n)
		}
		if len(text) > 0 {
			b.index.Insert(b.content, pos, len(text))
		}
	}

	b.revision++
	ch := newChange(pos, removed, text, b.revision)
	b.notify(ch)
	return removed, ch
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	return &Snapshot{
		content:  b.content, // strings are immutable, safe to share
		index:    b.index.Clone(),
		revision: b.revision,
	}
}
