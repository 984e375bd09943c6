package lineindex

import (
	"slices"
	"sort"
	"strings"

	"github.com/dshills/textcore/internal/engine/editerr"
)

// Index holds the start offset of every line in a text.
// starts[0] is always 0 and the sequence is strictly increasing.
type Index struct {
	starts []int
	length int // length of the indexed text in bytes
}

// New builds an index for content.
func New(content string) *Index {
	idx := &Index{}
	idx.Rebuild(content)
	return idx
}

// Rebuild rescans content and replaces the index. O(len(content)).
func (idx *Index) Rebuild(content string) {
	starts := idx.starts[:0]
	starts = append(starts, 0)

	i := 0
	for {
		j := strings.IndexAny(content[i:], "\r\n")
		if j < 0 {
			break
		}
		i += j
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			i++ // CRLF counts once, the line starts after the \n
		}
		i++
		starts = append(starts, i)
	}

	idx.starts = starts
	idx.length = len(content)
}

// Clone returns an independent copy of the index.
func (idx *Index) Clone() *Index {
	return &Index{starts: slices.Clone(idx.starts), length: idx.length}
}

// Reset makes the index describe an empty text.
func (idx *Index) Reset() {
	idx.starts = append(idx.starts[:0], 0)
	idx.length = 0
}

// LineCount returns the number of lines. Always at least 1.
func (idx *Index) LineCount() int {
	return len(idx.starts)
}

// Terminators returns the number of line terminators in the text.
func (idx *Index) Terminators() int {
	return len(idx.starts) - 1
}

// Len returns the length of the indexed text.
func (idx *Index) Len() int {
	return idx.length
}

// Starts returns a copy of the line start offsets.
func (idx *Index) Starts() []int {
	return slices.Clone(idx.starts)
}

// LineStart returns the offset where line begins, or -1 if line does not exist.
func (idx *Index) LineStart(line int) int {
	if line < 0 || line >= len(idx.starts) {
		return -1
	}
	return idx.starts[line]
}

// LineSpan returns the byte range [start, end) of line, terminator included.
func (idx *Index) LineSpan(line int) (start, end int, err error) {
	if line < 0 || line >= len(idx.starts) {
		return 0, 0, editerr.At("line span", editerr.OutOfRange, line, 0)
	}
	start = idx.starts[line]
	if line+1 < len(idx.starts) {
		end = idx.starts[line+1]
	} else {
		end = idx.length
	}
	return start, end, nil
}

// LineText returns the text of line without its terminator.
// content must be the text the index was built for.
func (idx *Index) LineText(content string, line int) (string, error) {
	start, end, err := idx.LineSpan(line)
	if err != nil {
		return "", err
	}
	return StripTerminator(content[start:end]), nil
}

// StripTerminator removes one trailing "\n", then one trailing "\r".
func StripTerminator(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// LineAt returns the line containing offset. Offsets past the end
// resolve to the last line.
func (idx *Index) LineAt(offset int) int {
	if offset <= 0 {
		return 0
	}
	// First line starting after offset, minus one.
	return sort.Search(len(idx.starts), func(i int) bool {
		return idx.starts[i] > offset
	}) - 1
}

// Equal reports whether two indexes describe the same line layout.
func (idx *Index) Equal(other *Index) bool {
	return idx.length == other.length && slices.Equal(idx.starts, other.starts)
}

// Insert adjusts the index after n bytes were inserted at pos.
// content is the text after the insertion.
//
// Whether s is a line start depends only on the bytes at s-1 and s, so
// starts below pos are unchanged, starts above pos in the old text move
// by n, and only candidates in [pos, pos+n] need a fresh look.
func (idx *Index) Insert(content string, pos, n int) {
	if pos < 0 || n < 0 || pos+n > len(content) || idx.length+n != len(content) {
		idx.Rebuild(content)
		return
	}
	if n == 0 {
		return
	}

	k := sort.SearchInts(idx.starts, pos)
	next := make([]int, 0, len(idx.starts)+strings.Count(content[pos:pos+n], "\n")+1)
	next = append(next, idx.starts[:max(k, 1)]...)

	for s := max(pos, 1); s <= pos+n; s++ {
		if isLineStart(content, s) {
			next = append(next, s)
		}
	}
	for _, s := range idx.starts[k:] {
		if s > pos {
			next = append(next, s+n)
		}
	}

	idx.starts = next
	idx.length = len(content)
}

// Delete adjusts the index after n bytes were removed at pos.
// content is the text after the deletion.
func (idx *Index) Delete(content string, pos, n int) {
	if pos < 0 || n < 0 || pos > len(content) || idx.length-n != len(content) {
		idx.Rebuild(content)
		return
	}
	if n == 0 {
		return
	}

	k := sort.SearchInts(idx.starts, pos)
	next := idx.starts[:max(k, 1)]

	// Starts inside the removed range collapse onto pos.
	var tail []int
	for i := k; i < len(idx.starts); i++ {
		if idx.starts[i] > pos+n {
			tail = idx.starts[i:]
			break
		}
	}

	shifted := make([]int, 0, len(tail)+1)
	if pos >= 1 && isLineStart(content, pos) {
		shifted = append(shifted, pos)
	}
	for _, s := range tail {
		shifted = append(shifted, s-n)
	}

	idx.starts = append(next, shifted...)
	idx.length = len(content)
}

// isLineStart reports whether a line begins at offset s of content.
func isLineStart(content string, s int) bool {
	if s <= 0 || s > len(content) {
		return false
	}
	switch content[s-1] {
	case '\n':
		return true
	case '\r':
		return s == len(content) || content[s] != '\n'
	}
	return false
}
