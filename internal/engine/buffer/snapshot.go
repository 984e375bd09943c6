package buffer

import "github.com/dshills/textcore/internal/engine/lineindex"

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	content  string
	index    *lineindex.Index
	revision RevisionID
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string {
	return s.content
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() int {
	return len(s.content)
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return s.index.LineCount()
}

// Line returns the text of a line without its terminator.
func (s *Snapshot) Line(line int) (string, bool) {
	text, err := s.index.LineText(s.content, line)
	if err != nil {
		return "", false
	}
	return text, true
}

// Revision returns the revision the snapshot was taken at.
func (s *Snapshot) Revision() RevisionID {
	return s.revision
}

// LineEnding returns the dominant line ending style of the snapshot.
func (s *Snapshot) LineEnding() LineEnding {
	return DetectLineEnding(s.content)
}
