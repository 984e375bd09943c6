package fileio

import (
	"bytes"
	"fmt"

	"github.com/dshills/textcore/internal/engine"
)

// DefaultPerm is the permission for newly created files.
const DefaultPerm = 0o644

// Open reads path and returns a document holding its exact bytes.
// The file content is the document's initial content, so the document
// starts unmodified with an empty history.
func Open(fsys FS, path string, opts ...engine.Option) (*engine.Document, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	opts = append(opts, engine.WithContent(string(data)))
	return engine.New(opts...), nil
}

// Reload replaces the document content with the file at path and clears
// the document's history. A file identical to the current text leaves the
// document and its history alone. Reload reports whether it loaded.
func Reload(fsys FS, path string, doc *engine.Document) (bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if string(data) == doc.Text() {
		return false, nil
	}
	if err := doc.Load(string(data)); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes the document's exact bytes to path and marks it saved.
func Save(fsys FS, path string, doc *engine.Document) error {
	if err := fsys.WriteFile(path, []byte(doc.SaveContent()), DefaultPerm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	doc.MarkSaved()
	return nil
}

// IsBinary reports whether content looks like binary data rather than
// text: a NUL byte, or more than 10% control characters other than tab,
// newline and carriage return in the first 8KB.
func IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	sample := content[:min(len(content), 8192)]

	// Null bytes are a strong indicator of binary
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	nonText := 0
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' {
			nonText++
		}
	}
	return float64(nonText)/float64(len(sample)) > 0.1
}
