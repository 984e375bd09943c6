package buffer

import "fmt"

// ChangeType categorizes the type of change made to the buffer.
type ChangeType uint8

const (
	ChangeInsert  ChangeType = iota // Text was inserted
	ChangeDelete                    // Text was deleted
	ChangeReplace                   // Text was replaced
	ChangeReset                     // Whole content was loaded or cleared
)

// String returns a string representation of the change type.
func (c ChangeType) String() string {
	switch c {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeReplace:
		return "replace"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change describes one splice applied to the buffer.
type Change struct {
	Type     ChangeType
	Range    Range  // Range that was affected, in the text before the change
	NewRange Range  // Range covered by the new text, in the text after the change
	OldText  string // Text that was removed
	NewText  string // Text that was added
	Revision RevisionID
}

// newChange classifies a splice of oldText -> newText at pos.
func newChange(pos int, oldText, newText string, rev RevisionID) Change {
	typ := ChangeReplace
	switch {
	case oldText == "":
		typ = ChangeInsert
	case newText == "":
		typ = ChangeDelete
	}
	return Change{
		Type:     typ,
		Range:    Range{Start: pos, End: pos + len(oldText)},
		NewRange: Range{Start: pos, End: pos + len(newText)},
		OldText:  oldText,
		NewText:  newText,
		Revision: rev,
	}
}

// Delta returns the change in buffer length.
func (c Change) Delta() int {
	return len(c.NewText) - len(c.OldText)
}

// Invert returns the change that would undo this one.
func (c Change) Invert() Change {
	inv := Change{
		Range:    c.NewRange,
		NewRange: c.Range,
		OldText:  c.NewText,
		NewText:  c.OldText,
	}
	switch c.Type {
	case ChangeInsert:
		inv.Type = ChangeDelete
	case ChangeDelete:
		inv.Type = ChangeInsert
	default:
		inv.Type = c.Type
	}
	return inv
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	switch c.Type {
	case ChangeInsert:
		return fmt.Sprintf("Insert(%d, %q)", c.Range.Start, c.NewText)
	case ChangeDelete:
		return fmt.Sprintf("Delete%s", c.Range)
	case ChangeReset:
		return fmt.Sprintf("Reset(%d bytes)", len(c.NewText))
	default:
		return fmt.Sprintf("Replace%s with %q", c.Range, c.NewText)
	}
}
