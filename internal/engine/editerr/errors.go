// Package editerr defines the error kinds shared by the editing core.
package editerr

import (
	"errors"
	"fmt"
)

// Kind classifies an edit failure.
type Kind uint8

const (
	// KindUnknown is reported for errors that did not originate in the core.
	KindUnknown Kind = iota
	// OutOfRange indicates a position or length exceeds the buffer bounds.
	OutOfRange
	// InvalidBoundary indicates an offset splits a multi-byte character.
	InvalidBoundary
	// NotExecuted indicates a command was inverted before being executed.
	NotExecuted
	// NothingToUndo indicates the undo stack is empty.
	NothingToUndo
	// NothingToRedo indicates the redo stack is empty.
	NothingToRedo
	// AlreadyExecuted indicates a command was executed twice without an
	// Invert in between.
	AlreadyExecuted
	// GroupOpen indicates undo or redo was attempted inside an open undo
	// group.
	GroupOpen
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case OutOfRange:
		return "OutOfRange"
	case InvalidBoundary:
		return "InvalidBoundary"
	case NotExecuted:
		return "NotExecuted"
	case NothingToUndo:
		return "NothingToUndo"
	case NothingToRedo:
		return "NothingToRedo"
	case AlreadyExecuted:
		return "AlreadyExecuted"
	case GroupOpen:
		return "GroupOpen"
	default:
		return "Unknown"
	}
}

// Sentinel errors, one per kind. Compare with errors.Is; any *Error of
// the same kind matches its sentinel.
var (
	ErrOutOfRange      = &Error{Kind: OutOfRange}
	ErrInvalidBoundary = &Error{Kind: InvalidBoundary}
	ErrNotExecuted     = &Error{Kind: NotExecuted}
	ErrNothingToUndo   = &Error{Kind: NothingToUndo}
	ErrNothingToRedo   = &Error{Kind: NothingToRedo}
	ErrAlreadyExecuted = &Error{Kind: AlreadyExecuted}
	ErrGroupOpen       = &Error{Kind: GroupOpen}
)

// Error describes a failed edit operation.
type Error struct {
	Op   string // operation that failed, e.g. "insert"
	Kind Kind
	Pos  int // byte offset involved, -1 when not applicable
	Len  int // byte length involved, 0 when not applicable
}

// New returns an Error for op with no position information.
func New(op string, kind Kind) *Error {
	return &Error{Op: op, Kind: kind, Pos: -1}
}

// At returns an Error for op at the given offset and length.
func At(op string, kind Kind, pos, length int) *Error {
	return &Error{Op: op, Kind: kind, Pos: pos, Len: length}
}

func (e *Error) Error() string {
	msg := e.message()
	switch {
	case e.Op == "":
		return msg
	case e.Pos < 0:
		return fmt.Sprintf("%s: %s", e.Op, msg)
	case e.Len > 0:
		return fmt.Sprintf("%s [%d,%d): %s", e.Op, e.Pos, e.Pos+e.Len, msg)
	default:
		return fmt.Sprintf("%s at %d: %s", e.Op, e.Pos, msg)
	}
}

func (e *Error) message() string {
	switch e.Kind {
	case OutOfRange:
		return "position out of range"
	case InvalidBoundary:
		return "offset splits a multi-byte character"
	case NotExecuted:
		return "command has not been executed"
	case NothingToUndo:
		return "nothing to undo"
	case NothingToRedo:
		return "nothing to redo"
	case AlreadyExecuted:
		return "command has already been executed"
	case GroupOpen:
		return "undo group is open"
	default:
		return "edit failed"
	}
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
