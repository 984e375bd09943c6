package script

import (
	"errors"
	"fmt"

	"github.com/dshills/textcore/internal/engine/editerr"
)

// ErrTimeout is returned when a script runs past its deadline.
var ErrTimeout = errors.New("lua script timed out")

// Error is a failure raised while running a script.
type Error struct {
	// Script is the chunk name, usually the file path.
	Script string
	// Message is the Lua error message, including position.
	Message string
	// Err is the edit error that raised the Lua error, or the underlying
	// Lua error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %s", e.Script, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Kind returns the edit error kind behind the failure, or
// editerr.KindUnknown if the script failed for another reason.
func (e *Error) Kind() editerr.Kind {
	return editerr.KindOf(e.Err)
}
