package engine

import (
	"errors"

	"github.com/dshills/textcore/internal/engine/editerr"
)

// Errors returned by document operations.
var (
	// ErrReadOnly indicates a mutation was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	ErrOutOfRange      = editerr.ErrOutOfRange
	ErrInvalidBoundary = editerr.ErrInvalidBoundary
	ErrNotExecuted     = editerr.ErrNotExecuted
	ErrNothingToUndo   = editerr.ErrNothingToUndo
	ErrNothingToRedo   = editerr.ErrNothingToRedo
	ErrAlreadyExecuted = editerr.ErrAlreadyExecuted
	ErrGroupOpen       = editerr.ErrGroupOpen
)
