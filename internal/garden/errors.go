package garden

import (
	"errors"
	"fmt"
)

// ErrInvalidState indicates a cell-targeted operation on a cell that is out of
// bounds or does not hold the flower the operation requires. It always points at a
// bug in the caller and aborts the run.
var ErrInvalidState = errors.New("garden: invalid state")

// CellError wraps an error with the operation and coordinate that triggered it.
type CellError struct {
	Op  string
	Pos Pos
	Err error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Pos, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

func invalid(op string, p Pos, reason string) error {
	return &CellError{Op: op, Pos: p, Err: fmt.Errorf("%w: %s", ErrInvalidState, reason)}
}
