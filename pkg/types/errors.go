package types

import "errors"

// Error taxonomy. Every failure is returned synchronously and leaves the tree
// and column state exactly as it was before the call.
var (
	ErrArgumentMissing     = errors.New("argument missing")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateDefinition = errors.New("duplicate definition")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrUnsupported         = errors.New("operation not supported")
	ErrInvalidName         = errors.New("invalid name")
)

// Tree and backend errors.
var (
	ErrHasChildren = errors.New("node has children")
	ErrInvalidMove = errors.New("invalid move destination")
	ErrClosed      = errors.New("backend is closed")
)

// Refinements of ErrNotFound. Both satisfy errors.Is(err, ErrNotFound).
var (
	ErrNodeNotFound   error = &notFoundError{msg: "node doesn't exist"}
	ErrColumnNotFound error = &notFoundError{msg: "property doesn't exist"}
)

type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }
