package linalg

import "errors"

// Errors returned by array operations.
var (
	ErrShapeMismatch  = errors.New("shape mismatch")
	ErrDTypeConflict  = errors.New("out dtype conflicts with requested dtype")
	ErrNotImplemented = errors.New("not implemented")
	ErrInvalidOrder   = errors.New("invalid euler order")
)
