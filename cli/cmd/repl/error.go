package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds    = errors.New("history index out of range")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidBinding = errors.New("invalid binding")
)
