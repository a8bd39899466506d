package finals

import "errors"

var (
	// ErrNotFound is returned when a project has no final file.
	ErrNotFound = errors.New("final file not found")
	// ErrInvalidInput is returned for empty project or file names.
	ErrInvalidInput = errors.New("invalid input")
)
