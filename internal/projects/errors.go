package projects

import "errors"

var (
	// ErrInvalidInput is returned for missing or unusable project and file names.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a file does not exist.
	ErrNotFound = errors.New("file not found")
)
