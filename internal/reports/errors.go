package reports

import "errors"

var (
	// ErrInvalidInput is returned when the project or file pair is missing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDocumentNotFound is returned when a referenced file is not stored.
	ErrDocumentNotFound = errors.New("document not found")
)
