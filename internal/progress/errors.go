package progress

import "errors"

var (
	// ErrInvalidInput is returned for malformed dates, out-of-range values or empty projects.
	ErrInvalidInput = errors.New("invalid input")
)
