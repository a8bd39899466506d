package comparison

import (
	"errors"
	"fmt"
)

const (
	// MsgSelectionRequired is shown when project, files or start date are missing.
	MsgSelectionRequired = "please select project/file/date"
	// MsgFallback is shown when a failure carries no server message.
	MsgFallback = "Comparison failed"
)

// ValidationError reports a missing selection. No request is sent.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing selection: %v", e.Missing)
}

// NetworkError wraps a transport failure or non-2xx response. Message is the
// server-supplied error text, if any.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return MsgFallback
}

func (e *NetworkError) Unwrap() error { return e.Err }

// serverMessager is implemented by backend errors that carry the server's
// "error" field.
type serverMessager interface {
	ServerMessage() string
}

func newNetworkError(err error) *NetworkError {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne
	}
	out := &NetworkError{Err: err}
	var sm serverMessager
	if errors.As(err, &sm) {
		out.Message = sm.ServerMessage()
	}
	return out
}

// userMessage flattens err into the single line shown to the user.
func userMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return MsgSelectionRequired
	}
	var ne *NetworkError
	if errors.As(err, &ne) && ne.Message != "" {
		return ne.Message
	}
	return MsgFallback
}
