package protocol

import "fmt"

// ParseError reports a frame that is not valid JSON or violates the frame
// rules for its type.
type ParseError struct {
	Type    FrameType
	Message string
	Err     error
}

// NewParseError creates a ParseError.
func NewParseError(t FrameType, message string, err error) *ParseError {
	return &ParseError{Type: t, Message: message, Err: err}
}

// Error implements the error interface
func (e *ParseError) Error() string {
	prefix := "invalid frame"
	if e.Type != "" {
		prefix = fmt.Sprintf("invalid %s frame", e.Type)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Err
}
