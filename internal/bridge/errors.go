package bridge

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a bridge error
type ErrorType int

const (
	// ErrTypeTransport indicates the websocket could not be dialed or written
	ErrTypeTransport ErrorType = iota
	// ErrTypeHandshake indicates the host did not greet with a valid hello
	ErrTypeHandshake
	// ErrTypeProtocol indicates a malformed or unexpected frame
	ErrTypeProtocol
	// ErrTypeRejected indicates a request was refused before it was issued
	ErrTypeRejected
	// ErrTypeClosed indicates the client was already closed
	ErrTypeClosed
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeHandshake:
		return "Handshake Error"
	case ErrTypeProtocol:
		return "Protocol Error"
	case ErrTypeRejected:
		return "Rejected"
	case ErrTypeClosed:
		return "Closed"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// BridgeError is an error raised on the UI side of the bridge.
type BridgeError struct {
	Type    ErrorType
	Op      string // protocol op, empty for connection-level errors
	Message string
	Err     error
}

// Error implements the error interface
func (e *BridgeError) Error() string {
	msg := e.Type.String()
	if e.Op != "" {
		msg += " (" + e.Op + ")"
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *BridgeError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error.
func NewTransportError(op string, message string, err error) *BridgeError {
	return &BridgeError{Type: ErrTypeTransport, Op: op, Message: message, Err: err}
}

// NewHandshakeError creates a handshake error.
func NewHandshakeError(message string, err error) *BridgeError {
	return &BridgeError{Type: ErrTypeHandshake, Message: message, Err: err}
}

// NewProtocolError creates a protocol error.
func NewProtocolError(message string, err error) *BridgeError {
	return &BridgeError{Type: ErrTypeProtocol, Message: message, Err: err}
}

// NewRejectedError creates a rejection error.
func NewRejectedError(op string, message string, err error) *BridgeError {
	return &BridgeError{Type: ErrTypeRejected, Op: op, Message: message, Err: err}
}

// ErrClosed is returned by operations on a closed Client.
var ErrClosed = &BridgeError{Type: ErrTypeClosed, Message: "bridge connection closed"}

func isType(err error, t ErrorType) bool {
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Type == t
	}
	return false
}

// IsClosed reports whether err means the bridge connection is gone.
func IsClosed(err error) bool { return isType(err, ErrTypeClosed) }

// IsRejected reports whether err is a synchronous rejection.
func IsRejected(err error) bool { return isType(err, ErrTypeRejected) }

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return isType(err, ErrTypeTransport) }
