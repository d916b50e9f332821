package protocol

import (
	"encoding/json"
	"fmt"
)

// NewHello builds the greeting the host sends after the upgrade.
func NewHello(snapshot Snapshot) (*Frame, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return &Frame{Type: TypeHello, Data: data}, nil
}

// NewRequest builds a request frame. args may be nil for ops without args.
func NewRequest(id string, op Op, args interface{}) (*Frame, error) {
	if !op.Known() {
		return nil, fmt.Errorf("unknown op %q", op)
	}
	f := &Frame{Type: TypeRequest, ID: id, Op: op}
	if args != nil {
		raw, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s args: %w", op, err)
		}
		f.Args = raw
	}
	return f, nil
}

// NewSuccess builds a successful response carrying payload (seed for
// createWallet, empty otherwise).
func NewSuccess(id string, payload string) *Frame {
	return &Frame{Type: TypeResponse, ID: id, OK: true, Payload: payload}
}

// NewFailure builds a failed response carrying a human-readable reason.
func NewFailure(id string, reason string) *Frame {
	return &Frame{Type: TypeResponse, ID: id, OK: false, Reason: reason}
}

// NewEvent builds an event frame. data may be nil.
func NewEvent(name EventName, data interface{}) (*Frame, error) {
	if !name.Known() {
		return nil, fmt.Errorf("unknown event %q", name)
	}
	f := &Frame{Type: TypeEvent, Event: name}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s data: %w", name, err)
		}
		f.Data = raw
	}
	return f, nil
}

// Encode serializes a frame for a websocket text message.
func Encode(f *Frame) ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", f.String(), err)
	}
	return data, nil
}
