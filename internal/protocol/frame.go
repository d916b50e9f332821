package protocol

import (
	"encoding/json"
	"fmt"
)

// FrameType discriminates the four frame kinds.
type FrameType string

const (
	TypeHello    FrameType = "hello"
	TypeRequest  FrameType = "request"
	TypeResponse FrameType = "response"
	TypeEvent    FrameType = "event"
)

// Op names an action the UI asks the host to perform.
type Op string

const (
	OpStartApp           Op = "startApp"
	OpStopApp            Op = "stopApp"
	OpShutdown           Op = "shutdown"
	OpCreateWallet       Op = "createWallet"
	OpUnlockWallet       Op = "unlockWallet"
	OpMountDrive         Op = "mountDrive"
	OpUnmountDrive       Op = "unmountDrive"
	OpSetRenterAllowance Op = "setRenterAllowance"
)

var knownOps = map[Op]bool{
	OpStartApp:           false,
	OpStopApp:            false,
	OpShutdown:           false,
	OpCreateWallet:       true,
	OpUnlockWallet:       true,
	OpMountDrive:         true,
	OpUnmountDrive:       true,
	OpSetRenterAllowance: false,
}

// Known reports whether op is part of the protocol.
func (o Op) Known() bool {
	_, ok := knownOps[o]
	return ok
}

// ExpectsResponse reports whether the host answers op with a response frame.
func (o Op) ExpectsResponse() bool {
	return knownOps[o]
}

// EventName names an unsolicited host push.
type EventName string

const (
	EventRenter         EventName = "renter"
	EventWallet         EventName = "wallet"
	EventBlockHeight    EventName = "blockHeight"
	EventServerVersion  EventName = "serverVersion"
	EventDrives         EventName = "drives"
	EventAllowance      EventName = "allowance"
	EventDriveUnmounted EventName = "driveUnmounted"
	EventEnvironment    EventName = "environment"
)

var knownEvents = map[EventName]bool{
	EventRenter:         true,
	EventWallet:         true,
	EventBlockHeight:    true,
	EventServerVersion:  true,
	EventDrives:         true,
	EventAllowance:      true,
	EventDriveUnmounted: true,
	EventEnvironment:    true,
}

// Known reports whether e is part of the protocol.
func (e EventName) Known() bool {
	return knownEvents[e]
}

// Frame is one websocket text message.
type Frame struct {
	Type    FrameType       `json:"type"`
	ID      string          `json:"id,omitempty"`
	Op      Op              `json:"op,omitempty"`
	Event   EventName       `json:"event,omitempty"`
	OK      bool            `json:"ok,omitempty"`
	Reason  string          `json:"reason,omitempty"`
	Payload string          `json:"payload,omitempty"`
	Args    json.RawMessage `json:"args,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Name returns the op or event name, whichever applies.
func (f *Frame) Name() string {
	switch f.Type {
	case TypeRequest:
		return string(f.Op)
	case TypeEvent:
		return string(f.Event)
	default:
		return ""
	}
}

// String returns a compact description safe for logs. Args and data are
// never included.
func (f *Frame) String() string {
	switch f.Type {
	case TypeRequest:
		return fmt.Sprintf("request[%s id=%s]", f.Op, f.ID)
	case TypeResponse:
		return fmt.Sprintf("response[id=%s ok=%v]", f.ID, f.OK)
	case TypeEvent:
		return fmt.Sprintf("event[%s]", f.Event)
	default:
		return fmt.Sprintf("%s[]", f.Type)
	}
}

// DecodeArgs unmarshals request args into v.
func (f *Frame) DecodeArgs(v interface{}) error {
	if len(f.Args) == 0 {
		return NewParseError(f.Type, "missing args for "+string(f.Op), nil)
	}
	if err := json.Unmarshal(f.Args, v); err != nil {
		return NewParseError(f.Type, "malformed args for "+string(f.Op), err)
	}
	return nil
}

// DecodeData unmarshals hello or event data into v.
func (f *Frame) DecodeData(v interface{}) error {
	if len(f.Data) == 0 {
		return NewParseError(f.Type, "missing data", nil)
	}
	if err := json.Unmarshal(f.Data, v); err != nil {
		return NewParseError(f.Type, "malformed data", err)
	}
	return nil
}
