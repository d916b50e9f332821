package protocol

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, f *Frame)
	}{
		{
			name:  "hello",
			input: `{"type":"hello","data":{"clientVersion":"0.0.1","isOnline":true}}`,
			check: func(t *testing.T, f *Frame) {
				var s Snapshot
				if err := f.DecodeData(&s); err != nil {
					t.Fatalf("DecodeData() error = %v", err)
				}
				if !s.IsOnline || s.ClientVersion != "0.0.1" {
					t.Errorf("snapshot = %+v", s)
				}
			},
		},
		{
			name:  "request",
			input: `{"type":"request","id":"1","op":"unmountDrive"}`,
			check: func(t *testing.T, f *Frame) {
				if f.Op != OpUnmountDrive || f.Name() != "unmountDrive" {
					t.Errorf("op = %v", f.Op)
				}
			},
		},
		{
			name:  "failed response",
			input: `{"type":"response","id":"1","reason":"device busy"}`,
			check: func(t *testing.T, f *Frame) {
				if f.OK || f.Reason != "device busy" {
					t.Errorf("frame = %+v", f)
				}
			},
		},
		{
			name:  "event without data",
			input: `{"type":"event","event":"driveUnmounted"}`,
			check: func(t *testing.T, f *Frame) {
				if f.Event != EventDriveUnmounted {
					t.Errorf("event = %v", f.Event)
				}
			},
		},
		{name: "malformed json", input: `{"type":`, wantErr: true},
		{name: "missing type", input: `{"id":"1"}`, wantErr: true},
		{name: "unknown type", input: `{"type":"ping"}`, wantErr: true},
		{name: "hello without data", input: `{"type":"hello"}`, wantErr: true},
		{name: "request without id", input: `{"type":"request","op":"stopApp"}`, wantErr: true},
		{name: "request with unknown op", input: `{"type":"request","id":"1","op":"eject"}`, wantErr: true},
		{name: "response without id", input: `{"type":"response","ok":true}`, wantErr: true},
		{name: "unknown event", input: `{"type":"event","event":"weather"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Decode() = %+v, want error", f)
				}
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Errorf("Decode() error type = %T, want *ParseError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestDecode_RoundTripsConstructedFrames(t *testing.T) {
	req, err := NewRequest("42", OpSetRenterAllowance, AllowanceArgs{Allowance: Allowance{Funds: "500", Hosts: "24"}})
	if err != nil {
		t.Fatal(err)
	}

	data, err := Encode(req)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var args AllowanceArgs
	if err := got.DecodeArgs(&args); err != nil {
		t.Fatalf("DecodeArgs() error = %v", err)
	}
	if args.Allowance.Funds != "500" || args.Allowance.Hosts != "24" {
		t.Errorf("allowance = %+v", args.Allowance)
	}
}

func TestDecodeArgs_Missing(t *testing.T) {
	f := &Frame{Type: TypeRequest, ID: "1", Op: OpMountDrive}
	var args MountArgs
	if err := f.DecodeArgs(&args); err == nil {
		t.Error("DecodeArgs() should fail when args are missing")
	}
}

func TestParseError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewParseError(TypeEvent, "malformed data", inner)

	if !errors.Is(err, inner) {
		t.Error("ParseError should unwrap to its cause")
	}
	if err.Error() != "invalid event frame: malformed data: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}
