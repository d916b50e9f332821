package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewRequest(t *testing.T) {
	f, err := NewRequest("abc", OpMountDrive, MountArgs{Location: "Z:\\"})
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}

	if f.Type != TypeRequest || f.ID != "abc" || f.Op != OpMountDrive {
		t.Errorf("frame = %+v, want request abc mountDrive", f)
	}

	var args MountArgs
	if err := f.DecodeArgs(&args); err != nil {
		t.Fatalf("DecodeArgs() error = %v", err)
	}
	if args.Location != "Z:\\" {
		t.Errorf("Location = %q, want Z:\\", args.Location)
	}
}

func TestNewRequest_NoArgs(t *testing.T) {
	f, err := NewRequest("abc", OpStartApp, nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	if f.Args != nil {
		t.Errorf("Args = %s, want nil", string(f.Args))
	}

	data, err := Encode(f)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if strings.Contains(string(data), `"args"`) {
		t.Errorf("encoded frame %s should omit args", string(data))
	}
}

func TestNewRequest_UnknownOp(t *testing.T) {
	if _, err := NewRequest("abc", Op("formatDisk"), nil); err == nil {
		t.Error("NewRequest() should reject unknown ops")
	}
}

func TestNewEvent(t *testing.T) {
	f, err := NewEvent(EventDrives, DrivesData{Drives: []string{"X:\\", "Z:\\"}})
	if err != nil {
		t.Fatalf("NewEvent() error = %v", err)
	}

	var data DrivesData
	if err := f.DecodeData(&data); err != nil {
		t.Fatalf("DecodeData() error = %v", err)
	}
	if len(data.Drives) != 2 || data.Drives[1] != "Z:\\" {
		t.Errorf("Drives = %v, want [X:\\ Z:\\]", data.Drives)
	}

	if _, err := NewEvent(EventName("bogus"), nil); err == nil {
		t.Error("NewEvent() should reject unknown events")
	}
}

func TestNewHello_UsesHostFieldNames(t *testing.T) {
	f, err := NewHello(Snapshot{
		ClientVersion:      "0.0.1",
		IsOnline:           true,
		IsWalletConfigured: true,
		DefaultAllowance:   Allowance{Funds: "4000", Hosts: "24", Period: "4320", RenewWindowInBlocks: "1440"},
	})
	if err != nil {
		t.Fatalf("NewHello() error = %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(f.Data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"clientVersion", "isOnline", "isWalletConfigured", "isWalletLocked", "defaultRenterSettings"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("hello data missing key %q", key)
		}
	}
}

func TestResponses(t *testing.T) {
	ok := NewSuccess("1", "seed words")
	if !ok.OK || ok.Payload != "seed words" || ok.Reason != "" {
		t.Errorf("NewSuccess() = %+v", ok)
	}

	fail := NewFailure("2", "device busy")
	if fail.OK || fail.Reason != "device busy" {
		t.Errorf("NewFailure() = %+v", fail)
	}
}

func TestOpExpectsResponse(t *testing.T) {
	tests := []struct {
		op   Op
		want bool
	}{
		{OpStartApp, false},
		{OpStopApp, false},
		{OpShutdown, false},
		{OpSetRenterAllowance, false},
		{OpCreateWallet, true},
		{OpUnlockWallet, true},
		{OpMountDrive, true},
		{OpUnmountDrive, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			if got := tt.op.ExpectsResponse(); got != tt.want {
				t.Errorf("%s.ExpectsResponse() = %v, want %v", tt.op, got, tt.want)
			}
		})
	}
}

func TestFrameString_OmitsArgs(t *testing.T) {
	f, err := NewRequest("id-1", OpUnlockWallet, UnlockArgs{Password: "hunter2"})
	if err != nil {
		t.Fatal(err)
	}

	if s := f.String(); strings.Contains(s, "hunter2") {
		t.Errorf("String() = %q leaks the password", s)
	}
}
