package bridge

import (
	"reflect"
	"testing"

	"github.com/siadrive/siadrive-ui/internal/protocol"
)

func TestEventRoundTrip(t *testing.T) {
	updates := []Update{
		RenterUpdate{Stats: RenterStats{AllocatedFunds: "500", UsedFunds: "120", HostCount: "50"}},
		WalletUpdate{Stats: WalletStats{ConfirmedBalance: "1000", ReceiveAddress: "addr"}},
		BlockHeightUpdate{Height: 145000},
		ServerVersionUpdate{Version: "1.1.2"},
		DrivesUpdate{Drives: []string{"S:", "T:"}},
		AllowanceUpdate{Allowance: Allowance{Funds: "500", Hosts: "50", Period: "4032", RenewWindowInBlocks: "1008"}},
		DriveUnmountedUpdate{},
		EnvironmentUpdate{Snapshot: Snapshot{ClientVersion: "1.0.0", IsOnline: true, IsWalletConfigured: true}},
	}

	for _, u := range updates {
		t.Run(u.Kind(), func(t *testing.T) {
			frame, err := EventFromUpdate(u)
			if err != nil {
				t.Fatalf("EventFromUpdate() error = %v", err)
			}
			data, err := protocol.Encode(frame)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			decoded, err := protocol.Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			got, err := UpdateFromEvent(decoded)
			if err != nil {
				t.Fatalf("UpdateFromEvent() error = %v", err)
			}
			if !reflect.DeepEqual(got, u) {
				t.Errorf("round trip = %#v, want %#v", got, u)
			}
		})
	}
}

func TestResultFromWire(t *testing.T) {
	ok := ResultFromWire(protocol.NewSuccess("1", "alpha beta"))
	if !ok.OK || ok.Payload != "alpha beta" {
		t.Errorf("success = %+v", ok)
	}

	failed := ResultFromWire(protocol.NewFailure("2", "wrong password"))
	if failed.OK || failed.Reason != "wrong password" {
		t.Errorf("failure = %+v", failed)
	}

	blank := ResultFromWire(protocol.NewFailure("3", ""))
	if blank.Reason == "" {
		t.Error("failure without reason should get a default reason")
	}
}

func TestUpdateFromEventBadData(t *testing.T) {
	f := &protocol.Frame{Type: protocol.TypeEvent, Event: protocol.EventBlockHeight, Data: []byte(`"tall"`)}
	if _, err := UpdateFromEvent(f); err == nil {
		t.Error("expected error for malformed blockHeight data")
	}
}
