package workflow

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/siadrive/siadrive-ui/internal/bridge"
	"github.com/siadrive/siadrive-ui/internal/bridge/bridgetest"
	"github.com/siadrive/siadrive-ui/internal/view"
)

var (
	snapOffline  = bridge.Snapshot{ClientVersion: "1.0.0", IsOnline: false}
	snapNoWallet = bridge.Snapshot{ClientVersion: "1.0.0", IsOnline: true}
	snapLocked   = bridge.Snapshot{ClientVersion: "1.0.0", IsOnline: true, IsWalletConfigured: true, IsWalletLocked: true}
	snapReady    = bridge.Snapshot{
		ClientVersion:      "1.0.0",
		IsOnline:           true,
		IsWalletConfigured: true,
		DefaultAllowance:   bridge.Allowance{Funds: "500", Hosts: "50", Period: "4032", RenewWindowInBlocks: "1008"},
	}
)

func newTestSession(t *testing.T, snap bridge.Snapshot) (*Session, *bridgetest.Recorder, *view.Slots) {
	t.Helper()
	rec := bridgetest.New(snap)
	slots := view.NewSlots()
	return NewSession(rec, rec, slots), rec, slots
}

// run executes cmd and feeds its message back through the session. cmd
// must not block; resolve the recorder's future first.
func run(t *testing.T, s *Session, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if _, ok := s.Handle(msg); !ok {
		t.Fatalf("Handle() did not accept %T", msg)
	}
}

func assertOps(t *testing.T, rec *bridgetest.Recorder, want ...string) {
	t.Helper()
	got := rec.Ops()
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ops = %v, want %v", got, want)
		}
	}
}

func assertAlert(t *testing.T, m *Modal, wantReason string) {
	t.Helper()
	a, ok := m.Current()
	if !ok {
		t.Fatal("expected an alert")
	}
	if a.Reason != wantReason {
		t.Errorf("alert reason = %q, want %q", a.Reason, wantReason)
	}
}
