package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/siadrive/siadrive-ui/internal/bridge"
	"github.com/siadrive/siadrive-ui/internal/bridge/bridgetest"
	"github.com/siadrive/siadrive-ui/internal/nav"
	"github.com/siadrive/siadrive-ui/internal/view"
	"github.com/siadrive/siadrive-ui/internal/workflow"
)

type fakeConn struct {
	*bridgetest.Recorder
	closed int
}

func (f *fakeConn) Close() error {
	f.closed++
	return nil
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var keyEnter = tea.KeyMsg{Type: tea.KeyEnter}

func connectedModel(t *testing.T, snap bridge.Snapshot) (AppModel, *fakeConn) {
	t.Helper()
	conn := &fakeConn{Recorder: bridgetest.New(snap)}
	var remembered string
	m := NewAppModel(Options{
		BridgeURL:   "ws://127.0.0.1:9981/bridge",
		Dial:        func(ctx context.Context, url string) (Connection, error) { return conn, nil },
		LastDrive:   "T:",
		OnConnected: func(url string) { remembered = url },
	})
	if m.Stage != StageConnecting {
		t.Fatalf("stage = %s, want connecting", m.Stage)
	}

	updated, _ := m.Update(connectedMsg{url: m.URL, conn: conn})
	m = updated.(AppModel)
	if m.Stage != StageSession {
		t.Fatalf("stage = %s, want session", m.Stage)
	}
	if remembered != "ws://127.0.0.1:9981/bridge" {
		t.Errorf("OnConnected got %q", remembered)
	}
	return m, conn
}

func send(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(AppModel), cmd
}

func TestDialFromInit(t *testing.T) {
	conn := &fakeConn{Recorder: bridgetest.New(bridge.Snapshot{})}
	m := NewAppModel(Options{
		BridgeURL: "ws://h/bridge",
		Dial:      func(ctx context.Context, url string) (Connection, error) { return conn, nil },
	})
	msg := m.dial(m.URL)()
	c, ok := msg.(connectedMsg)
	if !ok || c.conn != conn || c.url != "ws://h/bridge" {
		t.Errorf("dial msg = %#v", msg)
	}

	failing := NewAppModel(Options{
		BridgeURL: "ws://h/bridge",
		Dial: func(ctx context.Context, url string) (Connection, error) {
			return nil, errors.New("connection refused")
		},
	})
	m, _ = send(failing, failing.dial(failing.URL)())
	if m.Stage != StageDisconnected || m.ConnErr == nil {
		t.Errorf("stage = %s err = %v", m.Stage, m.ConnErr)
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Error("disconnected view should show the error")
	}
}

func TestSessionStartsOnInitialScreen(t *testing.T) {
	m, conn := connectedModel(t, bridge.Snapshot{ClientVersion: "1.0.0", IsOnline: true, IsWalletConfigured: true})

	if m.Session.Nav.Active() != nav.ScreenApp {
		t.Errorf("active = %s, want app", m.Session.Nav.Active())
	}
	ops := conn.Ops()
	if len(ops) != 2 || ops[0] != "stopApp" || ops[1] != "startApp" {
		t.Errorf("ops = %v", ops)
	}
	if got := m.Slots.Text(view.SlotTitle); got != "SiaDrive v1.0.0" {
		t.Errorf("title = %q", got)
	}
	if !strings.Contains(m.View(), "SiaDrive v1.0.0") {
		t.Error("header should show the title slot")
	}
}

func TestMountThroughKeys(t *testing.T) {
	ready := bridge.Snapshot{ClientVersion: "1.0.0", IsOnline: true, IsWalletConfigured: true}
	m, conn := connectedModel(t, ready)

	var mounted string
	m.Session.Mount.OnMounted = func(d string) { mounted = d }

	m, _ = send(m, updateMsg{update: bridge.DrivesUpdate{Drives: []string{"S:", "T:"}}})
	if m.Session.Mount.Selected() != "T:" {
		t.Errorf("selected = %q, want remembered T:", m.Session.Mount.Selected())
	}

	m, _ = send(m, keyRunes("l"))
	if m.Session.Mount.Selected() != "S:" {
		t.Errorf("selected = %q after next", m.Session.Mount.Selected())
	}

	m, _ = send(m, keyRunes("m"))
	if conn.Count("mountDrive") != 1 {
		t.Fatalf("mountDrive calls = %d", conn.Count("mountDrive"))
	}
	m, _ = send(m, keyRunes("m"))
	if conn.Count("mountDrive") != 1 {
		t.Error("second toggle in flight should be ignored")
	}

	conn.Resolve("mountDrive", bridge.Success(""))
	m, _ = send(m, workflow.MountResultMsg{Result: bridge.Success("")})

	if m.Session.Mount.Label() != workflow.LabelUnmount {
		t.Errorf("label = %s", m.Session.Mount.Label())
	}
	if mounted != "S:" {
		t.Errorf("OnMounted got %q", mounted)
	}
	if !strings.Contains(m.View(), "Unmount") {
		t.Error("view should show the Unmount trigger")
	}
}

func TestAlertSwallowsKeysUntilAcknowledged(t *testing.T) {
	m, conn := connectedModel(t, bridge.Snapshot{ClientVersion: "1.0.0", IsOnline: true})
	if m.Session.Nav.Active() != nav.ScreenCreateWallet {
		t.Fatalf("active = %s", m.Session.Nav.Active())
	}

	m, _ = send(m, keyEnter)
	if conn.Count("createWallet") != 1 {
		t.Fatalf("createWallet calls = %d", conn.Count("createWallet"))
	}
	m, _ = send(m, workflow.CreateResultMsg{Result: bridge.Failure("insufficient funds")})

	if !strings.Contains(m.View(), "insufficient funds") {
		t.Error("alert should be rendered")
	}

	m, _ = send(m, keyRunes("q"))
	if !m.Session.Modal.Active() {
		t.Error("keys other than the acknowledgment should be swallowed")
	}

	m, _ = send(m, keyEnter)
	if m.Session.Modal.Active() {
		t.Error("enter should acknowledge")
	}
	if !m.Session.Onboarding.CreateArmed() {
		t.Error("create should be re-armed")
	}
}

func TestUnlockThroughKeys(t *testing.T) {
	m, conn := connectedModel(t, bridge.Snapshot{ClientVersion: "1.0.0", IsOnline: true, IsWalletConfigured: true, IsWalletLocked: true})

	for _, r := range "hunter2" {
		m, _ = send(m, keyRunes(string(r)))
	}
	if got := m.Session.Onboarding.Password.Value(); got != "hunter2" {
		t.Fatalf("password field = %q", got)
	}

	m, _ = send(m, keyEnter)
	if m.Session.Onboarding.Password.Value() != "" {
		t.Error("password should be cleared on submit")
	}
	calls := conn.Calls()
	if last := calls[len(calls)-1]; last.Op != "unlockWallet" || last.Arg != "hunter2" {
		t.Errorf("last call = %+v", last)
	}
	if m.Session.Nav.Active() != nav.ScreenUnlocking {
		t.Errorf("active = %s", m.Session.Nav.Active())
	}
	if strings.Contains(m.View(), "hunter2") {
		t.Error("view must not show the password")
	}
}

func TestRenterSettingsThroughKeys(t *testing.T) {
	snap := bridge.Snapshot{
		ClientVersion:      "1.0.0",
		IsOnline:           true,
		IsWalletConfigured: true,
		DefaultAllowance:   bridge.Allowance{Funds: "500", Hosts: "50", Period: "4032", RenewWindowInBlocks: "1008"},
	}
	m, conn := connectedModel(t, snap)

	m, _ = send(m, keyRunes("s"))
	if m.Session.Nav.Active() != nav.ScreenRenterSettings {
		t.Fatalf("active = %s", m.Session.Nav.Active())
	}
	m, _ = send(m, keyRunes("0"))
	m, _ = send(m, keyEnter)

	if m.Session.Nav.Active() != nav.ScreenApp {
		t.Errorf("active = %s, want app", m.Session.Nav.Active())
	}
	sent := conn.Allowances()
	if len(sent) != 1 || sent[0].Funds != "5000" {
		t.Errorf("allowances sent = %+v", sent)
	}
}

func TestQuitSendsShutdown(t *testing.T) {
	m, conn := connectedModel(t, bridge.Snapshot{IsOnline: false})

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
	if conn.Count("shutdown") != 1 {
		t.Errorf("shutdown calls = %d", conn.Count("shutdown"))
	}

	if err := m.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if conn.Count("shutdown") != 1 {
		t.Error("Close should not send shutdown twice")
	}
	if conn.closed != 1 {
		t.Errorf("connection closed %d times", conn.closed)
	}
}

func TestBridgeClosedDisconnects(t *testing.T) {
	m, _ := connectedModel(t, bridge.Snapshot{IsOnline: true, IsWalletConfigured: true})

	m, _ = send(m, bridgeClosedMsg{})
	if m.Stage != StageDisconnected {
		t.Fatalf("stage = %s", m.Stage)
	}

	m, cmd := send(m, keyRunes("r"))
	if m.Stage != StageConnecting || cmd == nil {
		t.Errorf("reconnect: stage = %s", m.Stage)
	}
}

func TestViewsRenderEveryScreen(t *testing.T) {
	m, _ := connectedModel(t, bridge.Snapshot{ClientVersion: "1.0.0", IsOnline: true, IsWalletConfigured: true})
	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 40})

	for _, s := range nav.All() {
		m.Session.Nav.Activate(s)
		if out := m.View(); out == "" {
			t.Errorf("empty view for %s", s)
		}
	}
}

func TestFundsUsed(t *testing.T) {
	tests := []struct {
		used, allocated string
		want            float64
	}{
		{"125", "500", 0.25},
		{"125.5 SC", "500 SC", 0.251},
		{"600", "500", 1},
		{"", "500", 0},
		{"10", "0", 0},
		{"abc", "500", 0},
	}
	for _, tt := range tests {
		slots := view.NewSlots()
		slots.SetText(view.SlotUsedFunds, tt.used)
		slots.SetText(view.SlotAllocatedFunds, tt.allocated)
		if got := fundsUsed(slots); got != tt.want {
			t.Errorf("fundsUsed(%q, %q) = %v, want %v", tt.used, tt.allocated, got, tt.want)
		}
	}
}
