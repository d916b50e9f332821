package nav

import (
	"math/rand"
	"testing"

	"github.com/siadrive/siadrive-ui/internal/bridge"
)

func assertSingleActive(t *testing.T, n *Navigator, want Screen) {
	t.Helper()

	attached := n.Attached()
	if len(attached) != 1 || attached[0] != want {
		t.Fatalf("Attached() = %v, want [%s]", attached, want)
	}
	for _, s := range All() {
		if s == want {
			if n.Hidden(s) || n.Held(s) {
				t.Errorf("active screen %s is hidden=%v held=%v", s, n.Hidden(s), n.Held(s))
			}
			continue
		}
		if !n.Hidden(s) {
			t.Errorf("screen %s should be hidden", s)
		}
		if !n.Held(s) {
			t.Errorf("screen %s should be in the holding area", s)
		}
	}
}

func TestNewNavigatorHasNothingVisible(t *testing.T) {
	n := New()
	if n.Active() != "" {
		t.Errorf("Active() = %q, want none", n.Active())
	}
	if len(n.Attached()) != 0 {
		t.Errorf("Attached() = %v", n.Attached())
	}
	for _, s := range All() {
		if !n.Hidden(s) || !n.Held(s) {
			t.Errorf("screen %s should start hidden and held", s)
		}
	}
}

func TestActivateKeepsSingleScreen(t *testing.T) {
	n := New()
	sequence := []Screen{
		ScreenUnlock, ScreenUnlocking, ScreenApp, ScreenRenterSettings,
		ScreenApp, ScreenApp, ScreenOffline, ScreenCreateWallet, ScreenWalletCreated,
	}
	for _, s := range sequence {
		n.Activate(s)
		assertSingleActive(t, n, s)
	}
}

func TestActivateRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	screens := All()
	n := New()
	for i := 0; i < 500; i++ {
		s := screens[rng.Intn(len(screens))]
		n.Activate(s)
		assertSingleActive(t, n, s)
	}
}

func TestActivateUnknownScreenIgnored(t *testing.T) {
	n := New()
	n.Activate(ScreenApp)
	n.Activate(Screen("settings"))
	assertSingleActive(t, n, ScreenApp)
}

func TestOnTransition(t *testing.T) {
	n := New()
	var got [][2]Screen
	n.OnTransition(func(from, to Screen) {
		got = append(got, [2]Screen{from, to})
	})

	n.Activate(ScreenUnlock)
	n.Activate(ScreenUnlocking)

	want := [][2]Screen{{"", ScreenUnlock}, {ScreenUnlock, ScreenUnlocking}}
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestInitialScreen(t *testing.T) {
	tests := []struct {
		name string
		snap bridge.Snapshot
		want Screen
	}{
		{"offline wins", bridge.Snapshot{IsOnline: false, IsWalletConfigured: true}, ScreenOffline},
		{"no wallet", bridge.Snapshot{IsOnline: true}, ScreenCreateWallet},
		{"no wallet ignores lock", bridge.Snapshot{IsOnline: true, IsWalletLocked: true}, ScreenCreateWallet},
		{"locked", bridge.Snapshot{IsOnline: true, IsWalletConfigured: true, IsWalletLocked: true}, ScreenUnlock},
		{"ready", bridge.Snapshot{IsOnline: true, IsWalletConfigured: true}, ScreenApp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InitialScreen(tt.snap); got != tt.want {
				t.Errorf("InitialScreen() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestScreenValid(t *testing.T) {
	for _, s := range All() {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Screen("").Valid() || Screen("dashboard").Valid() {
		t.Error("unknown screens should be invalid")
	}
}
