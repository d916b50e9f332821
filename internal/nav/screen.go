// Package nav owns the screen set and the navigator that keeps exactly one
// screen visible.
package nav

import "github.com/siadrive/siadrive-ui/internal/bridge"

// Screen identifies one full-screen view.
type Screen string

const (
	ScreenOffline        Screen = "offline"
	ScreenCreateWallet   Screen = "create-wallet"
	ScreenWalletCreated  Screen = "wallet-created"
	ScreenUnlock         Screen = "unlock"
	ScreenUnlocking      Screen = "unlocking"
	ScreenApp            Screen = "app"
	ScreenRenterSettings Screen = "renter-settings"
)

var allScreens = []Screen{
	ScreenOffline,
	ScreenCreateWallet,
	ScreenWalletCreated,
	ScreenUnlock,
	ScreenUnlocking,
	ScreenApp,
	ScreenRenterSettings,
}

// All returns every screen in declaration order.
func All() []Screen {
	out := make([]Screen, len(allScreens))
	copy(out, allScreens)
	return out
}

// Valid reports whether s is one of the known screens.
func (s Screen) Valid() bool {
	for _, known := range allScreens {
		if s == known {
			return true
		}
	}
	return false
}

// InitialScreen picks the first screen from the environment.
func InitialScreen(snap bridge.Snapshot) Screen {
	switch {
	case !snap.IsOnline:
		return ScreenOffline
	case !snap.IsWalletConfigured:
		return ScreenCreateWallet
	case snap.IsWalletLocked:
		return ScreenUnlock
	default:
		return ScreenApp
	}
}
