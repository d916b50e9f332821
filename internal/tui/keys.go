package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/siadrive/siadrive-ui/internal/nav"
)

// keyMap holds every binding; helpFor picks the ones that apply to a
// screen.
type keyMap struct {
	Quit        key.Binding
	Submit      key.Binding
	Reload      key.Binding
	Toggle      key.Binding
	PrevDrive   key.Binding
	NextDrive   key.Binding
	Settings    key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	Cancel      key.Binding
	Acknowledge key.Binding
	Reconnect   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("m", "enter"),
			key.WithHelp("m", "mount/unmount"),
		),
		PrevDrive: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev drive"),
		),
		NextDrive: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next drive"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "renter settings"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "prev field"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Acknowledge: key.NewBinding(
			key.WithKeys("enter", "esc", " "),
			key.WithHelp("enter", "ok"),
		),
		Reconnect: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reconnect"),
		),
	}
}

// bindingSet implements help.KeyMap for a flat list of bindings.
type bindingSet []key.Binding

// ShortHelp returns keybindings to be shown in the mini help view
func (b bindingSet) ShortHelp() []key.Binding { return b }

// FullHelp returns keybindings for the expanded help view
func (b bindingSet) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

func (k keyMap) helpFor(screen nav.Screen) bindingSet {
	quit := key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
	switch screen {
	case nav.ScreenOffline:
		return bindingSet{k.Reload, k.Quit}
	case nav.ScreenCreateWallet:
		create := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create wallet"))
		return bindingSet{create, k.Quit}
	case nav.ScreenWalletCreated:
		return bindingSet{k.Submit, k.Quit}
	case nav.ScreenUnlock:
		unlock := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "unlock"))
		return bindingSet{unlock, quit}
	case nav.ScreenUnlocking:
		return bindingSet{quit}
	case nav.ScreenApp:
		return bindingSet{k.Toggle, k.PrevDrive, k.NextDrive, k.Settings, k.Quit}
	case nav.ScreenRenterSettings:
		save := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save"))
		return bindingSet{k.NextField, k.PrevField, save, k.Cancel, quit}
	default:
		return bindingSet{k.Quit}
	}
}

var hostsBinding = key.NewBinding(
	key.WithKeys("h"),
	key.WithHelp("h", "pick host"),
)
