package nav

import (
	"go.uber.org/zap"

	"github.com/siadrive/siadrive-ui/internal/logging"
)

// Navigator keeps exactly one screen attached to the visible container.
// Every other screen sits hidden in the holding area.
type Navigator struct {
	visible Screen
	holding map[Screen]bool
	hidden  map[Screen]bool

	observers []func(from, to Screen)
}

// New returns a navigator with every screen held and hidden. Nothing is
// visible until the first Activate.
func New() *Navigator {
	n := &Navigator{
		holding: make(map[Screen]bool, len(allScreens)),
		hidden:  make(map[Screen]bool, len(allScreens)),
	}
	for _, s := range allScreens {
		n.holding[s] = true
		n.hidden[s] = true
	}
	return n
}

// OnTransition registers fn to run after every Activate.
func (n *Navigator) OnTransition(fn func(from, to Screen)) {
	n.observers = append(n.observers, fn)
}

// Activate makes target the only visible screen.
func (n *Navigator) Activate(target Screen) {
	if !target.Valid() {
		logging.Error("Ignoring unknown screen", zap.String("screen", string(target)))
		return
	}

	from := n.visible
	if from != "" {
		n.visible = ""
		n.hidden[from] = true
		n.holding[from] = true
	}

	delete(n.holding, target)
	n.hidden[target] = false
	n.visible = target

	logging.LogScreenTransition(string(from), string(target))
	for _, fn := range n.observers {
		fn(from, target)
	}
}

// Active returns the visible screen, or "" before the first Activate.
func (n *Navigator) Active() Screen {
	return n.visible
}

// IsActive reports whether s is the visible screen.
func (n *Navigator) IsActive(s Screen) bool {
	return n.visible != "" && n.visible == s
}

// Attached returns the screens in the visible container.
func (n *Navigator) Attached() []Screen {
	if n.visible == "" {
		return nil
	}
	return []Screen{n.visible}
}

// Hidden reports whether s carries the hidden marker.
func (n *Navigator) Hidden(s Screen) bool {
	return n.hidden[s]
}

// Held reports whether s is in the off-screen holding area.
func (n *Navigator) Held(s Screen) bool {
	return n.holding[s]
}
