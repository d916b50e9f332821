package workflow

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/siadrive/siadrive-ui/internal/bridge"
	"github.com/siadrive/siadrive-ui/internal/logging"
)

// Phase is the mount toggle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMounting
	PhaseMounted
	PhaseUnmounting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMounting:
		return "mounting"
	case PhaseMounted:
		return "mounted"
	case PhaseUnmounting:
		return "unmounting"
	default:
		return "unknown"
	}
}

const (
	LabelMount   = "Mount"
	LabelUnmount = "Unmount"
)

// MountToggle drives the mount trigger and the drive selector.
type MountToggle struct {
	actions bridge.ActionBridge
	modal   *Modal

	phase           Phase
	armed           bool
	triggerEnabled  bool
	selectorEnabled bool

	drives    []string
	selected  int
	preferred string
	gen       int

	// OnMounted runs after a successful mount with the mounted drive.
	OnMounted func(drive string)
}

// NewMountToggle returns an idle toggle, armed with both controls enabled.
func NewMountToggle(actions bridge.ActionBridge, modal *Modal) *MountToggle {
	return &MountToggle{
		actions:         actions,
		modal:           modal,
		phase:           PhaseIdle,
		armed:           true,
		triggerEnabled:  true,
		selectorEnabled: true,
		selected:        -1,
	}
}

// Label is the trigger caption for the current phase.
func (m *MountToggle) Label() string {
	switch m.phase {
	case PhaseMounted, PhaseUnmounting:
		return LabelUnmount
	default:
		return LabelMount
	}
}

// Toggle mounts or unmounts depending on the phase. It does nothing while
// disarmed.
func (m *MountToggle) Toggle() tea.Cmd {
	if !m.armed || !m.triggerEnabled {
		return nil
	}

	switch m.phase {
	case PhaseIdle:
		drive := m.Selected()
		if drive == "" {
			m.modal.Show("Mount failed", "no drive location is available", nil)
			return nil
		}
		m.disarm()
		m.phase = PhaseMounting
		f := m.actions.MountDrive(drive)
		gen := m.gen
		return await(f, func(r bridge.Result) tea.Msg { return MountResultMsg{Result: r, Gen: gen} })

	case PhaseMounted:
		m.disarm()
		m.phase = PhaseUnmounting
		f := m.actions.UnmountDrive()
		gen := m.gen
		return await(f, func(r bridge.Result) tea.Msg { return UnmountResultMsg{Result: r, Gen: gen} })

	default:
		return nil
	}
}

// reset returns the toggle to idle with no drives listed and stamps later
// calls with gen. The preferred drive and OnMounted survive.
func (m *MountToggle) reset(gen int) {
	m.gen = gen
	m.phase = PhaseIdle
	m.armed = true
	m.triggerEnabled = true
	m.selectorEnabled = true
	m.drives = nil
	m.selected = -1
}

func (m *MountToggle) disarm() {
	m.armed = false
	m.triggerEnabled = false
	m.selectorEnabled = false
}

// HandleMountResult finishes a mount call.
func (m *MountToggle) HandleMountResult(r bridge.Result) tea.Cmd {
	logging.LogBridgeResult("mountDrive", r.OK, r.Reason)
	if m.phase != PhaseMounting {
		logging.Warn("Dropping stale mount result", zap.Stringer("phase", m.phase))
		if !r.OK {
			m.modal.Show("Mount failed", r.Reason, nil)
		}
		return nil
	}

	m.armed = true
	m.triggerEnabled = true
	if !r.OK {
		m.phase = PhaseIdle
		m.selectorEnabled = true
		m.modal.Show("Mount failed", r.Reason, nil)
		return nil
	}

	m.phase = PhaseMounted
	m.selectorEnabled = false
	if m.OnMounted != nil {
		m.OnMounted(m.Selected())
	}
	return nil
}

// HandleUnmountResult finishes an unmount call.
func (m *MountToggle) HandleUnmountResult(r bridge.Result) tea.Cmd {
	logging.LogBridgeResult("unmountDrive", r.OK, r.Reason)
	if r.OK {
		m.NotifyUnmounted()
		return nil
	}

	m.modal.Show("Unmount failed", r.Reason, nil)
	if m.phase != PhaseUnmounting {
		logging.Warn("Unmount failure after state moved on", zap.Stringer("phase", m.phase))
		return nil
	}
	m.phase = PhaseMounted
	m.armed = true
	m.triggerEnabled = true
	return nil
}

// NotifyUnmounted resets the toggle after the volume went away. It only
// acts while the trigger reads "Unmount".
func (m *MountToggle) NotifyUnmounted() {
	if m.Label() != LabelUnmount {
		return
	}
	m.phase = PhaseIdle
	m.armed = true
	m.triggerEnabled = true
	m.selectorEnabled = true
}

// SetDrives replaces the selector entries. Ignored while the trigger reads
// "Unmount".
func (m *MountToggle) SetDrives(drives []string) {
	if m.Label() == LabelUnmount {
		return
	}

	current := m.Selected()
	m.drives = append([]string(nil), drives...)
	m.selected = -1
	if len(m.drives) == 0 {
		return
	}

	for _, want := range []string{current, m.preferred} {
		if want == "" {
			continue
		}
		for i, d := range m.drives {
			if d == want {
				m.selected = i
				return
			}
		}
	}
	m.selected = 0
}

// Prefer sets the drive preselected when it shows up in SetDrives.
func (m *MountToggle) Prefer(drive string) {
	m.preferred = drive
}

// SelectNext moves the selector forward while it is enabled.
func (m *MountToggle) SelectNext() { m.move(1) }

// SelectPrev moves the selector back while it is enabled.
func (m *MountToggle) SelectPrev() { m.move(-1) }

func (m *MountToggle) move(delta int) {
	if !m.selectorEnabled || len(m.drives) == 0 {
		return
	}
	n := len(m.drives)
	m.selected = ((m.selected+delta)%n + n) % n
}

// Selected returns the chosen drive, or "" when none.
func (m *MountToggle) Selected() string {
	if m.selected < 0 || m.selected >= len(m.drives) {
		return ""
	}
	return m.drives[m.selected]
}

// Drives returns the selector entries.
func (m *MountToggle) Drives() []string {
	return append([]string(nil), m.drives...)
}

func (m *MountToggle) Phase() Phase          { return m.phase }
func (m *MountToggle) Armed() bool           { return m.armed }
func (m *MountToggle) TriggerEnabled() bool  { return m.triggerEnabled }
func (m *MountToggle) SelectorEnabled() bool { return m.selectorEnabled }
