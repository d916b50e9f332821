package workflow

import tea "github.com/charmbracelet/bubbletea"

// Alert is a blocking message with a single acknowledgment.
type Alert struct {
	Title  string
	Reason string

	onAck func() tea.Cmd
}

// Modal queues alerts. While one is showing, the front end routes input
// only to Acknowledge.
type Modal struct {
	queue []Alert
}

// Show queues an alert. onAck runs when the user acknowledges it and may
// be nil.
func (m *Modal) Show(title string, reason string, onAck func() tea.Cmd) {
	m.queue = append(m.queue, Alert{Title: title, Reason: reason, onAck: onAck})
}

// Active reports whether an alert is showing.
func (m *Modal) Active() bool {
	return len(m.queue) > 0
}

// Current returns the alert on screen.
func (m *Modal) Current() (Alert, bool) {
	if len(m.queue) == 0 {
		return Alert{}, false
	}
	return m.queue[0], true
}

// Acknowledge dismisses the current alert and runs its callback.
func (m *Modal) Acknowledge() tea.Cmd {
	if len(m.queue) == 0 {
		return nil
	}
	a := m.queue[0]
	m.queue = m.queue[1:]
	if a.onAck != nil {
		return a.onAck()
	}
	return nil
}

// Clear drops every queued alert without running callbacks.
func (m *Modal) Clear() {
	m.queue = nil
}
