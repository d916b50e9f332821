package workflow

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/siadrive/siadrive-ui/internal/bridge"
)

// Result messages carry the load generation that issued the call. A
// session drops results from an earlier load.

// CreateResultMsg carries the outcome of createWallet.
type CreateResultMsg struct {
	Result bridge.Result
	Gen    int
}

// UnlockResultMsg carries the outcome of unlockWallet.
type UnlockResultMsg struct {
	Result bridge.Result
	Gen    int
}

// MountResultMsg carries the outcome of mountDrive.
type MountResultMsg struct {
	Result bridge.Result
	Gen    int
}

// UnmountResultMsg carries the outcome of unmountDrive.
type UnmountResultMsg struct {
	Result bridge.Result
	Gen    int
}

type resultMsg interface {
	generation() int
}

func (m CreateResultMsg) generation() int  { return m.Gen }
func (m UnlockResultMsg) generation() int  { return m.Gen }
func (m MountResultMsg) generation() int   { return m.Gen }
func (m UnmountResultMsg) generation() int { return m.Gen }

// await waits for f and wraps its result. There is no timeout; a closed
// bridge connection resolves every outstanding future.
func await(f *bridge.Future, wrap func(bridge.Result) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		<-f.Done()
		r, _ := f.Result()
		return wrap(r)
	}
}
