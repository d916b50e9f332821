// Package bridgetest provides an in-memory bridge for tests.
package bridgetest

import (
	"sync"

	"github.com/siadrive/siadrive-ui/internal/bridge"
)

// Call is one recorded bridge operation.
type Call struct {
	Op  string
	Arg string
}

// Recorder implements bridge.EnvironmentReader, bridge.ActionBridge and
// bridge.UpdateSource. Every call is recorded; futures stay pending until
// the test resolves them with Resolve.
type Recorder struct {
	mu sync.Mutex

	env       bridge.Snapshot
	calls     []Call
	pending   map[string][]*bridge.Future
	allowance []bridge.Allowance

	// UnlockErr, when set, is returned synchronously by UnlockWallet.
	UnlockErr error

	updates chan bridge.Update
}

// New returns a Recorder reporting env from Snapshot.
func New(env bridge.Snapshot) *Recorder {
	return &Recorder{
		env:     env,
		pending: make(map[string][]*bridge.Future),
		updates: make(chan bridge.Update, 16),
	}
}

// SetSnapshot replaces the environment snapshot.
func (r *Recorder) SetSnapshot(env bridge.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.env = env
}

func (r *Recorder) Snapshot() bridge.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.env
}

func (r *Recorder) Updates() <-chan bridge.Update {
	return r.updates
}

// Push queues an update for Updates.
func (r *Recorder) Push(u bridge.Update) {
	r.updates <- u
}

// CloseUpdates closes the update channel.
func (r *Recorder) CloseUpdates() {
	close(r.updates)
}

func (r *Recorder) record(op string, arg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: op, Arg: arg})
}

func (r *Recorder) future(op string) *bridge.Future {
	f := bridge.NewFuture()
	r.mu.Lock()
	r.pending[op] = append(r.pending[op], f)
	r.mu.Unlock()
	return f
}

func (r *Recorder) StartApp() { r.record("startApp", "") }
func (r *Recorder) StopApp()  { r.record("stopApp", "") }
func (r *Recorder) Shutdown() { r.record("shutdown", "") }

func (r *Recorder) CreateWallet() *bridge.Future {
	r.record("createWallet", "")
	return r.future("createWallet")
}

func (r *Recorder) UnlockWallet(password string) (*bridge.Future, error) {
	r.record("unlockWallet", password)
	if r.UnlockErr != nil {
		return nil, r.UnlockErr
	}
	return r.future("unlockWallet"), nil
}

func (r *Recorder) MountDrive(location string) *bridge.Future {
	r.record("mountDrive", location)
	return r.future("mountDrive")
}

func (r *Recorder) UnmountDrive() *bridge.Future {
	r.record("unmountDrive", "")
	return r.future("unmountDrive")
}

func (r *Recorder) SetRenterAllowance(a bridge.Allowance) {
	r.record("setRenterAllowance", a.Funds)
	r.mu.Lock()
	r.allowance = append(r.allowance, a)
	r.mu.Unlock()
}

// Calls returns a copy of every recorded call in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Ops returns the recorded op names in order.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.Op)
	}
	return out
}

// Count returns how many times op was called.
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Pending returns how many futures for op are still unresolved.
func (r *Recorder) Pending(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending[op])
}

// Resolve settles the oldest pending future for op. It reports false when
// none is pending.
func (r *Recorder) Resolve(op string, res bridge.Result) bool {
	r.mu.Lock()
	queue := r.pending[op]
	if len(queue) == 0 {
		r.mu.Unlock()
		return false
	}
	f := queue[0]
	r.pending[op] = queue[1:]
	r.mu.Unlock()
	return f.Resolve(res)
}

// Allowances returns every allowance passed to SetRenterAllowance.
func (r *Recorder) Allowances() []bridge.Allowance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bridge.Allowance, len(r.allowance))
	copy(out, r.allowance)
	return out
}

// Reset forgets recorded calls. Pending futures are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.allowance = nil
}

var (
	_ bridge.EnvironmentReader = (*Recorder)(nil)
	_ bridge.ActionBridge      = (*Recorder)(nil)
	_ bridge.UpdateSource      = (*Recorder)(nil)
)
