package workflow

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/siadrive/siadrive-ui/internal/bridge"
	"github.com/siadrive/siadrive-ui/internal/logging"
	"github.com/siadrive/siadrive-ui/internal/nav"
)

// CreateState is the create-wallet sub-flow state.
type CreateState int

const (
	CreateAwaitingSubmit CreateState = iota
	CreateCreating
	CreateCreated
)

func (s CreateState) String() string {
	switch s {
	case CreateAwaitingSubmit:
		return "awaiting-submit"
	case CreateCreating:
		return "creating"
	case CreateCreated:
		return "created"
	default:
		return "unknown"
	}
}

// UnlockState is the unlock sub-flow state.
type UnlockState int

const (
	UnlockAwaitingSubmit UnlockState = iota
	UnlockUnlocking
	UnlockUnlocked
)

func (s UnlockState) String() string {
	switch s {
	case UnlockAwaitingSubmit:
		return "awaiting-submit"
	case UnlockUnlocking:
		return "unlocking"
	case UnlockUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// Onboarding runs wallet creation and unlock.
type Onboarding struct {
	nav     *nav.Navigator
	actions bridge.ActionBridge
	modal   *Modal

	// enterApp runs once the wallet is unlocked.
	enterApp func()

	// Password is the unlock field. It is emptied on every submit.
	Password textinput.Model

	seed string
	gen  int

	createState  CreateState
	createArmed  bool
	unlockState  UnlockState
	unlockArmed  bool
	advanceArmed bool
}

// NewOnboarding creates the controller. enterApp is the main application
// entry.
func NewOnboarding(n *nav.Navigator, actions bridge.ActionBridge, modal *Modal, enterApp func()) *Onboarding {
	password := textinput.New()
	password.Placeholder = "Wallet password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 256
	password.Width = 50

	return &Onboarding{
		nav:      n,
		actions:  actions,
		modal:    modal,
		enterApp: enterApp,
		Password: password,
	}
}

// BeginCreate shows the create-wallet screen with submit armed. A create
// call still in flight keeps the submit disarmed.
func (o *Onboarding) BeginCreate() {
	if !o.nav.IsActive(nav.ScreenCreateWallet) {
		o.nav.Activate(nav.ScreenCreateWallet)
	}
	if o.createState == CreateCreating {
		return
	}
	o.createState = CreateAwaitingSubmit
	o.createArmed = true
}

// SubmitCreate asks the bridge for a new wallet.
func (o *Onboarding) SubmitCreate() tea.Cmd {
	if !o.createArmed {
		return nil
	}
	o.createArmed = false
	o.createState = CreateCreating

	f := o.actions.CreateWallet()
	gen := o.gen
	return await(f, func(r bridge.Result) tea.Msg { return CreateResultMsg{Result: r, Gen: gen} })
}

// HandleCreateResult finishes a create call.
func (o *Onboarding) HandleCreateResult(r bridge.Result) tea.Cmd {
	if o.createState != CreateCreating {
		logging.Warn("Dropping stale create-wallet result", zap.Stringer("state", o.createState))
		return nil
	}
	logging.LogBridgeResult("createWallet", r.OK, r.Reason)

	if !r.OK {
		o.createState = CreateAwaitingSubmit
		o.modal.Show("Wallet creation failed", r.Reason, func() tea.Cmd {
			o.BeginCreate()
			return nil
		})
		return nil
	}

	o.createState = CreateCreated
	o.seed = r.Payload
	o.advanceArmed = true
	o.nav.Activate(nav.ScreenWalletCreated)
	return nil
}

// Advance leaves the wallet-created screen for unlock. It works once per
// created wallet.
func (o *Onboarding) Advance() tea.Cmd {
	if !o.advanceArmed {
		return nil
	}
	o.advanceArmed = false
	o.seed = ""
	o.BeginUnlock()
	return textinput.Blink
}

// BeginUnlock shows the unlock screen with submit armed. An unlock call
// still in flight keeps the submit disarmed.
func (o *Onboarding) BeginUnlock() {
	if !o.nav.IsActive(nav.ScreenUnlock) {
		o.nav.Activate(nav.ScreenUnlock)
	}
	if o.unlockState == UnlockUnlocking {
		return
	}
	o.unlockState = UnlockAwaitingSubmit
	o.unlockArmed = true
	o.Password.Reset()
	o.Password.Focus()
}

// SubmitUnlock sends the typed password to the bridge. The field is empty
// when this returns, whatever the outcome.
func (o *Onboarding) SubmitUnlock() tea.Cmd {
	if !o.unlockArmed {
		return nil
	}
	o.unlockArmed = false

	password := o.Password.Value()
	o.Password.Reset()

	f, err := o.actions.UnlockWallet(password)
	if err != nil {
		logging.Warn("Unlock request rejected", zap.Error(err))
		o.Password.Blur()
		o.modal.Show("Unable to unlock wallet", err.Error(), func() tea.Cmd {
			o.BeginUnlock()
			return textinput.Blink
		})
		return nil
	}

	o.unlockState = UnlockUnlocking
	o.Password.Blur()
	o.nav.Activate(nav.ScreenUnlocking)
	gen := o.gen
	return await(f, func(r bridge.Result) tea.Msg { return UnlockResultMsg{Result: r, Gen: gen} })
}

// HandleUnlockResult finishes an unlock call.
func (o *Onboarding) HandleUnlockResult(r bridge.Result) tea.Cmd {
	if o.unlockState != UnlockUnlocking {
		logging.Warn("Dropping stale unlock result", zap.Stringer("state", o.unlockState))
		return nil
	}
	logging.LogBridgeResult("unlockWallet", r.OK, r.Reason)

	if !r.OK {
		o.unlockState = UnlockAwaitingSubmit
		o.modal.Show("Unlock failed", r.Reason, func() tea.Cmd {
			o.BeginUnlock()
			return textinput.Blink
		})
		return nil
	}

	o.unlockState = UnlockUnlocked
	o.enterApp()
	return nil
}

// reset drops all sub-flow state and stamps later calls with gen. Both
// submits stay disarmed until the next Begin call.
func (o *Onboarding) reset(gen int) {
	o.gen = gen
	o.seed = ""
	o.createState = CreateAwaitingSubmit
	o.createArmed = false
	o.unlockState = UnlockAwaitingSubmit
	o.unlockArmed = false
	o.advanceArmed = false
	o.Password.Reset()
	o.Password.Blur()
}

// Seed returns the seed of the wallet just created. It is cleared when the
// user advances to unlock.
func (o *Onboarding) Seed() string { return o.seed }

func (o *Onboarding) CreateState() CreateState { return o.createState }
func (o *Onboarding) CreateArmed() bool        { return o.createArmed }
func (o *Onboarding) UnlockState() UnlockState { return o.unlockState }
func (o *Onboarding) UnlockArmed() bool        { return o.unlockArmed }
func (o *Onboarding) AdvanceArmed() bool       { return o.advanceArmed }
