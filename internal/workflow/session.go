package workflow

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/siadrive/siadrive-ui/internal/bridge"
	"github.com/siadrive/siadrive-ui/internal/logging"
	"github.com/siadrive/siadrive-ui/internal/nav"
	"github.com/siadrive/siadrive-ui/internal/view"
)

// Session ties the navigator, the workflows and the bridge together for
// one UI lifetime.
type Session struct {
	env     bridge.EnvironmentReader
	actions bridge.ActionBridge
	binder  view.Binder

	Nav        *nav.Navigator
	Modal      *Modal
	Onboarding *Onboarding
	Mount      *MountToggle
	Form       *RenterForm

	snapshot  bridge.Snapshot
	allowance bridge.Allowance
	editArmed bool
	loads     int
	gen       int
	unloaded  bool
}

// NewSession wires the controllers. Nothing is sent to the bridge until
// Load.
func NewSession(env bridge.EnvironmentReader, actions bridge.ActionBridge, binder view.Binder) *Session {
	s := &Session{
		env:     env,
		actions: actions,
		binder:  binder,
		Nav:     nav.New(),
		Modal:   &Modal{},
		Form:    NewRenterForm(),
	}
	s.Onboarding = NewOnboarding(s.Nav, actions, s.Modal, s.EnterApp)
	s.Mount = NewMountToggle(actions, s.Modal)
	return s
}

// Load resets the host, reads the environment and shows the first screen.
// A reload starts the controllers over; calls issued before it no longer
// count.
func (s *Session) Load() tea.Cmd {
	s.actions.StopApp()

	s.snapshot = s.env.Snapshot()
	s.loads++
	if s.loads > 1 {
		s.gen++
		s.editArmed = false
		s.Modal.Clear()
		s.Onboarding.reset(s.gen)
		s.Mount.reset(s.gen)
	}
	logging.Info("Loading session",
		zap.Int("load", s.loads),
		zap.Int("generation", s.gen),
		zap.String("client_version", s.snapshot.ClientVersion),
		zap.Bool("online", s.snapshot.IsOnline),
		zap.Bool("wallet_configured", s.snapshot.IsWalletConfigured),
		zap.Bool("wallet_locked", s.snapshot.IsWalletLocked))

	s.binder.SetText(view.SlotTitle, "SiaDrive v"+s.snapshot.ClientVersion)
	s.binder.SetText(view.SlotServerVersion, "...")
	s.setAllowance(s.snapshot.DefaultAllowance)

	switch nav.InitialScreen(s.snapshot) {
	case nav.ScreenOffline:
		s.Nav.Activate(nav.ScreenOffline)
	case nav.ScreenCreateWallet:
		s.Onboarding.BeginCreate()
	case nav.ScreenUnlock:
		s.Onboarding.BeginUnlock()
	default:
		s.EnterApp()
	}
	return nil
}

// EnterApp starts the host refresh loop and shows the main screen.
func (s *Session) EnterApp() {
	s.actions.StartApp()
	s.editArmed = true
	s.Nav.Activate(nav.ScreenApp)
}

// Unload tells the host the UI is going away. Only the first call is sent.
func (s *Session) Unload() {
	if s.unloaded {
		return
	}
	s.unloaded = true
	s.actions.Shutdown()
}

// Snapshot returns the environment read by the last Load.
func (s *Session) Snapshot() bridge.Snapshot {
	return s.snapshot
}

// Allowance returns the allowance currently shown.
func (s *Session) Allowance() bridge.Allowance {
	return s.allowance
}

// OpenRenterSettings opens the allowance editor from the main screen. The
// edit link works once per app entry.
func (s *Session) OpenRenterSettings() tea.Cmd {
	if !s.editArmed || !s.Nav.IsActive(nav.ScreenApp) {
		return nil
	}
	s.editArmed = false
	s.Form.Load(s.allowance)
	s.Nav.Activate(nav.ScreenRenterSettings)
	return nil
}

// CancelRenterSettings discards the form and returns to the main screen.
func (s *Session) CancelRenterSettings() tea.Cmd {
	if !s.Nav.IsActive(nav.ScreenRenterSettings) {
		return nil
	}
	s.EnterApp()
	return nil
}

// SubmitRenterSettings sends the edited allowance and returns to the main
// screen. An invalid form stays open behind an alert.
func (s *Session) SubmitRenterSettings() tea.Cmd {
	if !s.Nav.IsActive(nav.ScreenRenterSettings) {
		return nil
	}
	a := s.Form.Allowance()
	if err := a.Validate(); err != nil {
		s.Modal.Show("Invalid renter settings", err.Error(), nil)
		return nil
	}
	s.actions.SetRenterAllowance(a)
	s.setAllowance(a)
	s.EnterApp()
	return nil
}

func (s *Session) setAllowance(a bridge.Allowance) {
	s.allowance = a
	s.binder.SetValue(view.SlotAllowanceFunds, a.Funds)
	s.binder.SetValue(view.SlotAllowanceHosts, a.Hosts)
	s.binder.SetValue(view.SlotAllowancePeriod, a.Period)
	s.binder.SetValue(view.SlotAllowanceRenewWindow, a.RenewWindowInBlocks)
}

// ApplyUpdate renders a host push.
func (s *Session) ApplyUpdate(u bridge.Update) tea.Cmd {
	switch v := u.(type) {
	case bridge.RenterUpdate:
		st := v.Stats
		s.binder.SetText(view.SlotAllocatedFunds, st.AllocatedFunds)
		s.binder.SetText(view.SlotUsedFunds, st.UsedFunds)
		s.binder.SetText(view.SlotAvailableFunds, st.AvailableFunds)
		s.binder.SetText(view.SlotHostCount, st.HostCount)
		s.binder.SetText(view.SlotEstimatedSpace, st.EstimatedSpace)
		s.binder.SetText(view.SlotUsedSpace, st.UsedSpace)
		s.binder.SetText(view.SlotAvailableSpace, st.AvailableSpace)
		s.binder.SetText(view.SlotEstimatedCost, st.EstimatedCost)
		s.binder.SetText(view.SlotDownloadCost, st.DownloadCost)
		s.binder.SetText(view.SlotUploadCost, st.UploadCost)

	case bridge.WalletUpdate:
		st := v.Stats
		s.binder.SetText(view.SlotConfirmedBalance, st.ConfirmedBalance)
		s.binder.SetText(view.SlotUnconfirmedBalance, st.UnconfirmedBalance)
		s.binder.SetText(view.SlotTotalBalance, st.TotalBalance)
		if st.ReceiveAddress != "" {
			s.binder.SetText(view.SlotReceiveAddress, st.ReceiveAddress)
		}

	case bridge.BlockHeightUpdate:
		s.binder.SetText(view.SlotBlockHeight, strconv.FormatUint(v.Height, 10))

	case bridge.ServerVersionUpdate:
		s.binder.SetText(view.SlotServerVersion, v.Version)

	case bridge.DrivesUpdate:
		s.Mount.SetDrives(v.Drives)

	case bridge.AllowanceUpdate:
		if s.Nav.IsActive(nav.ScreenRenterSettings) {
			logging.Debug("Allowance push ignored while editing")
			return nil
		}
		s.setAllowance(v.Allowance)

	case bridge.DriveUnmountedUpdate:
		s.Mount.NotifyUnmounted()

	case bridge.EnvironmentUpdate:
		if v.Snapshot == s.snapshot {
			return nil
		}
		return s.Load()

	default:
		logging.Warn("Unhandled update", zap.String("kind", u.Kind()))
	}
	return nil
}

// Handle routes workflow result messages. It reports whether msg was one.
// Results issued before the last reload are consumed and dropped.
func (s *Session) Handle(msg tea.Msg) (tea.Cmd, bool) {
	if r, ok := msg.(resultMsg); ok && r.generation() != s.gen {
		logging.Warn("Dropping result from an earlier load",
			zap.String("msg", fmt.Sprintf("%T", msg)),
			zap.Int("generation", r.generation()),
			zap.Int("current", s.gen))
		return nil, true
	}

	switch msg := msg.(type) {
	case CreateResultMsg:
		return s.Onboarding.HandleCreateResult(msg.Result), true
	case UnlockResultMsg:
		return s.Onboarding.HandleUnlockResult(msg.Result), true
	case MountResultMsg:
		return s.Mount.HandleMountResult(msg.Result), true
	case UnmountResultMsg:
		return s.Mount.HandleUnmountResult(msg.Result), true
	}
	return nil, false
}
