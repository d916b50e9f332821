package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/siadrive/siadrive-ui/internal/bridge"
	"github.com/siadrive/siadrive-ui/internal/logging"
	"github.com/siadrive/siadrive-ui/internal/nav"
	"github.com/siadrive/siadrive-ui/internal/view"
	"github.com/siadrive/siadrive-ui/internal/workflow"
)

// Stage is where the application is before and around the bridge session.
type Stage string

const (
	StageHosts        Stage = "hosts"
	StageConnecting   Stage = "connecting"
	StageSession      Stage = "session"
	StageDisconnected Stage = "disconnected"
)

// Connection is a live bridge.
type Connection interface {
	bridge.EnvironmentReader
	bridge.ActionBridge
	bridge.UpdateSource
	Close() error
}

// DialFunc opens a Connection.
type DialFunc func(ctx context.Context, url string) (Connection, error)

// Options configures the application model.
type Options struct {
	// BridgeURL skips the host picker when set.
	BridgeURL string
	Dial      DialFunc
	Scan      ScanFunc

	DiscoverTimeout time.Duration
	DialTimeout     time.Duration

	// LastDrive is preselected when the host offers it.
	LastDrive string

	// OnConnected runs after a successful dial.
	OnConnected func(url string)
	// OnMounted runs after a successful mount.
	OnMounted func(drive string)
}

// Messages for the bridge connection
type connectedMsg struct {
	url  string
	conn Connection
}
type connectFailedMsg struct {
	url string
	err error
}
type updateMsg struct {
	update bridge.Update
}
type bridgeClosedMsg struct{}

// AppModel is the top-level model: host picker, connection, then the
// bridge session.
type AppModel struct {
	opts Options

	Stage   Stage
	Hosts   HostsModel
	URL     string
	ConnErr error

	conn    Connection
	Session *workflow.Session
	Slots   *view.Slots

	Width  int
	Height int

	Help     help.Model
	Keys     keyMap
	Spinner  spinner.Model
	FundsBar progress.Model
}

// NewAppModel creates the application model.
func NewAppModel(opts Options) AppModel {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = bridge.DefaultHandshakeTimeout
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	m := AppModel{
		opts:     opts,
		Stage:    StageHosts,
		Hosts:    NewHostsModel(opts.Scan, opts.DiscoverTimeout),
		URL:      opts.BridgeURL,
		Slots:    view.NewSlots(),
		Help:     help.New(),
		Keys:     newKeyMap(),
		Spinner:  s,
		FundsBar: bar,
	}
	if opts.BridgeURL != "" {
		m.Stage = StageConnecting
	}
	return m
}

// Init starts the host scan or the dial.
func (m AppModel) Init() tea.Cmd {
	if m.Stage == StageConnecting {
		return tea.Batch(m.dial(m.URL), m.Spinner.Tick)
	}
	return m.Hosts.Init()
}

func (m AppModel) dial(url string) tea.Cmd {
	dial := m.opts.Dial
	timeout := m.opts.DialTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		conn, err := dial(ctx, url)
		if err != nil {
			return connectFailedMsg{url: url, err: err}
		}
		return connectedMsg{url: url, conn: conn}
	}
}

// waitForUpdate delivers the next host push as a message.
func waitForUpdate(src bridge.UpdateSource) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-src.Updates()
		if !ok {
			return bridgeClosedMsg{}
		}
		return updateMsg{update: u}
	}
}

// Update handles all messages and routes them to the active stage.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Hosts, _ = m.Hosts.Update(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

	case hostSelectedMsg:
		m.Stage = StageConnecting
		m.URL = msg.url
		m.ConnErr = nil
		return m, tea.Batch(m.dial(msg.url), m.Spinner.Tick)

	case connectedMsg:
		return m.startSession(msg)

	case connectFailedMsg:
		logging.Warn("Failed to connect to host", zap.String("url", msg.url), zap.Error(msg.err))
		m.Stage = StageDisconnected
		m.ConnErr = msg.err
		return m, nil

	case updateMsg:
		if m.Session == nil {
			return m, nil
		}
		cmd := m.Session.ApplyUpdate(msg.update)
		return m, tea.Batch(cmd, waitForUpdate(m.conn))

	case bridgeClosedMsg:
		if m.Stage == StageSession {
			logging.Warn("Host closed the bridge", zap.String("url", m.URL))
			m.Stage = StageDisconnected
			m.ConnErr = bridge.ErrClosed
		}
		return m, nil

	case spinner.TickMsg:
		if m.Stage == StageHosts {
			var cmd tea.Cmd
			m.Hosts, cmd = m.Hosts.Update(msg)
			return m, cmd
		}
		if m.spinning() {
			var cmd tea.Cmd
			m.Spinner, cmd = m.Spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.Session != nil {
		if cmd, ok := m.Session.Handle(msg); ok {
			return m, tea.Batch(cmd, m.Spinner.Tick)
		}
	}

	switch m.Stage {
	case StageHosts:
		var cmd tea.Cmd
		m.Hosts, cmd = m.Hosts.Update(msg)
		return m, cmd
	case StageDisconnected:
		return m.updateDisconnected(msg)
	case StageSession:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			return m.updateSession(keyMsg)
		}
	}
	return m, nil
}

func (m AppModel) startSession(msg connectedMsg) (tea.Model, tea.Cmd) {
	logging.Info("Connected to host", zap.String("url", msg.url))
	if m.conn != nil {
		_ = m.conn.Close()
	}
	m.conn = msg.conn
	m.URL = msg.url
	m.ConnErr = nil
	m.Stage = StageSession
	m.Slots = view.NewSlots()

	m.Session = workflow.NewSession(msg.conn, msg.conn, m.Slots)
	m.Session.Mount.Prefer(m.opts.LastDrive)
	m.Session.Mount.OnMounted = m.opts.OnMounted

	if m.opts.OnConnected != nil {
		m.opts.OnConnected(msg.url)
	}

	cmd := m.Session.Load()
	return m, tea.Batch(cmd, waitForUpdate(msg.conn), m.Spinner.Tick)
}

func (m AppModel) spinning() bool {
	if m.Stage == StageConnecting {
		return true
	}
	if m.Stage != StageSession || m.Session == nil {
		return false
	}
	switch m.Session.Nav.Active() {
	case nav.ScreenUnlocking:
		return true
	case nav.ScreenCreateWallet:
		return m.Session.Onboarding.CreateState() == workflow.CreateCreating
	case nav.ScreenApp:
		p := m.Session.Mount.Phase()
		return p == workflow.PhaseMounting || p == workflow.PhaseUnmounting
	}
	return false
}

func (m AppModel) updateDisconnected(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Reconnect):
		m.Stage = StageConnecting
		m.ConnErr = nil
		return m, tea.Batch(m.dial(m.URL), m.Spinner.Tick)
	case key.Matches(keyMsg, hostsBinding) && m.opts.Scan != nil:
		m.Stage = StageHosts
		m.Hosts = NewHostsModel(m.opts.Scan, m.opts.DiscoverTimeout)
		m.Hosts, _ = m.Hosts.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height})
		return m, m.Hosts.Init()
	case key.Matches(keyMsg, m.Keys.Quit):
		return m.quit()
	}
	return m, nil
}

// updateSession handles keys for the navigator's active screen.
func (m AppModel) updateSession(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.Session

	if s.Modal.Active() {
		if key.Matches(msg, m.Keys.Acknowledge) {
			return m, s.Modal.Acknowledge()
		}
		return m, nil
	}

	switch s.Nav.Active() {
	case nav.ScreenOffline:
		switch {
		case key.Matches(msg, m.Keys.Reload):
			return m, s.Load()
		case key.Matches(msg, m.Keys.Quit):
			return m.quit()
		}

	case nav.ScreenCreateWallet:
		switch {
		case key.Matches(msg, m.Keys.Submit):
			return m, tea.Batch(s.Onboarding.SubmitCreate(), m.Spinner.Tick)
		case key.Matches(msg, m.Keys.Quit):
			return m.quit()
		}

	case nav.ScreenWalletCreated:
		switch {
		case key.Matches(msg, m.Keys.Submit):
			return m, s.Onboarding.Advance()
		case key.Matches(msg, m.Keys.Quit):
			return m.quit()
		}

	case nav.ScreenUnlock:
		if key.Matches(msg, m.Keys.Submit) {
			return m, tea.Batch(s.Onboarding.SubmitUnlock(), m.Spinner.Tick)
		}
		var cmd tea.Cmd
		s.Onboarding.Password, cmd = s.Onboarding.Password.Update(msg)
		return m, cmd

	case nav.ScreenApp:
		switch {
		case key.Matches(msg, m.Keys.Toggle):
			return m, tea.Batch(s.Mount.Toggle(), m.Spinner.Tick)
		case key.Matches(msg, m.Keys.PrevDrive):
			s.Mount.SelectPrev()
		case key.Matches(msg, m.Keys.NextDrive):
			s.Mount.SelectNext()
		case key.Matches(msg, m.Keys.Settings):
			return m, s.OpenRenterSettings()
		case key.Matches(msg, m.Keys.Quit):
			return m.quit()
		}

	case nav.ScreenRenterSettings:
		switch {
		case key.Matches(msg, m.Keys.NextField):
			s.Form.FocusNext()
		case key.Matches(msg, m.Keys.PrevField):
			s.Form.FocusPrev()
		case key.Matches(msg, m.Keys.Cancel):
			return m, s.CancelRenterSettings()
		case key.Matches(msg, m.Keys.Submit):
			return m, s.SubmitRenterSettings()
		default:
			return m, s.Form.Update(msg)
		}
	}
	return m, nil
}

// quit tells the host the UI is going away and exits.
func (m AppModel) quit() (tea.Model, tea.Cmd) {
	if m.Session != nil {
		m.Session.Unload()
	}
	return m, tea.Quit
}

// Close releases the bridge connection. Call it after the program exits.
func (m AppModel) Close() error {
	if m.Session != nil {
		m.Session.Unload()
	}
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}

// View renders the active stage
func (m AppModel) View() string {
	switch m.Stage {
	case StageHosts:
		return m.Hosts.View()
	case StageConnecting:
		return m.renderConnecting()
	case StageDisconnected:
		return m.renderDisconnected()
	}

	if a, ok := m.Session.Modal.Current(); ok {
		return m.renderAlert(a)
	}
	return m.renderSession()
}
