package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/siadrive/siadrive-ui/internal/discovery"
)

// ScanFunc looks for hosts on the network.
type ScanFunc func(ctx context.Context) ([]*discovery.Host, error)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	hosts []*discovery.Host
	err   error
}
type hostSelectedMsg struct {
	url string
}

// hostsKeyMap defines key bindings for the host list
type hostsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k hostsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k hostsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// hostItem wraps a Host for use with bubbles/list
type hostItem struct {
	host *discovery.Host
}

func (h hostItem) FilterValue() string {
	return h.host.Instance + " " + h.host.IP + " " + h.host.Hostname
}

func (h hostItem) Title() string {
	return h.host.Instance
}

func (h hostItem) Description() string {
	v := h.host.Version
	if v == "" {
		v = "unknown"
	}
	return fmt.Sprintf("%s • Version: %s", h.host.URL(), v)
}

// hostDelegate renders hosts as cards
type hostDelegate struct {
	width int
}

func (d hostDelegate) Height() int { return 6 }

func (d hostDelegate) Spacing() int { return 1 }

func (d hostDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d hostDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	hi, ok := item.(hostItem)
	if !ok {
		return
	}
	host := hi.host
	selected := index == m.Index()

	var content strings.Builder
	if selected {
		content.WriteString(SelectedMenuItemStyle.Render("→ " + host.Instance))
	} else {
		content.WriteString("  " + host.Instance)
	}
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("  Bridge:  %s\n", host.URL()))

	v := host.Version
	if v == "" {
		v = "unknown"
	}
	status := lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true).Render("Compatible")
	if !host.Compatible() {
		status = lipgloss.NewStyle().Foreground(WarningColor).Bold(true).Render("Unsupported version")
	}
	content.WriteString(fmt.Sprintf("  Version: %s  %s", v, status))

	cardWidth := d.width - 6
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 2).
		MarginLeft(2).
		Width(cardWidth)
	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// HostsModel is the host picker shown when no bridge URL is known
type HostsModel struct {
	Scanning bool
	HostList list.Model
	Err      error

	ManualMode bool
	URLInput   textinput.Model

	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	ScanTimeout   time.Duration
	Help          help.Model
	Keys          hostsKeyMap

	scan ScanFunc
}

// NewHostsModel creates the host picker
func NewHostsModel(scan ScanFunc, timeout time.Duration) HostsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = "ws://192.168.1.20:9981/bridge"
	urlInput.CharLimit = 256
	urlInput.Width = 50

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	hostList := list.New([]list.Item{}, hostDelegate{width: MinTerminalWidth}, 0, 0)
	hostList.Title = "SiaDrive Hosts"
	hostList.SetShowStatusBar(false)
	hostList.SetFilteringEnabled(true)
	hostList.Styles.Title = TitleStyle

	keys := hostsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "connect"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "enter URL"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	return HostsModel{
		HostList:    hostList,
		URLInput:    urlInput,
		Spinner:     s,
		ProgressBar: progressBar,
		ScanTimeout: timeout,
		Help:        help.New(),
		Keys:        keys,
		scan:        scan,
	}
}

// Init starts the first scan
func (m HostsModel) Init() tea.Cmd {
	return m.startScan()
}

func (m HostsModel) startScan() tea.Cmd {
	scan := m.scan
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		func() tea.Msg {
			if scan == nil {
				return scanCompleteMsg{err: fmt.Errorf("host discovery is not available")}
			}
			hosts, err := scan(context.Background())
			return scanCompleteMsg{hosts: hosts, err: err}
		},
		m.Spinner.Tick,
	)
}

// Update handles messages for the host picker
func (m HostsModel) Update(msg tea.Msg) (HostsModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.HostList.SetDelegate(hostDelegate{width: msg.Width - 4})
		m.HostList.SetWidth(msg.Width - 4)
		m.HostList.SetHeight(msg.Height - 10)

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.hosts))
		for i, h := range msg.hosts {
			items[i] = hostItem{host: h}
		}
		m.HostList.SetItems(items)

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if !m.ManualMode && !m.Scanning {
		m.HostList, cmd = m.HostList.Update(msg)
	}
	return m, cmd
}

func (m HostsModel) updateNormalMode(msg tea.KeyMsg) (HostsModel, tea.Cmd) {
	if m.Scanning {
		switch msg.String() {
		case "u":
			m.ManualMode = true
			m.URLInput.SetValue("")
			m.URLInput.Focus()
			return m, textinput.Blink
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		if m.HostList.FilterState() == list.Filtering {
			break
		}
		return m, tea.Quit

	case "enter":
		if item, ok := m.HostList.SelectedItem().(hostItem); ok {
			url := item.host.URL()
			return m, func() tea.Msg { return hostSelectedMsg{url: url} }
		}
		return m, nil

	case "r":
		m.HostList.SetItems([]list.Item{})
		m.Err = nil
		return m, m.startScan()

	case "u":
		m.ManualMode = true
		m.URLInput.SetValue("")
		m.URLInput.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.HostList, cmd = m.HostList.Update(msg)
	return m, cmd
}

func (m HostsModel) updateManualMode(msg tea.KeyMsg) (HostsModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.URLInput.Value())
		if value == "" {
			return m, nil
		}
		if !strings.Contains(value, "://") {
			value = "ws://" + value
		}
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		return m, func() tea.Msg { return hostSelectedMsg{url: value} }
	}

	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// View renders the host picker
func (m HostsModel) View() string {
	width := m.Width
	if width == 0 {
		width = defaultWidth
	}

	var content string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
	case m.Scanning:
		content = m.renderScanning(width)
	default:
		content = m.renderResults()
	}

	var helpText string
	if m.ManualMode {
		helpText = m.Help.View(bindingSet{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		})
	} else if m.Scanning {
		helpText = m.Help.View(bindingSet{m.Keys.Manual, m.Keys.Quit})
	} else {
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(BuildHeaderContent("", "no host"), content, helpText, m.Width, m.Height)
}

func (m HostsModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	fraction := elapsed.Seconds() / m.ScanTimeout.Seconds()
	if fraction > 1 {
		fraction = 1
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(fmt.Sprintf("%s SEARCHING FOR SIADRIVE HOSTS", m.Spinner.View())),
		SubtitleStyle.Render("Browsing the local network for "+discovery.ServiceType+" services..."),
		"",
		m.ProgressBar.ViewAs(fraction),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
		"",
	)
	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

func (m HostsModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	hints := "  Troubleshooting:\n" +
		"    • Ensure the SiaDrive host is running with advertising enabled\n" +
		"    • Check that this machine is on the same network segment\n" +
		"    • Press 'u' to enter the bridge URL directly\n"

	switch {
	case m.Err != nil:
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString(hints)
	case len(m.HostList.Items()) == 0:
		warning := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  ")
		b.WriteString(warning.Render("⚠ No SiaDrive hosts found on your network"))
		b.WriteString("\n\n")
		b.WriteString(hints)
	default:
		b.WriteString(m.HostList.View())
	}
	return b.String()
}

func (m HostsModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString(RenderSubtitle("Enter the host bridge URL"))
	b.WriteString("\n\n")
	b.WriteString("  URL: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n\n")
	return b.String()
}
