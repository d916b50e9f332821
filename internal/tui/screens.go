package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/siadrive/siadrive-ui/internal/nav"
	"github.com/siadrive/siadrive-ui/internal/version"
	"github.com/siadrive/siadrive-ui/internal/view"
	"github.com/siadrive/siadrive-ui/internal/workflow"
)

func (m AppModel) header() string {
	title := ""
	if m.Slots != nil {
		title = m.Slots.Text(view.SlotTitle)
	}
	host := m.URL
	if host == "" {
		host = "no host"
	}
	return BuildHeaderContent(title, host)
}

func (m AppModel) renderConnecting() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		"",
		TitleStyle.Render(m.Spinner.View()+" CONNECTING"),
		SubtitleStyle.Render("Waiting for the host at "+m.URL),
	)
	help := m.Help.View(bindingSet{m.Keys.Quit})
	return RenderApplicationContainer(m.header(), content, help, m.Width, m.Height)
}

func (m AppModel) renderDisconnected() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Not connected"))
	b.WriteString("\n")
	if m.ConnErr != nil {
		b.WriteString(RenderError(m.ConnErr.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString("  Troubleshooting:\n")
	b.WriteString("    • Check that the SiaDrive host is running\n")
	b.WriteString("    • Verify the bridge URL: " + m.URL + "\n")

	keys := bindingSet{m.Keys.Reconnect}
	if m.opts.Scan != nil {
		keys = append(keys, hostsBinding)
	}
	keys = append(keys, m.Keys.Quit)
	return RenderApplicationContainer(m.header(), b.String(), m.Help.View(keys), m.Width, m.Height)
}

func (m AppModel) renderAlert(a workflow.Alert) string {
	width := SafeModalWidth(60, m.Width)
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("✗ "+a.Title),
		"",
		a.Reason,
		"",
		SubtitleStyle.Render("Press enter to continue"),
	)
	return RenderModal(ErrorBoxStyle.Width(width).Render(body), m.Width, m.Height)
}

func (m AppModel) renderSession() string {
	s := m.Session
	screen := s.Nav.Active()

	var content string
	switch screen {
	case nav.ScreenOffline:
		content = m.renderOffline()
	case nav.ScreenCreateWallet:
		content = m.renderCreateWallet()
	case nav.ScreenWalletCreated:
		content = m.renderWalletCreated()
	case nav.ScreenUnlock:
		content = m.renderUnlock()
	case nav.ScreenUnlocking:
		content = m.renderUnlocking()
	case nav.ScreenApp:
		content = m.renderApp()
	case nav.ScreenRenterSettings:
		content = m.renderRenterSettings()
	default:
		content = "Loading..."
	}

	return RenderApplicationContainer(m.header(), content, m.Help.View(m.Keys.helpFor(screen)), m.Width, m.Height)
}

func (m AppModel) renderOffline() string {
	var b strings.Builder
	b.WriteString(RenderTitle("SiaDrive is offline"))
	b.WriteString("\n")
	b.WriteString("  The host has no connection to the Sia network.\n")
	b.WriteString("  Press 'r' once it is back online.\n")
	return b.String()
}

func (m AppModel) renderCreateWallet() string {
	o := m.Session.Onboarding
	var b strings.Builder
	b.WriteString(RenderTitle("Create a wallet"))
	b.WriteString("\n")
	b.WriteString("  No wallet is configured on this host.\n")
	b.WriteString("  A new wallet and its recovery seed will be generated.\n\n")
	if o.CreateState() == workflow.CreateCreating {
		b.WriteString("  " + m.Spinner.View() + " Creating wallet...\n")
	} else {
		b.WriteString("  " + renderButton("Create wallet", o.CreateArmed()) + "\n")
	}
	return b.String()
}

func (m AppModel) renderWalletCreated() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Wallet created"))
	b.WriteString("\n")
	b.WriteString("  Write down your recovery seed and keep it somewhere safe.\n")
	b.WriteString("  It is shown only once and is the only way to restore the wallet.\n\n")
	b.WriteString(SeedBoxStyle.Width(SafeModalWidth(72, m.Width)).Render(m.Session.Onboarding.Seed()))
	b.WriteString("\n\n")
	b.WriteString("  " + renderButton("Continue to unlock", m.Session.Onboarding.AdvanceArmed()) + "\n")
	return b.String()
}

func (m AppModel) renderUnlock() string {
	o := m.Session.Onboarding
	var b strings.Builder
	b.WriteString(RenderTitle("Unlock wallet"))
	b.WriteString("\n")
	b.WriteString("  Password: ")
	b.WriteString(o.Password.View())
	b.WriteString("\n\n")
	b.WriteString("  " + renderButton("Unlock", o.UnlockArmed()) + "\n")
	return b.String()
}

func (m AppModel) renderUnlocking() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		TitleStyle.Render(m.Spinner.View()+" Unlocking wallet"),
		SubtitleStyle.Render("This can take a few minutes while the wallet rescans."),
	)
}

func (m AppModel) renderApp() string {
	slots := m.Slots
	dash := "-"

	var b strings.Builder

	b.WriteString(SectionTitleStyle.Render("Host"))
	b.WriteString("\n")
	serverVersion := slots.TextOr(view.SlotServerVersion, "...")
	b.WriteString(RenderField("Server version", serverVersion))
	if serverVersion != "..." && !version.CompatibleHost(serverVersion) {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(WarningColor).Render("⚠ expects "+version.CompatHostVersion))
	}
	b.WriteString("\n")
	b.WriteString(RenderField("Block height", slots.TextOr(view.SlotBlockHeight, dash)))
	b.WriteString("\n\n")

	b.WriteString(SectionTitleStyle.Render("Wallet"))
	b.WriteString("\n")
	b.WriteString(RenderField("Confirmed", slots.TextOr(view.SlotConfirmedBalance, dash)) + "\n")
	b.WriteString(RenderField("Unconfirmed", slots.TextOr(view.SlotUnconfirmedBalance, dash)) + "\n")
	b.WriteString(RenderField("Total", slots.TextOr(view.SlotTotalBalance, dash)) + "\n")
	b.WriteString(RenderField("Receive address", slots.TextOr(view.SlotReceiveAddress, dash)) + "\n\n")

	b.WriteString(SectionTitleStyle.Render("Renter"))
	b.WriteString("\n")
	b.WriteString(RenderField("Allocated funds", slots.TextOr(view.SlotAllocatedFunds, dash)) + "\n")
	b.WriteString(RenderField("Used funds", slots.TextOr(view.SlotUsedFunds, dash)))
	b.WriteString("  " + m.FundsBar.ViewAs(fundsUsed(slots)) + "\n")
	b.WriteString(RenderField("Available funds", slots.TextOr(view.SlotAvailableFunds, dash)) + "\n")
	b.WriteString(RenderField("Hosts", slots.TextOr(view.SlotHostCount, dash)) + "\n")
	b.WriteString(RenderField("Space used/available", fmt.Sprintf("%s / %s (est. %s)",
		slots.TextOr(view.SlotUsedSpace, dash),
		slots.TextOr(view.SlotAvailableSpace, dash),
		slots.TextOr(view.SlotEstimatedSpace, dash))) + "\n")
	b.WriteString(RenderField("Cost est/down/up", fmt.Sprintf("%s / %s / %s",
		slots.TextOr(view.SlotEstimatedCost, dash),
		slots.TextOr(view.SlotDownloadCost, dash),
		slots.TextOr(view.SlotUploadCost, dash))) + "\n")
	b.WriteString(RenderField("Allowance", fmt.Sprintf("%s SC, %s hosts, %s blocks",
		valueOr(slots.Value(view.SlotAllowanceFunds), dash),
		valueOr(slots.Value(view.SlotAllowanceHosts), dash),
		valueOr(slots.Value(view.SlotAllowancePeriod), dash))) + "\n\n")

	b.WriteString(SectionTitleStyle.Render("Drive"))
	b.WriteString("\n")
	b.WriteString(m.renderMountControls())
	b.WriteString("\n")
	return b.String()
}

func (m AppModel) renderMountControls() string {
	mt := m.Session.Mount

	drive := mt.Selected()
	if drive == "" {
		drive = "no drives"
	}
	selector := "‹ " + drive + " ›"
	if mt.SelectorEnabled() {
		selector = SelectorStyle.Render(selector)
	} else {
		selector = DisabledSelectorStyle.Render(selector)
	}

	label := mt.Label()
	switch mt.Phase() {
	case workflow.PhaseMounting:
		label = m.Spinner.View() + " Mounting"
	case workflow.PhaseUnmounting:
		label = m.Spinner.View() + " Unmounting"
	}
	trigger := renderButton(label, mt.TriggerEnabled() && mt.Armed())

	return "  " + selector + "  " + trigger
}

func (m AppModel) renderRenterSettings() string {
	f := m.Session.Form
	var b strings.Builder
	b.WriteString(RenderTitle("Renter settings"))
	b.WriteString("\n")
	for i, in := range f.Inputs {
		label := workflow.FieldLabels[i]
		if i == f.Focused() {
			b.WriteString(FocusedInputStyle.Render("→ " + label))
		} else {
			b.WriteString(BlurredInputStyle.Render("  " + label))
		}
		b.WriteString("\n    ")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	b.WriteString(SubtitleStyle.Render("  The renew window must be shorter than the period."))
	b.WriteString("\n")
	return b.String()
}

func renderButton(label string, enabled bool) string {
	if enabled {
		return ButtonStyle.Render(label)
	}
	return DisabledButtonStyle.Render(label)
}

func valueOr(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// fundsUsed returns used/allocated from the renter slots, or 0 when either
// is missing or unparsable.
func fundsUsed(slots *view.Slots) float64 {
	used, ok1 := leadingNumber(slots.Text(view.SlotUsedFunds))
	allocated, ok2 := leadingNumber(slots.Text(view.SlotAllocatedFunds))
	if !ok1 || !ok2 || allocated <= 0 {
		return 0
	}
	f := used / allocated
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

// leadingNumber parses the first field of values like "125.5 SC".
func leadingNumber(s string) (float64, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
