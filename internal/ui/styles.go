package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Sia palette
var (
	siaGreen   = lipgloss.Color("#1ED660")
	okColor    = lipgloss.Color("#43BF6D")
	failColor  = lipgloss.Color("#FF5555")
	warnColor  = lipgloss.Color("#FFA500")
	mutedColor = lipgloss.Color("#626262")
	textColor  = lipgloss.Color("#FFFFFF")
)

// Width bounds for boxed output.
const (
	MinTerminalWidth = 60
	MaxContentWidth  = 100
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(textColor).Bold(true).PaddingLeft(2)
	textStyle  = lipgloss.NewStyle().Foreground(textColor)
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
	noteStyle  = mutedStyle.Italic(true)

	// keyStyle fits "Allowance funds:" behind a three-space indent.
	keyStyle = mutedStyle.Width(22)
)

type look struct {
	marker string
	style  lipgloss.Style
}

var stepLooks = map[StepStatus]look{
	StepPending:  {"·", mutedStyle},
	StepRunning:  {"●", lipgloss.NewStyle().Foreground(warnColor)},
	StepComplete: {"✓", lipgloss.NewStyle().Foreground(okColor)},
	StepFailed:   {"✗", lipgloss.NewStyle().Foreground(failColor).Bold(true)},
	StepSkipped:  {"⊘", mutedStyle},
}

type outcome struct {
	label  string
	marker string
	color  lipgloss.Color
}

var outcomes = map[ResultType]outcome{
	ResultSuccess: {"SUCCESS", "✓", okColor},
	ResultFailure: {"FAILED", "✗", failColor},
	ResultWarning: {"WARNING", "⚠", warnColor},
}

// GetTerminalWidth returns the stdout width clamped to the supported
// range, or MinTerminalWidth when stdout is not a terminal.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth
	}
	return clampWidth(width)
}

func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
