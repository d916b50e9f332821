package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer writes headers and result boxes to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a printer for out, defaulting to stdout.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out, width: GetTerminalWidth()}
}

// SetWidth overrides the detected terminal width.
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// PrintHeader prints a command header followed by a blank line.
func (p *Printer) PrintHeader(title, command string, params []Field) {
	fmt.Fprintln(p.out, NewHeader(title, command, params).SetWidth(p.width).Render())
	fmt.Fprintln(p.out)
}

// PrintSuccess prints a success box.
func (p *Printer) PrintSuccess(title string, details []Field) {
	fmt.Fprintln(p.out, NewSuccessResult(title, details).SetWidth(p.width).Render())
}

// PrintWarning prints a warning box.
func (p *Printer) PrintWarning(title string, details []Field) {
	fmt.Fprintln(p.out, NewWarningResult(title, details).SetWidth(p.width).Render())
}

// PrintFailure prints a failure box with troubleshooting tips.
func (p *Printer) PrintFailure(title string, err error, troubleshooting []string) {
	fmt.Fprintln(p.out, NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}
