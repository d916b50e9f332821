package ui

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/siadrive/siadrive-ui/internal/logging"
)

// Operation performs the work of a multi-step command, reporting progress
// through onStep. The returned fields are shown in the success box.
type Operation func(onStep StepCallback) ([]Field, error)

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Title           string
	Command         string
	Params          []Field
	StepNames       []string
	SuccessTitle    string   // defaults to Title
	Troubleshooting []string // shown on failure
	Output          io.Writer
	Width           int
}

// Runner prints a header, streams step lines while an Operation runs, and
// finishes with a result box.
type Runner struct {
	config   RunnerConfig
	progress *Progress
	out      io.Writer
	width    int
}

// NewRunner creates a runner. Output defaults to stdout and Width to the
// terminal width.
func NewRunner(config RunnerConfig) *Runner {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	width := config.Width
	if width == 0 {
		width = GetTerminalWidth()
	}
	progress := NewProgress(config.StepNames).SetWidth(width)
	progress.ShowBar = false
	return &Runner{
		config:   config,
		progress: progress,
		out:      out,
		width:    width,
	}
}

// Progress returns the step state, mainly for inspection after Run.
func (r *Runner) Progress() *Progress {
	return r.progress
}

// Run executes op. Finished steps are printed as they complete; the
// result box is printed last. The operation's error is returned unchanged.
func (r *Runner) Run(op Operation) ([]Field, error) {
	fmt.Fprintln(r.out, NewHeader(r.config.Title, r.config.Command, r.config.Params).SetWidth(r.width).Render())
	fmt.Fprintln(r.out)

	details, err := op(r.onStep)

	fmt.Fprintln(r.out)
	if err != nil {
		logging.Warn("Command failed",
			zap.String("command", r.config.Command),
			zap.Error(err))
		result := NewFailureResult(r.config.Title+" failed", err, r.config.Troubleshooting).SetWidth(r.width)
		fmt.Fprintln(r.out, result.Render())
		return nil, err
	}

	title := r.config.SuccessTitle
	if title == "" {
		title = r.config.Title
	}
	fmt.Fprintln(r.out, NewSuccessResult(title, details).SetWidth(r.width).Render())
	return details, nil
}

func (r *Runner) onStep(stepNumber int, name string, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(r.progress.Steps) {
		return
	}
	if name != "" {
		r.progress.Steps[stepNumber-1].Name = name
	}
	r.progress.UpdateStep(stepNumber, status, message)
	logging.Debug("Command step",
		zap.Int("step", stepNumber),
		zap.String("name", r.progress.Step(stepNumber).Name),
		zap.Int("status", int(status)))

	// Running steps are transient; the final state gets the line.
	if status == StepRunning {
		return
	}
	fmt.Fprintln(r.out, r.progress.RenderStep(r.progress.Step(stepNumber)))
}
