// Package ui renders the output of the non-interactive siadrive-ui
// commands.
//
// Unlike the interactive tui package, these components follow a "run once
// and exit" pattern: they print styled output and never read keys.
//
// # Architecture
//
//   - Header: command banner showing the operation and its parameters
//   - Progress: step list showing each step's status
//   - Result: success, warning and failure boxes
//   - Runner: drives the header, steps and result for a multi-step command
//   - Printer: writes headers and results to any io.Writer
//
// Example:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Unlock Wallet",
//	    Command:   "siadrive-ui unlock",
//	    Params:    []ui.Field{{Key: "Bridge", Value: url}},
//	    StepNames: []string{"Connect to host", "Check wallet", "Unlock wallet"},
//	})
//
//	_, err := runner.Run(func(onStep ui.StepCallback) ([]ui.Field, error) {
//	    onStep(1, "", ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, "", ui.StepComplete, "")
//	    return nil, nil
//	})
//
// # Logging Integration
//
// zap logging is silent unless SIADRIVE_LOG_LEVEL or --log-level is set,
// so the curated output here is displayed cleanly.
package ui
