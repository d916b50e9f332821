// Package logging provides structured logging for the SiaDrive terminal UI
// and the host simulator.
//
// This package wraps a zap logger with convenience functions for the events
// that matter when following a UI session: screen transitions, bridge calls
// and their outcomes, and bridge wire frames.
//
// # Log Levels
//
//   - Debug: wire frames, update pushes
//   - Info: screen transitions, bridge calls, connections
//   - Warn: failed workflow results, dropped frames
//   - Error: transport failures
//
// # Configuration
//
// Logging is silent unless a level is given or SIADRIVE_LOG_LEVEL is set.
// The terminal UI owns stdout while it runs, so it logs to a file:
//
//	if err := logging.Initialize("debug", "/tmp/siadrive-ui.log"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
