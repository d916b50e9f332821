// Siadrive-ui is the terminal companion for a SiaDrive host.
//
// It connects to the host's bridge, walks the user through creating or
// unlocking the wallet, and mounts the renter's drive.
//
// Usage:
//
//	siadrive-ui [command] [flags]
//
// Running without arguments launches the interactive UI.
// See 'siadrive-ui --help' for available commands.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/siadrive/siadrive-ui/internal/config"
	"github.com/siadrive/siadrive-ui/internal/logging"
	"github.com/siadrive/siadrive-ui/internal/tui"
	"github.com/siadrive/siadrive-ui/internal/version"
)

// Global flags
var (
	bridgeURL       string
	discoverTimeout int
	logLevel        string
	logFile         string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "siadrive-ui",
	Short: "SiaDrive terminal companion",
	Long: `A terminal companion for SiaDrive hosts.

Connects to the host bridge, creates or unlocks the wallet, edits the
renter allowance and mounts the renter drive.

If no command is specified, the interactive UI launches. Without --bridge
the configured bridge URL is used, then the most recently used host; if
none is known the UI scans the network for hosts.`,
	Version:       version.Version,
	SilenceErrors: true, // main prints the error once
	RunE:          runUI,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&bridgeURL, "bridge", "", "Bridge URL, e.g. ws://192.168.1.20:9981/bridge (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&discoverTimeout, "discover-timeout", 0, "mDNS discovery timeout in seconds (default from preferences)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when empty")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file (default siadrive-ui.log in the config directory)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("siadrive-ui %s\n", version.Full())
		fmt.Printf("bridge protocol for host %s\n", version.CompatHostVersion)
	},
}

// loadPreferences reads the preferences file and starts logging. The
// interactive UI owns the terminal, so logs go to a file unless
// toTerminal is set.
func loadPreferences(toTerminal bool) (*config.Registry, error) {
	reg, err := config.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	prefs := reg.Preferences

	level := logLevel
	if level == "" {
		level = prefs.LogLevel
	}
	path := logFile
	if path == "" {
		path = prefs.LogFile
	}
	if path == "" && !toTerminal {
		if dir, err := config.GetConfigDir(); err == nil {
			if err := os.MkdirAll(dir, 0700); err == nil {
				path = filepath.Join(dir, "siadrive-ui.log")
			}
		}
	}
	if toTerminal && path == "" {
		path = "stderr"
	}
	if err := logging.Initialize(level, path); err != nil {
		return nil, err
	}
	return reg, nil
}

func resolveTimeout(reg *config.Registry) time.Duration {
	if discoverTimeout > 0 {
		return time.Duration(discoverTimeout) * time.Second
	}
	return time.Duration(reg.Preferences.DiscoverTimeout) * time.Second
}

func savePreferences(reg *config.Registry) {
	if err := reg.Save(); err != nil {
		logging.Warn("Failed to save preferences", zap.String("path", reg.Path()), zap.Error(err))
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	reg, err := loadPreferences(false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	timeout := resolveTimeout(reg)
	url := reg.ResolveBridgeURL(bridgeURL)
	logging.Info("Starting SiaDrive UI",
		zap.String("version", version.Full()),
		zap.String("bridge", url),
		zap.Duration("discover_timeout", timeout),
	)

	app := tui.NewAppModel(tui.Options{
		BridgeURL:       url,
		Dial:            dialBridge,
		Scan:            scanHosts(timeout),
		DiscoverTimeout: timeout,
		LastDrive:       reg.Preferences.LastDrive,
		OnConnected: func(url string) {
			reg.TouchHost(url, "", time.Now())
			savePreferences(reg)
		},
		OnMounted: func(drive string) {
			reg.Preferences.LastDrive = drive
			savePreferences(reg)
		},
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(tui.AppModel); ok {
		if cerr := m.Close(); cerr != nil {
			logging.Warn("Failed to close bridge", zap.Error(cerr))
		}
	}
	if err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}
