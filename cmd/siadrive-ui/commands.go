package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/siadrive/siadrive-ui/internal/bridge"
	"github.com/siadrive/siadrive-ui/internal/config"
	"github.com/siadrive/siadrive-ui/internal/discovery"
	"github.com/siadrive/siadrive-ui/internal/logging"
	"github.com/siadrive/siadrive-ui/internal/tui"
	"github.com/siadrive/siadrive-ui/internal/ui"
	"github.com/siadrive/siadrive-ui/internal/version"
)

// Command flags
var (
	outputFormat  string
	unlockTimeout int
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(unlockCmd)
}

// dialBridge adapts bridge.Dial to the UI's connection type.
func dialBridge(ctx context.Context, url string) (tui.Connection, error) {
	c, err := bridge.Dial(ctx, url)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanHosts(timeout time.Duration) tui.ScanFunc {
	return func(ctx context.Context) ([]*discovery.Host, error) {
		return discovery.DiscoverHosts(ctx, timeout)
	}
}

// connect resolves the bridge URL (flag, preferences, recent host, then
// discovery) and dials it.
func connect(reg *config.Registry) (*bridge.Client, error) {
	url := reg.ResolveBridgeURL(bridgeURL)
	if url == "" {
		timeout := resolveTimeout(reg)
		logging.Info("No bridge configured, scanning for hosts", zap.Duration("timeout", timeout))
		host, err := discovery.FindHost(context.Background(), timeout)
		if err != nil {
			return nil, fmt.Errorf("discovery failed: %w", err)
		}
		url = host.URL()
		logging.Info("Found host", zap.String("instance", host.Instance), zap.String("url", url))
	}

	ctx, cancel := context.WithTimeout(context.Background(), bridge.DefaultHandshakeTimeout)
	defer cancel()
	c, err := bridge.Dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	reg.TouchHost(url, "", time.Now())
	savePreferences(reg)
	return c, nil
}

// scanCmd discovers hosts on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for SiaDrive hosts on the network",
	Long: `Scan for SiaDrive hosts using mDNS/DNS-SD discovery.

Hosts advertise the ` + discovery.ServiceType + ` service with the bridge path and their
version in TXT records.`,
	Example: `  # Scan with the configured timeout
  siadrive-ui scan

  # Longer scan for slow networks
  siadrive-ui scan --discover-timeout 15`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	reg, err := loadPreferences(true)
	if err != nil {
		return err
	}
	timeout := resolveTimeout(reg)

	fmt.Printf("Scanning for SiaDrive hosts (timeout: %s)...\n\n", timeout)
	hosts, err := discovery.DiscoverHosts(context.Background(), timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(hosts) == 0 {
		fmt.Println("No hosts found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the SiaDrive host is running with advertising enabled")
		fmt.Println("  - Check that this machine is on the same network segment")
		fmt.Println("  - Try increasing --discover-timeout for slower networks")
		fmt.Println("  - Use --bridge to specify the bridge URL manually")
		return nil
	}

	fmt.Printf("Found %d host(s):\n\n", len(hosts))
	for i, h := range hosts {
		compat := "compatible"
		if !h.Compatible() {
			compat = "unsupported, expected " + version.CompatHostVersion
		}
		v := h.Version
		if v == "" {
			v = "unknown"
		}
		fmt.Printf("%d. %s\n", i+1, h.Instance)
		fmt.Printf("   Bridge:  %s\n", h.URL())
		fmt.Printf("   Version: %s (%s)\n", v, compat)
		if h.Hostname != "" {
			fmt.Printf("   Host:    %s\n", h.Hostname)
		}
		fmt.Println()
	}

	fmt.Println("Use 'siadrive-ui --bridge <url>' to connect to a specific host")
	return nil
}

// statusCmd prints the host environment
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the host environment",
	Long: `Connect to the host bridge and print the environment it reports:
connectivity, wallet state and the default renter allowance.`,
	Example: `  siadrive-ui status --bridge ws://192.168.1.20:9981/bridge
  siadrive-ui status --format json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	reg, err := loadPreferences(true)
	if err != nil {
		return err
	}
	c, err := connect(reg)
	if err != nil {
		return err
	}
	defer c.Close()

	snap := c.Snapshot()
	if outputFormat == "json" {
		data, err := json.MarshalIndent(bridge.SnapshotToWire(snap), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	a := snap.DefaultAllowance
	details := []ui.Field{
		{Key: "Client version", Value: snap.ClientVersion},
		{Key: "Online", Value: yesNo(snap.IsOnline)},
		{Key: "Wallet created", Value: yesNo(snap.IsWalletConfigured)},
		{Key: "Wallet locked", Value: yesNo(snap.IsWalletLocked)},
		{Key: "Allowance funds", Value: a.Funds},
		{Key: "Allowance hosts", Value: a.Hosts},
		{Key: "Period", Value: a.Period + " blocks"},
		{Key: "Renew window", Value: a.RenewWindowInBlocks + " blocks"},
	}

	p := ui.NewPrinter(os.Stdout)
	p.PrintHeader("Host Status", "siadrive-ui status", []ui.Field{{Key: "Bridge", Value: c.URL()}})
	switch {
	case !snap.IsOnline:
		p.PrintWarning("Host is offline", details)
	case !snap.IsWalletConfigured:
		p.PrintWarning("No wallet", details)
	case snap.IsWalletLocked:
		p.PrintWarning("Wallet locked", details)
	default:
		p.PrintSuccess("Host ready", details)
	}
	return nil
}

// unlockCmd unlocks the wallet from a password prompt
var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock the host wallet",
	Long: `Unlock the host wallet without the interactive UI.

The password is read from the terminal without echo. When stdin is not a
terminal, the first line of stdin is used. The password is never written
to disk or logged.`,
	Example: `  siadrive-ui unlock --bridge ws://192.168.1.20:9981/bridge
  pass show sia | siadrive-ui unlock`,
	SilenceUsage: true,
	RunE:         runUnlock,
}

func init() {
	unlockCmd.Flags().IntVar(&unlockTimeout, "timeout", 120, "Seconds to wait for the host to unlock")
}

var unlockTroubleshooting = []string{
	"Check that the host is running and reachable",
	"Use --bridge to pick the host explicitly",
	"Passwords are case sensitive; a new wallet's password is its seed",
	"Raise --timeout if the host is slow to unlock",
}

func runUnlock(cmd *cobra.Command, args []string) error {
	reg, err := loadPreferences(true)
	if err != nil {
		return err
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:           "Unlock Wallet",
		Command:         "siadrive-ui unlock",
		Params:          []ui.Field{{Key: "Timeout", Value: (time.Duration(unlockTimeout) * time.Second).String()}},
		StepNames:       []string{"Connect to host", "Check wallet", "Unlock wallet"},
		SuccessTitle:    "Wallet unlocked",
		Troubleshooting: unlockTroubleshooting,
	})

	_, err = runner.Run(func(onStep ui.StepCallback) ([]ui.Field, error) {
		onStep(1, "", ui.StepRunning, "")
		c, err := connect(reg)
		if err != nil {
			onStep(1, "", ui.StepFailed, "")
			return nil, err
		}
		defer c.Close()
		onStep(1, "", ui.StepComplete, c.URL())

		onStep(2, "", ui.StepRunning, "")
		snap := c.Snapshot()
		switch {
		case !snap.IsOnline:
			onStep(2, "", ui.StepFailed, "offline")
			return nil, fmt.Errorf("host is offline")
		case !snap.IsWalletConfigured:
			onStep(2, "", ui.StepFailed, "no wallet")
			return nil, fmt.Errorf("host has no wallet; run siadrive-ui to create one")
		case !snap.IsWalletLocked:
			onStep(2, "", ui.StepComplete, "already unlocked")
			onStep(3, "", ui.StepSkipped, "")
			return []ui.Field{{Key: "Bridge", Value: c.URL()}}, nil
		}
		onStep(2, "", ui.StepComplete, "locked")

		password, err := readPassword("  Wallet password: ")
		if err != nil {
			onStep(3, "", ui.StepFailed, "")
			return nil, err
		}
		if password == "" {
			onStep(3, "", ui.StepFailed, "")
			return nil, fmt.Errorf("password is required")
		}

		onStep(3, "", ui.StepRunning, "")
		f, err := c.UnlockWallet(password)
		if err != nil {
			onStep(3, "", ui.StepFailed, "")
			return nil, fmt.Errorf("unlock not sent: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(unlockTimeout)*time.Second)
		defer cancel()
		res, err := f.Await(ctx)
		if err != nil {
			onStep(3, "", ui.StepFailed, "no answer")
			return nil, fmt.Errorf("no answer from host: %w", err)
		}
		if !res.OK {
			onStep(3, "", ui.StepFailed, "")
			return nil, fmt.Errorf("unlock failed: %s", res.Reason)
		}
		onStep(3, "", ui.StepComplete, "")

		return []ui.Field{{Key: "Bridge", Value: c.URL()}}, nil
	})
	return err
}

func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Print(prompt)
		data, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
