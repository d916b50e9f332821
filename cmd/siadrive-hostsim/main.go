// Siadrive-hostsim is a simulated SiaDrive host.
//
// It serves the bridge protocol over a websocket with an in-memory wallet,
// renter and drive, so the UI can be developed and demonstrated without a
// real host. With --advertise it registers itself over mDNS for discovery.
//
// Usage:
//
//	siadrive-hostsim [flags]
//
// See 'siadrive-hostsim --help' for available options.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/siadrive/siadrive-ui/internal/hostsim"
	"github.com/siadrive/siadrive-ui/internal/logging"
	"github.com/siadrive/siadrive-ui/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Server flags
var (
	host       string
	port       int
	offline    bool
	noWallet   bool
	locked     bool
	password   string
	refresh    time.Duration
	mountDelay time.Duration
	advertise  bool
	instance   string
	drives     string
	certPath   string
	keyPath    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "siadrive-hostsim",
	Short: "Simulated SiaDrive host",
	Long: `A simulated SiaDrive host serving the UI bridge over a websocket.

Wallet, renter and drive state is kept in memory. By default the wallet
exists and is unlocked. Flags choose another starting state so every UI
screen can be reached:

  --offline     host reports no connectivity (offline screen)
  --no-wallet   no wallet yet (create wallet screen)
  --locked      wallet exists and is locked (unlock screen)

Control routes under /api change state while UIs are connected.`,
	Example: `  # Online host with an unlocked wallet on the default port
  siadrive-hostsim

  # Walk through wallet creation
  siadrive-hostsim --no-wallet

  # Locked wallet, advertised over mDNS
  siadrive-hostsim --locked --password hunter2 --advertise

  # Slow mounts for exercising the in-flight state
  siadrive-hostsim --locked --password hunter2 --mount-delay 5s

  # Serve wss:// with your own certificate
  siadrive-hostsim --cert cert.pem --key key.pem`,
	Version: version.Version,
	RunE:    runServer,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	defaults := hostsim.DefaultOptions()
	rootCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	rootCmd.Flags().IntVar(&port, "port", 9981, "Listen port")
	rootCmd.Flags().BoolVar(&offline, "offline", false, "Report the host as offline")
	rootCmd.Flags().BoolVar(&noWallet, "no-wallet", false, "Start without a wallet")
	rootCmd.Flags().BoolVar(&locked, "locked", false, "Start with the wallet locked")
	rootCmd.Flags().StringVar(&password, "password", "", "Password of the existing wallet")
	rootCmd.Flags().DurationVar(&refresh, "refresh", hostsim.DefaultRefreshInterval, "Interval between state pushes")
	rootCmd.Flags().DurationVar(&mountDelay, "mount-delay", defaults.MountDelay, "Time a mount or unmount takes")
	rootCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the bridge over mDNS")
	rootCmd.Flags().StringVar(&instance, "instance", "", "mDNS instance name (default hostname)")
	rootCmd.Flags().StringVar(&drives, "drives", strings.Join(defaults.Drives, ","), "Comma-separated mount locations")
	rootCmd.Flags().StringVar(&certPath, "cert", "", "TLS certificate file (serve wss://)")
	rootCmd.Flags().StringVar(&keyPath, "key", "", "TLS private key file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("siadrive-hostsim %s (host %s)\n", version.Full(), version.CompatHostVersion)
	},
}

func runServer(cmd *cobra.Command, args []string) error {
	if (certPath != "") != (keyPath != "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}
	if noWallet && locked {
		return fmt.Errorf("--locked needs a wallet; drop --no-wallet")
	}

	if err := logging.Initialize(logLevel, ""); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	opts := hostsim.DefaultOptions()
	opts.Offline = offline
	opts.WalletConfigured = !noWallet
	opts.WalletLocked = locked
	opts.Password = password
	opts.MountDelay = mountDelay
	opts.Drives = splitDrives(drives)
	if len(opts.Drives) == 0 {
		return fmt.Errorf("at least one drive location is required")
	}
	if opts.WalletLocked && password == "" {
		return fmt.Errorf("--password is required with --locked")
	}

	backend, err := hostsim.NewBackend(opts)
	if err != nil {
		return fmt.Errorf("failed to create backend: %w", err)
	}

	srv := hostsim.New(&hostsim.Config{
		Host:            host,
		Port:            port,
		RefreshInterval: refresh,
		Advertise:       advertise,
		Instance:        instance,
		CertPath:        certPath,
		KeyPath:         keyPath,
	}, backend)

	if _, err := srv.Listen(); err != nil {
		return err
	}
	return srv.Start()
}

func splitDrives(s string) []string {
	var out []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
