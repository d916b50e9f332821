package bridge

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Snapshot is the environment state read once at load.
type Snapshot struct {
	ClientVersion      string
	IsOnline           bool
	IsWalletConfigured bool
	IsWalletLocked     bool

	// DefaultAllowance seeds the allowance form before the host has pushed
	// the renter's current allowance.
	DefaultAllowance Allowance
}

// Allowance is the renter allowance. Values are kept as the host formats
// them; Validate checks they would parse on the host side.
type Allowance struct {
	Funds               string
	Hosts               string
	Period              string
	RenewWindowInBlocks string
}

// Validate reports the first field that the host would not accept.
func (a Allowance) Validate() error {
	funds, ok := new(big.Rat).SetString(strings.TrimSpace(a.Funds))
	if !ok {
		return fmt.Errorf("funds %q is not a number", a.Funds)
	}
	if funds.Sign() <= 0 {
		return fmt.Errorf("funds must be greater than zero")
	}

	hosts, err := parseBlocks("hosts", a.Hosts)
	if err != nil {
		return err
	}
	if hosts == 0 {
		return fmt.Errorf("hosts must be at least 1")
	}

	period, err := parseBlocks("period", a.Period)
	if err != nil {
		return err
	}
	renew, err := parseBlocks("renew window", a.RenewWindowInBlocks)
	if err != nil {
		return err
	}
	if period == 0 || renew == 0 {
		return fmt.Errorf("period and renew window must be at least 1 block")
	}
	if renew >= period {
		return fmt.Errorf("renew window (%d) must be shorter than the period (%d)", renew, period)
	}

	return nil
}

func parseBlocks(field string, v string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a whole number", field, v)
	}
	return n, nil
}

// Result is the outcome of an asynchronous bridge operation.
type Result struct {
	OK bool
	// Reason is set on failure.
	Reason string
	// Payload is the seed for createWallet and empty otherwise.
	Payload string
}

// Success builds a successful Result.
func Success(payload string) Result {
	return Result{OK: true, Payload: payload}
}

// Failure builds a failed Result.
func Failure(reason string) Result {
	return Result{OK: false, Reason: reason}
}

// RenterStats is a renter refresh from the host.
type RenterStats struct {
	AllocatedFunds string
	UsedFunds      string
	AvailableFunds string
	HostCount      string
	EstimatedSpace string
	UsedSpace      string
	AvailableSpace string
	EstimatedCost  string
	DownloadCost   string
	UploadCost     string
}

// WalletStats is a wallet refresh from the host. ReceiveAddress may be
// empty when the host has already sent it once.
type WalletStats struct {
	ConfirmedBalance   string
	UnconfirmedBalance string
	TotalBalance       string
	ReceiveAddress     string
}

// Update is an unsolicited push from the host.
type Update interface {
	Kind() string
}

type (
	// RenterUpdate carries renter funds, space and cost figures.
	RenterUpdate struct{ Stats RenterStats }
	// WalletUpdate carries wallet balances.
	WalletUpdate struct{ Stats WalletStats }
	// BlockHeightUpdate carries the consensus height.
	BlockHeightUpdate struct{ Height uint64 }
	// ServerVersionUpdate carries the host daemon version.
	ServerVersionUpdate struct{ Version string }
	// DrivesUpdate carries the mount locations currently available.
	DrivesUpdate struct{ Drives []string }
	// AllowanceUpdate carries the renter's current allowance.
	AllowanceUpdate struct{ Allowance Allowance }
	// DriveUnmountedUpdate reports that the volume went away without the
	// UI asking.
	DriveUnmountedUpdate struct{}
	// EnvironmentUpdate reports a changed environment; the UI reloads.
	EnvironmentUpdate struct{ Snapshot Snapshot }
)

func (RenterUpdate) Kind() string         { return "renter" }
func (WalletUpdate) Kind() string         { return "wallet" }
func (BlockHeightUpdate) Kind() string    { return "blockHeight" }
func (ServerVersionUpdate) Kind() string  { return "serverVersion" }
func (DrivesUpdate) Kind() string         { return "drives" }
func (AllowanceUpdate) Kind() string      { return "allowance" }
func (DriveUnmountedUpdate) Kind() string { return "driveUnmounted" }
func (EnvironmentUpdate) Kind() string    { return "environment" }
