package hostsim

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/siadrive/siadrive-ui/internal/bridge"
)

// Failure reasons reported to the UI.
var (
	ErrOffline         = errors.New("host is offline")
	ErrWalletExists    = errors.New("wallet already exists")
	ErrNoWallet        = errors.New("wallet has not been created")
	ErrWalletLocked    = errors.New("wallet is locked")
	ErrBadPassword     = errors.New("invalid password")
	ErrAlreadyMounted  = errors.New("drive already mounted")
	ErrNotMounted      = errors.New("no drive mounted")
	ErrDriveNotOffered = errors.New("drive location is not available")
	ErrInsufficient    = errors.New("insufficient funds")
)

const seedWords = 12

var wordlist = strings.Fields(`
	abbey absorb acidic adapt adjust aerial afield agenda ahead aisle
	alkaline almost amidst amused anchor angled annoyed anvil apart apex
	aquarium arbitrary arena argue arrow ascend aside asylum athlete atlas
	auburn avatar awesome axis azure bacon badge bagpipe balding bamboo
	banjo basin batch beacon bedwetter befit begun below bevel bias
	bicycle bimonthly biscuit bite blender bluntly boat bobsled bodies bogeys
	bounced bowling boxes brunt bubble buckets budget bulb bumper bunch
`)

// Options is the initial state of a Backend.
type Options struct {
	ClientVersion    string
	ServerVersion    string
	Offline          bool
	WalletConfigured bool
	WalletLocked     bool
	// Password unlocks a wallet that exists at startup.
	Password   string
	Allowance  bridge.Allowance
	Drives     []string
	Balance    float64
	MountDelay time.Duration
}

// DefaultOptions returns a host that is online with no wallet.
func DefaultOptions() Options {
	return Options{
		ClientVersion: "1.0.0",
		ServerVersion: "1.1.2",
		Allowance: bridge.Allowance{
			Funds:               "500",
			Hosts:               "50",
			Period:              "4032",
			RenewWindowInBlocks: "1008",
		},
		Drives:     []string{"S:", "T:", "U:", "Z:"},
		Balance:    1250,
		MountDelay: 500 * time.Millisecond,
	}
}

// Backend is the in-memory wallet, renter and drive state of a simulated
// host. It is safe for concurrent use.
type Backend struct {
	mu sync.Mutex

	clientVersion string
	serverVersion string
	online        bool
	configured    bool
	locked        bool
	passwordHash  []byte

	allowance bridge.Allowance
	drives    []string
	mounted   string
	mountWait time.Duration

	balance float64
	spent   float64
	height  uint64
	address string
}

// NewBackend creates a Backend from opts.
func NewBackend(opts Options) (*Backend, error) {
	b := &Backend{
		clientVersion: opts.ClientVersion,
		serverVersion: opts.ServerVersion,
		online:        !opts.Offline,
		configured:    opts.WalletConfigured,
		locked:        opts.WalletConfigured && opts.WalletLocked,
		allowance:     opts.Allowance,
		drives:        append([]string(nil), opts.Drives...),
		mountWait:     opts.MountDelay,
		balance:       opts.Balance,
		height:        120000,
	}
	if opts.WalletConfigured {
		if err := b.setPassword(opts.Password); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// hashPassword pre-hashes with SHA-256 so seeds longer than bcrypt's
// 72-byte limit still verify.
func hashPassword(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

func (b *Backend) setPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword(hashPassword(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash wallet password: %w", err)
	}
	b.passwordHash = hash
	return nil
}

// Snapshot returns the environment the host reports in hello and
// environment frames.
func (b *Backend) Snapshot() bridge.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bridge.Snapshot{
		ClientVersion:      b.clientVersion,
		IsOnline:           b.online,
		IsWalletConfigured: b.configured,
		IsWalletLocked:     b.locked,
		DefaultAllowance:   b.allowance,
	}
}

// SetOnline changes the host's connectivity.
func (b *Backend) SetOnline(online bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.online = online
}

// Lock locks an unlocked wallet, unmounting the drive. It reports whether
// a mounted drive was dropped.
func (b *Backend) Lock() (dropped bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.configured {
		return false
	}
	b.locked = true
	dropped = b.mounted != ""
	b.mounted = ""
	return dropped
}

// CreateWallet generates a new seed. The seed is also the password that
// unlocks the wallet.
func (b *Backend) CreateWallet() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.online {
		return "", ErrOffline
	}
	if b.configured {
		return "", ErrWalletExists
	}

	seed, err := newSeed()
	if err != nil {
		return "", err
	}
	if err := b.setPassword(seed); err != nil {
		return "", err
	}
	b.configured = true
	b.locked = true
	b.address = ""
	return seed, nil
}

func newSeed() (string, error) {
	words := make([]string, seedWords)
	limit := big.NewInt(int64(len(wordlist)))
	for i := range words {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate seed: %w", err)
		}
		words[i] = wordlist[n.Int64()]
	}
	return strings.Join(words, " "), nil
}

// Unlock unlocks the wallet. Unlocking an unlocked wallet succeeds.
func (b *Backend) Unlock(password string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.configured {
		return ErrNoWallet
	}
	if !b.locked {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword(b.passwordHash, hashPassword(password)); err != nil {
		return ErrBadPassword
	}
	b.locked = false
	return nil
}

// Mount mounts the renter's drive at location after the configured delay.
func (b *Backend) Mount(ctx context.Context, location string) error {
	b.mu.Lock()
	err := b.canMount(location)
	wait := b.mountWait
	b.mu.Unlock()
	if err != nil {
		return err
	}

	if err := sleep(ctx, wait); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.canMount(location); err != nil {
		return err
	}
	b.mounted = location
	return nil
}

func (b *Backend) canMount(location string) error {
	switch {
	case b.locked || !b.configured:
		return ErrWalletLocked
	case b.mounted != "":
		return ErrAlreadyMounted
	case !contains(b.drives, location):
		return fmt.Errorf("%w: %s", ErrDriveNotOffered, location)
	}
	return nil
}

// Unmount unmounts the drive after the configured delay.
func (b *Backend) Unmount(ctx context.Context) error {
	b.mu.Lock()
	mounted := b.mounted
	wait := b.mountWait
	b.mu.Unlock()
	if mounted == "" {
		return ErrNotMounted
	}

	if err := sleep(ctx, wait); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mounted == "" {
		return ErrNotMounted
	}
	b.mounted = ""
	return nil
}

// Eject drops the mounted drive without a request, the way a volume
// disappears when the user ejects it from the file manager. It reports
// whether a drive was mounted.
func (b *Backend) Eject() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mounted == "" {
		return false
	}
	b.mounted = ""
	return true
}

// Mounted returns the mounted location, or "" when nothing is mounted.
func (b *Backend) Mounted() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mounted
}

// AvailableDrives returns the locations a drive can be mounted at.
func (b *Backend) AvailableDrives() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.availableDrives()
}

func (b *Backend) availableDrives() []string {
	out := make([]string, 0, len(b.drives))
	for _, d := range b.drives {
		if d != b.mounted {
			out = append(out, d)
		}
	}
	return out
}

// SetAllowance replaces the renter allowance.
func (b *Backend) SetAllowance(a bridge.Allowance) error {
	if err := a.Validate(); err != nil {
		return err
	}
	funds, _ := strconv.ParseFloat(a.Funds, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	if funds > b.balance {
		return ErrInsufficient
	}
	b.allowance = a
	return nil
}

// Allowance returns the current renter allowance.
func (b *Backend) Allowance() bridge.Allowance {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.allowance
}

// Tick advances the simulated chain by one block. Renter spending grows
// while a drive is mounted.
func (b *Backend) Tick() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.height++
	allocated, _ := strconv.ParseFloat(b.allowance.Funds, 64)
	if b.mounted != "" && b.spent < allocated {
		b.spent += 0.25
		if b.spent > allocated {
			b.spent = allocated
		}
	}
}

// State returns the updates a running UI is sent on each refresh. Renter,
// wallet and allowance figures are only reported for an unlocked wallet.
func (b *Backend) State() []bridge.Update {
	b.mu.Lock()
	defer b.mu.Unlock()

	updates := []bridge.Update{
		bridge.BlockHeightUpdate{Height: b.height},
		bridge.ServerVersionUpdate{Version: b.serverVersion},
	}
	if !b.configured || b.locked {
		return updates
	}

	if b.address == "" {
		b.address = newAddress()
	}
	allocated, _ := strconv.ParseFloat(b.allowance.Funds, 64)
	used := b.spent * 4
	estimated := allocated * 4
	updates = append(updates,
		bridge.RenterUpdate{Stats: bridge.RenterStats{
			AllocatedFunds: siacoins(allocated),
			UsedFunds:      siacoins(b.spent),
			AvailableFunds: siacoins(allocated - b.spent),
			HostCount:      b.allowance.Hosts,
			EstimatedSpace: gigabytes(estimated),
			UsedSpace:      gigabytes(used),
			AvailableSpace: gigabytes(estimated - used),
			EstimatedCost:  siacoins(allocated / 4),
			DownloadCost:   siacoins(12.5),
			UploadCost:     siacoins(3.75),
		}},
		bridge.WalletUpdate{Stats: bridge.WalletStats{
			ConfirmedBalance:   siacoins(b.balance - b.spent),
			UnconfirmedBalance: siacoins(0),
			TotalBalance:       siacoins(b.balance - b.spent),
			ReceiveAddress:     b.address,
		}},
		bridge.AllowanceUpdate{Allowance: b.allowance},
	)
	if b.mounted == "" {
		updates = append(updates, bridge.DrivesUpdate{Drives: b.availableDrives()})
	}
	return updates
}

// Height returns the simulated block height.
func (b *Backend) Height() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.height
}

// newAddress returns a 76-character hex address.
func newAddress() string {
	var sb strings.Builder
	for sb.Len() < 76 {
		sb.WriteString(strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	return sb.String()[:76]
}

func siacoins(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " SC"
}

func gigabytes(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " GB"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
