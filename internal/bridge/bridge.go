package bridge

// EnvironmentReader supplies the environment snapshot.
type EnvironmentReader interface {
	Snapshot() Snapshot
}

// ActionBridge is the set of operations the UI issues against the host.
type ActionBridge interface {
	// StartApp asks the host to begin refreshing UI state.
	StartApp()
	// StopApp asks the host to stop refreshing; sent first at every load.
	StopApp()
	// Shutdown tells the host the UI is going away.
	Shutdown()

	CreateWallet() *Future
	// UnlockWallet returns an error when the request could not even be
	// issued. The returned Future is nil in that case.
	UnlockWallet(password string) (*Future, error)
	MountDrive(location string) *Future
	UnmountDrive() *Future

	SetRenterAllowance(a Allowance)
}

// UpdateSource delivers host pushes. The channel is closed when the
// source goes away.
type UpdateSource interface {
	Updates() <-chan Update
}
