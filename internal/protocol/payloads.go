package protocol

// Snapshot is the environment state carried by hello and environment frames.
type Snapshot struct {
	ClientVersion      string    `json:"clientVersion"`
	IsOnline           bool      `json:"isOnline"`
	IsWalletConfigured bool      `json:"isWalletConfigured"`
	IsWalletLocked     bool      `json:"isWalletLocked"`
	DefaultAllowance   Allowance `json:"defaultRenterSettings"`
}

// Allowance is the renter allowance as the host formats it.
type Allowance struct {
	Funds               string `json:"Funds"`
	Hosts               string `json:"Hosts"`
	Period              string `json:"Period"`
	RenewWindowInBlocks string `json:"RenewWindowInBlocks"`
}

// UnlockArgs are the args of an unlockWallet request.
type UnlockArgs struct {
	Password string `json:"password"`
}

// MountArgs are the args of a mountDrive request.
type MountArgs struct {
	Location string `json:"location"`
}

// AllowanceArgs are the args of a setRenterAllowance request.
type AllowanceArgs struct {
	Allowance Allowance `json:"allowance"`
}

// RenterData is the payload of a renter event.
type RenterData struct {
	AllocatedFunds string `json:"allocatedFunds"`
	UsedFunds      string `json:"usedFunds"`
	AvailableFunds string `json:"availableFunds"`
	HostCount      string `json:"hostCount"`
	EstimatedSpace string `json:"estimatedSpace"`
	UsedSpace      string `json:"usedSpace"`
	AvailableSpace string `json:"availableSpace"`
	EstimatedCost  string `json:"estimatedCost"`
	DownloadCost   string `json:"downloadCost"`
	UploadCost     string `json:"uploadCost"`
}

// WalletData is the payload of a wallet event.
type WalletData struct {
	ConfirmedBalance   string `json:"confirmedBalance"`
	UnconfirmedBalance string `json:"unconfirmedBalance"`
	TotalBalance       string `json:"totalBalance"`
	ReceiveAddress     string `json:"receiveAddress,omitempty"`
}

// BlockHeightData is the payload of a blockHeight event.
type BlockHeightData struct {
	Height uint64 `json:"height"`
}

// ServerVersionData is the payload of a serverVersion event.
type ServerVersionData struct {
	Version string `json:"version"`
}

// DrivesData is the payload of a drives event.
type DrivesData struct {
	Drives []string `json:"drives"`
}
