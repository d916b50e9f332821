package bridge

import (
	"fmt"

	"github.com/siadrive/siadrive-ui/internal/protocol"
)

// SnapshotFromWire converts a hello/environment payload.
func SnapshotFromWire(s protocol.Snapshot) Snapshot {
	return Snapshot{
		ClientVersion:      s.ClientVersion,
		IsOnline:           s.IsOnline,
		IsWalletConfigured: s.IsWalletConfigured,
		IsWalletLocked:     s.IsWalletLocked,
		DefaultAllowance:   AllowanceFromWire(s.DefaultAllowance),
	}
}

// SnapshotToWire converts a Snapshot for a hello/environment frame.
func SnapshotToWire(s Snapshot) protocol.Snapshot {
	return protocol.Snapshot{
		ClientVersion:      s.ClientVersion,
		IsOnline:           s.IsOnline,
		IsWalletConfigured: s.IsWalletConfigured,
		IsWalletLocked:     s.IsWalletLocked,
		DefaultAllowance:   AllowanceToWire(s.DefaultAllowance),
	}
}

// AllowanceFromWire converts a wire allowance.
func AllowanceFromWire(a protocol.Allowance) Allowance {
	return Allowance{
		Funds:               a.Funds,
		Hosts:               a.Hosts,
		Period:              a.Period,
		RenewWindowInBlocks: a.RenewWindowInBlocks,
	}
}

// AllowanceToWire converts an allowance for the wire.
func AllowanceToWire(a Allowance) protocol.Allowance {
	return protocol.Allowance{
		Funds:               a.Funds,
		Hosts:               a.Hosts,
		Period:              a.Period,
		RenewWindowInBlocks: a.RenewWindowInBlocks,
	}
}

// ResultFromWire converts a response frame.
func ResultFromWire(f *protocol.Frame) Result {
	if f.OK {
		return Success(f.Payload)
	}
	reason := f.Reason
	if reason == "" {
		reason = "request failed"
	}
	return Failure(reason)
}

// UpdateFromEvent converts an event frame into an Update.
func UpdateFromEvent(f *protocol.Frame) (Update, error) {
	switch f.Event {
	case protocol.EventRenter:
		var d protocol.RenterData
		if err := f.DecodeData(&d); err != nil {
			return nil, err
		}
		return RenterUpdate{Stats: RenterStats{
			AllocatedFunds: d.AllocatedFunds,
			UsedFunds:      d.UsedFunds,
			AvailableFunds: d.AvailableFunds,
			HostCount:      d.HostCount,
			EstimatedSpace: d.EstimatedSpace,
			UsedSpace:      d.UsedSpace,
			AvailableSpace: d.AvailableSpace,
			EstimatedCost:  d.EstimatedCost,
			DownloadCost:   d.DownloadCost,
			UploadCost:     d.UploadCost,
		}}, nil

	case protocol.EventWallet:
		var d protocol.WalletData
		if err := f.DecodeData(&d); err != nil {
			return nil, err
		}
		return WalletUpdate{Stats: WalletStats{
			ConfirmedBalance:   d.ConfirmedBalance,
			UnconfirmedBalance: d.UnconfirmedBalance,
			TotalBalance:       d.TotalBalance,
			ReceiveAddress:     d.ReceiveAddress,
		}}, nil

	case protocol.EventBlockHeight:
		var d protocol.BlockHeightData
		if err := f.DecodeData(&d); err != nil {
			return nil, err
		}
		return BlockHeightUpdate{Height: d.Height}, nil

	case protocol.EventServerVersion:
		var d protocol.ServerVersionData
		if err := f.DecodeData(&d); err != nil {
			return nil, err
		}
		return ServerVersionUpdate{Version: d.Version}, nil

	case protocol.EventDrives:
		var d protocol.DrivesData
		if err := f.DecodeData(&d); err != nil {
			return nil, err
		}
		return DrivesUpdate{Drives: d.Drives}, nil

	case protocol.EventAllowance:
		var d protocol.Allowance
		if err := f.DecodeData(&d); err != nil {
			return nil, err
		}
		return AllowanceUpdate{Allowance: AllowanceFromWire(d)}, nil

	case protocol.EventDriveUnmounted:
		return DriveUnmountedUpdate{}, nil

	case protocol.EventEnvironment:
		var d protocol.Snapshot
		if err := f.DecodeData(&d); err != nil {
			return nil, err
		}
		return EnvironmentUpdate{Snapshot: SnapshotFromWire(d)}, nil

	default:
		return nil, fmt.Errorf("unhandled event %q", f.Event)
	}
}

// EventFromUpdate builds the event frame for an Update.
func EventFromUpdate(u Update) (*protocol.Frame, error) {
	switch v := u.(type) {
	case RenterUpdate:
		s := v.Stats
		return protocol.NewEvent(protocol.EventRenter, protocol.RenterData{
			AllocatedFunds: s.AllocatedFunds,
			UsedFunds:      s.UsedFunds,
			AvailableFunds: s.AvailableFunds,
			HostCount:      s.HostCount,
			EstimatedSpace: s.EstimatedSpace,
			UsedSpace:      s.UsedSpace,
			AvailableSpace: s.AvailableSpace,
			EstimatedCost:  s.EstimatedCost,
			DownloadCost:   s.DownloadCost,
			UploadCost:     s.UploadCost,
		})
	case WalletUpdate:
		s := v.Stats
		return protocol.NewEvent(protocol.EventWallet, protocol.WalletData{
			ConfirmedBalance:   s.ConfirmedBalance,
			UnconfirmedBalance: s.UnconfirmedBalance,
			TotalBalance:       s.TotalBalance,
			ReceiveAddress:     s.ReceiveAddress,
		})
	case BlockHeightUpdate:
		return protocol.NewEvent(protocol.EventBlockHeight, protocol.BlockHeightData{Height: v.Height})
	case ServerVersionUpdate:
		return protocol.NewEvent(protocol.EventServerVersion, protocol.ServerVersionData{Version: v.Version})
	case DrivesUpdate:
		return protocol.NewEvent(protocol.EventDrives, protocol.DrivesData{Drives: v.Drives})
	case AllowanceUpdate:
		return protocol.NewEvent(protocol.EventAllowance, AllowanceToWire(v.Allowance))
	case DriveUnmountedUpdate:
		return protocol.NewEvent(protocol.EventDriveUnmounted, nil)
	case EnvironmentUpdate:
		return protocol.NewEvent(protocol.EventEnvironment, SnapshotToWire(v.Snapshot))
	default:
		return nil, fmt.Errorf("unhandled update %T", u)
	}
}
