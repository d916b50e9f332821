package bridge

import (
	"errors"
	"strings"
	"testing"
)

func TestAllowanceValidate(t *testing.T) {
	valid := Allowance{Funds: "500", Hosts: "50", Period: "4032", RenewWindowInBlocks: "1008"}

	tests := []struct {
		name    string
		mutate  func(a *Allowance)
		wantErr string
	}{
		{"valid", func(a *Allowance) {}, ""},
		{"fractional funds", func(a *Allowance) { a.Funds = "12.5" }, ""},
		{"padded values", func(a *Allowance) { a.Hosts = " 10 " }, ""},
		{"funds not numeric", func(a *Allowance) { a.Funds = "lots" }, "funds"},
		{"funds zero", func(a *Allowance) { a.Funds = "0" }, "greater than zero"},
		{"funds negative", func(a *Allowance) { a.Funds = "-3" }, "greater than zero"},
		{"hosts zero", func(a *Allowance) { a.Hosts = "0" }, "hosts"},
		{"hosts fractional", func(a *Allowance) { a.Hosts = "2.5" }, "hosts"},
		{"period empty", func(a *Allowance) { a.Period = "" }, "period"},
		{"renew too large", func(a *Allowance) { a.RenewWindowInBlocks = "5000" }, "shorter"},
		{"renew equals period", func(a *Allowance) { a.RenewWindowInBlocks = "4032" }, "shorter"},
		{"hosts overflow", func(a *Allowance) { a.Hosts = "99999999999" }, "hosts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateKinds(t *testing.T) {
	kinds := map[string]Update{
		"renter":         RenterUpdate{},
		"wallet":         WalletUpdate{},
		"blockHeight":    BlockHeightUpdate{},
		"serverVersion":  ServerVersionUpdate{},
		"drives":         DrivesUpdate{},
		"allowance":      AllowanceUpdate{},
		"driveUnmounted": DriveUnmountedUpdate{},
		"environment":    EnvironmentUpdate{},
	}
	for want, u := range kinds {
		if got := u.Kind(); got != want {
			t.Errorf("%T.Kind() = %q, want %q", u, got, want)
		}
	}
}

func TestBridgeErrorHelpers(t *testing.T) {
	cause := errors.New("broken pipe")
	err := NewRejectedError("unlockWallet", "request not sent", cause)

	if !IsRejected(err) {
		t.Error("IsRejected() = false")
	}
	if IsClosed(err) {
		t.Error("IsClosed() = true for rejection")
	}
	if !errors.Is(err, cause) {
		t.Error("rejection should unwrap to its cause")
	}
	if got := err.Error(); got != "Rejected (unlockWallet): request not sent: broken pipe" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := NewRejectedError("unlockWallet", "closed", ErrClosed)
	if !IsClosed(ErrClosed) || !IsClosed(wrapped.Err) {
		t.Error("ErrClosed should report IsClosed")
	}
	if !IsTransport(NewTransportError("", "dial", nil)) {
		t.Error("IsTransport() = false")
	}
}
