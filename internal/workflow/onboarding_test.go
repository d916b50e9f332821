package workflow

import (
	"errors"
	"testing"

	"github.com/siadrive/siadrive-ui/internal/bridge"
	"github.com/siadrive/siadrive-ui/internal/nav"
)

func TestCreateWalletFailureRetries(t *testing.T) {
	s, rec, _ := newTestSession(t, snapNoWallet)
	s.Load()
	o := s.Onboarding

	if s.Nav.Active() != nav.ScreenCreateWallet || !o.CreateArmed() {
		t.Fatalf("active=%s armed=%v", s.Nav.Active(), o.CreateArmed())
	}

	cmd := o.SubmitCreate()
	if o.CreateArmed() {
		t.Error("submit should disarm while creating")
	}
	if o.SubmitCreate() != nil {
		t.Error("second submit while creating should do nothing")
	}
	if rec.Count("createWallet") != 1 {
		t.Errorf("createWallet called %d times", rec.Count("createWallet"))
	}

	rec.Resolve("createWallet", bridge.Failure("insufficient funds"))
	run(t, s, cmd)

	assertAlert(t, s.Modal, "insufficient funds")
	if o.CreateArmed() {
		t.Error("submit should stay disarmed until the alert is acknowledged")
	}

	s.Modal.Acknowledge()
	if s.Nav.Active() != nav.ScreenCreateWallet {
		t.Errorf("active = %s, want create-wallet", s.Nav.Active())
	}
	if !o.CreateArmed() || o.CreateState() != CreateAwaitingSubmit {
		t.Errorf("armed=%v state=%s, want re-armed awaiting submit", o.CreateArmed(), o.CreateState())
	}
}

func TestCreateWalletSuccessShowsSeed(t *testing.T) {
	s, rec, _ := newTestSession(t, snapNoWallet)
	s.Load()
	o := s.Onboarding

	seed := "  Abbey amidst BOMB  cactus\tdaft "
	cmd := o.SubmitCreate()
	rec.Resolve("createWallet", bridge.Success(seed))
	run(t, s, cmd)

	if s.Nav.Active() != nav.ScreenWalletCreated {
		t.Fatalf("active = %s, want wallet-created", s.Nav.Active())
	}
	if o.Seed() != seed {
		t.Errorf("seed = %q, want verbatim %q", o.Seed(), seed)
	}

	o.Advance()
	if s.Nav.Active() != nav.ScreenUnlock || !o.UnlockArmed() {
		t.Errorf("after advance active=%s unlockArmed=%v", s.Nav.Active(), o.UnlockArmed())
	}
	if o.Seed() != "" {
		t.Error("seed should be dropped after advancing")
	}
	if o.Advance() != nil || o.AdvanceArmed() {
		t.Error("advance should be one-shot")
	}
}

func TestUnlockSuccessEntersApp(t *testing.T) {
	s, rec, _ := newTestSession(t, snapLocked)
	s.Load()
	o := s.Onboarding

	o.Password.SetValue("correct horse")
	cmd := o.SubmitUnlock()

	if got := o.Password.Value(); got != "" {
		t.Errorf("password field = %q after submit", got)
	}
	if s.Nav.Active() != nav.ScreenUnlocking {
		t.Errorf("active = %s, want unlocking before the result", s.Nav.Active())
	}
	calls := rec.Calls()
	if last := calls[len(calls)-1]; last.Op != "unlockWallet" || last.Arg != "correct horse" {
		t.Errorf("last call = %+v", last)
	}

	rec.Resolve("unlockWallet", bridge.Success(""))
	run(t, s, cmd)

	if s.Nav.Active() != nav.ScreenApp {
		t.Errorf("active = %s, want app", s.Nav.Active())
	}
	assertOps(t, rec, "stopApp", "unlockWallet", "startApp")
	if o.Password.Value() != "" {
		t.Error("password field should stay empty")
	}
}

func TestUnlockFailureRetries(t *testing.T) {
	s, rec, _ := newTestSession(t, snapLocked)
	s.Load()
	o := s.Onboarding

	o.Password.SetValue("wrong")
	cmd := o.SubmitUnlock()
	if o.UnlockArmed() {
		t.Error("submit should disarm while unlocking")
	}
	if o.SubmitUnlock() != nil {
		t.Error("second submit while unlocking should do nothing")
	}

	rec.Resolve("unlockWallet", bridge.Failure("invalid password"))
	run(t, s, cmd)

	assertAlert(t, s.Modal, "invalid password")
	if o.Password.Value() != "" {
		t.Error("password field should be empty after failure")
	}

	s.Modal.Acknowledge()
	if s.Nav.Active() != nav.ScreenUnlock || !o.UnlockArmed() {
		t.Errorf("after ack active=%s armed=%v", s.Nav.Active(), o.UnlockArmed())
	}
	if rec.Count("startApp") != 0 {
		t.Error("failed unlock must not start the app")
	}
}

func TestUnlockRejectedSynchronously(t *testing.T) {
	s, rec, _ := newTestSession(t, snapLocked)
	s.Load()
	o := s.Onboarding
	rec.UnlockErr = bridge.NewRejectedError("unlockWallet", "request not sent", errors.New("broken pipe"))

	o.Password.SetValue("secret")
	if cmd := o.SubmitUnlock(); cmd != nil {
		t.Error("rejected unlock should not wait for a result")
	}

	if o.Password.Value() != "" {
		t.Error("password field should be empty after rejection")
	}
	if s.Nav.Active() != nav.ScreenUnlock {
		t.Errorf("active = %s, want unlock", s.Nav.Active())
	}
	if o.UnlockState() != UnlockAwaitingSubmit {
		t.Errorf("state = %s", o.UnlockState())
	}
	if !s.Modal.Active() {
		t.Fatal("expected an alert")
	}

	rec.UnlockErr = nil
	s.Modal.Acknowledge()
	if !o.UnlockArmed() {
		t.Error("submit should re-arm after the rejection is acknowledged")
	}
}

func TestPasswordNeverRetained(t *testing.T) {
	outcomes := []struct {
		name    string
		reject  error
		resolve *bridge.Result
	}{
		{"success", nil, &bridge.Result{OK: true}},
		{"failure", nil, &bridge.Result{Reason: "bad"}},
		{"rejected", errors.New("closed"), nil},
	}
	for _, tt := range outcomes {
		t.Run(tt.name, func(t *testing.T) {
			s, rec, _ := newTestSession(t, snapLocked)
			s.Load()
			rec.UnlockErr = tt.reject

			s.Onboarding.Password.SetValue("p4ss")
			cmd := s.Onboarding.SubmitUnlock()
			if tt.resolve != nil {
				rec.Resolve("unlockWallet", *tt.resolve)
				run(t, s, cmd)
			}
			if got := s.Onboarding.Password.Value(); got != "" {
				t.Errorf("password field = %q", got)
			}
		})
	}
}

func TestStaleResultsDropped(t *testing.T) {
	s, _, _ := newTestSession(t, snapLocked)
	s.Load()

	s.Handle(CreateResultMsg{Result: bridge.Success("seed")})
	s.Handle(UnlockResultMsg{Result: bridge.Success("")})

	if s.Nav.Active() != nav.ScreenUnlock {
		t.Errorf("active = %s, stale results should not navigate", s.Nav.Active())
	}
}
