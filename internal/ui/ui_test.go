package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestHeaderRendersParamsInOrder(t *testing.T) {
	h := NewHeader("Unlock Wallet", "siadrive-ui unlock", []Field{
		{Key: "Bridge", Value: "ws://192.168.1.20:9981/bridge"},
		{Key: "Timeout", Value: "2m0s"},
	}).SetWidth(80)

	out := h.Render()
	for _, want := range []string{"UNLOCK WALLET", "siadrive-ui unlock", "Bridge:", "ws://192.168.1.20:9981/bridge"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Bridge:") > strings.Index(out, "Timeout:") {
		t.Errorf("params rendered out of order:\n%s", out)
	}
}

func TestResultRender(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
		absent []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("Wallet unlocked", []Field{{Key: "Height", Value: "120000"}}),
			want:   []string{"SUCCESS", "Wallet unlocked", "Height:", "120000"},
			absent: []string{"Troubleshooting"},
		},
		{
			name:   "warning",
			result: NewWarningResult("Wallet locked", nil).AddDetail("Online", "yes"),
			want:   []string{"WARNING", "Wallet locked", "Online:", "yes"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Unlock failed", errors.New("wrong password"), []string{"Check the password"}),
			want:   []string{"FAILED", "Unlock failed", "Error: wrong password", "Troubleshooting:", "Check the password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(80).Render()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("missing %q:\n%s", want, out)
				}
			}
			for _, absent := range tt.absent {
				if strings.Contains(out, absent) {
					t.Errorf("unexpected %q:\n%s", absent, out)
				}
			}
		})
	}
}

func TestProgressPercent(t *testing.T) {
	p := NewProgress([]string{"Connect to host", "Check wallet", "Unlock wallet", "Wait"})

	p.UpdateStep(1, StepRunning, "")
	if p.Current != 1 || p.Percent != 0 {
		t.Fatalf("Current=%d Percent=%v, want 1 and 0", p.Current, p.Percent)
	}
	p.UpdateStep(1, StepComplete, "")
	p.UpdateStep(2, StepSkipped, "")
	if p.Percent != 0.5 {
		t.Errorf("Percent = %v, want 0.5", p.Percent)
	}
	p.UpdateStep(3, StepFailed, "")
	if p.Percent != 0.5 {
		t.Errorf("failed step counted: Percent = %v", p.Percent)
	}

	p.UpdateStep(0, StepComplete, "")
	p.UpdateStep(9, StepComplete, "")
	if p.Percent != 0.5 {
		t.Errorf("out of range update changed Percent to %v", p.Percent)
	}

	out := p.Render()
	if !strings.Contains(out, "[2/4] Check wallet") {
		t.Errorf("step line missing:\n%s", out)
	}
}

func TestRunnerSuccess(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(RunnerConfig{
		Title:        "Unlock Wallet",
		Command:      "siadrive-ui unlock",
		StepNames:    []string{"Connect to host", "Unlock wallet"},
		SuccessTitle: "Wallet unlocked",
		Output:       &buf,
		Width:        80,
	})

	details, err := r.Run(func(onStep StepCallback) ([]Field, error) {
		onStep(1, "", StepRunning, "")
		onStep(1, "", StepComplete, "ws://host:9981/bridge")
		onStep(2, "Unlock wallet (remote)", StepComplete, "")
		return []Field{{Key: "Height", Value: "120000"}}, nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(details) != 1 {
		t.Errorf("details = %v", details)
	}

	out := buf.String()
	for _, want := range []string{"UNLOCK WALLET", "[1/2] Connect to host", "(ws://host:9981/bridge)", "Unlock wallet (remote)", "Wallet unlocked", "120000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "Connect to host") != 1 {
		t.Errorf("running step should not be printed:\n%s", out)
	}
	if r.Progress().Percent != 1 {
		t.Errorf("Percent = %v, want 1", r.Progress().Percent)
	}
}

func TestRunnerFailure(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(RunnerConfig{
		Title:           "Unlock Wallet",
		Command:         "siadrive-ui unlock",
		StepNames:       []string{"Connect to host"},
		Troubleshooting: []string{"Is the host running?"},
		Output:          &buf,
		Width:           80,
	})

	boom := errors.New("connection refused")
	_, err := r.Run(func(onStep StepCallback) ([]Field, error) {
		onStep(1, "", StepFailed, "")
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}

	out := buf.String()
	for _, want := range []string{"FAILED", "connection refused", "Is the host running?"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(70)

	p.PrintHeader("Host Status", "siadrive-ui status", []Field{{Key: "Bridge", Value: "ws://h/bridge"}})
	p.PrintWarning("Wallet locked", []Field{{Key: "Online", Value: "yes"}})

	out := buf.String()
	for _, want := range []string{"HOST STATUS", "ws://h/bridge", "WARNING", "Wallet locked"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStepLinesMarkEveryStatus(t *testing.T) {
	tests := []struct {
		status StepStatus
		marker string
	}{
		{StepPending, "·"},
		{StepRunning, "●"},
		{StepComplete, "✓"},
		{StepFailed, "✗"},
		{StepSkipped, "⊘"},
	}

	p := NewProgress([]string{"Check wallet"})
	for _, tt := range tests {
		line := p.RenderStep(Step{Number: 1, Name: "Check wallet", Status: tt.status})
		if !strings.HasSuffix(strings.TrimSpace(line), tt.marker) {
			t.Errorf("status %d line = %q, want marker %q", tt.status, line, tt.marker)
		}
	}
}
