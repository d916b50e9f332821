package view

import "testing"

func TestSlots(t *testing.T) {
	s := NewSlots()

	if got := s.Text(SlotTitle); got != "" {
		t.Errorf("unset Text() = %q", got)
	}
	if got := s.TextOr(SlotBlockHeight, "-"); got != "-" {
		t.Errorf("TextOr() = %q, want fallback", got)
	}

	s.SetText(SlotTitle, "SiaDrive v1.0.0")
	s.SetValue(SlotAllowanceFunds, "500")

	if got := s.Text(SlotTitle); got != "SiaDrive v1.0.0" {
		t.Errorf("Text() = %q", got)
	}
	if got := s.Value(SlotAllowanceFunds); got != "500" {
		t.Errorf("Value() = %q", got)
	}
	if got := s.Text(SlotAllowanceFunds); got != "" {
		t.Errorf("text and value slots should be separate, Text() = %q", got)
	}
}
