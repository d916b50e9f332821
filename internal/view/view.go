// Package view holds the named display slots the workflows write into.
//
// A slot is either text (rendered as-is) or a value (the contents of an
// editable field). The terminal front end reads them back from Slots when
// it renders.
package view

import "sync"

// Slot names a display field.
type Slot string

const (
	SlotTitle         Slot = "title"
	SlotServerVersion Slot = "serverVersion"
	SlotBlockHeight   Slot = "blockHeight"

	SlotAllocatedFunds Slot = "allocatedFunds"
	SlotUsedFunds      Slot = "usedFunds"
	SlotAvailableFunds Slot = "availableFunds"
	SlotHostCount      Slot = "hostCount"
	SlotEstimatedSpace Slot = "estimatedSpace"
	SlotUsedSpace      Slot = "usedSpace"
	SlotAvailableSpace Slot = "availableSpace"
	SlotEstimatedCost  Slot = "estimatedCost"
	SlotDownloadCost   Slot = "downloadCost"
	SlotUploadCost     Slot = "uploadCost"

	SlotConfirmedBalance   Slot = "confirmedBalance"
	SlotUnconfirmedBalance Slot = "unconfirmedBalance"
	SlotTotalBalance       Slot = "totalBalance"
	SlotReceiveAddress     Slot = "receiveAddress"

	SlotAllowanceFunds       Slot = "allowanceFunds"
	SlotAllowanceHosts       Slot = "allowanceHosts"
	SlotAllowancePeriod      Slot = "allowancePeriod"
	SlotAllowanceRenewWindow Slot = "allowanceRenewWindow"
)

// Binder receives rendered values.
type Binder interface {
	SetText(slot Slot, text string)
	SetValue(slot Slot, value string)
}

// Slots is an in-memory Binder.
type Slots struct {
	mu    sync.RWMutex
	text  map[Slot]string
	value map[Slot]string
}

// NewSlots returns an empty slot store.
func NewSlots() *Slots {
	return &Slots{
		text:  make(map[Slot]string),
		value: make(map[Slot]string),
	}
}

func (s *Slots) SetText(slot Slot, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text[slot] = text
}

func (s *Slots) SetValue(slot Slot, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value[slot] = value
}

// Text returns the text of slot, or "" when it was never set.
func (s *Slots) Text(slot Slot) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text[slot]
}

// Value returns the value of slot, or "" when it was never set.
func (s *Slots) Value(slot Slot) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value[slot]
}

// TextOr returns the text of slot, or fallback when it is empty.
func (s *Slots) TextOr(slot Slot, fallback string) string {
	if t := s.Text(slot); t != "" {
		return t
	}
	return fallback
}

var _ Binder = (*Slots)(nil)
