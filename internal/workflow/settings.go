package workflow

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/siadrive/siadrive-ui/internal/bridge"
)

// Renter settings fields, in focus order.
const (
	FieldFunds = iota
	FieldHosts
	FieldPeriod
	FieldRenewWindow
	fieldCount
)

// FieldLabels are the captions of the renter settings fields.
var FieldLabels = [fieldCount]string{"Funds (SC)", "Hosts", "Period (blocks)", "Renew window (blocks)"}

// RenterForm is the allowance editor.
type RenterForm struct {
	Inputs [fieldCount]textinput.Model
	focus  int
}

// NewRenterForm returns an empty form with the first field focused.
func NewRenterForm() *RenterForm {
	f := &RenterForm{}
	placeholders := [fieldCount]string{"500", "50", "4032", "1008"}
	for i := range f.Inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 32
		in.Width = 30
		f.Inputs[i] = in
	}
	f.setFocus(0)
	return f
}

// Load fills the form from a.
func (f *RenterForm) Load(a bridge.Allowance) {
	f.Inputs[FieldFunds].SetValue(a.Funds)
	f.Inputs[FieldHosts].SetValue(a.Hosts)
	f.Inputs[FieldPeriod].SetValue(a.Period)
	f.Inputs[FieldRenewWindow].SetValue(a.RenewWindowInBlocks)
	f.setFocus(0)
}

// Allowance reads the form.
func (f *RenterForm) Allowance() bridge.Allowance {
	return bridge.Allowance{
		Funds:               f.Inputs[FieldFunds].Value(),
		Hosts:               f.Inputs[FieldHosts].Value(),
		Period:              f.Inputs[FieldPeriod].Value(),
		RenewWindowInBlocks: f.Inputs[FieldRenewWindow].Value(),
	}
}

// Focused returns the index of the focused field.
func (f *RenterForm) Focused() int {
	return f.focus
}

// FocusNext moves focus down, wrapping.
func (f *RenterForm) FocusNext() {
	f.setFocus((f.focus + 1) % fieldCount)
}

// FocusPrev moves focus up, wrapping.
func (f *RenterForm) FocusPrev() {
	f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

func (f *RenterForm) setFocus(i int) {
	f.focus = i
	for j := range f.Inputs {
		if j == i {
			f.Inputs[j].Focus()
		} else {
			f.Inputs[j].Blur()
		}
	}
}

// Update forwards a key message to the focused field.
func (f *RenterForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.Inputs[f.focus], cmd = f.Inputs[f.focus].Update(msg)
	return cmd
}
