package kiosk

// ModalFlags are the two independent visibility booleans the kiosk UI renders
// from. Setting one is unconditional; sequencing lives in the flow methods on
// Session, never here.
type ModalFlags struct {
	ShowPaymentModal bool `json:"showPaymentModal"`
	ShowChangeModal  bool `json:"showChangeModal"`
}

// SetPayment toggles the payment modal flag.
func (m *ModalFlags) SetPayment(visible bool) {
	m.ShowPaymentModal = visible
}

// SetChange toggles the change/receipt modal flag.
func (m *ModalFlags) SetChange(visible bool) {
	m.ShowChangeModal = visible
}
