package kiosk

// State is the payment flow position of one kiosk session. It is an explicit
// machine rather than a set of booleans: the modal flags mirror it for
// display, but transitions are decided here alone.
type State int

const (
	// StateIdle means no payment attempt is in progress.
	StateIdle State = iota
	// StateTendering means the payment modal is open and money is being inserted.
	StateTendering
	// StateSubmitting means a purchase request is in flight to the vending backend.
	StateSubmitting
	// StateReceiptLoading means the purchase settled and the change modal is
	// pacing its reveal.
	StateReceiptLoading
	// StateReceiptReady means the full receipt is on display until dismissed
	// or the countdown expires.
	StateReceiptReady
	// StateRejected means the backend refused the purchase; it behaves like
	// Tendering with the rejection message retained for display.
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTendering:
		return "tendering"
	case StateSubmitting:
		return "submitting"
	case StateReceiptLoading:
		return "receipt_loading"
	case StateReceiptReady:
		return "receipt_ready"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}

// tendering reports whether money insertion and pay are currently allowed.
func (s State) tendering() bool {
	return s == StateTendering || s == StateRejected
}

// receiptShowing reports whether the change modal owns the session.
func (s State) receiptShowing() bool {
	return s == StateReceiptLoading || s == StateReceiptReady
}
