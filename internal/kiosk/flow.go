package kiosk

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendstack/kiosk-backend/internal/machine"
	pkgerrors "github.com/vendstack/kiosk-backend/pkg/errors"
	"github.com/vendstack/kiosk-backend/pkg/metrics"
)

// Purchaser executes one purchase attempt against the vending backend.
type Purchaser interface {
	Purchase(ctx context.Context, req machine.PurchaseRequest) (*machine.Transaction, error)
}

func errPaymentInProgress() error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "payment already in progress")
}

func errNoPaymentInProgress() error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "no payment in progress")
}

// Checkout opens the payment modal and starts a fresh tender. The money store
// is reset on entry so every payment attempt begins from zero.
func (s *Session) Checkout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.state != StateIdle {
		return errPaymentInProgress()
	}
	if !s.cart.Total().IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart total must be positive")
	}

	s.money.Reset()
	s.rejection = ""
	s.modals.SetPayment(true)
	s.state = StateTendering
	return nil
}

// InsertTender records count units of the tapped denomination. The backend is
// the authority on sufficiency, so no upper bound applies here.
func (s *Session) InsertTender(value decimal.Decimal, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if !s.state.tendering() {
		return errNoPaymentInProgress()
	}
	if count <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "count must be positive")
	}
	if !s.cfg.accepts(value) {
		return pkgerrors.New(pkgerrors.CodeValidation, "denomination not accepted").
			WithDetails(map[string]any{"value": value})
	}

	s.money.Add(value, count)
	s.metrics.AddTender(value.String(), count)
	return nil
}

// DeductTender takes back count units of a denomination from the tender tray.
// A take-back larger than what was inserted is refused and leaves the tender
// unchanged.
func (s *Session) DeductTender(value decimal.Decimal, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if !s.state.tendering() {
		return errNoPaymentInProgress()
	}
	if count <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "count must be positive")
	}
	if err := s.money.Deduct(value, count); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "insufficient tender for deduction")
	}
	return nil
}

// Pay submits the purchase built from the current cart and tender. Only one
// submission can be in flight: Pay while Submitting is a state conflict, which
// closes the duplicate-submission gap a double-tapped button would open.
//
// On rejection the tender is retained and the session returns to a tendering
// state so the user can top up and retry; on success the receipt timers start.
func (s *Session) Pay(ctx context.Context) (*machine.Transaction, error) {
	s.mu.Lock()
	s.touchLocked()
	if !s.state.tendering() {
		err := errNoPaymentInProgress()
		if s.state == StateSubmitting {
			err = errPaymentInProgress()
		}
		s.mu.Unlock()
		return nil, err
	}
	if s.cart.Len() == 0 {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	req := s.buildPurchaseRequestLocked()
	s.state = StateSubmitting
	s.rejection = ""
	s.mu.Unlock()

	start := time.Now()
	tx, err := s.purchaser.Purchase(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodePaymentRejected {
			s.metrics.ObservePurchase(metrics.OutcomeRejected, time.Since(start))
			s.state = StateRejected
			s.rejection = typed.Message()
		} else {
			s.metrics.ObservePurchase(metrics.OutcomeFailed, time.Since(start))
			s.state = StateTendering
		}
		// Cart and tender stay untouched for a user-initiated retry.
		return nil, err
	}

	s.metrics.ObservePurchase(metrics.OutcomeAccepted, time.Since(start))
	s.transaction.Set(tx)
	s.modals.SetPayment(false)
	s.modals.SetChange(true)
	s.state = StateReceiptLoading
	s.startReceiptTimersLocked()
	return tx, nil
}

// CancelPayment abandons the tender: money is returned (reset), the payment
// modal closes, and the session goes back to idle.
func (s *Session) CancelPayment() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.state == StateSubmitting {
		return errPaymentInProgress()
	}
	if !s.state.tendering() {
		return errNoPaymentInProgress()
	}

	s.money.Reset()
	s.rejection = ""
	s.modals.SetPayment(false)
	s.state = StateIdle
	return nil
}

// DismissReceipt closes the change modal early. Works during both the reveal
// delay and the ready display; either way the session is finalized.
func (s *Session) DismissReceipt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if !s.state.receiptShowing() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no receipt on display")
	}
	s.finalizeLocked()
	return nil
}

func (s *Session) buildPurchaseRequestLocked() machine.PurchaseRequest {
	items := s.cart.Items()
	lines := make([]machine.PurchaseLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, machine.PurchaseLine{ProductID: item.ID, Quantity: item.Quantity})
	}

	denominations := make([]machine.DenominationCount, 0)
	for _, d := range s.money.Denominations() {
		denominations = append(denominations, machine.DenominationCount{Value: d.Value, Count: d.Count})
	}

	return machine.PurchaseRequest{
		Products:      lines,
		TotalPaid:     s.money.Total(),
		Denominations: denominations,
	}
}

// startReceiptTimersLocked arms the reveal timer and the countdown. Both are
// owned by the receipt states and must be stopped on every exit path.
func (s *Session) startReceiptTimersLocked() {
	s.stopTimersLocked()
	s.timerGen++
	gen := s.timerGen

	s.countdownRemaining = int(s.cfg.ReceiptCountdown / time.Second)
	s.revealTimer = time.AfterFunc(s.cfg.RevealDelay, func() { s.revealReceipt(gen) })

	stop := make(chan struct{})
	s.countdownStop = stop
	go s.runCountdown(stop, gen)
}

// stopTimersLocked cancels both receipt timers. Safe to call repeatedly.
func (s *Session) stopTimersLocked() {
	if s.revealTimer != nil {
		s.revealTimer.Stop()
		s.revealTimer = nil
	}
	if s.countdownStop != nil {
		close(s.countdownStop)
		s.countdownStop = nil
	}
}

// revealReceipt flips ReceiptLoading to ReceiptReady once the pacing delay
// elapses. Fired from the reveal timer; a stale generation or a session
// already past the loading state ignores it.
func (s *Session) revealReceipt(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.timerGen {
		return
	}
	if s.state == StateReceiptLoading {
		s.state = StateReceiptReady
	}
}

func (s *Session) runCountdown(stop <-chan struct{}, gen uint64) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if s.countdownTick(gen) {
				return
			}
		}
	}
}

// countdownTick advances the receipt countdown by one second and finalizes
// the session when it reaches zero. Returns true once the countdown is done
// or the tick belongs to a superseded receipt.
func (s *Session) countdownTick(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.timerGen {
		return true
	}
	if !s.state.receiptShowing() {
		return true
	}
	s.countdownRemaining--
	if s.countdownRemaining > 0 {
		return false
	}
	s.finalizeLocked()
	return true
}

// finalizeLocked ends the receipt display: timers stopped, cart cleared,
// tender reset, change modal closed, back to idle.
func (s *Session) finalizeLocked() {
	s.stopTimersLocked()
	s.cart.Clear()
	s.money.Reset()
	s.transaction.Reset()
	s.modals.SetChange(false)
	s.rejection = ""
	s.countdownRemaining = 0
	s.state = StateIdle
}
