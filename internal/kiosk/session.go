package kiosk

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendstack/kiosk-backend/internal/cart"
	"github.com/vendstack/kiosk-backend/internal/machine"
	"github.com/vendstack/kiosk-backend/internal/money"
	"github.com/vendstack/kiosk-backend/pkg/metrics"
)

// Session is one kiosk's in-memory state: cart, tender, modal flags, the
// latest transaction, and the payment flow position. All state lives for one
// storefront session only; nothing is persisted.
//
// Every mutation path runs under the session mutex, which stands in for the
// original single UI thread: events are serialized, and a purchase in flight
// blocks only the payment actions, not cart edits.
type Session struct {
	ID string

	mu          sync.Mutex
	cart        *cart.Store
	money       *money.Store
	modals      ModalFlags
	transaction TransactionStore

	state     State
	rejection string
	tabs      Tabs

	countdownRemaining int
	revealTimer        *time.Timer
	countdownStop      chan struct{}
	// timerGen invalidates timer callbacks from a superseded receipt: a
	// callback already blocked on mu when the timers are re-armed must not
	// touch the new receipt.
	timerGen uint64

	cfg       Config
	purchaser Purchaser
	metrics   *metrics.KioskMetrics
	lastSeen  time.Time
}

// Tabs is the session-scoped submenu selection for the catalog and money
// views.
type Tabs struct {
	Catalog string `json:"catalog"`
	Money   string `json:"money"`
}

func newSession(id string, cfg Config, purchaser Purchaser, m *metrics.KioskMetrics) *Session {
	return &Session{
		ID:        id,
		cart:      cart.NewStore(),
		money:     money.NewStore(),
		state:     StateIdle,
		tabs:      Tabs{Catalog: "all", Money: "overview"},
		cfg:       cfg,
		purchaser: purchaser,
		metrics:   m,
		lastSeen:  time.Now(),
	}
}

// AddToCart merges the item into the cart. Allowed in any flow state: cart
// edits are unrelated controls while a payment is up.
func (s *Session) AddToCart(item cart.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.cart.Add(item)
}

// RemoveFromCart drops the line unconditionally.
func (s *Session) RemoveFromCart(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.cart.Remove(id)
}

// IncrementQuantity raises the line quantity by one.
func (s *Session) IncrementQuantity(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.cart.Increment(id)
}

// DecrementQuantity lowers the line quantity by one, removing the line at zero.
func (s *Session) DecrementQuantity(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.cart.Decrement(id)
}

// UpdateQuantity sets the line quantity directly.
func (s *Session) UpdateQuantity(id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.cart.UpdateQuantity(id, quantity)
}

// ClearCart empties the cart and resets any tendered money. This is the cart
// view's Cancel action and is only meaningful outside a payment attempt.
func (s *Session) ClearCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if s.state != StateIdle {
		return errPaymentInProgress()
	}
	s.cart.Clear()
	s.money.Reset()
	return nil
}

// SetCatalogTab stores the catalog submenu selection.
func (s *Session) SetCatalogTab(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.tabs.Catalog = value
}

// SetMoneyTab stores the money submenu selection.
func (s *Session) SetMoneyTab(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.tabs.Money = value
}

// CartSnapshot is the cart portion of a session snapshot.
type CartSnapshot struct {
	Items []cart.Item     `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// MoneySnapshot is the tender portion of a session snapshot.
type MoneySnapshot struct {
	Total         decimal.Decimal      `json:"total"`
	Denominations []money.Denomination `json:"denominations"`
}

// Snapshot is the full session state the kiosk UI renders from.
type Snapshot struct {
	SessionID        string               `json:"sessionId"`
	State            string               `json:"state"`
	Cart             CartSnapshot         `json:"cart"`
	Money            MoneySnapshot        `json:"money"`
	Modals           ModalFlags           `json:"modals"`
	CountdownSeconds int                  `json:"countdownSeconds"`
	Transaction      *machine.Transaction `json:"transaction,omitempty"`
	RejectionMessage string               `json:"rejectionMessage,omitempty"`
	Tabs             Tabs                 `json:"tabs"`
}

// Snapshot returns a consistent copy of the whole session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	return Snapshot{
		SessionID: s.ID,
		State:     s.state.String(),
		Cart: CartSnapshot{
			Items: s.cart.Items(),
			Total: s.cart.Total(),
		},
		Money: MoneySnapshot{
			Total:         s.money.Total(),
			Denominations: s.money.Denominations(),
		},
		Modals:           s.modals,
		CountdownSeconds: s.countdownRemaining,
		Transaction:      s.transaction.Get(),
		RejectionMessage: s.rejection,
		Tabs:             s.tabs,
	}
}

func (s *Session) touchLocked() {
	s.lastSeen = time.Now()
}

// idleSince reports the last activity timestamp for the reaper.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// close stops any running timers. Called when the registry drops the session.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimersLocked()
}
