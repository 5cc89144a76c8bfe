package kiosk

import "github.com/vendstack/kiosk-backend/internal/machine"

// TransactionStore holds at most the latest settled transaction for receipt
// display. Each new transaction replaces the previous one whole.
type TransactionStore struct {
	current *machine.Transaction
}

// Set replaces the stored transaction unconditionally.
func (t *TransactionStore) Set(tx *machine.Transaction) {
	t.current = tx
}

// Reset clears the stored transaction.
func (t *TransactionStore) Reset() {
	t.current = nil
}

// Get returns the stored transaction, or nil when none is held.
func (t *TransactionStore) Get() *machine.Transaction {
	return t.current
}
