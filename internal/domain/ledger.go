package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	EntryKindDeposit    EntryKind = "deposit"
	EntryKindWithdrawal EntryKind = "withdrawal"
	EntryKindAdjustment EntryKind = "adjustment"
)

var validEntryKinds = map[EntryKind]bool{
	EntryKindDeposit:    true,
	EntryKindWithdrawal: true,
	EntryKindAdjustment: true,
}

// IsValid checks if the kind is a known entry kind.
func (k EntryKind) IsValid() bool {
	return validEntryKinds[k]
}

// Reference types for ledger entries.
const (
	ReferenceTypeReconciliation = "reconciliation"
	ReferenceTypeShift          = "shift"
)

// LedgerEntry is one immutable record of a cash movement into or out of a
// drawer. Entries are append-only; for any drawer and currency, replaying
// all entries in creation order reproduces the cached DrawerBalance.
type LedgerEntry struct {
	ID            string
	DrawerID      string
	CurrencyID    string
	Kind          EntryKind
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	ReferenceType *string
	ReferenceID   *string
	PerformedBy   string
	CreatedAt     time.Time
}

// SignedAmount returns the entry's effect on the drawer balance. Deposits
// add, withdrawals subtract. Adjustment amounts are stored as signed deltas
// and are returned as-is.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	switch e.Kind {
	case EntryKindWithdrawal:
		return e.Amount.Neg()
	default:
		return e.Amount
	}
}

// ReplayBalance folds entries in order and returns the resulting balance.
// It also verifies the before/after chain of each entry; a broken chain
// returns false.
func ReplayBalance(entries []*LedgerEntry) (decimal.Decimal, bool) {
	balance := decimal.Zero
	for _, e := range entries {
		if !e.BalanceBefore.Equal(balance) {
			return balance, false
		}
		balance = balance.Add(e.SignedAmount())
		if !e.BalanceAfter.Equal(balance) {
			return balance, false
		}
	}
	return balance, true
}
