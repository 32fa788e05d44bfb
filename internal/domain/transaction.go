package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the state of an exchange transaction.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// ExchangeTransaction is a buy/sell recorded against a shift by the
// surrounding point of sale. The core reads it but never writes it. Only
// completed, non-deleted transactions contribute to projections and
// summaries.
type ExchangeTransaction struct {
	ID            string
	ShiftID       string
	CurrencyInID  string
	CurrencyOutID string
	AmountIn      decimal.Decimal
	AmountOut     decimal.Decimal
	Profit        decimal.Decimal
	Commission    decimal.Decimal
	Status        TransactionStatus
	DeletedAt     *time.Time
	CreatedAt     time.Time
}

// Counts reports whether the transaction contributes to balance projections
// and shift summaries.
func (t *ExchangeTransaction) Counts() bool {
	return t.Status == TransactionStatusCompleted && t.DeletedAt == nil
}

// CurrencyFlow is one row of the per-currency-pair aggregate over a shift's
// qualifying transactions: cash received into the drawer in CurrencyInID,
// cash paid out in CurrencyOutID.
type CurrencyFlow struct {
	CurrencyInID  string
	CurrencyOutID string
	TotalIn       decimal.Decimal
	TotalOut      decimal.Decimal
}

// LedgerDelta is one row of the per-currency-and-kind aggregate over a
// drawer's ledger entries within a time window.
type LedgerDelta struct {
	CurrencyID string
	Kind       EntryKind
	Total      decimal.Decimal
}

// Net returns the delta's effect on the expected balance.
func (d *LedgerDelta) Net() decimal.Decimal {
	if d.Kind == EntryKindWithdrawal {
		return d.Total.Neg()
	}
	return d.Total
}
