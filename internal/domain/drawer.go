package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashDrawer is a physical cash register tracked per currency.
type CashDrawer struct {
	ID             string
	Name           string
	Active         bool
	AlertThreshold *decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DrawerBalance is the cached per-currency balance of a drawer. It is
// derived state: the ledger entries are the source of truth, and a balance
// row is only ever written together with the entry that produced it.
type DrawerBalance struct {
	DrawerID   string
	CurrencyID string
	Balance    decimal.Decimal
	UpdatedAt  time.Time
}

// BelowThreshold reports whether balance has dropped under the drawer's
// low-balance alert threshold. Drawers without a threshold never alert.
func (d *CashDrawer) BelowThreshold(balance decimal.Decimal) bool {
	if d.AlertThreshold == nil {
		return false
	}
	return balance.LessThan(*d.AlertThreshold)
}
