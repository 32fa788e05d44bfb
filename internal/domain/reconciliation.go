package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VarianceStatus classifies a counted-vs-expected difference.
type VarianceStatus string

const (
	VarianceBalanced VarianceStatus = "balanced"
	VarianceOver     VarianceStatus = "over"
	VarianceShort    VarianceStatus = "short"
)

// ReconciliationTolerance is the fixed absolute tolerance applied uniformly
// across all currencies. An absolute amount rather than a percentage, so
// high- and low-denomination currencies behave the same.
var ReconciliationTolerance = decimal.NewFromFloat(0.01)

// Classify compares a counted balance against the expected balance and
// returns the signed difference and its classification. Differences within
// the tolerance count as balanced.
func Classify(expected, actual decimal.Decimal) (decimal.Decimal, VarianceStatus) {
	difference := actual.Sub(expected)

	switch {
	case difference.Abs().LessThanOrEqual(ReconciliationTolerance):
		return difference, VarianceBalanced
	case difference.IsPositive():
		return difference, VarianceOver
	default:
		return difference, VarianceShort
	}
}

// Reconciliation records one comparison of expected vs physically counted
// cash for a drawer and currency. Rows are append-only.
type Reconciliation struct {
	ID              string
	DrawerID        string
	CurrencyID      string
	ShiftID         *string
	ExpectedBalance decimal.Decimal
	ActualBalance   decimal.Decimal
	Difference      decimal.Decimal
	Status          VarianceStatus
	Notes           *string
	ReconciledBy    string
	CreatedAt       time.Time
}
