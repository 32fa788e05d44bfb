package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShiftStatus represents the lifecycle state of a shift.
type ShiftStatus string

const (
	ShiftStatusActive    ShiftStatus = "active"
	ShiftStatusCompleted ShiftStatus = "completed"
	ShiftStatusAbandoned ShiftStatus = "abandoned"
)

// Shift is a bounded work session for one employee, optionally tied to one
// drawer. Completed and abandoned are terminal states.
type Shift struct {
	ID            string
	EmployeeID    string
	DrawerID      *string
	Status        ShiftStatus
	StartTime     time.Time
	EndTime       *time.Time
	OpeningNotes  *string
	ClosingNotes  *string
	HandoverTo    *string
	HandoverNotes *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive reports whether the shift can still be mutated.
func (s *Shift) IsActive() bool {
	return s.Status == ShiftStatusActive
}

// OwnedBy reports whether the shift belongs to the given employee.
func (s *Shift) OwnedBy(employeeID string) bool {
	return s.EmployeeID == employeeID
}

// ShiftBalance tracks one currency over the span of a shift: the opening
// figure supplied at start, and the counted/expected/difference triple
// written at close.
type ShiftBalance struct {
	ShiftID         string
	CurrencyID      string
	OpeningBalance  decimal.Decimal
	ClosingBalance  *decimal.Decimal
	ExpectedClosing *decimal.Decimal
	Difference      *decimal.Decimal
}

// ShiftSummary aggregates the shift's completed exchange transactions. It is
// created zeroed at shift start and overwritten from a fresh aggregate query
// at shift end, never incremented piecemeal.
type ShiftSummary struct {
	ShiftID               string
	TotalTransactions     int64
	CancelledTransactions int64
	TotalProfit           decimal.Decimal
	TotalCommission       decimal.Decimal
	TotalVolumeIn         decimal.Decimal
	TotalVolumeOut        decimal.Decimal
	UpdatedAt             time.Time
}

// NewShiftSummary returns a zeroed summary for a freshly started shift.
func NewShiftSummary(shiftID string, now time.Time) *ShiftSummary {
	return &ShiftSummary{
		ShiftID:         shiftID,
		TotalProfit:     decimal.Zero,
		TotalCommission: decimal.Zero,
		TotalVolumeIn:   decimal.Zero,
		TotalVolumeOut:  decimal.Zero,
		UpdatedAt:       now,
	}
}
