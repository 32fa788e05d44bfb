package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fxdesk/cashdesk/internal/usecase"
)

// CurrencyAmountItem is one (currency, amount) pair in a request body.
type CurrencyAmountItem struct {
	CurrencyID string          `json:"currency_id"`
	Amount     decimal.Decimal `json:"amount"`
}

func currencyAmounts(items []CurrencyAmountItem) []usecase.CurrencyAmount {
	result := make([]usecase.CurrencyAmount, len(items))
	for i, item := range items {
		result[i] = usecase.CurrencyAmount{
			CurrencyID: item.CurrencyID,
			Amount:     item.Amount,
		}
	}
	return result
}

// StartShiftRequest represents a request to start a shift.
type StartShiftRequest struct {
	DrawerID        *string              `json:"drawer_id,omitempty"`
	OpeningBalances []CurrencyAmountItem `json:"opening_balances"`
	Notes           *string              `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input for the authenticated employee.
func (r *StartShiftRequest) ToUseCaseInput(employeeID string) usecase.StartShiftInput {
	return usecase.StartShiftInput{
		EmployeeID:      employeeID,
		DrawerID:        r.DrawerID,
		OpeningBalances: currencyAmounts(r.OpeningBalances),
		Notes:           r.Notes,
	}
}

// EndShiftRequest represents a request to end a shift.
type EndShiftRequest struct {
	ClosingBalances []CurrencyAmountItem `json:"closing_balances"`
	Notes           *string              `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *EndShiftRequest) ToUseCaseInput(shiftID, actorID string) usecase.EndShiftInput {
	return usecase.EndShiftInput{
		ShiftID:         shiftID,
		ActorID:         actorID,
		ClosingBalances: currencyAmounts(r.ClosingBalances),
		Notes:           r.Notes,
	}
}

// HandoverShiftRequest represents a request to hand a shift over.
type HandoverShiftRequest struct {
	ToEmployeeID string  `json:"to_employee_id"`
	Notes        *string `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *HandoverShiftRequest) ToUseCaseInput(shiftID, actorID string) usecase.HandoverShiftInput {
	return usecase.HandoverShiftInput{
		ShiftID:      shiftID,
		ToEmployeeID: r.ToEmployeeID,
		Notes:        r.Notes,
		ActorID:      actorID,
	}
}

// AbandonShiftRequest represents a request to abandon a shift.
type AbandonShiftRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AbandonShiftRequest) ToUseCaseInput(shiftID, actorID string) usecase.AbandonShiftInput {
	return usecase.AbandonShiftInput{
		ShiftID: shiftID,
		ActorID: actorID,
		Reason:  r.Reason,
	}
}

// CashMovementRequest represents a deposit or withdrawal against a drawer.
type CashMovementRequest struct {
	CurrencyID string          `json:"currency_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// AdjustBalanceRequest represents a manual balance correction.
type AdjustBalanceRequest struct {
	CurrencyID string          `json:"currency_id"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Reason     *string         `json:"reason,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AdjustBalanceRequest) ToUseCaseInput(drawerID, actorID string) usecase.AdjustInput {
	return usecase.AdjustInput{
		DrawerID:   drawerID,
		CurrencyID: r.CurrencyID,
		NewBalance: r.NewBalance,
		ActorID:    actorID,
		Reason:     r.Reason,
	}
}

// ReconcileDrawerRequest represents a standalone drawer count.
type ReconcileDrawerRequest struct {
	CurrencyID    string          `json:"currency_id"`
	ActualBalance decimal.Decimal `json:"actual_balance"`
	Notes         *string         `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReconcileDrawerRequest) ToUseCaseInput(drawerID, actorID string) usecase.ReconcileDrawerInput {
	return usecase.ReconcileDrawerInput{
		DrawerID:      drawerID,
		CurrencyID:    r.CurrencyID,
		ActualBalance: r.ActualBalance,
		ActorID:       actorID,
		Notes:         r.Notes,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
