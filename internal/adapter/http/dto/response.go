package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

// ShiftResponse represents a shift in API responses.
type ShiftResponse struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	DrawerID      *string    `json:"drawer_id,omitempty"`
	Status        string     `json:"status"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	OpeningNotes  *string    `json:"opening_notes,omitempty"`
	ClosingNotes  *string    `json:"closing_notes,omitempty"`
	HandoverTo    *string    `json:"handover_to,omitempty"`
	HandoverNotes *string    `json:"handover_notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ShiftFromDomain converts a domain shift to a response.
func ShiftFromDomain(s *domain.Shift) *ShiftResponse {
	return &ShiftResponse{
		ID:            s.ID,
		EmployeeID:    s.EmployeeID,
		DrawerID:      s.DrawerID,
		Status:        string(s.Status),
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		OpeningNotes:  s.OpeningNotes,
		ClosingNotes:  s.ClosingNotes,
		HandoverTo:    s.HandoverTo,
		HandoverNotes: s.HandoverNotes,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ShiftSummaryResponse represents a shift summary in API responses.
type ShiftSummaryResponse struct {
	ShiftID               string          `json:"shift_id"`
	TotalTransactions     int64           `json:"total_transactions"`
	CancelledTransactions int64           `json:"cancelled_transactions"`
	TotalProfit           decimal.Decimal `json:"total_profit"`
	TotalCommission       decimal.Decimal `json:"total_commission"`
	TotalVolumeIn         decimal.Decimal `json:"total_volume_in"`
	TotalVolumeOut        decimal.Decimal `json:"total_volume_out"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// SummaryFromDomain converts a domain shift summary to a response.
func SummaryFromDomain(s *domain.ShiftSummary) *ShiftSummaryResponse {
	return &ShiftSummaryResponse{
		ShiftID:               s.ShiftID,
		TotalTransactions:     s.TotalTransactions,
		CancelledTransactions: s.CancelledTransactions,
		TotalProfit:           s.TotalProfit,
		TotalCommission:       s.TotalCommission,
		TotalVolumeIn:         s.TotalVolumeIn,
		TotalVolumeOut:        s.TotalVolumeOut,
		UpdatedAt:             s.UpdatedAt,
	}
}

// ReconciliationResultItem is the per-currency outcome of ending a shift.
type ReconciliationResultItem struct {
	CurrencyID string          `json:"currency_id"`
	Expected   decimal.Decimal `json:"expected"`
	Actual     decimal.Decimal `json:"actual"`
	Difference decimal.Decimal `json:"difference"`
	Status     string          `json:"status"`
}

// EndShiftResponse represents the outcome of ending a shift.
type EndShiftResponse struct {
	Shift       *ShiftResponse             `json:"shift"`
	Summary     *ShiftSummaryResponse      `json:"summary"`
	Results     []ReconciliationResultItem `json:"results"`
	HasVariance bool                       `json:"has_variance"`
}

// EndShiftFromResult converts an EndShift outcome to a response.
func EndShiftFromResult(r *usecase.EndShiftResult) *EndShiftResponse {
	results := make([]ReconciliationResultItem, len(r.Results))
	for i, res := range r.Results {
		results[i] = ReconciliationResultItem{
			CurrencyID: res.CurrencyID,
			Expected:   res.Expected,
			Actual:     res.Actual,
			Difference: res.Difference,
			Status:     string(res.Status),
		}
	}
	return &EndShiftResponse{
		Shift:       ShiftFromDomain(r.Shift),
		Summary:     SummaryFromDomain(r.Summary),
		Results:     results,
		HasVariance: r.HasVariance,
	}
}

// ExpectedBalancesResponse maps currency ID to the projected balance.
type ExpectedBalancesResponse struct {
	ShiftID  string                     `json:"shift_id"`
	Expected map[string]decimal.Decimal `json:"expected"`
}

// DrawerResponse represents a cash drawer in API responses.
type DrawerResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Active         bool             `json:"active"`
	AlertThreshold *decimal.Decimal `json:"alert_threshold,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// DrawerFromDomain converts a domain drawer to a response.
func DrawerFromDomain(d *domain.CashDrawer) *DrawerResponse {
	return &DrawerResponse{
		ID:             d.ID,
		Name:           d.Name,
		Active:         d.Active,
		AlertThreshold: d.AlertThreshold,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// DrawersFromDomain converts domain drawers to responses.
func DrawersFromDomain(drawers []*domain.CashDrawer) []*DrawerResponse {
	result := make([]*DrawerResponse, len(drawers))
	for i, d := range drawers {
		result[i] = DrawerFromDomain(d)
	}
	return result
}

// DrawerBalanceResponse represents one cached drawer balance.
type DrawerBalanceResponse struct {
	CurrencyID string          `json:"currency_id"`
	Balance    decimal.Decimal `json:"balance"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DrawerBalancesFromDomain converts domain balances to responses.
func DrawerBalancesFromDomain(balances []*domain.DrawerBalance) []*DrawerBalanceResponse {
	result := make([]*DrawerBalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = &DrawerBalanceResponse{
			CurrencyID: b.CurrencyID,
			Balance:    b.Balance,
			UpdatedAt:  b.UpdatedAt,
		}
	}
	return result
}

// LedgerEntryResponse represents a ledger entry in API responses.
type LedgerEntryResponse struct {
	ID            string          `json:"id"`
	DrawerID      string          `json:"drawer_id"`
	CurrencyID    string          `json:"currency_id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ReferenceType *string         `json:"reference_type,omitempty"`
	ReferenceID   *string         `json:"reference_id,omitempty"`
	PerformedBy   string          `json:"performed_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain ledger entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:            e.ID,
		DrawerID:      e.DrawerID,
		CurrencyID:    e.CurrencyID,
		Kind:          string(e.Kind),
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		PerformedBy:   e.PerformedBy,
		CreatedAt:     e.CreatedAt,
	}
}

// EntriesFromDomain converts domain ledger entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*LedgerEntryResponse {
	result := make([]*LedgerEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ReconciliationResponse represents a reconciliation record in API responses.
type ReconciliationResponse struct {
	ID              string          `json:"id"`
	DrawerID        string          `json:"drawer_id"`
	CurrencyID      string          `json:"currency_id"`
	ShiftID         *string         `json:"shift_id,omitempty"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
	ActualBalance   decimal.Decimal `json:"actual_balance"`
	Difference      decimal.Decimal `json:"difference"`
	Status          string          `json:"status"`
	Notes           *string         `json:"notes,omitempty"`
	ReconciledBy    string          `json:"reconciled_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ReconciliationFromDomain converts a domain reconciliation to a response.
func ReconciliationFromDomain(r *domain.Reconciliation) *ReconciliationResponse {
	return &ReconciliationResponse{
		ID:              r.ID,
		DrawerID:        r.DrawerID,
		CurrencyID:      r.CurrencyID,
		ShiftID:         r.ShiftID,
		ExpectedBalance: r.ExpectedBalance,
		ActualBalance:   r.ActualBalance,
		Difference:      r.Difference,
		Status:          string(r.Status),
		Notes:           r.Notes,
		ReconciledBy:    r.ReconciledBy,
		CreatedAt:       r.CreatedAt,
	}
}

// ReconciliationsFromDomain converts domain reconciliations to responses.
func ReconciliationsFromDomain(recs []*domain.Reconciliation) []*ReconciliationResponse {
	result := make([]*ReconciliationResponse, len(recs))
	for i, r := range recs {
		result[i] = ReconciliationFromDomain(r)
	}
	return result
}

// BalanceCheckItem is the replay result for one drawer currency.
type BalanceCheckItem struct {
	CurrencyID string          `json:"currency_id"`
	Ledger     decimal.Decimal `json:"ledger"`
	Cached     decimal.Decimal `json:"cached"`
	ChainValid bool            `json:"chain_valid"`
	Match      bool            `json:"match"`
}

// VerificationResponse reports a drawer's ledger replay check.
type VerificationResponse struct {
	DrawerID   string             `json:"drawer_id"`
	Consistent bool               `json:"consistent"`
	Checks     []BalanceCheckItem `json:"checks"`
	CheckedAt  time.Time          `json:"checked_at"`
}

// VerificationFromResult converts a drawer verification to a response.
func VerificationFromResult(v *usecase.DrawerVerification) *VerificationResponse {
	checks := make([]BalanceCheckItem, len(v.Checks))
	for i, c := range v.Checks {
		checks[i] = BalanceCheckItem{
			CurrencyID: c.CurrencyID,
			Ledger:     c.Ledger,
			Cached:     c.Cached,
			ChainValid: c.ChainValid,
			Match:      c.Match,
		}
	}
	return &VerificationResponse{
		DrawerID:   v.DrawerID,
		Consistent: v.Consistent,
		Checks:     checks,
		CheckedAt:  v.CheckedAt,
	}
}

// CurrencyResponse represents a currency in API responses.
type CurrencyResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Active bool   `json:"active"`
}

// CurrencyFromDomain converts a domain currency to a response.
func CurrencyFromDomain(c *domain.Currency) *CurrencyResponse {
	return &CurrencyResponse{
		ID:     c.ID,
		Code:   c.Code,
		Name:   c.Name,
		Symbol: c.Symbol,
		Active: c.Active,
	}
}

// CurrenciesFromDomain converts domain currencies to responses.
func CurrenciesFromDomain(currencies []*domain.Currency) []*CurrencyResponse {
	result := make([]*CurrencyResponse, len(currencies))
	for i, c := range currencies {
		result[i] = CurrencyFromDomain(c)
	}
	return result
}

// EmployeeInfo represents employee information in auth responses.
type EmployeeInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginResponse represents a login response.
type LoginResponse struct {
	Token    string       `json:"token"`
	Employee EmployeeInfo `json:"employee"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
