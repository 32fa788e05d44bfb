package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/infrastructure/metrics"
)

// ShiftUseCase drives the shift lifecycle: start, end, handover, abandon.
// It orchestrates the projector, the reconciliation records and the ledger;
// every transition is a single database transaction.
type ShiftUseCase struct {
	txManager          TransactionManager
	shiftRepo          ShiftRepository
	drawerRepo         DrawerRepository
	currencyRepo       CurrencyRepository
	employeeRepo       EmployeeRepository
	transactionRepo    TransactionRepository
	reconciliationRepo ReconciliationRepository
	projectionUC       *ProjectionUseCase
	auditRepo          AuditRepository
	idGen              IDGenerator
	metrics            *metrics.Metrics
}

// NewShiftUseCase creates a new ShiftUseCase.
func NewShiftUseCase(
	txManager TransactionManager,
	shiftRepo ShiftRepository,
	drawerRepo DrawerRepository,
	currencyRepo CurrencyRepository,
	employeeRepo EmployeeRepository,
	transactionRepo TransactionRepository,
	reconciliationRepo ReconciliationRepository,
	projectionUC *ProjectionUseCase,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *ShiftUseCase {
	return &ShiftUseCase{
		txManager:          txManager,
		shiftRepo:          shiftRepo,
		drawerRepo:         drawerRepo,
		currencyRepo:       currencyRepo,
		employeeRepo:       employeeRepo,
		transactionRepo:    transactionRepo,
		reconciliationRepo: reconciliationRepo,
		projectionUC:       projectionUC,
		auditRepo:          auditRepo,
		idGen:              idGen,
		metrics:            m,
	}
}

// CurrencyAmount is one (currency, amount) pair supplied when opening or
// closing a shift.
type CurrencyAmount struct {
	CurrencyID string
	Amount     decimal.Decimal
}

// StartShiftInput represents input for starting a shift.
type StartShiftInput struct {
	EmployeeID      string
	DrawerID        *string
	OpeningBalances []CurrencyAmount
	Notes           *string
}

// StartShift opens a new active shift for an employee. The storage layer's
// partial unique index makes the has-active-shift check and the insert one
// atomic step: a second concurrent start loses with ErrShiftAlreadyActive.
func (uc *ShiftUseCase) StartShift(ctx context.Context, input StartShiftInput) (*domain.Shift, error) {
	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, err
	}

	employee, err := uc.employeeRepo.GetByID(ctx, input.EmployeeID)
	if err != nil {
		return nil, err
	}

	if input.DrawerID != nil {
		drawer, err := uc.drawerRepo.GetByID(ctx, *input.DrawerID)
		if err != nil {
			return nil, err
		}
		if !drawer.Active {
			return nil, domain.ErrDrawerInactive
		}
	}

	for _, ob := range input.OpeningBalances {
		if ob.Amount.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		currency, err := uc.currencyRepo.GetByID(ctx, ob.CurrencyID)
		if err != nil {
			return nil, err
		}
		if !currency.Active {
			return nil, domain.ErrCurrencyInactive
		}
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()

	shift := &domain.Shift{
		ID:           uc.idGen.Generate(),
		EmployeeID:   employee.ID,
		DrawerID:     input.DrawerID,
		Status:       domain.ShiftStatusActive,
		StartTime:    now,
		OpeningNotes: input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.shiftRepo.Create(txCtx, tx, shift); err != nil {
		return nil, err
	}

	if err := uc.shiftRepo.CreateSummary(txCtx, tx, domain.NewShiftSummary(shift.ID, now)); err != nil {
		return nil, err
	}

	for _, ob := range input.OpeningBalances {
		balance := &domain.ShiftBalance{
			ShiftID:        shift.ID,
			CurrencyID:     ob.CurrencyID,
			OpeningBalance: ob.Amount,
		}
		if err := uc.shiftRepo.CreateBalance(txCtx, tx, balance); err != nil {
			return nil, err
		}
	}

	auditLog := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      employee.ID,
		Action:       string(domain.AuditActionShiftStart),
		ResourceType: "shift",
		ResourceID:   shift.ID,
		NewValues:    domain.MarshalState(shift),
		Severity:     domain.AuditSeverityInfo,
		CreatedAt:    now,
	}
	if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ShiftsStarted.Inc()
	}

	return shift, nil
}

// ReconciliationResult is the per-currency outcome of ending a shift.
type ReconciliationResult struct {
	CurrencyID string
	Expected   decimal.Decimal
	Actual     decimal.Decimal
	Difference decimal.Decimal
	Status     domain.VarianceStatus
}

// EndShiftResult is what the caller gets back from EndShift. Variance is a
// normal, reportable outcome, never an error.
type EndShiftResult struct {
	Shift       *domain.Shift
	Summary     *domain.ShiftSummary
	Results     []ReconciliationResult
	HasVariance bool
}

// EndShiftInput represents input for ending a shift.
type EndShiftInput struct {
	ShiftID         string
	ActorID         string
	ClosingBalances []CurrencyAmount
	Notes           *string
}

// EndShift closes an active shift: projects expected balances, classifies
// the counted amounts, records reconciliations when a drawer is assigned,
// recomputes the summary from a fresh aggregate, and marks the shift
// completed. The whole sequence runs in one transaction with the shift row
// locked, so no transaction or ledger write lands mid-calculation.
func (uc *ShiftUseCase) EndShift(ctx context.Context, input EndShiftInput) (*EndShiftResult, error) {
	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, err
	}
	for _, cb := range input.ClosingBalances {
		if cb.Amount.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
	}

	actor, err := uc.employeeRepo.GetByID(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	shift, err := uc.shiftRepo.GetByIDForUpdate(txCtx, tx, input.ShiftID)
	if err != nil {
		return nil, err
	}
	if !shift.IsActive() {
		return nil, domain.ErrShiftNotActive
	}
	if !shift.OwnedBy(actor.ID) && !actor.Role.Elevated() {
		return nil, domain.ErrForbidden
	}

	expected, err := uc.projectionUC.ExpectedBalancesTx(txCtx, tx, shift)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	result := &EndShiftResult{Shift: shift}

	for _, cb := range input.ClosingBalances {
		expectedAmount := expected[cb.CurrencyID]
		difference, status := domain.Classify(expectedAmount, cb.Amount)

		closing := cb.Amount
		expectedClosing := expectedAmount
		diff := difference

		balance := &domain.ShiftBalance{
			ShiftID:         shift.ID,
			CurrencyID:      cb.CurrencyID,
			ClosingBalance:  &closing,
			ExpectedClosing: &expectedClosing,
			Difference:      &diff,
		}
		if err := uc.shiftRepo.UpsertBalanceClose(txCtx, tx, balance); err != nil {
			return nil, err
		}

		if shift.DrawerID != nil {
			reconciliation := &domain.Reconciliation{
				ID:              uc.idGen.Generate(),
				DrawerID:        *shift.DrawerID,
				CurrencyID:      cb.CurrencyID,
				ShiftID:         &shift.ID,
				ExpectedBalance: expectedAmount,
				ActualBalance:   cb.Amount,
				Difference:      difference,
				Status:          status,
				Notes:           input.Notes,
				ReconciledBy:    actor.ID,
				CreatedAt:       now,
			}
			if err := uc.reconciliationRepo.Create(txCtx, tx, reconciliation); err != nil {
				return nil, err
			}
		}

		if status != domain.VarianceBalanced {
			result.HasVariance = true
		}

		result.Results = append(result.Results, ReconciliationResult{
			CurrencyID: cb.CurrencyID,
			Expected:   expectedAmount,
			Actual:     cb.Amount,
			Difference: difference,
			Status:     status,
		})
	}

	// Fresh aggregate, never incremented piecemeal: recomputing from the
	// committed transactions cannot drift.
	summary, err := uc.transactionRepo.AggregateSummary(txCtx, tx, shift.ID)
	if err != nil {
		return nil, err
	}
	summary.ShiftID = shift.ID
	summary.UpdatedAt = now
	if err := uc.shiftRepo.ReplaceSummary(txCtx, tx, summary); err != nil {
		return nil, err
	}
	result.Summary = summary

	shift.Status = domain.ShiftStatusCompleted
	shift.EndTime = &now
	shift.ClosingNotes = input.Notes
	shift.UpdatedAt = now
	if err := uc.shiftRepo.UpdateClose(txCtx, tx, shift); err != nil {
		return nil, err
	}

	severity := domain.AuditSeverityInfo
	if result.HasVariance {
		severity = domain.AuditSeverityWarning
	}
	auditLog := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actor.ID,
		Action:       string(domain.AuditActionShiftEnd),
		ResourceType: "shift",
		ResourceID:   shift.ID,
		OldValues:    domain.JSON{"status": string(domain.ShiftStatusActive)},
		NewValues:    domain.MarshalState(shift),
		Severity:     severity,
		CreatedAt:    now,
	}
	if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.projectionUC.InvalidatePreview(ctx, shift.ID)

	if uc.metrics != nil {
		uc.metrics.ShiftsEnded.Inc()
		uc.metrics.ShiftDuration.Observe(now.Sub(shift.StartTime).Hours())
		if result.HasVariance {
			uc.metrics.ShiftVariances.Inc()
		}
	}

	return result, nil
}

// HandoverShiftInput represents input for handing a shift over.
type HandoverShiftInput struct {
	ShiftID      string
	ToEmployeeID string
	Notes        *string
	ActorID      string
}

// HandoverShift records a handover link on the source shift and atomically
// opens a new shift for the target employee on the same drawer. The new
// shift inherits the source shift's opening balances, not its current
// counted cash. The source shift stays active.
func (uc *ShiftUseCase) HandoverShift(ctx context.Context, input HandoverShiftInput) (*domain.Shift, error) {
	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, err
	}

	target, err := uc.employeeRepo.GetByID(ctx, input.ToEmployeeID)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	source, err := uc.shiftRepo.GetByIDForUpdate(txCtx, tx, input.ShiftID)
	if err != nil {
		return nil, err
	}
	if !source.IsActive() {
		return nil, domain.ErrShiftNotActive
	}

	now := time.Now().UTC()

	newShift := &domain.Shift{
		ID:         uc.idGen.Generate(),
		EmployeeID: target.ID,
		DrawerID:   source.DrawerID,
		Status:     domain.ShiftStatusActive,
		StartTime:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.shiftRepo.Create(txCtx, tx, newShift); err != nil {
		if errors.Is(err, domain.ErrShiftAlreadyActive) {
			return nil, domain.ErrTargetShiftActive
		}
		return nil, err
	}

	if err := uc.shiftRepo.CreateSummary(txCtx, tx, domain.NewShiftSummary(newShift.ID, now)); err != nil {
		return nil, err
	}

	sourceBalances, err := uc.shiftRepo.GetBalances(txCtx, tx, source.ID)
	if err != nil {
		return nil, err
	}
	for _, sb := range sourceBalances {
		balance := &domain.ShiftBalance{
			ShiftID:        newShift.ID,
			CurrencyID:     sb.CurrencyID,
			OpeningBalance: sb.OpeningBalance,
		}
		if err := uc.shiftRepo.CreateBalance(txCtx, tx, balance); err != nil {
			return nil, err
		}
	}

	if err := uc.shiftRepo.UpdateHandover(txCtx, tx, source.ID, target.ID, input.Notes, now); err != nil {
		return nil, err
	}

	auditLog := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      input.ActorID,
		Action:       string(domain.AuditActionShiftHandover),
		ResourceType: "shift",
		ResourceID:   source.ID,
		OldValues:    domain.JSON{"employee_id": source.EmployeeID},
		NewValues:    domain.JSON{"handover_to": target.ID, "new_shift_id": newShift.ID},
		Severity:     domain.AuditSeverityInfo,
		CreatedAt:    now,
	}
	if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ShiftHandovers.Inc()
	}

	return newShift, nil
}

// AbandonShiftInput represents input for abandoning a shift.
type AbandonShiftInput struct {
	ShiftID string
	ActorID string
	Reason  *string
}

// AbandonShift terminates a shift without reconciliation or summary
// recomputation. Admin only.
func (uc *ShiftUseCase) AbandonShift(ctx context.Context, input AbandonShiftInput) (*domain.Shift, error) {
	if err := domain.ValidateNotes(input.Reason); err != nil {
		return nil, err
	}

	actor, err := uc.employeeRepo.GetByID(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.Elevated() {
		return nil, domain.ErrForbidden
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	shift, err := uc.shiftRepo.GetByIDForUpdate(txCtx, tx, input.ShiftID)
	if err != nil {
		return nil, err
	}
	if !shift.IsActive() {
		return nil, domain.ErrShiftNotActive
	}

	now := time.Now().UTC()

	shift.Status = domain.ShiftStatusAbandoned
	shift.EndTime = &now
	shift.ClosingNotes = input.Reason
	shift.UpdatedAt = now
	if err := uc.shiftRepo.UpdateClose(txCtx, tx, shift); err != nil {
		return nil, err
	}

	auditLog := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actor.ID,
		Action:       string(domain.AuditActionShiftAbandon),
		ResourceType: "shift",
		ResourceID:   shift.ID,
		OldValues:    domain.JSON{"status": string(domain.ShiftStatusActive)},
		NewValues:    domain.MarshalState(shift),
		Severity:     domain.AuditSeverityCritical,
		CreatedAt:    now,
	}
	if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.projectionUC.InvalidatePreview(ctx, shift.ID)

	if uc.metrics != nil {
		uc.metrics.ShiftsAbandoned.Inc()
	}

	return shift, nil
}

// GetShift retrieves a shift by ID.
func (uc *ShiftUseCase) GetShift(ctx context.Context, id string) (*domain.Shift, error) {
	return uc.shiftRepo.GetByID(ctx, id)
}

// GetActiveShift retrieves the employee's active shift, if any.
func (uc *ShiftUseCase) GetActiveShift(ctx context.Context, employeeID string) (*domain.Shift, error) {
	return uc.shiftRepo.GetActiveByEmployee(ctx, employeeID)
}

// GetSummary retrieves the summary of a shift.
func (uc *ShiftUseCase) GetSummary(ctx context.Context, shiftID string) (*domain.ShiftSummary, error) {
	return uc.shiftRepo.GetSummary(ctx, shiftID)
}

// GetExpectedBalances previews the expected balances of a shift without
// closing it.
func (uc *ShiftUseCase) GetExpectedBalances(ctx context.Context, shiftID string) (map[string]decimal.Decimal, error) {
	return uc.projectionUC.ExpectedBalances(ctx, shiftID)
}
