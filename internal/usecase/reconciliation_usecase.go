package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/infrastructure/metrics"
)

// ReconciliationUseCase compares counted cash against expected balances,
// classifies the variance and persists the result. When a standalone drawer
// reconciliation finds a difference, the drawer balance is forced to the
// counted value through an adjustment entry so the ledger records why.
type ReconciliationUseCase struct {
	txManager          TransactionManager
	drawerRepo         DrawerRepository
	reconciliationRepo ReconciliationRepository
	ledgerUC           *LedgerUseCase
	auditRepo          AuditRepository
	idGen              IDGenerator
	metrics            *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	txManager TransactionManager,
	drawerRepo DrawerRepository,
	reconciliationRepo ReconciliationRepository,
	ledgerUC *LedgerUseCase,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:          txManager,
		drawerRepo:         drawerRepo,
		reconciliationRepo: reconciliationRepo,
		ledgerUC:           ledgerUC,
		auditRepo:          auditRepo,
		idGen:              idGen,
		metrics:            m,
	}
}

// ReconcileDrawerInput represents a standalone drawer count.
type ReconcileDrawerInput struct {
	DrawerID      string
	CurrencyID    string
	ActualBalance decimal.Decimal
	ActorID       string
	Notes         *string
}

// ReconcileDrawer compares the cached drawer balance against the counted
// amount. The balance row stays locked from read to adjustment, so no
// concurrent apply can interleave.
func (uc *ReconciliationUseCase) ReconcileDrawer(ctx context.Context, input ReconcileDrawerInput) (*domain.Reconciliation, error) {
	if input.ActualBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if _, err := uc.ledgerUC.checkDrawerCurrency(txCtx, input.DrawerID, input.CurrencyID); err != nil {
		return nil, err
	}

	balance, err := uc.drawerRepo.GetBalanceForUpdate(txCtx, tx, input.DrawerID, input.CurrencyID)
	if err != nil {
		return nil, err
	}

	difference, status := domain.Classify(balance.Balance, input.ActualBalance)
	now := time.Now().UTC()

	reconciliation := &domain.Reconciliation{
		ID:              uc.idGen.Generate(),
		DrawerID:        input.DrawerID,
		CurrencyID:      input.CurrencyID,
		ExpectedBalance: balance.Balance,
		ActualBalance:   input.ActualBalance,
		Difference:      difference,
		Status:          status,
		Notes:           input.Notes,
		ReconciledBy:    input.ActorID,
		CreatedAt:       now,
	}

	if err := uc.reconciliationRepo.Create(txCtx, tx, reconciliation); err != nil {
		return nil, err
	}

	// Any non-zero difference forces the drawer to the counted value,
	// with the ledger entry pointing back at this reconciliation.
	var entry *domain.LedgerEntry
	if !difference.IsZero() {
		refType := domain.ReferenceTypeReconciliation
		refID := reconciliation.ID

		entry, err = uc.ledgerUC.ApplyTx(txCtx, tx, ApplyInput{
			DrawerID:      input.DrawerID,
			CurrencyID:    input.CurrencyID,
			Kind:          domain.EntryKindAdjustment,
			Amount:        difference,
			ActorID:       input.ActorID,
			ReferenceType: &refType,
			ReferenceID:   &refID,
		})
		if err != nil {
			return nil, err
		}
	}

	severity := domain.AuditSeverityInfo
	if status != domain.VarianceBalanced {
		severity = domain.AuditSeverityWarning
	}

	auditLog := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      input.ActorID,
		Action:       string(domain.AuditActionDrawerReconcile),
		ResourceType: "drawer",
		ResourceID:   input.DrawerID,
		OldValues:    domain.JSON{"balance": balance.Balance.String()},
		NewValues:    domain.MarshalState(reconciliation),
		Severity:     severity,
		CreatedAt:    now,
	}
	if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if entry != nil {
		uc.ledgerUC.afterApply(ctx, entry)
	}

	if uc.metrics != nil {
		uc.metrics.Reconciliations.WithLabelValues(string(status)).Inc()
	}

	return reconciliation, nil
}

// ListByDrawerInput represents input for listing reconciliations.
type ListByDrawerInput struct {
	DrawerID string
	Limit    int
	Offset   int
}

// ListByDrawer lists reconciliation records for a drawer, newest first.
func (uc *ReconciliationUseCase) ListByDrawer(ctx context.Context, input ListByDrawerInput) ([]*domain.Reconciliation, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.reconciliationRepo.ListByDrawer(ctx, input.DrawerID, limit, offset)
}

// ListByShift lists the reconciliation records produced when a shift ended.
func (uc *ReconciliationUseCase) ListByShift(ctx context.Context, shiftID string) ([]*domain.Reconciliation, error) {
	return uc.reconciliationRepo.ListByShift(ctx, shiftID)
}
