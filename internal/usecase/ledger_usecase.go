package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/infrastructure/metrics"
)

// LedgerUseCase is the single write path for drawer cash. Every balance
// mutation appends exactly one ledger entry and updates the cached balance
// inside the same transaction.
type LedgerUseCase struct {
	txManager    TransactionManager
	drawerRepo   DrawerRepository
	ledgerRepo   LedgerRepository
	currencyRepo CurrencyRepository
	auditRepo    AuditRepository
	idGen        IDGenerator
	retrier      Retrier
	previews     PreviewInvalidator
	metrics      *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. retrier may be nil to
// disable deadlock retries; previews may be nil when no preview cache is
// in use.
func NewLedgerUseCase(
	txManager TransactionManager,
	drawerRepo DrawerRepository,
	ledgerRepo LedgerRepository,
	currencyRepo CurrencyRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	previews PreviewInvalidator,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:    txManager,
		drawerRepo:   drawerRepo,
		ledgerRepo:   ledgerRepo,
		currencyRepo: currencyRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
		retrier:      retrier,
		previews:     previews,
		metrics:      m,
	}
}

// ApplyInput represents one cash movement against a drawer. For deposits
// and withdrawals Amount is positive; for adjustments it is the signed
// delta.
type ApplyInput struct {
	DrawerID      string
	CurrencyID    string
	Kind          domain.EntryKind
	Amount        decimal.Decimal
	ActorID       string
	ReferenceType *string
	ReferenceID   *string
}

// Deposit adds cash to a drawer.
func (uc *LedgerUseCase) Deposit(ctx context.Context, drawerID, currencyID string, amount decimal.Decimal, actorID string) (*domain.LedgerEntry, error) {
	return uc.Apply(ctx, ApplyInput{
		DrawerID:   drawerID,
		CurrencyID: currencyID,
		Kind:       domain.EntryKindDeposit,
		Amount:     amount,
		ActorID:    actorID,
	})
}

// Withdraw removes cash from a drawer.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, drawerID, currencyID string, amount decimal.Decimal, actorID string) (*domain.LedgerEntry, error) {
	return uc.Apply(ctx, ApplyInput{
		DrawerID:   drawerID,
		CurrencyID: currencyID,
		Kind:       domain.EntryKindWithdrawal,
		Amount:     amount,
		ActorID:    actorID,
	})
}

// AdjustInput represents a manual correction expressed as the target
// balance the drawer should hold after the adjustment.
type AdjustInput struct {
	DrawerID   string
	CurrencyID string
	NewBalance decimal.Decimal
	ActorID    string
	Reason     *string
}

// Adjust forces a drawer balance to a counted target value, recording the
// signed delta as an adjustment entry. A reason is required.
func (uc *LedgerUseCase) Adjust(ctx context.Context, input AdjustInput) (*domain.LedgerEntry, error) {
	if input.Reason == nil || *input.Reason == "" {
		return nil, domain.ErrMissingReason
	}
	if err := domain.ValidateNotes(input.Reason); err != nil {
		return nil, err
	}
	if input.NewBalance.IsNegative() {
		return nil, fmt.Errorf("%w: target balance cannot be negative", domain.ErrInvalidAmount)
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	drawer, err := uc.checkDrawerCurrency(txCtx, input.DrawerID, input.CurrencyID)
	if err != nil {
		return nil, err
	}

	balance, err := uc.drawerRepo.GetBalanceForUpdate(txCtx, tx, input.DrawerID, input.CurrencyID)
	if err != nil {
		return nil, err
	}

	delta := input.NewBalance.Sub(balance.Balance)
	if delta.IsZero() {
		return nil, fmt.Errorf("%w: adjustment changes nothing", domain.ErrInvalidAmount)
	}

	entry, err := uc.applyLocked(txCtx, tx, ApplyInput{
		DrawerID:   input.DrawerID,
		CurrencyID: input.CurrencyID,
		Kind:       domain.EntryKindAdjustment,
		Amount:     delta,
		ActorID:    input.ActorID,
	}, drawer, balance)
	if err != nil {
		return nil, err
	}

	if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditEntry(input.ActorID, domain.AuditActionDrawerAdjust, entry, input.Reason)); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.afterApply(ctx, entry)

	return entry, nil
}

// Apply executes one cash movement in its own transaction. Lost deadlocks
// roll the transaction back and rerun it.
func (uc *LedgerUseCase) Apply(ctx context.Context, input ApplyInput) (*domain.LedgerEntry, error) {
	var entry *domain.LedgerEntry

	operation := func() error {
		var err error
		entry, err = uc.applyOnce(ctx, input)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *LedgerUseCase) applyOnce(ctx context.Context, input ApplyInput) (*domain.LedgerEntry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.ApplyTx(txCtx, tx, input)
	if err != nil {
		return nil, err
	}

	action := domain.AuditActionDrawerDeposit
	if input.Kind == domain.EntryKindWithdrawal {
		action = domain.AuditActionDrawerWithdraw
	} else if input.Kind == domain.EntryKindAdjustment {
		action = domain.AuditActionDrawerAdjust
	}

	if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditEntry(input.ActorID, action, entry, nil)); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.afterApply(ctx, entry)

	return entry, nil
}

// ApplyTx executes one cash movement inside a caller-managed transaction.
// The caller owns commit, rollback and the audit payload.
func (uc *LedgerUseCase) ApplyTx(ctx context.Context, tx Transaction, input ApplyInput) (*domain.LedgerEntry, error) {
	if !input.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidEntryKind, input.Kind)
	}

	if input.Kind == domain.EntryKindAdjustment {
		if input.Amount.IsZero() {
			return nil, fmt.Errorf("%w: adjustment changes nothing", domain.ErrInvalidAmount)
		}
	} else if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	drawer, err := uc.checkDrawerCurrency(ctx, input.DrawerID, input.CurrencyID)
	if err != nil {
		return nil, err
	}

	balance, err := uc.drawerRepo.GetBalanceForUpdate(ctx, tx, input.DrawerID, input.CurrencyID)
	if err != nil {
		return nil, err
	}

	return uc.applyLocked(ctx, tx, input, drawer, balance)
}

// checkDrawerCurrency verifies both sides of a movement exist and are
// active. It must run before GetBalanceForUpdate: the lazy balance insert
// would otherwise turn a missing drawer or currency into a raw foreign key
// violation instead of a not-found error.
func (uc *LedgerUseCase) checkDrawerCurrency(ctx context.Context, drawerID, currencyID string) (*domain.CashDrawer, error) {
	drawer, err := uc.drawerRepo.GetByID(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	if !drawer.Active {
		return nil, domain.ErrDrawerInactive
	}

	currency, err := uc.currencyRepo.GetByID(ctx, currencyID)
	if err != nil {
		return nil, err
	}
	if !currency.Active {
		return nil, domain.ErrCurrencyInactive
	}

	return drawer, nil
}

// applyLocked writes the entry and the new balance. The balance row must
// already be locked by the caller and the drawer already validated.
func (uc *LedgerUseCase) applyLocked(ctx context.Context, tx Transaction, input ApplyInput, drawer *domain.CashDrawer, balance *domain.DrawerBalance) (*domain.LedgerEntry, error) {
	now := time.Now().UTC()

	entry := &domain.LedgerEntry{
		ID:            uc.idGen.Generate(),
		DrawerID:      input.DrawerID,
		CurrencyID:    input.CurrencyID,
		Kind:          input.Kind,
		Amount:        input.Amount,
		BalanceBefore: balance.Balance,
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		PerformedBy:   input.ActorID,
		CreatedAt:     now,
	}
	entry.BalanceAfter = balance.Balance.Add(entry.SignedAmount())

	if entry.BalanceAfter.IsNegative() {
		return nil, domain.ErrInsufficientBalance
	}

	if err := uc.ledgerRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.drawerRepo.UpdateBalance(ctx, tx, input.DrawerID, input.CurrencyID, entry.BalanceAfter, now); err != nil {
		return nil, err
	}

	if drawer.BelowThreshold(entry.BalanceAfter) {
		log.Warn().
			Str("drawer_id", drawer.ID).
			Str("currency_id", input.CurrencyID).
			Str("balance", entry.BalanceAfter.String()).
			Str("threshold", drawer.AlertThreshold.String()).
			Msg("drawer balance below alert threshold")

		if uc.metrics != nil {
			uc.metrics.LowBalanceAlerts.WithLabelValues(drawer.ID, input.CurrencyID).Inc()
		}
	}

	return entry, nil
}

// afterApply runs once the entry is committed: cached expected-balance
// previews for the drawer are now stale, and the metrics reflect the new
// entry and balance.
func (uc *LedgerUseCase) afterApply(ctx context.Context, entry *domain.LedgerEntry) {
	if uc.previews != nil {
		uc.previews.InvalidateForDrawer(ctx, entry.DrawerID)
	}

	if uc.metrics == nil {
		return
	}

	uc.metrics.LedgerEntriesCreated.WithLabelValues(string(entry.Kind)).Inc()

	balance, _ := entry.BalanceAfter.Float64()
	uc.metrics.DrawerBalance.WithLabelValues(entry.DrawerID, entry.CurrencyID).Set(balance)
}

func (uc *LedgerUseCase) auditEntry(actorID string, action domain.AuditAction, entry *domain.LedgerEntry, reason *string) *domain.AuditLog {
	newValues := domain.MarshalState(map[string]any{
		"entry_id":    entry.ID,
		"currency_id": entry.CurrencyID,
		"kind":        entry.Kind,
		"amount":      entry.Amount.String(),
		"new_balance": entry.BalanceAfter.String(),
	})
	if reason != nil {
		newValues["reason"] = *reason
	}

	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actorID,
		Action:       string(action),
		ResourceType: "drawer",
		ResourceID:   entry.DrawerID,
		OldValues:    domain.JSON{"balance": entry.BalanceBefore.String()},
		NewValues:    newValues,
		Severity:     domain.AuditSeverityInfo,
		CreatedAt:    entry.CreatedAt,
	}
}

// ListEntriesInput represents input for listing ledger entries.
type ListEntriesInput struct {
	DrawerID string
	Limit    int
	Offset   int
}

// ListEntries lists ledger entries for a drawer, newest first.
func (uc *LedgerUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.LedgerEntry, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.ledgerRepo.ListByDrawer(ctx, input.DrawerID, limit, offset)
}

// GetDrawer retrieves a cash drawer by ID.
func (uc *LedgerUseCase) GetDrawer(ctx context.Context, drawerID string) (*domain.CashDrawer, error) {
	return uc.drawerRepo.GetByID(ctx, drawerID)
}

// ListDrawers lists cash drawers.
func (uc *LedgerUseCase) ListDrawers(ctx context.Context, limit, offset int) ([]*domain.CashDrawer, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.drawerRepo.List(ctx, limit, offset)
}

// GetDrawerBalances retrieves the cached per-currency balances of a drawer.
func (uc *LedgerUseCase) GetDrawerBalances(ctx context.Context, drawerID string) ([]*domain.DrawerBalance, error) {
	if _, err := uc.drawerRepo.GetByID(ctx, drawerID); err != nil {
		return nil, err
	}
	return uc.drawerRepo.GetBalances(ctx, drawerID)
}

// BalanceCheck is the replay result for one drawer currency.
type BalanceCheck struct {
	CurrencyID string
	Ledger     decimal.Decimal
	Cached     decimal.Decimal
	ChainValid bool
	Match      bool
}

// DrawerVerification reports whether a drawer's cached balances can be
// reproduced by replaying its ledger.
type DrawerVerification struct {
	DrawerID   string
	Consistent bool
	Checks     []BalanceCheck
	CheckedAt  time.Time
}

// VerifyDrawer replays every ledger entry per currency and compares the
// result to the cached balance rows.
func (uc *LedgerUseCase) VerifyDrawer(ctx context.Context, drawerID string) (*DrawerVerification, error) {
	if _, err := uc.drawerRepo.GetByID(ctx, drawerID); err != nil {
		return nil, err
	}

	balances, err := uc.drawerRepo.GetBalances(ctx, drawerID)
	if err != nil {
		return nil, err
	}

	verification := &DrawerVerification{
		DrawerID:   drawerID,
		Consistent: true,
		CheckedAt:  time.Now().UTC(),
	}

	for _, b := range balances {
		entries, err := uc.ledgerRepo.ListAllByDrawerCurrency(ctx, drawerID, b.CurrencyID)
		if err != nil {
			return nil, err
		}

		replayed, chainValid := domain.ReplayBalance(entries)

		check := BalanceCheck{
			CurrencyID: b.CurrencyID,
			Ledger:     replayed,
			Cached:     b.Balance,
			ChainValid: chainValid,
			Match:      chainValid && replayed.Equal(b.Balance),
		}
		if !check.Match {
			verification.Consistent = false
		}

		verification.Checks = append(verification.Checks, check)
	}

	return verification, nil
}
