package usecase

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/fxdesk/cashdesk/internal/domain"
)

// ProjectionUseCase computes the expected per-currency balances of a shift.
// It is a pure read-side fold over three ordered sources: the shift's
// opening balances, its qualifying exchange transactions, and the drawer's
// ledger entries since shift start. Replaying the same rows always yields
// the same result.
type ProjectionUseCase struct {
	shiftRepo       ShiftRepository
	transactionRepo TransactionRepository
	ledgerRepo      LedgerRepository
	cache           Cache
}

// NewProjectionUseCase creates a new ProjectionUseCase.
func NewProjectionUseCase(
	shiftRepo ShiftRepository,
	transactionRepo TransactionRepository,
	ledgerRepo LedgerRepository,
	cache Cache,
) *ProjectionUseCase {
	return &ProjectionUseCase{
		shiftRepo:       shiftRepo,
		transactionRepo: transactionRepo,
		ledgerRepo:      ledgerRepo,
		cache:           cache,
	}
}

// ExpectedBalancesTx folds the expected balances inside a caller-managed
// transaction. EndShift uses this so no transaction or ledger write can
// slip in between projection and close.
func (uc *ProjectionUseCase) ExpectedBalancesTx(ctx context.Context, tx Transaction, shift *domain.Shift) (map[string]decimal.Decimal, error) {
	expected := make(map[string]decimal.Decimal)

	balances, err := uc.shiftRepo.GetBalances(ctx, tx, shift.ID)
	if err != nil {
		return nil, err
	}
	for _, b := range balances {
		expected[b.CurrencyID] = b.OpeningBalance
	}

	flows, err := uc.transactionRepo.SumFlowsByShift(ctx, tx, shift.ID)
	if err != nil {
		return nil, err
	}
	for _, f := range flows {
		expected[f.CurrencyInID] = expected[f.CurrencyInID].Add(f.TotalIn)
		expected[f.CurrencyOutID] = expected[f.CurrencyOutID].Sub(f.TotalOut)
	}

	if shift.DrawerID != nil {
		deltas, err := uc.ledgerRepo.SumByDrawerSince(ctx, tx, *shift.DrawerID, shift.StartTime)
		if err != nil {
			return nil, err
		}
		for _, d := range deltas {
			expected[d.CurrencyID] = expected[d.CurrencyID].Add(d.Net())
		}
	}

	return expected, nil
}

// ExpectedBalances computes a preview of the expected balances for a shift,
// outside any transaction. Previews are cached briefly; any drawer write or
// shift close invalidates the cache.
func (uc *ProjectionUseCase) ExpectedBalances(ctx context.Context, shiftID string) (map[string]decimal.Decimal, error) {
	if cached, ok := uc.fromCache(ctx, shiftID); ok {
		return cached, nil
	}

	shift, err := uc.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	expected, err := uc.ExpectedBalancesTx(ctx, nil, shift)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, shiftID, expected)

	return expected, nil
}

// InvalidatePreview drops any cached preview for the shift.
func (uc *ProjectionUseCase) InvalidatePreview(ctx context.Context, shiftID string) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Delete(ctx, previewCacheKey(shiftID))
}

// InvalidateForDrawer drops cached previews for every active shift on the
// drawer. A failed lookup is not propagated: the preview is still bounded
// by its TTL.
func (uc *ProjectionUseCase) InvalidateForDrawer(ctx context.Context, drawerID string) {
	if uc.cache == nil {
		return
	}

	shifts, err := uc.shiftRepo.ListActiveByDrawer(ctx, drawerID)
	if err != nil {
		return
	}
	for _, shift := range shifts {
		_ = uc.cache.Delete(ctx, previewCacheKey(shift.ID))
	}
}

func previewCacheKey(shiftID string) string {
	return "expected:" + shiftID
}

func (uc *ProjectionUseCase) fromCache(ctx context.Context, shiftID string) (map[string]decimal.Decimal, bool) {
	if uc.cache == nil {
		return nil, false
	}

	raw, err := uc.cache.Get(ctx, previewCacheKey(shiftID))
	if err != nil {
		return nil, false
	}

	var serialized map[string]string
	if err := json.Unmarshal([]byte(raw), &serialized); err != nil {
		return nil, false
	}

	expected := make(map[string]decimal.Decimal, len(serialized))
	for currencyID, amount := range serialized {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, false
		}
		expected[currencyID] = d
	}

	return expected, true
}

func (uc *ProjectionUseCase) toCache(ctx context.Context, shiftID string, expected map[string]decimal.Decimal) {
	if uc.cache == nil {
		return
	}

	serialized := make(map[string]string, len(expected))
	for currencyID, amount := range expected {
		serialized[currencyID] = amount.String()
	}

	raw, err := json.Marshal(serialized)
	if err != nil {
		return
	}

	_ = uc.cache.Set(ctx, previewCacheKey(shiftID), string(raw), PreviewCacheTTL)
}
