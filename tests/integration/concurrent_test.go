package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fxdesk/cashdesk/internal/adapter/repository/postgres"
	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/usecase"
	"github.com/fxdesk/cashdesk/tests/testutil"
)

func TestConcurrentWithdrawals(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	ledgerUC := newLedgerUseCase(postgres.NewTxManager(testDB.Pool), testDB)

	cashier := testDB.CreateTestEmployee(ctx, "cashier", "cashier@example.com", domain.RoleCashier)
	usd := testDB.CreateTestCurrency(ctx, "USD", "US Dollar")
	drawer := testDB.CreateTestDrawer(ctx, "front desk")

	// Funds for exactly 30 withdrawals of 10.
	if _, err := ledgerUC.Deposit(ctx, drawer.ID, usd.ID, decimal.NewFromInt(300), cashier.ID); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	numWithdrawals := 50
	amount := decimal.NewFromInt(10)

	var (
		wg                sync.WaitGroup
		successCount      atomic.Int32
		insufficientCount atomic.Int32
	)

	for i := 0; i < numWithdrawals; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledgerUC.Withdraw(ctx, drawer.ID, usd.ID, amount, cashier.ID)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientBalance):
				insufficientCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 30 {
		t.Errorf("expected 30 successful withdrawals, got %d", successCount.Load())
	}
	if insufficientCount.Load() != 20 {
		t.Errorf("expected 20 rejected withdrawals, got %d", insufficientCount.Load())
	}

	balances, err := ledgerUC.GetDrawerBalances(ctx, drawer.ID)
	if err != nil {
		t.Fatalf("get balances failed: %v", err)
	}
	if len(balances) != 1 || !balances[0].Balance.IsZero() {
		t.Errorf("expected drained drawer, got %+v", balances)
	}

	verification, err := ledgerUC.VerifyDrawer(ctx, drawer.ID)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !verification.Consistent {
		t.Error("ledger replay should match cached balance after concurrent writes")
	}
}

func TestConcurrentShiftStarts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	shiftUC, _, _ := newShiftUseCase(testDB)

	cashier := testDB.CreateTestEmployee(ctx, "cashier", "cashier@example.com", domain.RoleCashier)

	numStarts := 10

	var (
		wg           sync.WaitGroup
		successCount atomic.Int32
		rejectCount  atomic.Int32
	)

	for i := 0; i < numStarts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := shiftUC.StartShift(ctx, usecase.StartShiftInput{EmployeeID: cashier.ID})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrShiftAlreadyActive):
				rejectCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("expected exactly one shift to start, got %d", successCount.Load())
	}
	if rejectCount.Load() != int32(numStarts-1) {
		t.Errorf("expected %d rejections, got %d", numStarts-1, rejectCount.Load())
	}
}
