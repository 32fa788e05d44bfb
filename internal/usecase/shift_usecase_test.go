package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/usecase"
	"github.com/fxdesk/cashdesk/internal/usecase/mocks"
)

type shiftFixture struct {
	uc              *usecase.ShiftUseCase
	shiftRepo       *mocks.MockShiftRepository
	drawerRepo      *mocks.MockDrawerRepository
	employeeRepo    *mocks.MockEmployeeRepository
	transactionRepo *mocks.MockTransactionRepository
	ledgerRepo      *mocks.MockLedgerRepository
	recRepo         *mocks.MockReconciliationRepository
	auditRepo       *mocks.MockAuditRepository
}

func newShiftFixture() *shiftFixture {
	txManager := mocks.NewMockTransactionManager()
	shiftRepo := mocks.NewMockShiftRepository()
	drawerRepo := mocks.NewMockDrawerRepository()
	currencyRepo := mocks.NewMockCurrencyRepository()
	employeeRepo := mocks.NewMockEmployeeRepository()
	transactionRepo := mocks.NewMockTransactionRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()
	recRepo := mocks.NewMockReconciliationRepository()
	auditRepo := mocks.NewMockAuditRepository()
	idGen := mocks.NewMockIDGenerator()

	drawerRepo.AddDrawer(&domain.CashDrawer{ID: "drawer-1", Name: "Front desk", Active: true})
	currencyRepo.AddCurrency(&domain.Currency{ID: "usd", Code: "USD", Active: true})
	currencyRepo.AddCurrency(&domain.Currency{ID: "eur", Code: "EUR", Active: true})
	employeeRepo.AddEmployee(&domain.Employee{ID: "emp-1", Name: "Anna", Role: domain.RoleCashier, Active: true})
	employeeRepo.AddEmployee(&domain.Employee{ID: "emp-2", Name: "Boris", Role: domain.RoleCashier, Active: true})
	employeeRepo.AddEmployee(&domain.Employee{ID: "admin-1", Name: "Clara", Role: domain.RoleAdmin, Active: true})

	projectionUC := usecase.NewProjectionUseCase(shiftRepo, transactionRepo, ledgerRepo, nil)
	uc := usecase.NewShiftUseCase(
		txManager,
		shiftRepo,
		drawerRepo,
		currencyRepo,
		employeeRepo,
		transactionRepo,
		recRepo,
		projectionUC,
		auditRepo,
		idGen,
		nil,
	)

	return &shiftFixture{
		uc:              uc,
		shiftRepo:       shiftRepo,
		drawerRepo:      drawerRepo,
		employeeRepo:    employeeRepo,
		transactionRepo: transactionRepo,
		ledgerRepo:      ledgerRepo,
		recRepo:         recRepo,
		auditRepo:       auditRepo,
	}
}

func (f *shiftFixture) startShift(t *testing.T, employeeID string, openings ...usecase.CurrencyAmount) *domain.Shift {
	t.Helper()
	drawerID := "drawer-1"
	shift, err := f.uc.StartShift(context.Background(), usecase.StartShiftInput{
		EmployeeID:      employeeID,
		DrawerID:        &drawerID,
		OpeningBalances: openings,
	})
	require.NoError(t, err)
	return shift
}

func TestStartShift(t *testing.T) {
	f := newShiftFixture()

	shift := f.startShift(t, "emp-1",
		usecase.CurrencyAmount{CurrencyID: "usd", Amount: decimal.NewFromInt(500)},
		usecase.CurrencyAmount{CurrencyID: "eur", Amount: decimal.NewFromInt(300)},
	)

	assert.Equal(t, domain.ShiftStatusActive, shift.Status)
	require.NotNil(t, shift.DrawerID)
	assert.Equal(t, "drawer-1", *shift.DrawerID)

	balances, err := f.shiftRepo.GetBalances(context.Background(), nil, shift.ID)
	require.NoError(t, err)
	assert.Len(t, balances, 2)

	summary, err := f.shiftRepo.GetSummary(context.Background(), shift.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalProfit.IsZero())
	assert.Zero(t, summary.TotalTransactions)

	logs := f.auditRepo.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, string(domain.AuditActionShiftStart), logs[0].Action)
}

func TestStartShiftSecondActiveRejected(t *testing.T) {
	f := newShiftFixture()

	f.startShift(t, "emp-1")

	_, err := f.uc.StartShift(context.Background(), usecase.StartShiftInput{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, domain.ErrShiftAlreadyActive)
}

func TestStartShiftNegativeOpeningBalance(t *testing.T) {
	f := newShiftFixture()

	_, err := f.uc.StartShift(context.Background(), usecase.StartShiftInput{
		EmployeeID: "emp-1",
		OpeningBalances: []usecase.CurrencyAmount{
			{CurrencyID: "usd", Amount: decimal.NewFromInt(-10)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestStartShiftUnknownEmployee(t *testing.T) {
	f := newShiftFixture()

	_, err := f.uc.StartShift(context.Background(), usecase.StartShiftInput{EmployeeID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestEndShiftBalanced(t *testing.T) {
	f := newShiftFixture()

	shift := f.startShift(t, "emp-1",
		usecase.CurrencyAmount{CurrencyID: "usd", Amount: decimal.NewFromInt(500)},
		usecase.CurrencyAmount{CurrencyID: "eur", Amount: decimal.NewFromInt(300)},
	)

	// Customer bought 100 EUR for 110 USD during the shift.
	f.transactionRepo.SetFlows(shift.ID, []*domain.CurrencyFlow{
		{
			CurrencyInID:  "usd",
			CurrencyOutID: "eur",
			TotalIn:       decimal.NewFromInt(110),
			TotalOut:      decimal.NewFromInt(100),
		},
	})
	f.transactionRepo.SetSummary(shift.ID, &domain.ShiftSummary{
		ShiftID:           shift.ID,
		TotalTransactions: 1,
		TotalProfit:       decimal.NewFromInt(5),
		TotalVolumeIn:     decimal.NewFromInt(110),
		TotalVolumeOut:    decimal.NewFromInt(100),
	})

	result, err := f.uc.EndShift(context.Background(), usecase.EndShiftInput{
		ShiftID: shift.ID,
		ActorID: "emp-1",
		ClosingBalances: []usecase.CurrencyAmount{
			{CurrencyID: "usd", Amount: decimal.NewFromInt(610)},
			{CurrencyID: "eur", Amount: decimal.NewFromInt(200)},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.HasVariance)
	assert.Equal(t, domain.ShiftStatusCompleted, result.Shift.Status)
	require.NotNil(t, result.Shift.EndTime)

	require.Len(t, result.Results, 2)
	for _, r := range result.Results {
		assert.Equal(t, domain.VarianceBalanced, r.Status)
		assert.True(t, r.Difference.IsZero(), "currency %s difference %s", r.CurrencyID, r.Difference)
	}

	assert.Equal(t, int64(1), result.Summary.TotalTransactions)
	assert.True(t, result.Summary.TotalProfit.Equal(decimal.NewFromInt(5)))

	// Reconciliation rows are tagged with the shift.
	records := f.recRepo.Records()
	require.Len(t, records, 2)
	for _, r := range records {
		require.NotNil(t, r.ShiftID)
		assert.Equal(t, shift.ID, *r.ShiftID)
	}
}

func TestEndShiftVarianceIsReportedNotRejected(t *testing.T) {
	f := newShiftFixture()

	shift := f.startShift(t, "emp-1",
		usecase.CurrencyAmount{CurrencyID: "usd", Amount: decimal.NewFromInt(500)},
	)

	result, err := f.uc.EndShift(context.Background(), usecase.EndShiftInput{
		ShiftID: shift.ID,
		ActorID: "emp-1",
		ClosingBalances: []usecase.CurrencyAmount{
			{CurrencyID: "usd", Amount: decimal.NewFromInt(480)},
		},
	})
	require.NoError(t, err, "variance must close the shift, not fail it")

	assert.True(t, result.HasVariance)
	require.Len(t, result.Results, 1)
	assert.Equal(t, domain.VarianceShort, result.Results[0].Status)
	assert.True(t, result.Results[0].Difference.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, domain.ShiftStatusCompleted, result.Shift.Status)

	logs := f.auditRepo.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditSeverityWarning, logs[1].Severity)
}

func TestEndShiftWithinTolerance(t *testing.T) {
	f := newShiftFixture()

	shift := f.startShift(t, "emp-1",
		usecase.CurrencyAmount{CurrencyID: "usd", Amount: decimal.NewFromInt(100)},
	)

	result, err := f.uc.EndShift(context.Background(), usecase.EndShiftInput{
		ShiftID: shift.ID,
		ActorID: "emp-1",
		ClosingBalances: []usecase.CurrencyAmount{
			{CurrencyID: "usd", Amount: decimal.RequireFromString("100.01")},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.HasVariance)
	assert.Equal(t, domain.VarianceBalanced, result.Results[0].Status)
}

func TestEndShiftNotOwned(t *testing.T) {
	f := newShiftFixture()

	shift := f.startShift(t, "emp-1")

	_, err := f.uc.EndShift(context.Background(), usecase.EndShiftInput{
		ShiftID: shift.ID,
		ActorID: "emp-2",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEndShiftAdminMayCloseAnyShift(t *testing.T) {
	f := newShiftFixture()

	shift := f.startShift(t, "emp-1")

	result, err := f.uc.EndShift(context.Background(), usecase.EndShiftInput{
		ShiftID: shift.ID,
		ActorID: "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftStatusCompleted, result.Shift.Status)
}

func TestEndShiftAlreadyCompleted(t *testing.T) {
	f := newShiftFixture()

	shift := f.startShift(t, "emp-1")

	_, err := f.uc.EndShift(context.Background(), usecase.EndShiftInput{ShiftID: shift.ID, ActorID: "emp-1"})
	require.NoError(t, err)

	_, err = f.uc.EndShift(context.Background(), usecase.EndShiftInput{ShiftID: shift.ID, ActorID: "emp-1"})
	assert.ErrorIs(t, err, domain.ErrShiftNotActive)
}

func TestHandoverOpensNewShiftWithSameOpenings(t *testing.T) {
	f := newShiftFixture()

	source := f.startShift(t, "emp-1",
		usecase.CurrencyAmount{CurrencyID: "usd", Amount: decimal.NewFromInt(500)},
		usecase.CurrencyAmount{CurrencyID: "eur", Amount: decimal.NewFromInt(300)},
	)

	notes := "till counted together"
	newShift, err := f.uc.HandoverShift(context.Background(), usecase.HandoverShiftInput{
		ShiftID:      source.ID,
		ToEmployeeID: "emp-2",
		Notes:        &notes,
		ActorID:      "emp-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "emp-2", newShift.EmployeeID)
	assert.Equal(t, source.DrawerID, newShift.DrawerID)
	assert.Equal(t, domain.ShiftStatusActive, newShift.Status)

	// Cash is conserved: the new shift opens with the source's openings.
	sourceBalances, err := f.shiftRepo.GetBalances(context.Background(), nil, source.ID)
	require.NoError(t, err)
	newBalances, err := f.shiftRepo.GetBalances(context.Background(), nil, newShift.ID)
	require.NoError(t, err)
	require.Len(t, newBalances, len(sourceBalances))

	byCurrency := make(map[string]decimal.Decimal)
	for _, b := range newBalances {
		byCurrency[b.CurrencyID] = b.OpeningBalance
	}
	for _, b := range sourceBalances {
		assert.True(t, byCurrency[b.CurrencyID].Equal(b.OpeningBalance), "currency %s", b.CurrencyID)
	}

	// The source shift records the link and stays active.
	updated, err := f.shiftRepo.GetByID(context.Background(), source.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftStatusActive, updated.Status)
	require.NotNil(t, updated.HandoverTo)
	assert.Equal(t, "emp-2", *updated.HandoverTo)
	require.NotNil(t, updated.HandoverNotes)
	assert.Equal(t, notes, *updated.HandoverNotes)
}

func TestHandoverTargetAlreadyActive(t *testing.T) {
	f := newShiftFixture()

	source := f.startShift(t, "emp-1")
	f.startShift(t, "emp-2")

	_, err := f.uc.HandoverShift(context.Background(), usecase.HandoverShiftInput{
		ShiftID:      source.ID,
		ToEmployeeID: "emp-2",
		ActorID:      "emp-1",
	})
	assert.ErrorIs(t, err, domain.ErrTargetShiftActive)
}

func TestHandoverCompletedShift(t *testing.T) {
	f := newShiftFixture()

	source := f.startShift(t, "emp-1")
	_, err := f.uc.EndShift(context.Background(), usecase.EndShiftInput{ShiftID: source.ID, ActorID: "emp-1"})
	require.NoError(t, err)

	_, err = f.uc.HandoverShift(context.Background(), usecase.HandoverShiftInput{
		ShiftID:      source.ID,
		ToEmployeeID: "emp-2",
		ActorID:      "emp-1",
	})
	assert.ErrorIs(t, err, domain.ErrShiftNotActive)
}

func TestAbandonShiftRequiresAdmin(t *testing.T) {
	f := newShiftFixture()

	shift := f.startShift(t, "emp-1")

	_, err := f.uc.AbandonShift(context.Background(), usecase.AbandonShiftInput{
		ShiftID: shift.ID,
		ActorID: "emp-1",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAbandonShift(t *testing.T) {
	f := newShiftFixture()

	shift := f.startShift(t, "emp-1")

	reason := "employee left mid-shift"
	abandoned, err := f.uc.AbandonShift(context.Background(), usecase.AbandonShiftInput{
		ShiftID: shift.ID,
		ActorID: "admin-1",
		Reason:  &reason,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ShiftStatusAbandoned, abandoned.Status)
	require.NotNil(t, abandoned.EndTime)
	require.NotNil(t, abandoned.ClosingNotes)
	assert.Equal(t, reason, *abandoned.ClosingNotes)

	// No reconciliation on abandon.
	assert.Empty(t, f.recRepo.Records())

	logs := f.auditRepo.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditSeverityCritical, logs[1].Severity)
}

func TestGetActiveShift(t *testing.T) {
	f := newShiftFixture()

	shift := f.startShift(t, "emp-1")

	active, err := f.uc.GetActiveShift(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, shift.ID, active.ID)

	_, err = f.uc.GetActiveShift(context.Background(), "emp-2")
	assert.ErrorIs(t, err, domain.ErrShiftNotFound)
}

func TestGetExpectedBalancesIncludesDrawerActivitySinceStart(t *testing.T) {
	f := newShiftFixture()

	shift := f.startShift(t, "emp-1",
		usecase.CurrencyAmount{CurrencyID: "usd", Amount: decimal.NewFromInt(500)},
	)

	require.NoError(t, f.ledgerRepo.Create(context.Background(), nil, &domain.LedgerEntry{
		DrawerID:   "drawer-1",
		CurrencyID: "usd",
		Kind:       domain.EntryKindDeposit,
		Amount:     decimal.NewFromInt(250),
		CreatedAt:  time.Now().UTC(),
	}))

	expected, err := f.uc.GetExpectedBalances(context.Background(), shift.ID)
	require.NoError(t, err)
	assert.True(t, expected["usd"].Equal(decimal.NewFromInt(750)), "got %s", expected["usd"])
}
