package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

// MockDrawerRepository is a mock implementation of DrawerRepository.
type MockDrawerRepository struct {
	mu       sync.RWMutex
	drawers  map[string]*domain.CashDrawer
	balances map[string]*domain.DrawerBalance

	GetByIDFunc             func(ctx context.Context, id string) (*domain.CashDrawer, error)
	ListFunc                func(ctx context.Context, limit, offset int) ([]*domain.CashDrawer, error)
	GetBalancesFunc         func(ctx context.Context, drawerID string) ([]*domain.DrawerBalance, error)
	GetBalanceForUpdateFunc func(ctx context.Context, tx usecase.Transaction, drawerID, currencyID string) (*domain.DrawerBalance, error)
	UpdateBalanceFunc       func(ctx context.Context, tx usecase.Transaction, drawerID, currencyID string, balance decimal.Decimal, updatedAt time.Time) error
}

func NewMockDrawerRepository() *MockDrawerRepository {
	return &MockDrawerRepository{
		drawers:  make(map[string]*domain.CashDrawer),
		balances: make(map[string]*domain.DrawerBalance),
	}
}

// AddDrawer seeds a drawer.
func (m *MockDrawerRepository) AddDrawer(drawer *domain.CashDrawer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drawers[drawer.ID] = drawer
}

// SetBalance seeds a cached balance row.
func (m *MockDrawerRepository) SetBalance(drawerID, currencyID string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[drawerID+"/"+currencyID] = &domain.DrawerBalance{
		DrawerID:   drawerID,
		CurrencyID: currencyID,
		Balance:    balance,
	}
}

func (m *MockDrawerRepository) GetByID(ctx context.Context, id string) (*domain.CashDrawer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.drawers[id]; ok {
		return d, nil
	}
	return nil, domain.ErrDrawerNotFound
}

func (m *MockDrawerRepository) List(ctx context.Context, limit, offset int) ([]*domain.CashDrawer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var drawers []*domain.CashDrawer
	for _, d := range m.drawers {
		drawers = append(drawers, d)
	}
	return drawers, nil
}

func (m *MockDrawerRepository) GetBalances(ctx context.Context, drawerID string) ([]*domain.DrawerBalance, error) {
	if m.GetBalancesFunc != nil {
		return m.GetBalancesFunc(ctx, drawerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var balances []*domain.DrawerBalance
	for _, b := range m.balances {
		if b.DrawerID == drawerID {
			balances = append(balances, b)
		}
	}
	return balances, nil
}

func (m *MockDrawerRepository) GetBalanceForUpdate(ctx context.Context, tx usecase.Transaction, drawerID, currencyID string) (*domain.DrawerBalance, error) {
	if m.GetBalanceForUpdateFunc != nil {
		return m.GetBalanceForUpdateFunc(ctx, tx, drawerID, currencyID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := drawerID + "/" + currencyID
	if b, ok := m.balances[key]; ok {
		return b, nil
	}
	b := &domain.DrawerBalance{
		DrawerID:   drawerID,
		CurrencyID: currencyID,
		Balance:    decimal.Zero,
	}
	m.balances[key] = b
	return b, nil
}

func (m *MockDrawerRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, drawerID, currencyID string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, drawerID, currencyID, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[drawerID+"/"+currencyID] = &domain.DrawerBalance{
		DrawerID:   drawerID,
		CurrencyID: currencyID,
		Balance:    balance,
		UpdatedAt:  updatedAt,
	}
	return nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry

	CreateFunc                  func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	ListByDrawerFunc            func(ctx context.Context, drawerID string, limit, offset int) ([]*domain.LedgerEntry, error)
	ListAllByDrawerCurrencyFunc func(ctx context.Context, drawerID, currencyID string) ([]*domain.LedgerEntry, error)
	SumByDrawerSinceFunc        func(ctx context.Context, tx usecase.Transaction, drawerID string, since time.Time) ([]*domain.LedgerDelta, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

// Entries returns everything appended so far.
func (m *MockLedgerRepository) Entries() []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.LedgerEntry(nil), m.entries...)
}

func (m *MockLedgerRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockLedgerRepository) ListByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if m.ListByDrawerFunc != nil {
		return m.ListByDrawerFunc(ctx, drawerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.LedgerEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].DrawerID == drawerID {
			entries = append(entries, m.entries[i])
		}
	}
	return entries, nil
}

func (m *MockLedgerRepository) ListAllByDrawerCurrency(ctx context.Context, drawerID, currencyID string) ([]*domain.LedgerEntry, error) {
	if m.ListAllByDrawerCurrencyFunc != nil {
		return m.ListAllByDrawerCurrencyFunc(ctx, drawerID, currencyID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.DrawerID == drawerID && e.CurrencyID == currencyID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockLedgerRepository) SumByDrawerSince(ctx context.Context, tx usecase.Transaction, drawerID string, since time.Time) ([]*domain.LedgerDelta, error) {
	if m.SumByDrawerSinceFunc != nil {
		return m.SumByDrawerSinceFunc(ctx, tx, drawerID, since)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	totals := make(map[string]*domain.LedgerDelta)
	var order []string
	for _, e := range m.entries {
		if e.DrawerID != drawerID || e.CreatedAt.Before(since) {
			continue
		}
		key := e.CurrencyID + "/" + string(e.Kind)
		if _, ok := totals[key]; !ok {
			totals[key] = &domain.LedgerDelta{CurrencyID: e.CurrencyID, Kind: e.Kind}
			order = append(order, key)
		}
		totals[key].Total = totals[key].Total.Add(e.Amount)
	}
	var deltas []*domain.LedgerDelta
	for _, key := range order {
		deltas = append(deltas, totals[key])
	}
	return deltas, nil
}

// MockShiftRepository is a mock implementation of ShiftRepository. The
// default behavior enforces the one-active-shift-per-employee rule the way
// the partial unique index does in PostgreSQL.
type MockShiftRepository struct {
	mu        sync.RWMutex
	shifts    map[string]*domain.Shift
	balances  map[string][]*domain.ShiftBalance
	summaries map[string]*domain.ShiftSummary

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, shift *domain.Shift) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Shift, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Shift, error)
	GetActiveByEmployeeFunc func(ctx context.Context, employeeID string) (*domain.Shift, error)
	ListActiveByDrawerFunc  func(ctx context.Context, drawerID string) ([]*domain.Shift, error)
	UpdateCloseFunc         func(ctx context.Context, tx usecase.Transaction, shift *domain.Shift) error
	UpdateHandoverFunc      func(ctx context.Context, tx usecase.Transaction, shiftID, handoverTo string, handoverNotes *string, updatedAt time.Time) error
	CreateBalanceFunc       func(ctx context.Context, tx usecase.Transaction, balance *domain.ShiftBalance) error
	GetBalancesFunc         func(ctx context.Context, tx usecase.Transaction, shiftID string) ([]*domain.ShiftBalance, error)
	UpsertBalanceCloseFunc  func(ctx context.Context, tx usecase.Transaction, balance *domain.ShiftBalance) error
	CreateSummaryFunc       func(ctx context.Context, tx usecase.Transaction, summary *domain.ShiftSummary) error
	ReplaceSummaryFunc      func(ctx context.Context, tx usecase.Transaction, summary *domain.ShiftSummary) error
	GetSummaryFunc          func(ctx context.Context, shiftID string) (*domain.ShiftSummary, error)
}

func NewMockShiftRepository() *MockShiftRepository {
	return &MockShiftRepository{
		shifts:    make(map[string]*domain.Shift),
		balances:  make(map[string][]*domain.ShiftBalance),
		summaries: make(map[string]*domain.ShiftSummary),
	}
}

// AddShift seeds a shift without the active-shift check.
func (m *MockShiftRepository) AddShift(shift *domain.Shift) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[shift.ID] = shift
}

func (m *MockShiftRepository) Create(ctx context.Context, tx usecase.Transaction, shift *domain.Shift) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, shift)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.shifts {
		if s.EmployeeID == shift.EmployeeID && s.Status == domain.ShiftStatusActive {
			return domain.ErrShiftAlreadyActive
		}
	}
	m.shifts[shift.ID] = shift
	return nil
}

func (m *MockShiftRepository) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.shifts[id]; ok {
		return s, nil
	}
	return nil, domain.ErrShiftNotFound
}

func (m *MockShiftRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Shift, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockShiftRepository) GetActiveByEmployee(ctx context.Context, employeeID string) (*domain.Shift, error) {
	if m.GetActiveByEmployeeFunc != nil {
		return m.GetActiveByEmployeeFunc(ctx, employeeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.shifts {
		if s.EmployeeID == employeeID && s.Status == domain.ShiftStatusActive {
			return s, nil
		}
	}
	return nil, domain.ErrShiftNotFound
}

func (m *MockShiftRepository) ListActiveByDrawer(ctx context.Context, drawerID string) ([]*domain.Shift, error) {
	if m.ListActiveByDrawerFunc != nil {
		return m.ListActiveByDrawerFunc(ctx, drawerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var shifts []*domain.Shift
	for _, s := range m.shifts {
		if s.DrawerID != nil && *s.DrawerID == drawerID && s.Status == domain.ShiftStatusActive {
			shifts = append(shifts, s)
		}
	}
	return shifts, nil
}

func (m *MockShiftRepository) UpdateClose(ctx context.Context, tx usecase.Transaction, shift *domain.Shift) error {
	if m.UpdateCloseFunc != nil {
		return m.UpdateCloseFunc(ctx, tx, shift)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[shift.ID] = shift
	return nil
}

func (m *MockShiftRepository) UpdateHandover(ctx context.Context, tx usecase.Transaction, shiftID, handoverTo string, handoverNotes *string, updatedAt time.Time) error {
	if m.UpdateHandoverFunc != nil {
		return m.UpdateHandoverFunc(ctx, tx, shiftID, handoverTo, handoverNotes, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shifts[shiftID]; ok {
		s.HandoverTo = &handoverTo
		s.HandoverNotes = handoverNotes
		s.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockShiftRepository) CreateBalance(ctx context.Context, tx usecase.Transaction, balance *domain.ShiftBalance) error {
	if m.CreateBalanceFunc != nil {
		return m.CreateBalanceFunc(ctx, tx, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[balance.ShiftID] = append(m.balances[balance.ShiftID], balance)
	return nil
}

func (m *MockShiftRepository) GetBalances(ctx context.Context, tx usecase.Transaction, shiftID string) ([]*domain.ShiftBalance, error) {
	if m.GetBalancesFunc != nil {
		return m.GetBalancesFunc(ctx, tx, shiftID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.ShiftBalance(nil), m.balances[shiftID]...), nil
}

func (m *MockShiftRepository) UpsertBalanceClose(ctx context.Context, tx usecase.Transaction, balance *domain.ShiftBalance) error {
	if m.UpsertBalanceCloseFunc != nil {
		return m.UpsertBalanceCloseFunc(ctx, tx, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.balances[balance.ShiftID] {
		if b.CurrencyID == balance.CurrencyID {
			b.ClosingBalance = balance.ClosingBalance
			b.ExpectedClosing = balance.ExpectedClosing
			b.Difference = balance.Difference
			return nil
		}
	}
	m.balances[balance.ShiftID] = append(m.balances[balance.ShiftID], balance)
	return nil
}

func (m *MockShiftRepository) CreateSummary(ctx context.Context, tx usecase.Transaction, summary *domain.ShiftSummary) error {
	if m.CreateSummaryFunc != nil {
		return m.CreateSummaryFunc(ctx, tx, summary)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[summary.ShiftID] = summary
	return nil
}

func (m *MockShiftRepository) ReplaceSummary(ctx context.Context, tx usecase.Transaction, summary *domain.ShiftSummary) error {
	if m.ReplaceSummaryFunc != nil {
		return m.ReplaceSummaryFunc(ctx, tx, summary)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[summary.ShiftID] = summary
	return nil
}

func (m *MockShiftRepository) GetSummary(ctx context.Context, shiftID string) (*domain.ShiftSummary, error) {
	if m.GetSummaryFunc != nil {
		return m.GetSummaryFunc(ctx, shiftID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.summaries[shiftID]; ok {
		return s, nil
	}
	return nil, domain.ErrShiftNotFound
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu        sync.RWMutex
	flows     map[string][]*domain.CurrencyFlow
	summaries map[string]*domain.ShiftSummary

	SumFlowsByShiftFunc  func(ctx context.Context, tx usecase.Transaction, shiftID string) ([]*domain.CurrencyFlow, error)
	AggregateSummaryFunc func(ctx context.Context, tx usecase.Transaction, shiftID string) (*domain.ShiftSummary, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		flows:     make(map[string][]*domain.CurrencyFlow),
		summaries: make(map[string]*domain.ShiftSummary),
	}
}

// SetFlows seeds the per-pair totals for a shift.
func (m *MockTransactionRepository) SetFlows(shiftID string, flows []*domain.CurrencyFlow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flows[shiftID] = flows
}

// SetSummary seeds the aggregate summary for a shift.
func (m *MockTransactionRepository) SetSummary(shiftID string, summary *domain.ShiftSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[shiftID] = summary
}

func (m *MockTransactionRepository) SumFlowsByShift(ctx context.Context, tx usecase.Transaction, shiftID string) ([]*domain.CurrencyFlow, error) {
	if m.SumFlowsByShiftFunc != nil {
		return m.SumFlowsByShiftFunc(ctx, tx, shiftID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flows[shiftID], nil
}

func (m *MockTransactionRepository) AggregateSummary(ctx context.Context, tx usecase.Transaction, shiftID string) (*domain.ShiftSummary, error) {
	if m.AggregateSummaryFunc != nil {
		return m.AggregateSummaryFunc(ctx, tx, shiftID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.summaries[shiftID]; ok {
		return s, nil
	}
	return domain.NewShiftSummary(shiftID, time.Now().UTC()), nil
}

// MockReconciliationRepository is a mock implementation of
// ReconciliationRepository.
type MockReconciliationRepository struct {
	mu      sync.RWMutex
	records []*domain.Reconciliation

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, reconciliation *domain.Reconciliation) error
	ListByDrawerFunc func(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Reconciliation, error)
	ListByShiftFunc  func(ctx context.Context, shiftID string) ([]*domain.Reconciliation, error)
}

func NewMockReconciliationRepository() *MockReconciliationRepository {
	return &MockReconciliationRepository{}
}

// Records returns everything appended so far.
func (m *MockReconciliationRepository) Records() []*domain.Reconciliation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Reconciliation(nil), m.records...)
}

func (m *MockReconciliationRepository) Create(ctx context.Context, tx usecase.Transaction, reconciliation *domain.Reconciliation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, reconciliation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, reconciliation)
	return nil
}

func (m *MockReconciliationRepository) ListByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Reconciliation, error) {
	if m.ListByDrawerFunc != nil {
		return m.ListByDrawerFunc(ctx, drawerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []*domain.Reconciliation
	for _, r := range m.records {
		if r.DrawerID == drawerID {
			records = append(records, r)
		}
	}
	return records, nil
}

func (m *MockReconciliationRepository) ListByShift(ctx context.Context, shiftID string) ([]*domain.Reconciliation, error) {
	if m.ListByShiftFunc != nil {
		return m.ListByShiftFunc(ctx, shiftID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []*domain.Reconciliation
	for _, r := range m.records {
		if r.ShiftID != nil && *r.ShiftID == shiftID {
			records = append(records, r)
		}
	}
	return records, nil
}

// MockCurrencyRepository is a mock implementation of CurrencyRepository.
type MockCurrencyRepository struct {
	mu         sync.RWMutex
	currencies map[string]*domain.Currency

	GetByIDFunc func(ctx context.Context, id string) (*domain.Currency, error)
	ListFunc    func(ctx context.Context) ([]*domain.Currency, error)
}

func NewMockCurrencyRepository() *MockCurrencyRepository {
	return &MockCurrencyRepository{
		currencies: make(map[string]*domain.Currency),
	}
}

// AddCurrency seeds a currency.
func (m *MockCurrencyRepository) AddCurrency(currency *domain.Currency) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currencies[currency.ID] = currency
}

func (m *MockCurrencyRepository) GetByID(ctx context.Context, id string) (*domain.Currency, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.currencies[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCurrencyNotFound
}

func (m *MockCurrencyRepository) List(ctx context.Context) ([]*domain.Currency, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var currencies []*domain.Currency
	for _, c := range m.currencies {
		currencies = append(currencies, c)
	}
	return currencies, nil
}

// MockEmployeeRepository is a mock implementation of EmployeeRepository.
type MockEmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]*domain.Employee

	GetByIDFunc    func(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.Employee, error)
}

func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{
		employees: make(map[string]*domain.Employee),
	}
}

// AddEmployee seeds an employee.
func (m *MockEmployeeRepository) AddEmployee(employee *domain.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[employee.ID] = employee
}

func (m *MockEmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEmployeeNotFound
}

func (m *MockEmployeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, domain.ErrEmployeeNotFound
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

// Logs returns everything recorded so far.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockPreviewInvalidator is a mock implementation of PreviewInvalidator
// that records the drawers it was asked to invalidate.
type MockPreviewInvalidator struct {
	mu        sync.Mutex
	drawerIDs []string

	InvalidateForDrawerFunc func(ctx context.Context, drawerID string)
}

func NewMockPreviewInvalidator() *MockPreviewInvalidator {
	return &MockPreviewInvalidator{}
}

// DrawerIDs returns every drawer invalidated so far.
func (m *MockPreviewInvalidator) DrawerIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.drawerIDs...)
}

func (m *MockPreviewInvalidator) InvalidateForDrawer(ctx context.Context, drawerID string) {
	if m.InvalidateForDrawerFunc != nil {
		m.InvalidateForDrawerFunc(ctx, drawerID)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drawerIDs = append(m.drawerIDs, drawerID)
}

// MockRetrier is a mock implementation of Retrier that runs the operation
// once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
