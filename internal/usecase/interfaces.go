package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fxdesk/cashdesk/internal/domain"
)

// DrawerRepository defines data access for cash drawers and their cached
// per-currency balances.
type DrawerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.CashDrawer, error)
	List(ctx context.Context, limit, offset int) ([]*domain.CashDrawer, error)
	GetBalances(ctx context.Context, drawerID string) ([]*domain.DrawerBalance, error)
	// GetBalanceForUpdate locks the balance row for the duration of tx,
	// creating a zero row first if none exists.
	GetBalanceForUpdate(ctx context.Context, tx Transaction, drawerID, currencyID string) (*domain.DrawerBalance, error)
	UpdateBalance(ctx context.Context, tx Transaction, drawerID, currencyID string, balance decimal.Decimal, updatedAt time.Time) error
}

// LedgerRepository defines data access for ledger entries. Entries are
// append-only; there are no update or delete operations.
type LedgerRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	ListByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.LedgerEntry, error)
	// ListAllByDrawerCurrency returns every entry for one drawer and
	// currency in creation order, for replay verification.
	ListAllByDrawerCurrency(ctx context.Context, drawerID, currencyID string) ([]*domain.LedgerEntry, error)
	// SumByDrawerSince aggregates entries per currency and kind from a
	// point in time. A nil tx runs outside any transaction.
	SumByDrawerSince(ctx context.Context, tx Transaction, drawerID string, since time.Time) ([]*domain.LedgerDelta, error)
}

// ShiftRepository defines data access for shifts, shift balances and shift
// summaries.
type ShiftRepository interface {
	// Create inserts the shift, relying on the storage layer to reject a
	// second active shift for the same employee with
	// domain.ErrShiftAlreadyActive.
	Create(ctx context.Context, tx Transaction, shift *domain.Shift) error
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Shift, error)
	GetActiveByEmployee(ctx context.Context, employeeID string) (*domain.Shift, error)
	ListActiveByDrawer(ctx context.Context, drawerID string) ([]*domain.Shift, error)
	UpdateClose(ctx context.Context, tx Transaction, shift *domain.Shift) error
	UpdateHandover(ctx context.Context, tx Transaction, shiftID, handoverTo string, handoverNotes *string, updatedAt time.Time) error

	CreateBalance(ctx context.Context, tx Transaction, balance *domain.ShiftBalance) error
	GetBalances(ctx context.Context, tx Transaction, shiftID string) ([]*domain.ShiftBalance, error)
	UpsertBalanceClose(ctx context.Context, tx Transaction, balance *domain.ShiftBalance) error

	CreateSummary(ctx context.Context, tx Transaction, summary *domain.ShiftSummary) error
	ReplaceSummary(ctx context.Context, tx Transaction, summary *domain.ShiftSummary) error
	GetSummary(ctx context.Context, shiftID string) (*domain.ShiftSummary, error)
}

// TransactionRepository is the read side of the exchange transactions
// recorded by the surrounding point of sale. Only completed, non-deleted
// rows are visible through the aggregates.
type TransactionRepository interface {
	// SumFlowsByShift aggregates qualifying transactions per currency pair.
	SumFlowsByShift(ctx context.Context, tx Transaction, shiftID string) ([]*domain.CurrencyFlow, error)
	// AggregateSummary computes a fresh shift summary from qualifying and
	// cancelled transactions.
	AggregateSummary(ctx context.Context, tx Transaction, shiftID string) (*domain.ShiftSummary, error)
}

// ReconciliationRepository defines data access for reconciliation records.
type ReconciliationRepository interface {
	Create(ctx context.Context, tx Transaction, reconciliation *domain.Reconciliation) error
	ListByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Reconciliation, error)
	ListByShift(ctx context.Context, shiftID string) ([]*domain.Reconciliation, error)
}

// CurrencyRepository is the external currency catalog. The core never
// creates or mutates currencies.
type CurrencyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Currency, error)
	List(ctx context.Context) ([]*domain.Currency, error)
}

// EmployeeRepository defines data access for employees.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
}

// AuditRepository is the write-only audit sink. Every mutating core
// operation produces one audit payload.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier reruns an operation after transient database failures such as
// deadlocks. The operation must be safe to execute more than once.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// PreviewInvalidator drops cached expected-balance previews after a
// drawer write.
type PreviewInvalidator interface {
	InvalidateForDrawer(ctx context.Context, drawerID string)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
