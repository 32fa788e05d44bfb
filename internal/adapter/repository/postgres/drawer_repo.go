package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

// DrawerRepository implements usecase.DrawerRepository.
type DrawerRepository struct {
	pool *pgxpool.Pool
}

// NewDrawerRepository creates a new DrawerRepository.
func NewDrawerRepository(pool *pgxpool.Pool) *DrawerRepository {
	return &DrawerRepository{pool: pool}
}

// GetByID retrieves a drawer by ID.
func (r *DrawerRepository) GetByID(ctx context.Context, id string) (*domain.CashDrawer, error) {
	query := `
		SELECT id, name, active, alert_threshold, created_at, updated_at
		FROM cash_drawers
		WHERE id = $1
	`

	drawer, err := scanDrawer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDrawerNotFound
		}
		return nil, err
	}

	return drawer, nil
}

// List lists drawers with pagination.
func (r *DrawerRepository) List(ctx context.Context, limit, offset int) ([]*domain.CashDrawer, error) {
	query := `
		SELECT id, name, active, alert_threshold, created_at, updated_at
		FROM cash_drawers
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drawers []*domain.CashDrawer
	for rows.Next() {
		drawer, err := scanDrawer(rows)
		if err != nil {
			return nil, err
		}
		drawers = append(drawers, drawer)
	}

	return drawers, rows.Err()
}

// GetBalances retrieves every cached balance row of a drawer.
func (r *DrawerRepository) GetBalances(ctx context.Context, drawerID string) ([]*domain.DrawerBalance, error) {
	query := `
		SELECT drawer_id, currency_id, balance, updated_at
		FROM drawer_balances
		WHERE drawer_id = $1
		ORDER BY currency_id
	`

	rows, err := r.pool.Query(ctx, query, drawerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*domain.DrawerBalance
	for rows.Next() {
		balance, err := scanDrawerBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, rows.Err()
}

// GetBalanceForUpdate locks the balance row for the duration of tx. A
// missing row is created with a zero balance first, so the lock always has
// something to hold.
func (r *DrawerRepository) GetBalanceForUpdate(ctx context.Context, tx usecase.Transaction, drawerID, currencyID string) (*domain.DrawerBalance, error) {
	db := queryer(tx, r.pool)

	insert := `
		INSERT INTO drawer_balances (drawer_id, currency_id, balance, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (drawer_id, currency_id) DO NOTHING
	`
	if _, err := db.Exec(ctx, insert, drawerID, currencyID); err != nil {
		return nil, err
	}

	query := `
		SELECT drawer_id, currency_id, balance, updated_at
		FROM drawer_balances
		WHERE drawer_id = $1 AND currency_id = $2
		FOR UPDATE
	`

	return scanDrawerBalance(db.QueryRow(ctx, query, drawerID, currencyID))
}

// UpdateBalance writes the new cached balance. Only called together with a
// ledger entry insert in the same transaction.
func (r *DrawerRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, drawerID, currencyID string, balance decimal.Decimal, updatedAt time.Time) error {
	db := queryer(tx, r.pool)

	query := `
		UPDATE drawer_balances
		SET balance = $3, updated_at = $4
		WHERE drawer_id = $1 AND currency_id = $2
	`

	_, err := db.Exec(ctx, query, drawerID, currencyID, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	return err
}

func scanDrawer(row pgx.Row) (*domain.CashDrawer, error) {
	var (
		drawer    domain.CashDrawer
		threshold pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&drawer.ID, &drawer.Name, &drawer.Active, &threshold, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	drawer.AlertThreshold = numericToDecimalPtr(threshold)
	drawer.CreatedAt = createdAt.Time
	drawer.UpdatedAt = updatedAt.Time

	return &drawer, nil
}

func scanDrawerBalance(row pgx.Row) (*domain.DrawerBalance, error) {
	var (
		balance   domain.DrawerBalance
		amount    pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&balance.DrawerID, &balance.CurrencyID, &amount, &updatedAt); err != nil {
		return nil, err
	}

	balance.Balance = numericToDecimal(amount)
	balance.UpdatedAt = updatedAt.Time

	return &balance, nil
}
