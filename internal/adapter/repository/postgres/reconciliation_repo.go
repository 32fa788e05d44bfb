package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

// ReconciliationRepository implements append-only reconciliation persistence.
type ReconciliationRepository struct {
	pool *pgxpool.Pool
}

// NewReconciliationRepository creates a new ReconciliationRepository.
func NewReconciliationRepository(pool *pgxpool.Pool) *ReconciliationRepository {
	return &ReconciliationRepository{pool: pool}
}

const reconciliationColumns = `id, drawer_id, currency_id, shift_id,
	expected_balance, actual_balance, difference, status, notes,
	reconciled_by, created_at`

// Create inserts a reconciliation row inside the given transaction.
func (r *ReconciliationRepository) Create(ctx context.Context, tx usecase.Transaction, rec *domain.Reconciliation) error {
	db := queryer(tx, r.pool)

	query := `
		INSERT INTO reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := db.Exec(ctx, query,
		rec.ID,
		rec.DrawerID,
		rec.CurrencyID,
		rec.ShiftID,
		decimalToNumeric(rec.ExpectedBalance),
		decimalToNumeric(rec.ActualBalance),
		decimalToNumeric(rec.Difference),
		string(rec.Status),
		rec.Notes,
		rec.ReconciledBy,
		timeToPgTimestamptz(rec.CreatedAt),
	)

	return err
}

// ListByDrawer returns reconciliations for a drawer, newest first.
func (r *ReconciliationRepository) ListByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.Reconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliations
		WHERE drawer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, drawerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReconciliations(rows)
}

// ListByShift returns the reconciliations recorded while closing a shift.
func (r *ReconciliationRepository) ListByShift(ctx context.Context, shiftID string) ([]*domain.Reconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliations
		WHERE shift_id = $1
		ORDER BY currency_id
	`

	rows, err := r.pool.Query(ctx, query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReconciliations(rows)
}

func collectReconciliations(rows pgx.Rows) ([]*domain.Reconciliation, error) {
	var recs []*domain.Reconciliation
	for rows.Next() {
		rec, err := scanReconciliation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanReconciliation(row pgx.Row) (*domain.Reconciliation, error) {
	var (
		rec       domain.Reconciliation
		expected  pgtype.Numeric
		actual    pgtype.Numeric
		diff      pgtype.Numeric
		status    string
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&rec.ID,
		&rec.DrawerID,
		&rec.CurrencyID,
		&rec.ShiftID,
		&expected,
		&actual,
		&diff,
		&status,
		&rec.Notes,
		&rec.ReconciledBy,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	rec.ExpectedBalance = numericToDecimal(expected)
	rec.ActualBalance = numericToDecimal(actual)
	rec.Difference = numericToDecimal(diff)
	rec.Status = domain.VarianceStatus(status)
	rec.CreatedAt = createdAt.Time

	return &rec, nil
}
