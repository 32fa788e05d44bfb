package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository. The ledger_entries
// table is append-only; no update or delete statements exist here.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Create appends a ledger entry.
func (r *LedgerRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	db := queryer(tx, r.pool)

	query := `
		INSERT INTO ledger_entries (
			id, drawer_id, currency_id, kind, amount,
			balance_before, balance_after,
			reference_type, reference_id, performed_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := db.Exec(ctx, query,
		entry.ID,
		entry.DrawerID,
		entry.CurrencyID,
		string(entry.Kind),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.BalanceBefore),
		decimalToNumeric(entry.BalanceAfter),
		entry.ReferenceType,
		entry.ReferenceID,
		entry.PerformedBy,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// ListByDrawer retrieves entries for a drawer, newest first.
func (r *LedgerRepository) ListByDrawer(ctx context.Context, drawerID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, drawer_id, currency_id, kind, amount,
		       balance_before, balance_after,
		       reference_type, reference_id, performed_by, created_at
		FROM ledger_entries
		WHERE drawer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, drawerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListAllByDrawerCurrency retrieves every entry for one drawer and currency
// in creation order, for replay verification.
func (r *LedgerRepository) ListAllByDrawerCurrency(ctx context.Context, drawerID, currencyID string) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, drawer_id, currency_id, kind, amount,
		       balance_before, balance_after,
		       reference_type, reference_id, performed_by, created_at
		FROM ledger_entries
		WHERE drawer_id = $1 AND currency_id = $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, drawerID, currencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// SumByDrawerSince aggregates entries per currency and kind from a point in
// time.
func (r *LedgerRepository) SumByDrawerSince(ctx context.Context, tx usecase.Transaction, drawerID string, since time.Time) ([]*domain.LedgerDelta, error) {
	db := queryer(tx, r.pool)

	query := `
		SELECT currency_id, kind, COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE drawer_id = $1 AND created_at >= $2
		GROUP BY currency_id, kind
	`

	rows, err := db.Query(ctx, query, drawerID, timeToPgTimestamptz(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deltas []*domain.LedgerDelta
	for rows.Next() {
		var (
			delta domain.LedgerDelta
			kind  string
			total pgtype.Numeric
		)
		if err := rows.Scan(&delta.CurrencyID, &kind, &total); err != nil {
			return nil, err
		}
		delta.Kind = domain.EntryKind(kind)
		delta.Total = numericToDecimal(total)
		deltas = append(deltas, &delta)
	}

	return deltas, rows.Err()
}

func collectEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	for rows.Next() {
		var (
			entry     domain.LedgerEntry
			kind      string
			amount    pgtype.Numeric
			before    pgtype.Numeric
			after     pgtype.Numeric
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&entry.ID,
			&entry.DrawerID,
			&entry.CurrencyID,
			&kind,
			&amount,
			&before,
			&after,
			&entry.ReferenceType,
			&entry.ReferenceID,
			&entry.PerformedBy,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		entry.Kind = domain.EntryKind(kind)
		entry.Amount = numericToDecimal(amount)
		entry.BalanceBefore = numericToDecimal(before)
		entry.BalanceAfter = numericToDecimal(after)
		entry.CreatedAt = createdAt.Time

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
