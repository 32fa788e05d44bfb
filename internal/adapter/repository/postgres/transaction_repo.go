package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository: the read
// side of the exchange transactions written by the surrounding point of
// sale. Both aggregates see only completed, non-deleted rows.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// SumFlowsByShift aggregates qualifying transactions per currency pair.
func (r *TransactionRepository) SumFlowsByShift(ctx context.Context, tx usecase.Transaction, shiftID string) ([]*domain.CurrencyFlow, error) {
	db := queryer(tx, r.pool)

	query := `
		SELECT currency_in_id, currency_out_id,
		       COALESCE(SUM(amount_in), 0), COALESCE(SUM(amount_out), 0)
		FROM exchange_transactions
		WHERE shift_id = $1 AND status = 'completed' AND deleted_at IS NULL
		GROUP BY currency_in_id, currency_out_id
	`

	rows, err := db.Query(ctx, query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flows []*domain.CurrencyFlow
	for rows.Next() {
		var (
			flow     domain.CurrencyFlow
			totalIn  pgtype.Numeric
			totalOut pgtype.Numeric
		)
		if err := rows.Scan(&flow.CurrencyInID, &flow.CurrencyOutID, &totalIn, &totalOut); err != nil {
			return nil, err
		}
		flow.TotalIn = numericToDecimal(totalIn)
		flow.TotalOut = numericToDecimal(totalOut)
		flows = append(flows, &flow)
	}

	return flows, rows.Err()
}

// AggregateSummary computes a fresh shift summary. Cancelled transactions
// are counted but contribute nothing else.
func (r *TransactionRepository) AggregateSummary(ctx context.Context, tx usecase.Transaction, shiftID string) (*domain.ShiftSummary, error) {
	db := queryer(tx, r.pool)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'completed' AND deleted_at IS NULL),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(SUM(profit)     FILTER (WHERE status = 'completed' AND deleted_at IS NULL), 0),
			COALESCE(SUM(commission) FILTER (WHERE status = 'completed' AND deleted_at IS NULL), 0),
			COALESCE(SUM(amount_in)  FILTER (WHERE status = 'completed' AND deleted_at IS NULL), 0),
			COALESCE(SUM(amount_out) FILTER (WHERE status = 'completed' AND deleted_at IS NULL), 0)
		FROM exchange_transactions
		WHERE shift_id = $1
	`

	var (
		summary    domain.ShiftSummary
		profit     pgtype.Numeric
		commission pgtype.Numeric
		volumeIn   pgtype.Numeric
		volumeOut  pgtype.Numeric
	)

	err := db.QueryRow(ctx, query, shiftID).Scan(
		&summary.TotalTransactions,
		&summary.CancelledTransactions,
		&profit,
		&commission,
		&volumeIn,
		&volumeOut,
	)
	if err != nil {
		return nil, err
	}

	summary.ShiftID = shiftID
	summary.TotalProfit = numericToDecimal(profit)
	summary.TotalCommission = numericToDecimal(commission)
	summary.TotalVolumeIn = numericToDecimal(volumeIn)
	summary.TotalVolumeOut = numericToDecimal(volumeOut)

	return &summary, nil
}
