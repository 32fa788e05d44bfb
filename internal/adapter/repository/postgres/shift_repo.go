package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// ShiftRepository implements usecase.ShiftRepository.
type ShiftRepository struct {
	pool *pgxpool.Pool
}

// NewShiftRepository creates a new ShiftRepository.
func NewShiftRepository(pool *pgxpool.Pool) *ShiftRepository {
	return &ShiftRepository{pool: pool}
}

// Create inserts a new shift. The partial unique index
// shifts_one_active_per_employee turns a concurrent second start into a
// unique violation, which maps to domain.ErrShiftAlreadyActive.
func (r *ShiftRepository) Create(ctx context.Context, tx usecase.Transaction, shift *domain.Shift) error {
	db := queryer(tx, r.pool)

	query := `
		INSERT INTO shifts (
			id, employee_id, drawer_id, status, start_time, end_time,
			opening_notes, closing_notes, handover_to, handover_notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := db.Exec(ctx, query,
		shift.ID,
		shift.EmployeeID,
		shift.DrawerID,
		string(shift.Status),
		timeToPgTimestamptz(shift.StartTime),
		timePtrToPgTimestamptz(shift.EndTime),
		shift.OpeningNotes,
		shift.ClosingNotes,
		shift.HandoverTo,
		shift.HandoverNotes,
		timeToPgTimestamptz(shift.CreatedAt),
		timeToPgTimestamptz(shift.UpdatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrShiftAlreadyActive
		}
		return err
	}

	return nil
}

const shiftColumns = `
	id, employee_id, drawer_id, status, start_time, end_time,
	opening_notes, closing_notes, handover_to, handover_notes,
	created_at, updated_at
`

// GetByID retrieves a shift by ID.
func (r *ShiftRepository) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	shift, err := scanShift(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, err
	}

	return shift, nil
}

// GetByIDForUpdate retrieves a shift by ID with a FOR UPDATE lock.
func (r *ShiftRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Shift, error) {
	db := queryer(tx, r.pool)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1 FOR UPDATE`

	shift, err := scanShift(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, err
	}

	return shift, nil
}

// GetActiveByEmployee retrieves the employee's active shift, if any.
func (r *ShiftRepository) GetActiveByEmployee(ctx context.Context, employeeID string) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE employee_id = $1 AND status = 'active'`

	shift, err := scanShift(r.pool.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, err
	}

	return shift, nil
}

// ListActiveByDrawer retrieves every active shift assigned to a drawer.
func (r *ShiftRepository) ListActiveByDrawer(ctx context.Context, drawerID string) ([]*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE drawer_id = $1 AND status = 'active'`

	rows, err := r.pool.Query(ctx, query, drawerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*domain.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	return shifts, rows.Err()
}

// UpdateClose persists a transition into a terminal state.
func (r *ShiftRepository) UpdateClose(ctx context.Context, tx usecase.Transaction, shift *domain.Shift) error {
	db := queryer(tx, r.pool)

	query := `
		UPDATE shifts
		SET status = $2, end_time = $3, closing_notes = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := db.Exec(ctx, query,
		shift.ID,
		string(shift.Status),
		timePtrToPgTimestamptz(shift.EndTime),
		shift.ClosingNotes,
		timeToPgTimestamptz(shift.UpdatedAt),
	)

	return err
}

// UpdateHandover records the handover link on the source shift. The shift
// stays active; this is a recorded link, not a status change.
func (r *ShiftRepository) UpdateHandover(ctx context.Context, tx usecase.Transaction, shiftID, handoverTo string, handoverNotes *string, updatedAt time.Time) error {
	db := queryer(tx, r.pool)

	query := `
		UPDATE shifts
		SET handover_to = $2, handover_notes = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := db.Exec(ctx, query, shiftID, handoverTo, handoverNotes, timeToPgTimestamptz(updatedAt))
	return err
}

// CreateBalance inserts one opening balance row.
func (r *ShiftRepository) CreateBalance(ctx context.Context, tx usecase.Transaction, balance *domain.ShiftBalance) error {
	db := queryer(tx, r.pool)

	query := `
		INSERT INTO shift_balances (shift_id, currency_id, opening_balance)
		VALUES ($1, $2, $3)
	`

	_, err := db.Exec(ctx, query, balance.ShiftID, balance.CurrencyID, decimalToNumeric(balance.OpeningBalance))
	return err
}

// GetBalances retrieves all balance rows of a shift.
func (r *ShiftRepository) GetBalances(ctx context.Context, tx usecase.Transaction, shiftID string) ([]*domain.ShiftBalance, error) {
	db := queryer(tx, r.pool)

	query := `
		SELECT shift_id, currency_id, opening_balance, closing_balance, expected_closing, difference
		FROM shift_balances
		WHERE shift_id = $1
		ORDER BY currency_id
	`

	rows, err := db.Query(ctx, query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*domain.ShiftBalance
	for rows.Next() {
		var (
			balance  domain.ShiftBalance
			opening  pgtype.Numeric
			closing  pgtype.Numeric
			expected pgtype.Numeric
			diff     pgtype.Numeric
		)
		if err := rows.Scan(&balance.ShiftID, &balance.CurrencyID, &opening, &closing, &expected, &diff); err != nil {
			return nil, err
		}
		balance.OpeningBalance = numericToDecimal(opening)
		balance.ClosingBalance = numericToDecimalPtr(closing)
		balance.ExpectedClosing = numericToDecimalPtr(expected)
		balance.Difference = numericToDecimalPtr(diff)
		balances = append(balances, &balance)
	}

	return balances, rows.Err()
}

// UpsertBalanceClose writes the closing triple of one currency. A currency
// counted at close without an opening row gets one with a zero opening.
func (r *ShiftRepository) UpsertBalanceClose(ctx context.Context, tx usecase.Transaction, balance *domain.ShiftBalance) error {
	db := queryer(tx, r.pool)

	query := `
		INSERT INTO shift_balances (shift_id, currency_id, opening_balance, closing_balance, expected_closing, difference)
		VALUES ($1, $2, 0, $3, $4, $5)
		ON CONFLICT (shift_id, currency_id) DO UPDATE
		SET closing_balance = EXCLUDED.closing_balance,
		    expected_closing = EXCLUDED.expected_closing,
		    difference = EXCLUDED.difference
	`

	_, err := db.Exec(ctx, query,
		balance.ShiftID,
		balance.CurrencyID,
		decimalPtrToNumeric(balance.ClosingBalance),
		decimalPtrToNumeric(balance.ExpectedClosing),
		decimalPtrToNumeric(balance.Difference),
	)

	return err
}

// CreateSummary inserts the zeroed summary row for a new shift.
func (r *ShiftRepository) CreateSummary(ctx context.Context, tx usecase.Transaction, summary *domain.ShiftSummary) error {
	db := queryer(tx, r.pool)

	query := `
		INSERT INTO shift_summaries (
			shift_id, total_transactions, cancelled_transactions,
			total_profit, total_commission, total_volume_in, total_volume_out,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := db.Exec(ctx, query,
		summary.ShiftID,
		summary.TotalTransactions,
		summary.CancelledTransactions,
		decimalToNumeric(summary.TotalProfit),
		decimalToNumeric(summary.TotalCommission),
		decimalToNumeric(summary.TotalVolumeIn),
		decimalToNumeric(summary.TotalVolumeOut),
		timeToPgTimestamptz(summary.UpdatedAt),
	)

	return err
}

// ReplaceSummary overwrites the summary with a freshly aggregated one.
func (r *ShiftRepository) ReplaceSummary(ctx context.Context, tx usecase.Transaction, summary *domain.ShiftSummary) error {
	db := queryer(tx, r.pool)

	query := `
		UPDATE shift_summaries
		SET total_transactions = $2, cancelled_transactions = $3,
		    total_profit = $4, total_commission = $5,
		    total_volume_in = $6, total_volume_out = $7,
		    updated_at = $8
		WHERE shift_id = $1
	`

	_, err := db.Exec(ctx, query,
		summary.ShiftID,
		summary.TotalTransactions,
		summary.CancelledTransactions,
		decimalToNumeric(summary.TotalProfit),
		decimalToNumeric(summary.TotalCommission),
		decimalToNumeric(summary.TotalVolumeIn),
		decimalToNumeric(summary.TotalVolumeOut),
		timeToPgTimestamptz(summary.UpdatedAt),
	)

	return err
}

// GetSummary retrieves the summary of a shift.
func (r *ShiftRepository) GetSummary(ctx context.Context, shiftID string) (*domain.ShiftSummary, error) {
	query := `
		SELECT shift_id, total_transactions, cancelled_transactions,
		       total_profit, total_commission, total_volume_in, total_volume_out,
		       updated_at
		FROM shift_summaries
		WHERE shift_id = $1
	`

	var (
		summary    domain.ShiftSummary
		profit     pgtype.Numeric
		commission pgtype.Numeric
		volumeIn   pgtype.Numeric
		volumeOut  pgtype.Numeric
		updatedAt  pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, query, shiftID).Scan(
		&summary.ShiftID,
		&summary.TotalTransactions,
		&summary.CancelledTransactions,
		&profit,
		&commission,
		&volumeIn,
		&volumeOut,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, err
	}

	summary.TotalProfit = numericToDecimal(profit)
	summary.TotalCommission = numericToDecimal(commission)
	summary.TotalVolumeIn = numericToDecimal(volumeIn)
	summary.TotalVolumeOut = numericToDecimal(volumeOut)
	summary.UpdatedAt = updatedAt.Time

	return &summary, nil
}

func scanShift(row pgx.Row) (*domain.Shift, error) {
	var (
		shift     domain.Shift
		status    string
		startTime pgtype.Timestamptz
		endTime   pgtype.Timestamptz
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&shift.ID,
		&shift.EmployeeID,
		&shift.DrawerID,
		&status,
		&startTime,
		&endTime,
		&shift.OpeningNotes,
		&shift.ClosingNotes,
		&shift.HandoverTo,
		&shift.HandoverNotes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	shift.Status = domain.ShiftStatus(status)
	shift.StartTime = startTime.Time
	shift.EndTime = pgTimestamptzToTimePtr(endTime)
	shift.CreatedAt = createdAt.Time
	shift.UpdatedAt = updatedAt.Time

	return &shift, nil
}
