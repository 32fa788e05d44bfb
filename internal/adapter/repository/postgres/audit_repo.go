package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

// AuditRepository implements audit log persistence.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create inserts a new audit log entry outside any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.insert(ctx, r.pool, log)
}

// CreateTx inserts a new audit log entry inside the given transaction, so
// the record commits or rolls back together with the operation it audits.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return r.insert(ctx, queryer(tx, r.pool), log)
}

func (r *AuditRepository) insert(ctx context.Context, db dbtx, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	var oldValuesJSON, newValuesJSON []byte
	var err error

	if log.OldValues != nil {
		oldValuesJSON, err = json.Marshal(log.OldValues)
		if err != nil {
			return err
		}
	}

	if log.NewValues != nil {
		newValuesJSON, err = json.Marshal(log.NewValues)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_logs (
			id, actor_id, action, resource_type, resource_id,
			old_values, new_values, severity, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = db.Exec(ctx, query,
		log.ID,
		log.ActorID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		oldValuesJSON,
		newValuesJSON,
		string(log.Severity),
		log.CreatedAt,
	)

	return err
}
