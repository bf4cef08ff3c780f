package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"volunteerhub/internal/domain"
)

// AuditRepositoryPG implements domain.AuditRepository.
type AuditRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new audit log repository backed by PostgreSQL.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepositoryPG {
	return &AuditRepositoryPG{pool: pool}
}

// Record inserts one write-back audit entry.
func (r *AuditRepositoryPG) Record(ctx context.Context, entry *domain.AuditEntry) error {
	query := `
INSERT INTO audit_entries (id, action, table_name, record_id, request_id, detail, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.Action,
		entry.Table,
		entry.RecordID,
		entry.RequestID,
		entry.Detail,
		entry.CreatedAt,
	)
	return err
}

// ListRecent returns the newest audit entries, most recent first.
func (r *AuditRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
SELECT id, action, table_name, record_id, request_id, detail, created_at
FROM audit_entries
ORDER BY created_at DESC
LIMIT $1;
`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(
			&e.ID,
			&e.Action,
			&e.Table,
			&e.RecordID,
			&e.RequestID,
			&e.Detail,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
