package domain

import (
	"context"
	"time"
)

// AuditEntry records one write-back action against the external record
// store. Entries are best-effort operational history, not a source of truth;
// roster reads never consult them.
type AuditEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Table     string    `json:"table"`
	RecordID  int64     `json:"recordId"`
	RequestID string    `json:"requestId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuditRepository persists write-back audit entries.
type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]AuditEntry, error)
}
