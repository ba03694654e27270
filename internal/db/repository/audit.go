package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"inferguard/internal/domain"
)

// AuditRepo persists gateway execution records. The audit log is
// append-only: records are inserted and listed, never updated or deleted.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

var _ domain.AuditSink = (*AuditRepo)(nil)

// Record inserts one audit record. Missing ID and CreatedAt are filled in.
func (r *AuditRepo) Record(ctx context.Context, rec *domain.AuditRecord) error {
	if rec.ID == "" {
		rec.ID = domain.NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO query_audit (id, caller, query_text, result_count, was_blocked, block_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Caller,
		rec.QueryText,
		rec.ResultCount,
		boolToInt(rec.WasBlocked),
		nullStr(rec.BlockReason),
		formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// List returns audit records matching the filter, most recent first.
// A zero filter returns the most recent 100 records.
func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditRecord, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Caller != nil {
		conds = append(conds, "caller = ?")
		args = append(args, *filter.Caller)
	}
	if filter.Blocked != nil {
		conds = append(conds, "was_blocked = ?")
		args = append(args, boolToInt(*filter.Blocked))
	}

	query := "SELECT id, caller, query_text, result_count, was_blocked, block_reason, created_at FROM query_audit"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var records []domain.AuditRecord
	for rows.Next() {
		var (
			rec       domain.AuditRecord
			blocked   int64
			reason    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Caller, &rec.QueryText, &rec.ResultCount, &blocked, &reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		rec.WasBlocked = blocked != 0
		rec.BlockReason = strPtr(reason)
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}
