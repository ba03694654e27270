package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"inferguard/internal/domain"
)

// HistoryRepo persists per-caller query history. Entries are immutable once
// written; only Append and Recent exist.
type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

var _ domain.HistoryStore = (*HistoryRepo)(nil)

// Append writes one history entry for the caller. The query hash is
// computed here so every entry carries one regardless of which strategy
// recorded it.
func (r *HistoryRepo) Append(ctx context.Context, caller, queryText string, resultSetHash *string) error {
	sum := sha256.Sum256([]byte(queryText))

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO query_history (id, caller, query_hash, query_text, result_set_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		domain.NewID(),
		caller,
		hex.EncodeToString(sum[:]),
		queryText,
		nullStr(resultSetHash),
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}
	return nil
}

// Recent returns the caller's most recent entries, newest first.
func (r *HistoryRepo) Recent(ctx context.Context, caller string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, caller, query_hash, query_text, result_set_hash, created_at
		FROM query_history
		WHERE caller = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		caller, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history entries: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			e         domain.HistoryEntry
			hash      sql.NullString
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Caller, &e.QueryHash, &e.QueryText, &hash, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.ResultSetHash = strPtr(hash)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
