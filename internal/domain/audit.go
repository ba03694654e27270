package domain

import "time"

// AuditRecord is one gateway execution record. The Executor Gateway writes
// one for every call it receives, success or failure. Append-only.
type AuditRecord struct {
	ID          string    `json:"id"`
	Caller      string    `json:"caller"`
	QueryText   string    `json:"query_text"`
	ResultCount int       `json:"result_count"`
	WasBlocked  bool      `json:"was_blocked"`
	BlockReason *string   `json:"block_reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditFilter holds filter parameters for listing audit records.
type AuditFilter struct {
	Caller  *string
	Blocked *bool
	Limit   int
}
