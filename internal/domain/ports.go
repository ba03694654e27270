package domain

import "context"

// Store executes SQL against the sensitive relational store. The identity's
// credentials select the effective access rights; row- and column-level
// security is enforced entirely by the store, never here.
// Implemented by the adapters in internal/store.
type Store interface {
	Execute(ctx context.Context, q Query, ident Identity) (*ResultSet, error)
}

// Executor is the audited execution boundary every strategy and attack
// calls through. Implemented by gateway.Gateway.
type Executor interface {
	Execute(ctx context.Context, q Query, ident Identity) (*ResultSet, error)
}

// AuditSink records gateway executions. Record is treated as
// fire-and-forget by the gateway: a sink failure must never fail the
// calling operation.
type AuditSink interface {
	Record(ctx context.Context, rec *AuditRecord) error
	List(ctx context.Context, filter AuditFilter) ([]AuditRecord, error)
}

// HistoryStore is the append-only per-caller query log consumed by Overlap
// Control. Append computes the query hash; Recent returns entries most
// recent first.
type HistoryStore interface {
	Append(ctx context.Context, caller, queryText string, resultSetHash *string) error
	Recent(ctx context.Context, caller string, limit int) ([]HistoryEntry, error)
}
