// Package gateway provides the audited execution boundary between the
// disclosure-control layer and the sensitive store.
package gateway

import (
	"context"
	"log/slog"
	"strings"

	"inferguard/internal/domain"
)

// Gateway is the sole point of contact with the sensitive store. Every
// call is audited, allowed or not, so the audit log is a complete record
// of what reached the store. Strategies and attacks never hold a store
// handle themselves.
type Gateway struct {
	store  domain.Store
	audit  domain.AuditSink
	logger *slog.Logger
}

// New creates a Gateway over the given store and audit sink.
func New(store domain.Store, audit domain.AuditSink, logger *slog.Logger) *Gateway {
	return &Gateway{
		store:  store,
		audit:  audit,
		logger: logger.With("component", "gateway"),
	}
}

var _ domain.Executor = (*Gateway)(nil)

// Execute runs the query as the given identity and audits the call.
// Store failures come back as error values; callers treat them as normal
// negative results, never as panics.
func (g *Gateway) Execute(ctx context.Context, q domain.Query, ident domain.Identity) (*domain.ResultSet, error) {
	if strings.TrimSpace(q.Text()) == "" {
		return nil, domain.ErrValidation("query text is required")
	}

	rs, err := g.store.Execute(ctx, q, ident)
	if err != nil {
		reason := err.Error()
		g.logAudit(ctx, ident.Caller, q.Text(), 0, true, &reason)
		return nil, err
	}

	g.logAudit(ctx, ident.Caller, q.Text(), rs.RowCount(), false, nil)
	return rs, nil
}

// logAudit records the call. Audit writes are fire-and-forget: a sink
// failure is logged and never fails the execution it describes.
func (g *Gateway) logAudit(ctx context.Context, caller, queryText string, resultCount int, blocked bool, reason *string) {
	rec := &domain.AuditRecord{
		Caller:      caller,
		QueryText:   queryText,
		ResultCount: resultCount,
		WasBlocked:  blocked,
		BlockReason: reason,
	}
	if err := g.audit.Record(ctx, rec); err != nil {
		g.logger.Warn("audit record failed", "caller", caller, "error", err)
	}
}
