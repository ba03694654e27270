package api

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"inferguard/internal/domain"
	"inferguard/internal/middleware"
	"inferguard/internal/protect"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serveAs routes one request through the handler with the caller principal
// already resolved, the way the auth middleware would have left it.
func serveAs(t *testing.T, h *APIHandler, caller, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if caller != "" {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), caller))
	}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

// === Executor Mock ===

type mockExecutor struct {
	executeFn func(ctx context.Context, q domain.Query, ident domain.Identity) (*domain.ResultSet, error)
}

func (m *mockExecutor) Execute(ctx context.Context, q domain.Query, ident domain.Identity) (*domain.ResultSet, error) {
	if m.executeFn != nil {
		return m.executeFn(ctx, q, ident)
	}
	panic("unexpected call to mockExecutor.Execute")
}

// === Strategy Mock ===

type mockStrategy struct {
	kind       domain.StrategyKind
	evaluateFn func(ctx context.Context, q domain.Query, ident domain.Identity) *domain.Outcome
}

func (m *mockStrategy) Kind() domain.StrategyKind { return m.kind }

func (m *mockStrategy) Evaluate(ctx context.Context, q domain.Query, ident domain.Identity) *domain.Outcome {
	if m.evaluateFn != nil {
		return m.evaluateFn(ctx, q, ident)
	}
	panic("unexpected call to mockStrategy.Evaluate")
}

// === AuditSink Mock ===

type mockAuditSink struct {
	recordFn func(ctx context.Context, rec *domain.AuditRecord) error
	listFn   func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditRecord, error)
}

func (m *mockAuditSink) Record(ctx context.Context, rec *domain.AuditRecord) error {
	if m.recordFn != nil {
		return m.recordFn(ctx, rec)
	}
	panic("unexpected call to mockAuditSink.Record")
}

func (m *mockAuditSink) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	panic("unexpected call to mockAuditSink.List")
}

// === HistoryStore Mock ===

type mockHistoryStore struct {
	appendFn func(ctx context.Context, caller, queryText string, resultSetHash *string) error
	recentFn func(ctx context.Context, caller string, limit int) ([]domain.HistoryEntry, error)
}

func (m *mockHistoryStore) Append(ctx context.Context, caller, queryText string, resultSetHash *string) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, caller, queryText, resultSetHash)
	}
	panic("unexpected call to mockHistoryStore.Append")
}

func (m *mockHistoryStore) Recent(ctx context.Context, caller string, limit int) ([]domain.HistoryEntry, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, caller, limit)
	}
	panic("unexpected call to mockHistoryStore.Recent")
}

var (
	_ domain.Executor     = (*mockExecutor)(nil)
	_ protect.Strategy    = (*mockStrategy)(nil)
	_ domain.AuditSink    = (*mockAuditSink)(nil)
	_ domain.HistoryStore = (*mockHistoryStore)(nil)
)
