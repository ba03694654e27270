package attack

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"inferguard/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
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

var _ domain.Executor = (*mockExecutor)(nil)

// script wires canned responses keyed by exact query text; the handler
// still sees the full query for parameter-sensitive responses.
type script map[string]func(q domain.Query) (*domain.ResultSet, error)

func scriptedExecutor(t *testing.T, s script) *mockExecutor {
	t.Helper()
	return &mockExecutor{
		executeFn: func(_ context.Context, q domain.Query, _ domain.Identity) (*domain.ResultSet, error) {
			fn, ok := s[q.Text()]
			if !ok {
				t.Fatalf("unscripted query: %s", q.Text())
			}
			return fn(q)
		},
	}
}

func rows(cols []string, rs ...domain.Row) *domain.ResultSet {
	return &domain.ResultSet{Columns: cols, Rows: rs}
}
