package protect

import (
	"context"
	"io"
	"log/slog"

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

// === History Store Mock ===

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

var (
	_ domain.Executor     = (*mockExecutor)(nil)
	_ domain.HistoryStore = (*mockHistoryStore)(nil)
	_ Strategy            = (*mockStrategy)(nil)
)
