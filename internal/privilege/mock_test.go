package privilege

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

var _ domain.Executor = (*mockExecutor)(nil)
