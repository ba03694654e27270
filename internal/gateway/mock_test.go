package gateway

import (
	"context"

	"inferguard/internal/domain"
)

// === Store Mock ===

type mockStore struct {
	executeFn func(ctx context.Context, q domain.Query, ident domain.Identity) (*domain.ResultSet, error)
}

func (m *mockStore) Execute(ctx context.Context, q domain.Query, ident domain.Identity) (*domain.ResultSet, error) {
	if m.executeFn != nil {
		return m.executeFn(ctx, q, ident)
	}
	panic("unexpected call to mockStore.Execute")
}

// === Audit Sink Mock ===

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

var (
	_ domain.Store     = (*mockStore)(nil)
	_ domain.AuditSink = (*mockAuditSink)(nil)
)
