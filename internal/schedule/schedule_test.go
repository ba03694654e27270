package schedule

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inferguard/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// === Runner Mock ===

type mockRunner struct {
	runFn func(ctx context.Context, ident domain.Identity) *domain.SuiteResult
}

func (m *mockRunner) Run(ctx context.Context, ident domain.Identity) *domain.SuiteResult {
	if m.runFn != nil {
		return m.runFn(ctx, ident)
	}
	panic("unexpected call to mockRunner.Run")
}

var _ Runner = (*mockRunner)(nil)

func TestScheduler_Start(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{name: "standard five-field spec", spec: "*/5 * * * *"},
		{name: "descriptor spec", spec: "@every 1h"},
		{name: "garbage spec errors", spec: "whenever", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scheduler := NewScheduler(&mockRunner{}, tt.spec, "probe", discardLogger())
			t.Cleanup(scheduler.Stop)

			err := scheduler.Start()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.spec)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestScheduler_ProbeRunsSuiteUnderItsIdentity(t *testing.T) {
	t.Parallel()

	calls := 0
	runner := &mockRunner{
		runFn: func(_ context.Context, ident domain.Identity) *domain.SuiteResult {
			calls++
			assert.Equal(t, "night_probe", ident.Caller)
			return &domain.SuiteResult{RunID: "r1", Successes: 0, Total: 4}
		},
	}

	scheduler := NewScheduler(runner, "@every 1h", "night_probe", discardLogger())
	scheduler.probe()

	assert.Equal(t, 1, calls)
}

func TestScheduler_ProbeToleratesSuccessfulAttacks(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{
		runFn: func(context.Context, domain.Identity) *domain.SuiteResult {
			return &domain.SuiteResult{RunID: "r2", Successes: 4, Total: 4}
		},
	}

	scheduler := NewScheduler(runner, "@every 1h", "night_probe", discardLogger())

	assert.NotPanics(t, func() { scheduler.probe() })
}
