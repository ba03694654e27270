package protect

import (
	"context"

	"inferguard/internal/domain"
)

// NoProtection is the baseline: every query passes straight through. It
// exists so the comparator can show unprotected disclosure next to each
// control.
type NoProtection struct {
	exec domain.Executor
}

func NewNoProtection(exec domain.Executor) *NoProtection {
	return &NoProtection{exec: exec}
}

var _ Strategy = (*NoProtection)(nil)

func (s *NoProtection) Kind() domain.StrategyKind { return domain.StrategyNoProtection }

func (s *NoProtection) Evaluate(ctx context.Context, q domain.Query, ident domain.Identity) *domain.Outcome {
	rs, err := s.exec.Execute(ctx, q, ident)
	if err != nil {
		return domain.BlockedOutcome(s.Kind(), err.Error(), "")
	}
	return domain.AllowedOutcome(s.Kind(), rs, "")
}
