package protect

import (
	"context"
	"fmt"

	"inferguard/internal/domain"
	"inferguard/internal/sqlshape"
)

// MinimumSize blocks queries whose result set is smaller than the
// configured minimum. The size is established before the real query runs,
// by executing a count-equivalent derived from the query's shape; a query
// the recognizer cannot transform is treated as an execution failure.
type MinimumSize struct {
	exec    domain.Executor
	minSize int
}

func NewMinimumSize(exec domain.Executor, minSize int) *MinimumSize {
	return &MinimumSize{exec: exec, minSize: minSize}
}

var _ Strategy = (*MinimumSize)(nil)

func (s *MinimumSize) Kind() domain.StrategyKind { return domain.StrategyMinimumSize }

func (s *MinimumSize) Evaluate(ctx context.Context, q domain.Query, ident domain.Identity) *domain.Outcome {
	baseDescriptor := fmt.Sprintf("min_size=%d", s.minSize)

	countText, err := sqlshape.CountEquivalent(q.Text())
	if err != nil {
		return domain.BlockedOutcome(s.Kind(), err.Error(), baseDescriptor)
	}

	countRS, err := s.exec.Execute(ctx, domain.NewQuery(countText, q.Params()...), ident)
	if err != nil {
		return domain.BlockedOutcome(s.Kind(), err.Error(), baseDescriptor)
	}

	count := 0
	if countRS.RowCount() > 0 {
		if n, ok := countRS.Rows[0].Number("count"); ok {
			count = int(n)
		}
	}

	if count < s.minSize {
		reason := fmt.Sprintf("Result set too small: %d < %d", count, s.minSize)
		return domain.BlockedOutcome(s.Kind(), reason, baseDescriptor)
	}

	rs, err := s.exec.Execute(ctx, q, ident)
	descriptor := fmt.Sprintf("min_size=%d, actual_size=%d", s.minSize, count)
	if err != nil {
		return domain.BlockedOutcome(s.Kind(), err.Error(), descriptor)
	}
	return domain.AllowedOutcome(s.Kind(), rs, descriptor)
}
