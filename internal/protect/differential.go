package protect

import (
	"context"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"inferguard/internal/domain"
)

// DifferentialPrivacy perturbs every numeric field of every returned row
// with independent Laplace noise of scale 1/epsilon. It never blocks;
// protection comes from the noise, not from refusal.
type DifferentialPrivacy struct {
	exec    domain.Executor
	epsilon float64
	dist    distuv.Laplace
}

func NewDifferentialPrivacy(exec domain.Executor, epsilon float64) *DifferentialPrivacy {
	return &DifferentialPrivacy{
		exec:    exec,
		epsilon: epsilon,
		dist:    distuv.Laplace{Mu: 0, Scale: 1 / epsilon},
	}
}

// SetSource fixes the noise source. With the default nil source the
// shared thread-safe generator is used; a fixed source makes draws
// deterministic and must not be shared across goroutines.
func (s *DifferentialPrivacy) SetSource(src rand.Source) {
	s.dist.Src = src
}

var _ Strategy = (*DifferentialPrivacy)(nil)

func (s *DifferentialPrivacy) Kind() domain.StrategyKind { return domain.StrategyDifferentialPrivacy }

func (s *DifferentialPrivacy) Evaluate(ctx context.Context, q domain.Query, ident domain.Identity) *domain.Outcome {
	baseDescriptor := fmt.Sprintf("epsilon=%g", s.epsilon)

	rs, err := s.exec.Execute(ctx, q, ident)
	if err != nil {
		return domain.BlockedOutcome(s.Kind(), err.Error(), baseDescriptor)
	}
	if rs.RowCount() == 0 {
		return domain.AllowedOutcome(s.Kind(), rs, baseDescriptor)
	}

	noisy := &domain.ResultSet{
		Columns: rs.Columns,
		Rows:    make([]domain.Row, 0, rs.RowCount()),
	}
	for _, row := range rs.Rows {
		noisyRow := make(domain.Row, len(row))
		for key, value := range row {
			if n, ok := domain.Number(value); ok {
				noisyRow[key] = n + s.dist.Rand()
			} else {
				noisyRow[key] = value
			}
		}
		noisy.Rows = append(noisy.Rows, noisyRow)
	}

	return domain.AllowedOutcome(s.Kind(), noisy, baseDescriptor+", laplace_noise_added")
}
