package protect

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"inferguard/internal/domain"
)

// Comparator runs every registered strategy over the same query exactly once
// and collects the outcomes side by side. Strategies evaluate concurrently
// and independently: each issues its own calls through the executor, so the
// audit trail records one execution per strategy and no strategy sees
// another's result.
type Comparator struct {
	strategies []Strategy
	logger     *slog.Logger
}

func NewComparator(logger *slog.Logger, strategies ...Strategy) *Comparator {
	return &Comparator{
		strategies: strategies,
		logger:     logger.With("component", "comparator"),
	}
}

// Kinds returns the registered strategy tags in registration order.
func (c *Comparator) Kinds() []domain.StrategyKind {
	kinds := make([]domain.StrategyKind, len(c.strategies))
	for i, s := range c.strategies {
		kinds[i] = s.Kind()
	}
	return kinds
}

// ByKind returns the registered strategy with the given tag.
func (c *Comparator) ByKind(kind domain.StrategyKind) (Strategy, bool) {
	for _, s := range c.strategies {
		if s.Kind() == kind {
			return s, true
		}
	}
	return nil, false
}

// EvaluateOne runs the query under a single registered strategy.
func (c *Comparator) EvaluateOne(ctx context.Context, kind domain.StrategyKind, q domain.Query, ident domain.Identity) (*domain.Outcome, error) {
	strat, ok := c.ByKind(kind)
	if !ok {
		return nil, domain.ErrValidation("unknown strategy kind %q", kind)
	}
	out := strat.Evaluate(ctx, q, ident)
	c.logger.Debug("strategy evaluated",
		"strategy", out.Strategy,
		"blocked", out.Blocked,
		"caller", ident.Caller)
	return out, nil
}

// Compare evaluates the query under every strategy and returns the outcomes
// keyed by strategy tag.
func (c *Comparator) Compare(ctx context.Context, q domain.Query, ident domain.Identity) map[domain.StrategyKind]*domain.Outcome {
	outcomes := make([]*domain.Outcome, len(c.strategies))

	g, gctx := errgroup.WithContext(ctx)
	for i := range c.strategies {
		strat := c.strategies[i]
		g.Go(func() error {
			out := strat.Evaluate(gctx, q, ident)
			c.logger.Debug("strategy evaluated",
				"strategy", out.Strategy,
				"blocked", out.Blocked,
				"caller", ident.Caller)
			outcomes[i] = out
			return nil
		})
	}
	// Evaluate folds failures into outcomes, so Wait only synchronizes.
	_ = g.Wait()

	result := make(map[domain.StrategyKind]*domain.Outcome, len(outcomes))
	for _, out := range outcomes {
		result[out.Strategy] = out
	}
	return result
}
