package attack

import (
	"context"
	"log/slog"
	"time"

	"inferguard/internal/domain"
)

// SuiteTargets are the predetermined targets a demonstration run attacks,
// one per attack kind.
type SuiteTargets struct {
	Differencing domain.DifferencingTarget
	Tracker      domain.TrackerTarget
	Sum          domain.SumTarget
	Linear       domain.LinearSystemTarget
}

// Suite runs the fixed demonstration sequence (differencing, tracker, sum,
// linear system) against predetermined targets and tallies successes. Pure
// orchestration; every attack runs regardless of earlier failures.
type Suite struct {
	exec    domain.Executor
	base    *slog.Logger
	logger  *slog.Logger
	targets SuiteTargets
}

func NewSuite(exec domain.Executor, logger *slog.Logger, targets SuiteTargets) *Suite {
	return &Suite{
		exec:    exec,
		base:    logger,
		logger:  logger.With("component", "attack_suite"),
		targets: targets,
	}
}

func (s *Suite) Run(ctx context.Context, ident domain.Identity) *domain.SuiteResult {
	kinds := domain.AllAttackKinds()

	result := &domain.SuiteResult{
		RunID:   domain.NewID(),
		RanAt:   time.Now().UTC(),
		Results: make([]domain.AttackResult, 0, len(kinds)),
		Total:   len(kinds),
	}
	s.logger.Info("attack suite starting", "run_id", result.RunID, "caller", ident.Caller)

	for _, kind := range kinds {
		out := s.build(kind).Run(ctx, ident)
		result.Results = append(result.Results, *out)
		if out.Success {
			result.Successes++
		}
	}

	s.logger.Info("attack suite complete",
		"run_id", result.RunID,
		"successes", result.Successes,
		"total", result.Total)
	return result
}

// RunOne runs a single attack kind against its configured target.
func (s *Suite) RunOne(ctx context.Context, kind domain.AttackKind, ident domain.Identity) (*domain.AttackResult, error) {
	atk := s.build(kind)
	if atk == nil {
		return nil, domain.ErrValidation("unknown attack kind %q", kind)
	}
	return atk.Run(ctx, ident), nil
}

func (s *Suite) build(kind domain.AttackKind) Attack {
	switch kind {
	case domain.AttackDifferencing:
		return NewDifferencing(s.exec, s.base, s.targets.Differencing)
	case domain.AttackTracker:
		return NewTracker(s.exec, s.base, s.targets.Tracker)
	case domain.AttackSum:
		return NewSum(s.exec, s.base, s.targets.Sum)
	case domain.AttackLinearSystem:
		return NewLinearSystem(s.exec, s.base, s.targets.Linear)
	default:
		return nil
	}
}
