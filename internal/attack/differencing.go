package attack

import (
	"context"
	"log/slog"
	"math"

	"inferguard/internal/domain"
)

// Differencing infers an individual's value from two aggregates that
// differ only by that individual's inclusion: the group average with the
// target and the group average without, scaled back to sums and
// subtracted.
type Differencing struct {
	exec   domain.Executor
	logger *slog.Logger
	target domain.DifferencingTarget
}

func NewDifferencing(exec domain.Executor, logger *slog.Logger, target domain.DifferencingTarget) *Differencing {
	return &Differencing{
		exec:   exec,
		logger: logger.With("component", "attack", "attack", domain.AttackDifferencing),
		target: target,
	}
}

var _ Attack = (*Differencing)(nil)

func (a *Differencing) Kind() domain.AttackKind { return domain.AttackDifferencing }

func (a *Differencing) Run(ctx context.Context, ident domain.Identity) *domain.AttackResult {
	a.logger.Info("running differencing attack", "target", a.target.Name, "group", a.target.Group)

	withTarget, err := a.exec.Execute(ctx, domain.NewQuery(
		"SELECT AVG(salary) AS avg_salary, COUNT(*) AS emp_count FROM employees WHERE department = ?",
		a.target.Group), ident)
	if err != nil {
		return failedResult(a.Kind(), a.target.Name, "Failed to execute first query", 1)
	}
	avgWith, countWith, ok := groupAggregates(withTarget, "avg_salary", "emp_count")
	if !ok {
		return failedResult(a.Kind(), a.target.Name, "Failed to execute first query", 1)
	}
	a.logger.Debug("group aggregate with target", "avg", avgWith, "count", countWith)

	withoutTarget, err := a.exec.Execute(ctx, domain.NewQuery(
		"SELECT AVG(salary) AS avg_salary, COUNT(*) AS emp_count FROM employees WHERE department = ? AND name != ?",
		a.target.Group, a.target.Name), ident)
	if err != nil {
		return failedResult(a.Kind(), a.target.Name, "Failed to execute second query", 2)
	}
	avgWithout, countWithout, ok := groupAggregates(withoutTarget, "avg_salary", "emp_count")
	if !ok {
		return failedResult(a.Kind(), a.target.Name, "Failed to execute second query", 2)
	}
	a.logger.Debug("group aggregate without target", "avg", avgWithout, "count", countWithout)

	inferred := avgWith*float64(countWith) - avgWithout*float64(countWithout)

	result := &domain.AttackResult{
		Attack:   a.Kind(),
		Success:  true,
		Target:   a.target.Name,
		Inferred: map[string]interface{}{a.target.Name: inferred},
		Details: map[string]interface{}{
			"group":       a.target.Group,
			"group_count": countWith,
		},
		QueriesUsed: 2,
	}

	// Unrestricted verification lookup; not counted as a reconstruction
	// query.
	verify, err := a.exec.Execute(ctx, domain.NewQuery(
		"SELECT salary FROM employees WHERE name = ?", a.target.Name), ident)
	if err == nil {
		if actual, ok := firstNumber(verify, "salary"); ok {
			absErr := math.Abs(inferred - actual)
			result.Actual = map[string]interface{}{a.target.Name: actual}
			result.ErrorMetrics = map[string]float64{"error": absErr}
			if actual != 0 {
				result.ErrorMetrics["error_pct"] = absErr / actual * 100
			}
		}
	}

	a.logger.Info("differencing attack complete", "target", a.target.Name, "inferred", inferred)
	return result
}
