package attack

import (
	"context"
	"log/slog"

	"inferguard/internal/domain"
)

// Tracker infers whether the target sits above a value threshold by
// counting group members over the threshold with and without the target
// excluded by name. A strict count difference means the target is above.
// No arithmetic reconstruction is involved; this is pure membership
// inference.
type Tracker struct {
	exec   domain.Executor
	logger *slog.Logger
	target domain.TrackerTarget
}

func NewTracker(exec domain.Executor, logger *slog.Logger, target domain.TrackerTarget) *Tracker {
	return &Tracker{
		exec:   exec,
		logger: logger.With("component", "attack", "attack", domain.AttackTracker),
		target: target,
	}
}

var _ Attack = (*Tracker)(nil)

func (a *Tracker) Kind() domain.AttackKind { return domain.AttackTracker }

func (a *Tracker) Run(ctx context.Context, ident domain.Identity) *domain.AttackResult {
	a.logger.Info("running tracker attack", "target", a.target.Name, "threshold", a.target.Threshold)

	deptRS, err := a.exec.Execute(ctx, domain.NewQuery(
		"SELECT department FROM employees WHERE name = ?", a.target.Name), ident)
	if err != nil || deptRS.RowCount() == 0 {
		return failedResult(a.Kind(), a.target.Name, "Could not find target employee", 0)
	}
	department, _ := deptRS.Rows[0]["department"].(string)

	countWith := a.thresholdCount(ctx, ident, domain.NewQuery(
		"SELECT COUNT(*) AS high_earner_count FROM employees WHERE department = ? AND salary > ?",
		department, a.target.Threshold))
	countWithout := a.thresholdCount(ctx, ident, domain.NewQuery(
		"SELECT COUNT(*) AS high_earner_count FROM employees WHERE department = ? AND salary > ? AND name != ?",
		department, a.target.Threshold, a.target.Name))
	a.logger.Debug("threshold counts", "with_target", countWith, "without_target", countWithout)

	isAbove := countWith > countWithout

	result := &domain.AttackResult{
		Attack:   a.Kind(),
		Success:  true,
		Target:   a.target.Name,
		Inferred: map[string]interface{}{"above_threshold": isAbove},
		Details: map[string]interface{}{
			"department":           department,
			"threshold":            a.target.Threshold,
			"count_with_target":    countWith,
			"count_without_target": countWithout,
		},
		QueriesUsed: 2,
	}

	verify, err := a.exec.Execute(ctx, domain.NewQuery(
		"SELECT salary FROM employees WHERE name = ?", a.target.Name), ident)
	if err == nil {
		if actual, ok := firstNumber(verify, "salary"); ok {
			actualAbove := actual > a.target.Threshold
			result.Actual = map[string]interface{}{
				"above_threshold": actualAbove,
				"salary":          actual,
			}
			correct := 0.0
			if isAbove == actualAbove {
				correct = 1.0
			}
			result.ErrorMetrics = map[string]float64{"correct": correct}
		}
	}

	a.logger.Info("tracker attack complete", "target", a.target.Name, "above_threshold", isAbove)
	return result
}

// thresholdCount runs one membership count; a failed or empty count reads
// as zero, same as an empty group.
func (a *Tracker) thresholdCount(ctx context.Context, ident domain.Identity, q domain.Query) int {
	rs, err := a.exec.Execute(ctx, q, ident)
	if err != nil {
		return 0
	}
	n, ok := firstNumber(rs, "high_earner_count")
	if !ok {
		return 0
	}
	return int(n)
}
