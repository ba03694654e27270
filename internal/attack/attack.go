// Package attack implements the inference attacks run against the demo
// dataset: differencing, tracker, sum, and linear-system reconstruction.
//
// An attack binds its target at construction and issues a short fixed
// sequence of queries through the Executor Gateway when run. Like the
// protection strategies, attacks never return errors: a failed or
// unusable query folds into an unsuccessful AttackResult with a reason.
// Where ground truth is reachable through a verification query, the
// result carries the actual values and an error metric; verification
// lookups are not counted in QueriesUsed.
package attack

import (
	"context"

	"inferguard/internal/domain"
)

// Attack is one inference attempt, fully parameterized at construction.
type Attack interface {
	Kind() domain.AttackKind
	Run(ctx context.Context, ident domain.Identity) *domain.AttackResult
}

// groupAggregates pulls an average and a count out of a single-row
// aggregate result. A missing row or a NULL aggregate (an empty group
// averages to NULL) makes the result unusable.
func groupAggregates(rs *domain.ResultSet, avgKey, countKey string) (avg float64, count int, ok bool) {
	if rs.RowCount() == 0 {
		return 0, 0, false
	}
	avg, ok = rs.Rows[0].Number(avgKey)
	if !ok {
		return 0, 0, false
	}
	n, ok := rs.Rows[0].Number(countKey)
	if !ok {
		return 0, 0, false
	}
	return avg, int(n), true
}

// firstNumber pulls one numeric column out of the first row, if any.
func firstNumber(rs *domain.ResultSet, key string) (float64, bool) {
	if rs.RowCount() == 0 {
		return 0, false
	}
	return rs.Rows[0].Number(key)
}

func failedResult(kind domain.AttackKind, target, reason string, queriesUsed int) *domain.AttackResult {
	return &domain.AttackResult{
		Attack:      kind,
		Target:      target,
		Reason:      reason,
		QueriesUsed: queriesUsed,
	}
}
