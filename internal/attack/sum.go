package attack

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"inferguard/internal/domain"
)

// Sum subtracts already-known member values from a group's total. When
// exactly one member remains unknown, the remainder is that member's exact
// value; the unknown member is identified by enumerating the group and
// removing the known names.
type Sum struct {
	exec   domain.Executor
	logger *slog.Logger
	target domain.SumTarget
}

func NewSum(exec domain.Executor, logger *slog.Logger, target domain.SumTarget) *Sum {
	return &Sum{
		exec:   exec,
		logger: logger.With("component", "attack", "attack", domain.AttackSum),
		target: target,
	}
}

var _ Attack = (*Sum)(nil)

func (a *Sum) Kind() domain.AttackKind { return domain.AttackSum }

func (a *Sum) Run(ctx context.Context, ident domain.Identity) *domain.AttackResult {
	a.logger.Info("running sum attack", "group", a.target.Group, "known", len(a.target.Known))

	totals, err := a.exec.Execute(ctx, domain.NewQuery(
		"SELECT SUM(salary) AS total_salary, COUNT(*) AS emp_count FROM employees WHERE department = ?",
		a.target.Group), ident)
	if err != nil {
		return failedResult(a.Kind(), a.target.Group, "Failed to get department totals", 1)
	}
	totalSum, totalCount, ok := groupAggregates(totals, "total_salary", "emp_count")
	if !ok {
		return failedResult(a.Kind(), a.target.Group, "Failed to get department totals", 1)
	}

	knownSum := 0.0
	for _, v := range a.target.Known {
		knownSum += v
	}
	unknownSum := totalSum - knownSum
	unknownCount := totalCount - len(a.target.Known)
	a.logger.Debug("group totals",
		"total_sum", totalSum, "total_count", totalCount,
		"known_sum", knownSum, "unknown_count", unknownCount)

	details := map[string]interface{}{
		"group":         a.target.Group,
		"total_sum":     totalSum,
		"total_count":   totalCount,
		"known_sum":     knownSum,
		"unknown_sum":   unknownSum,
		"unknown_count": unknownCount,
	}

	if unknownCount != 1 {
		result := failedResult(a.Kind(), a.target.Group,
			fmt.Sprintf("Expected exactly one unknown member, found %d", unknownCount), 1)
		result.Details = details
		return result
	}

	result := &domain.AttackResult{
		Attack:      a.Kind(),
		Success:     true,
		Target:      a.target.Group,
		Inferred:    map[string]interface{}{},
		Details:     details,
		QueriesUsed: 2,
	}

	// Enumerate the group to put a name on the remaining unknown. The same
	// rows double as ground truth.
	members, err := a.exec.Execute(ctx, domain.NewQuery(
		"SELECT name, salary FROM employees WHERE department = ?", a.target.Group), ident)
	if err != nil {
		return result
	}
	for _, row := range members.Rows {
		name, _ := row["name"].(string)
		if _, known := a.target.Known[name]; known {
			continue
		}
		result.Inferred[name] = unknownSum
		if actual, ok := row.Number("salary"); ok {
			result.Actual = map[string]interface{}{name: actual}
			result.ErrorMetrics = map[string]float64{"error": math.Abs(unknownSum - actual)}
		}
		a.logger.Info("sum attack complete", "group", a.target.Group, "member", name, "inferred", unknownSum)
	}
	return result
}
