package attack

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"inferguard/internal/domain"
)

// LinearSystem reconstructs every individual value in a group by solving a
// dense linear system: one equation for the whole group's sum plus one
// per member for the sum excluding that member. With n members the first
// n gathered equations are solved; the full-group row keeps the system
// independent of the single-exclusion rows.
type LinearSystem struct {
	exec   domain.Executor
	logger *slog.Logger
	target domain.LinearSystemTarget
}

func NewLinearSystem(exec domain.Executor, logger *slog.Logger, target domain.LinearSystemTarget) *LinearSystem {
	return &LinearSystem{
		exec:   exec,
		logger: logger.With("component", "attack", "attack", domain.AttackLinearSystem),
		target: target,
	}
}

var _ Attack = (*LinearSystem)(nil)

func (a *LinearSystem) Kind() domain.AttackKind { return domain.AttackLinearSystem }

func (a *LinearSystem) Run(ctx context.Context, ident domain.Identity) *domain.AttackResult {
	a.logger.Info("running linear system attack", "group", a.target.Group)

	list, err := a.exec.Execute(ctx, domain.NewQuery(
		"SELECT name, salary FROM employees WHERE department = ? ORDER BY name",
		a.target.Group), ident)
	if err != nil || list.RowCount() < 2 {
		return failedResult(a.Kind(), a.target.Group, "Not enough employees in department", 0)
	}

	n := list.RowCount()
	names := make([]string, n)
	actuals := make([]float64, n)
	for i, row := range list.Rows {
		names[i], _ = row["name"].(string)
		actuals[i], _ = row.Number("salary")
	}

	var equations [][]float64
	var constants []float64

	full, err := a.exec.Execute(ctx, domain.NewQuery(
		"SELECT AVG(salary) AS avg_sal FROM employees WHERE department = ?",
		a.target.Group), ident)
	if err == nil {
		if avg, ok := firstNumber(full, "avg_sal"); ok {
			equations = append(equations, onesRow(n, -1))
			constants = append(constants, avg*float64(n))
		}
	}

	for i, name := range names {
		excl, err := a.exec.Execute(ctx, domain.NewQuery(
			"SELECT AVG(salary) AS avg_sal, COUNT(*) AS cnt FROM employees WHERE department = ? AND name != ?",
			a.target.Group, name), ident)
		if err != nil {
			continue
		}
		if avg, cnt, ok := groupAggregates(excl, "avg_sal", "cnt"); ok {
			equations = append(equations, onesRow(n, i))
			constants = append(constants, avg*float64(cnt))
		}
	}
	a.logger.Debug("equations gathered", "count", len(equations), "members", n)

	if len(equations) < n {
		return failedResult(a.Kind(), a.target.Group,
			fmt.Sprintf("Not enough equations (%d < %d)", len(equations), n), len(equations))
	}

	solved, err := solveSystem(equations[:n], constants[:n])
	if err != nil {
		a.logger.Warn("system solve failed", "group", a.target.Group, "error", err)
		result := failedResult(a.Kind(), a.target.Group, "singular or unsolvable", len(equations))
		result.Details = map[string]interface{}{
			"group":          a.target.Group,
			"employee_count": n,
			"equations_used": len(equations),
		}
		return result
	}

	result := &domain.AttackResult{
		Attack:       a.Kind(),
		Success:      true,
		Target:       a.target.Group,
		Inferred:     make(map[string]interface{}, n),
		Actual:       make(map[string]interface{}, n),
		ErrorMetrics: make(map[string]float64, n),
		Details: map[string]interface{}{
			"group":          a.target.Group,
			"employee_count": n,
			"equations_used": len(equations),
		},
		QueriesUsed: len(equations),
	}
	for i, name := range names {
		result.Inferred[name] = solved[i]
		result.Actual[name] = actuals[i]
		if actuals[i] != 0 {
			result.ErrorMetrics[name] = math.Abs(solved[i]-actuals[i]) / actuals[i] * 100
		}
	}

	a.logger.Info("linear system attack complete", "group", a.target.Group, "members", n)
	return result
}

// onesRow builds a coefficient row of all ones with position excluded
// zeroed; excluded -1 keeps every position.
func onesRow(n, excluded int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = 1
	}
	if excluded >= 0 {
		row[excluded] = 0
	}
	return row
}

// solveSystem solves the square system equations*x = constants. A singular
// or badly conditioned coefficient matrix comes back as an error, never a
// panic.
func solveSystem(equations [][]float64, constants []float64) ([]float64, error) {
	n := len(equations)
	flat := make([]float64, 0, n*n)
	for _, row := range equations {
		flat = append(flat, row...)
	}

	a := mat.NewDense(n, n, flat)
	b := mat.NewVecDense(n, constants)

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, nil
}
