// Package poly demonstrates polyinstantiation: the employees_secure table
// holds one row per employee per clearance band, so readers at different
// levels see different salaries for the same person. The demo walks a set
// of clearance levels, records what each level sees for a target employee,
// and then mounts a differencing attack from each vantage to check whether
// the cover stories actually hold.
package poly

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"inferguard/internal/domain"
)

// protectedErrorPct is how far off an inferred salary must be, relative to
// the true value, before a vantage counts as protected.
const protectedErrorPct = 10.0

const (
	truthQuery = "SELECT employee_id, name, department, salary, clearance_level, hire_date FROM employees WHERE name = ?"

	// A reader at level L sees, for each employee, the row with the highest
	// clearance not above L. The correlated subquery picks that row without
	// relying on engine-specific row security.
	vantageQuery = `SELECT employee_id, name, department, salary, clearance_level, hire_date
FROM employees_secure
WHERE name = ? AND clearance_level = (
	SELECT MAX(s.clearance_level) FROM employees_secure s
	WHERE s.name = employees_secure.name AND s.clearance_level <= ?)`

	vantageAggQuery = `SELECT AVG(salary) AS avg_salary, COUNT(*) AS emp_count
FROM employees_secure e
WHERE department = ? AND clearance_level = (
	SELECT MAX(s.clearance_level) FROM employees_secure s
	WHERE s.name = e.name AND s.clearance_level <= ?)`

	vantageAggExclQuery = vantageAggQuery + ` AND name != ?`
)

// Vantage is what one clearance level sees for the target employee.
type Vantage struct {
	Level   int        `json:"clearance_level"`
	Visible bool       `json:"visible"`
	Record  domain.Row `json:"record,omitempty"`
}

// InferenceCheck is the outcome of a differencing attempt mounted from one
// clearance level. Protected means the inferred salary missed the true one
// by more than the protection threshold.
type InferenceCheck struct {
	Level     int     `json:"clearance_level"`
	Success   bool    `json:"success"`
	Reason    string  `json:"reason,omitempty"`
	Inferred  float64 `json:"inferred_salary,omitempty"`
	Actual    float64 `json:"actual_salary,omitempty"`
	Error     float64 `json:"error,omitempty"`
	ErrorPct  float64 `json:"error_pct,omitempty"`
	Protected bool    `json:"protected"`
}

// Report is the full walkthrough for one target employee.
type Report struct {
	Target   string           `json:"target"`
	Group    string           `json:"group"`
	Truth    domain.Row       `json:"truth"`
	Vantages []Vantage        `json:"vantages"`
	Checks   []InferenceCheck `json:"checks"`
}

// Subject names the employee the demo revolves around, the department used
// for the differencing probes, and the clearance levels to walk.
type Subject struct {
	Target string
	Group  string
	Levels []int
}

// Demo runs the polyinstantiation walkthrough against an executor.
type Demo struct {
	exec    domain.Executor
	logger  *slog.Logger
	subject Subject
}

func NewDemo(exec domain.Executor, logger *slog.Logger, subject Subject) *Demo {
	return &Demo{
		exec:    exec,
		logger:  logger.With("component", "poly"),
		subject: subject,
	}
}

// Run walks every configured clearance level. It fails outright only when
// the ground truth cannot be established; per-level problems are folded
// into the report so one broken vantage does not hide the others.
func (d *Demo) Run(ctx context.Context, ident domain.Identity) (*Report, error) {
	truth, err := d.exec.Execute(ctx, domain.NewQuery(truthQuery, d.subject.Target), ident)
	if err != nil {
		return nil, fmt.Errorf("look up %s: %w", d.subject.Target, err)
	}
	if truth.RowCount() == 0 {
		return nil, domain.ErrNotFound("employee %q not found", d.subject.Target)
	}
	actual, ok := truth.Rows[0].Number("salary")
	if !ok {
		return nil, domain.ErrExecution("employee %q has no numeric salary", d.subject.Target)
	}

	report := &Report{
		Target: d.subject.Target,
		Group:  d.subject.Group,
		Truth:  truth.Rows[0],
	}
	for _, level := range d.subject.Levels {
		report.Vantages = append(report.Vantages, d.vantage(ctx, ident, level))
	}
	for _, level := range d.subject.Levels {
		check := d.inferAtLevel(ctx, ident, level, actual)
		report.Checks = append(report.Checks, check)
		d.logger.Info("vantage checked",
			"target", d.subject.Target,
			"clearance_level", level,
			"protected", check.Protected,
			"error_pct", check.ErrorPct)
	}
	return report, nil
}

// vantage fetches the single row a reader at the given level would see for
// the target. An employee with no row at or below the level is invisible.
func (d *Demo) vantage(ctx context.Context, ident domain.Identity, level int) Vantage {
	v := Vantage{Level: level}
	rs, err := d.exec.Execute(ctx, domain.NewQuery(vantageQuery, d.subject.Target, level), ident)
	if err != nil || rs.RowCount() == 0 {
		return v
	}
	v.Visible = true
	v.Record = rs.Rows[0]
	return v
}

// inferAtLevel mounts the differencing attack using only rows visible at
// the given clearance level and compares the inferred salary to the truth.
func (d *Demo) inferAtLevel(ctx context.Context, ident domain.Identity, level int, actual float64) InferenceCheck {
	check := InferenceCheck{Level: level}

	withTarget, err := d.exec.Execute(ctx, domain.NewQuery(vantageAggQuery, d.subject.Group, level), ident)
	if err != nil {
		check.Reason = "Query failed"
		return check
	}
	avgWith, countWith, ok := vantageAggregates(withTarget)
	if !ok || countWith == 0 {
		check.Reason = "No employees visible"
		return check
	}

	withoutTarget, err := d.exec.Execute(ctx, domain.NewQuery(vantageAggExclQuery, d.subject.Group, level, d.subject.Target), ident)
	if err != nil {
		check.Reason = "Second query failed"
		return check
	}
	avgWithout, countWithout, ok := vantageAggregates(withoutTarget)
	if !ok {
		check.Reason = "Second query failed"
		return check
	}

	check.Success = true
	check.Inferred = avgWith*float64(countWith) - avgWithout*float64(countWithout)
	check.Actual = actual
	check.Error = math.Abs(check.Inferred - actual)
	if actual != 0 {
		check.ErrorPct = check.Error / actual * 100
	}
	check.Protected = check.ErrorPct > protectedErrorPct
	return check
}

func vantageAggregates(rs *domain.ResultSet) (avg float64, count int, ok bool) {
	if rs.RowCount() == 0 {
		return 0, 0, false
	}
	row := rs.Rows[0]
	a, ok := row.Number("avg_salary")
	if !ok {
		return 0, 0, false
	}
	c, ok := row.Number("emp_count")
	if !ok {
		return 0, 0, false
	}
	return a, int(c), true
}
