package attack

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inferguard/internal/domain"
)

const (
	orderedMembersQuery = "SELECT name, salary FROM employees WHERE department = ? ORDER BY name"
	groupAvgQuery       = "SELECT AVG(salary) AS avg_sal FROM employees WHERE department = ?"
	exclusionAvgQuery   = "SELECT AVG(salary) AS avg_sal, COUNT(*) AS cnt FROM employees WHERE department = ? AND name != ?"
)

var financeSalaries = map[string]float64{
	"Olga Verde":  58000,
	"Peter Quinn": 61000,
	"Quentin Ash": 63500,
	"Rita Moss":   66500,
}

func financeMembers() *domain.ResultSet {
	// Alphabetical, as the ORDER BY returns them.
	return rows([]string{"name", "salary"},
		domain.Row{"name": "Olga Verde", "salary": 58000.0},
		domain.Row{"name": "Peter Quinn", "salary": 61000.0},
		domain.Row{"name": "Quentin Ash", "salary": 63500.0},
		domain.Row{"name": "Rita Moss", "salary": 66500.0},
	)
}

func TestLinearSystem_ReconstructsWholeGroup(t *testing.T) {
	const total = 249000.0

	exec := scriptedExecutor(t, script{
		orderedMembersQuery: func(q domain.Query) (*domain.ResultSet, error) {
			assert.Equal(t, []interface{}{"Finance"}, q.Params())
			return financeMembers(), nil
		},
		groupAvgQuery: func(domain.Query) (*domain.ResultSet, error) {
			return rows([]string{"avg_sal"}, domain.Row{"avg_sal": total / 4}), nil
		},
		exclusionAvgQuery: func(q domain.Query) (*domain.ResultSet, error) {
			name := q.Params()[1].(string)
			salary, ok := financeSalaries[name]
			require.True(t, ok, "unexpected exclusion target %q", name)
			return rows([]string{"avg_sal", "cnt"},
				domain.Row{"avg_sal": (total - salary) / 3, "cnt": int64(3)}), nil
		},
	})

	a := NewLinearSystem(exec, testLogger(), domain.LinearSystemTarget{Group: "Finance"})
	result := a.Run(context.Background(), domain.Identity{Caller: "attacker"})

	require.True(t, result.Success)
	assert.Equal(t, domain.AttackLinearSystem, result.Attack)
	assert.Equal(t, "Finance", result.Target)
	assert.Equal(t, 4, result.Details["employee_count"])
	assert.Equal(t, 5, result.Details["equations_used"])
	assert.Equal(t, 5, result.QueriesUsed)

	for name, salary := range financeSalaries {
		inferred, ok := result.Inferred[name].(float64)
		require.True(t, ok, "no inferred value for %s", name)
		assert.InDelta(t, salary, inferred, 0.5)
		assert.Equal(t, salary, result.Actual[name])
		assert.Less(t, result.ErrorMetrics[name], 1.0, "relative error for %s", name)
	}
}

func TestLinearSystem_TooFewMembersFails(t *testing.T) {
	exec := scriptedExecutor(t, script{
		orderedMembersQuery: func(domain.Query) (*domain.ResultSet, error) {
			return rows([]string{"name", "salary"},
				domain.Row{"name": "Olga Verde", "salary": 58000.0}), nil
		},
	})

	a := NewLinearSystem(exec, testLogger(), domain.LinearSystemTarget{Group: "Finance"})
	result := a.Run(context.Background(), domain.Identity{Caller: "attacker"})

	assert.False(t, result.Success)
	assert.Equal(t, "Not enough employees in department", result.Reason)
}

func TestLinearSystem_MemberListFailureFails(t *testing.T) {
	exec := scriptedExecutor(t, script{
		orderedMembersQuery: func(domain.Query) (*domain.ResultSet, error) {
			return nil, errors.New("query execution failed: permission denied")
		},
	})

	a := NewLinearSystem(exec, testLogger(), domain.LinearSystemTarget{Group: "Finance"})
	result := a.Run(context.Background(), domain.Identity{Caller: "attacker"})

	assert.False(t, result.Success)
	assert.Equal(t, "Not enough employees in department", result.Reason)
}

func TestLinearSystem_NotEnoughEquationsFails(t *testing.T) {
	exec := scriptedExecutor(t, script{
		orderedMembersQuery: func(domain.Query) (*domain.ResultSet, error) {
			return financeMembers(), nil
		},
		groupAvgQuery: func(domain.Query) (*domain.ResultSet, error) {
			return nil, errors.New("query execution failed: blocked")
		},
		exclusionAvgQuery: func(q domain.Query) (*domain.ResultSet, error) {
			name := q.Params()[1].(string)
			if name == "Peter Quinn" || name == "Rita Moss" {
				return nil, errors.New("query execution failed: blocked")
			}
			salary := financeSalaries[name]
			return rows([]string{"avg_sal", "cnt"},
				domain.Row{"avg_sal": (249000.0 - salary) / 3, "cnt": int64(3)}), nil
		},
	})

	a := NewLinearSystem(exec, testLogger(), domain.LinearSystemTarget{Group: "Finance"})
	result := a.Run(context.Background(), domain.Identity{Caller: "attacker"})

	assert.False(t, result.Success)
	assert.Equal(t, "Not enough equations (2 < 4)", result.Reason)
	assert.Equal(t, 2, result.QueriesUsed)
}

func TestSolveSystem_SolvesIndependentSystem(t *testing.T) {
	x, err := solveSystem(
		[][]float64{{1, 1}, {1, 0}},
		[]float64{5, 2},
	)

	require.NoError(t, err)
	assert.InDelta(t, 2.0, x[0], 1e-9)
	assert.InDelta(t, 3.0, x[1], 1e-9)
}

func TestSolveSystem_SingularSystemFails(t *testing.T) {
	_, err := solveSystem(
		[][]float64{{1, 1}, {2, 2}},
		[]float64{3, 6},
	)

	assert.Error(t, err)
}
