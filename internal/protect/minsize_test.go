package protect

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inferguard/internal/domain"
)

func countResult(n int64) *domain.ResultSet {
	return &domain.ResultSet{
		Columns: []string{"count"},
		Rows:    []domain.Row{{"count": n}},
	}
}

func TestMinimumSize_BlocksSmallResultSets(t *testing.T) {
	var executed []string
	exec := &mockExecutor{
		executeFn: func(_ context.Context, q domain.Query, _ domain.Identity) (*domain.ResultSet, error) {
			executed = append(executed, q.Text())
			return countResult(3), nil
		},
	}

	out := NewMinimumSize(exec, 5).Evaluate(context.Background(),
		domain.NewQuery("SELECT salary FROM employees WHERE department = ?", "Sales"),
		domain.Identity{Caller: "analyst"})

	assert.True(t, out.Blocked)
	assert.Equal(t, "Result set too small: 3 < 5", out.BlockReason)
	assert.Equal(t, "min_size=5", out.Protection)
	assert.Nil(t, out.Result)

	// The blocked query must never reach the store.
	require.Len(t, executed, 1)
	assert.Equal(t, "SELECT COUNT(*) AS count FROM employees WHERE department = ?", executed[0])
}

func TestMinimumSize_AllowsLargeResultSets(t *testing.T) {
	rows := &domain.ResultSet{
		Columns: []string{"salary"},
		Rows: []domain.Row{
			{"salary": 62000.0}, {"salary": 64000.0}, {"salary": 65000.0},
			{"salary": 66000.0}, {"salary": 67000.0}, {"salary": 68000.0},
		},
	}

	var queries []domain.Query
	exec := &mockExecutor{
		executeFn: func(_ context.Context, q domain.Query, _ domain.Identity) (*domain.ResultSet, error) {
			queries = append(queries, q)
			if len(queries) == 1 {
				return countResult(6), nil
			}
			return rows, nil
		},
	}

	out := NewMinimumSize(exec, 5).Evaluate(context.Background(),
		domain.NewQuery("SELECT salary FROM employees WHERE department = ?", "Engineering"),
		domain.Identity{Caller: "analyst"})

	assert.False(t, out.Blocked)
	assert.Equal(t, "min_size=5, actual_size=6", out.Protection)
	require.NotNil(t, out.Result)
	assert.Equal(t, 6, out.Result.RowCount())

	require.Len(t, queries, 2)
	assert.Equal(t, "SELECT COUNT(*) AS count FROM employees WHERE department = ?", queries[0].Text())
	assert.Equal(t, []interface{}{"Engineering"}, queries[0].Params())
	assert.Equal(t, "SELECT salary FROM employees WHERE department = ?", queries[1].Text())
}

func TestMinimumSize_ExactlyMinimumIsAllowed(t *testing.T) {
	calls := 0
	exec := &mockExecutor{
		executeFn: func(_ context.Context, _ domain.Query, _ domain.Identity) (*domain.ResultSet, error) {
			calls++
			if calls == 1 {
				return countResult(5), nil
			}
			return &domain.ResultSet{Columns: []string{"salary"}, Rows: make([]domain.Row, 5)}, nil
		},
	}

	out := NewMinimumSize(exec, 5).Evaluate(context.Background(),
		domain.NewQuery("SELECT salary FROM employees"),
		domain.Identity{Caller: "analyst"})

	assert.False(t, out.Blocked)
	assert.Equal(t, "min_size=5, actual_size=5", out.Protection)
}

func TestMinimumSize_EmptyCountResultCountsAsZero(t *testing.T) {
	exec := &mockExecutor{
		executeFn: func(_ context.Context, _ domain.Query, _ domain.Identity) (*domain.ResultSet, error) {
			return &domain.ResultSet{Columns: []string{"count"}, Rows: []domain.Row{}}, nil
		},
	}

	out := NewMinimumSize(exec, 5).Evaluate(context.Background(),
		domain.NewQuery("SELECT salary FROM employees"),
		domain.Identity{Caller: "analyst"})

	assert.True(t, out.Blocked)
	assert.Equal(t, "Result set too small: 0 < 5", out.BlockReason)
}

func TestMinimumSize_CountQueryFailureBlocks(t *testing.T) {
	exec := &mockExecutor{
		executeFn: func(_ context.Context, _ domain.Query, _ domain.Identity) (*domain.ResultSet, error) {
			return nil, errors.New("query execution failed: database is locked")
		},
	}

	out := NewMinimumSize(exec, 5).Evaluate(context.Background(),
		domain.NewQuery("SELECT salary FROM employees"),
		domain.Identity{Caller: "analyst"})

	assert.True(t, out.Blocked)
	assert.Equal(t, "query execution failed: database is locked", out.BlockReason)
	assert.Equal(t, "min_size=5", out.Protection)
}

func TestMinimumSize_RealQueryFailureBlocks(t *testing.T) {
	calls := 0
	exec := &mockExecutor{
		executeFn: func(_ context.Context, _ domain.Query, _ domain.Identity) (*domain.ResultSet, error) {
			calls++
			if calls == 1 {
				return countResult(10), nil
			}
			return nil, errors.New("query execution failed: interrupted")
		},
	}

	out := NewMinimumSize(exec, 5).Evaluate(context.Background(),
		domain.NewQuery("SELECT salary FROM employees"),
		domain.Identity{Caller: "analyst"})

	assert.True(t, out.Blocked)
	assert.Equal(t, "query execution failed: interrupted", out.BlockReason)
	assert.Equal(t, "min_size=5, actual_size=10", out.Protection)
}

func TestMinimumSize_UnsupportedQueryShapeBlocks(t *testing.T) {
	// The executor mock has no executeFn: reaching the store would panic.
	out := NewMinimumSize(&mockExecutor{}, 5).Evaluate(context.Background(),
		domain.NewQuery("WITH t AS (SELECT 1) SELECT * FROM t"),
		domain.Identity{Caller: "analyst"})

	assert.True(t, out.Blocked)
	assert.Contains(t, out.BlockReason, "WITH")
	assert.Equal(t, "min_size=5", out.Protection)
}
