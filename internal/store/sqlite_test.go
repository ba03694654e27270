package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inferguard/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openSeededSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.sqlite")
	st, err := Open(context.Background(), "sqlite", path, true, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st.(*SQLiteStore)
}

func execute(t *testing.T, st Store, text string, params ...interface{}) *domain.ResultSet {
	t.Helper()
	rs, err := st.Execute(context.Background(), domain.NewQuery(text, params...), domain.Identity{Caller: "tester"})
	require.NoError(t, err)
	return rs
}

func TestSQLiteStore_SeedGroundTruths(t *testing.T) {
	st := openSeededSQLite(t)

	rs := execute(t, st, "SELECT COUNT(*) AS cnt FROM employees WHERE department = ?", "Engineering")
	require.Len(t, rs.Rows, 1)
	assert.EqualValues(t, 10, rs.Rows[0]["cnt"])

	rs = execute(t, st, "SELECT AVG(salary) AS avg_salary FROM employees WHERE department = ?", "Engineering")
	assert.InDelta(t, 70000.0, rs.Rows[0]["avg_salary"].(float64), 0.001)

	rs = execute(t, st, "SELECT salary FROM employees WHERE name = ?", "Alice Johnson")
	require.Len(t, rs.Rows, 1)
	assert.InDelta(t, 100000.0, rs.Rows[0]["salary"].(float64), 0.001)

	rs = execute(t, st, "SELECT SUM(salary) AS total FROM employees WHERE department = ?", "Operations")
	assert.InDelta(t, 350000.0, rs.Rows[0]["total"].(float64), 0.001)

	rs = execute(t, st, "SELECT name FROM employees WHERE department = ? AND salary > ?", "Sales", 90000)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, "Bob Smith", rs.Rows[0]["name"])
}

func TestSQLiteStore_SeedIsIdempotent(t *testing.T) {
	st := openSeededSQLite(t)

	require.NoError(t, SeedDemo(context.Background(), st.db, "sqlite"))

	rs := execute(t, st, "SELECT COUNT(*) AS cnt FROM employees")
	assert.EqualValues(t, 22, rs.Rows[0]["cnt"])
}

func TestSQLiteStore_PolyinstantiatedRows(t *testing.T) {
	st := openSeededSQLite(t)

	// Alice has a truth row at level 3 plus covers at levels 1 and 2.
	rs := execute(t, st,
		"SELECT salary, clearance_level FROM employees_secure WHERE name = ? ORDER BY clearance_level",
		"Alice Johnson")
	require.Len(t, rs.Rows, 3)
	assert.InDelta(t, 65000.0, rs.Rows[0]["salary"].(float64), 0.001)
	assert.InDelta(t, 85000.0, rs.Rows[1]["salary"].(float64), 0.001)
	assert.InDelta(t, 100000.0, rs.Rows[2]["salary"].(float64), 0.001)
}

func TestSQLiteStore_RoleViews(t *testing.T) {
	st := openSeededSQLite(t)

	rs := execute(t, st, "SELECT * FROM employees_basic WHERE employee_id = ?", 1)
	require.Len(t, rs.Rows, 1)
	assert.NotContains(t, rs.Columns, "salary")
	assert.Contains(t, rs.Columns, "hire_date")

	rs = execute(t, st, "SELECT * FROM employees_hr WHERE employee_id = ?", 1)
	assert.Contains(t, rs.Columns, "salary")
}

func TestSQLiteStore_ColumnsPreserveQueryOrder(t *testing.T) {
	st := openSeededSQLite(t)

	rs := execute(t, st, "SELECT salary, name FROM employees WHERE employee_id = ?", 1)
	assert.Equal(t, []string{"salary", "name"}, rs.Columns)
}

func TestSQLiteStore_EmptyResultIsNotAnError(t *testing.T) {
	st := openSeededSQLite(t)

	rs := execute(t, st, "SELECT name FROM employees WHERE department = ?", "Marketing")
	assert.NotNil(t, rs.Rows)
	assert.Empty(t, rs.Rows)
}

func TestSQLiteStore_BadQueryReturnsExecutionError(t *testing.T) {
	st := openSeededSQLite(t)

	_, err := st.Execute(context.Background(),
		domain.NewQuery("SELECT nope FROM missing_table"),
		domain.Identity{Caller: "tester"})
	require.Error(t, err)

	var execErr *domain.ExecutionError
	assert.True(t, errors.As(err, &execErr))
}

func TestSQLiteStore_CredentialsIgnored(t *testing.T) {
	st := openSeededSQLite(t)

	rs, err := st.Execute(context.Background(),
		domain.NewQuery("SELECT COUNT(*) AS cnt FROM employees"),
		domain.Identity{Caller: "tester", Credentials: &domain.Credentials{User: "someone", Password: "pw"}})
	require.NoError(t, err)
	assert.EqualValues(t, 22, rs.Rows[0]["cnt"])
}
