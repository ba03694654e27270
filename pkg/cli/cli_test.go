package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inferguard/internal/domain"
	"inferguard/internal/middleware"
)

// setupCLIEnv points the CLI at a throwaway seeded store and metastore.
// Commands run in sequence share both files, so comparisons made by one
// invocation are visible to audit and history listings in the next.
func setupCLIEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STORE_DSN", filepath.Join(dir, "store.db"))
	t.Setenv("STORE_SEED_DEMO", "true")
	t.Setenv("META_DB_PATH", filepath.Join(dir, "meta.db"))
	t.Setenv("AUTH_MODE", "dev")
}

// runCLI executes one command invocation and returns captured stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCompareCommand_EvaluatesEveryStrategy(t *testing.T) {
	setupCLIEnv(t)

	out, err := runCLI(t,
		"compare", "SELECT name, salary FROM employees WHERE department = ?", "Sales",
		"--caller", "cli_test", "-o", "json")
	require.NoError(t, err)

	var outcomes []domain.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes))
	require.Len(t, outcomes, len(domain.AllStrategyKinds()))

	byKind := make(map[domain.StrategyKind]domain.Outcome, len(outcomes))
	for _, o := range outcomes {
		byKind[o.Strategy] = o
	}
	require.Contains(t, byKind, domain.StrategyNoProtection)
	assert.False(t, byKind[domain.StrategyNoProtection].Blocked)
	assert.Equal(t, 3, byKind[domain.StrategyNoProtection].Result.RowCount())

	require.Contains(t, byKind, domain.StrategyMinimumSize)
	assert.True(t, byKind[domain.StrategyMinimumSize].Blocked)
	assert.Equal(t, "Result set too small: 3 < 5", byKind[domain.StrategyMinimumSize].BlockReason)
}

func TestCompareCommand_StrategySubsetKeepsRequestOrder(t *testing.T) {
	setupCLIEnv(t)

	out, err := runCLI(t,
		"compare", "--strategies", "min_size,no_protection",
		"SELECT name, salary FROM employees WHERE department = ?", "Sales",
		"-o", "json")
	require.NoError(t, err)

	var outcomes []domain.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes))
	require.Len(t, outcomes, 2)
	assert.Equal(t, domain.StrategyMinimumSize, outcomes[0].Strategy)
	assert.Equal(t, domain.StrategyNoProtection, outcomes[1].Strategy)
	assert.True(t, outcomes[0].Blocked)
	assert.False(t, outcomes[1].Blocked)
}

func TestCompareCommand_RejectsUnknownStrategyInSet(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "compare", "--strategies", "min_size,voodoo", "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown strategy "voodoo"`)
}

func TestStrategySetFlag(t *testing.T) {
	var set strategySet
	require.NoError(t, set.Set("min_size, cell_suppression"))
	require.NoError(t, set.Set("min_size")) // repeats are dropped
	assert.Equal(t,
		[]domain.StrategyKind{domain.StrategyMinimumSize, domain.StrategyCellSuppression},
		set.kinds)
	assert.Equal(t, "min_size,cell_suppression", set.String())

	err := set.Set("nonsense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "choose from")
}

func TestEvaluateCommand_PrintsSingleVerdict(t *testing.T) {
	setupCLIEnv(t)

	out, err := runCLI(t,
		"evaluate", "min_size", "SELECT salary FROM employees WHERE name = ?", "Bob Smith")
	require.NoError(t, err)

	assert.Contains(t, out, "min_size")
	assert.Contains(t, out, "BLOCKED")
	assert.Contains(t, out, "Result set too small: 1 < 5")
}

func TestEvaluateCommand_UnknownStrategyFails(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "evaluate", "quantum_noise", "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy kind")
}

func TestSuiteCommand_AllAttacksSucceedUnprotected(t *testing.T) {
	setupCLIEnv(t)

	out, err := runCLI(t, "suite", "-o", "json")
	require.NoError(t, err)

	var suite domain.SuiteResult
	require.NoError(t, json.Unmarshal([]byte(out), &suite))
	assert.Equal(t, 4, suite.Total)
	assert.Equal(t, 4, suite.Successes)
	require.Len(t, suite.Results, 4)
	assert.Equal(t, domain.AllAttackKinds()[0], suite.Results[0].Attack)
}

func TestAttackCommand_LinearAliasesLinearSystem(t *testing.T) {
	setupCLIEnv(t)

	out, err := runCLI(t, "attack", "linear", "-o", "json")
	require.NoError(t, err)

	var result domain.AttackResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, domain.AttackLinearSystem, result.Attack)
	assert.True(t, result.Success)
}

func TestAttackCommand_UnknownKindFails(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "attack", "voodoo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown attack kind "voodoo"`)
}

func TestAuditCommand_ListsRecordedComparisons(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t,
		"compare", "SELECT COUNT(*) FROM employees", "--caller", "audit_probe")
	require.NoError(t, err)

	out, err := runCLI(t, "audit", "--principal", "audit_probe", "-o", "json")
	require.NoError(t, err)

	var records []domain.AuditRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.NotEmpty(t, records)
	for _, rec := range records {
		assert.Equal(t, "audit_probe", rec.Caller)
	}
}

func TestAuditCommand_RejectsBadBlockedValue(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "audit", "--blocked", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --blocked value")
}

func TestHistoryCommand_DefaultsToInvokingCaller(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t,
		"compare", "SELECT AVG(salary) FROM employees", "--caller", "history_probe")
	require.NoError(t, err)

	out, err := runCLI(t, "history", "--caller", "history_probe", "-o", "json")
	require.NoError(t, err)

	var entries []domain.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.NotEmpty(t, entries)
	for _, entry := range entries {
		assert.Equal(t, "history_probe", entry.Caller)
	}
}

func TestTokenCommand_MintsVerifiableToken(t *testing.T) {
	setupCLIEnv(t)
	t.Setenv("JWT_SECRET", "cli-test-secret")

	out, err := runCLI(t, "token", "--subject", "analyst", "-o", "json")
	require.NoError(t, err)

	var minted struct {
		Token   string `json:"token"`
		Subject string `json:"subject"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &minted))
	assert.Equal(t, "analyst", minted.Subject)

	validator, err := middleware.NewHS256Validator("cli-test-secret")
	require.NoError(t, err)
	claims, err := validator.Validate(context.Background(), minted.Token)
	require.NoError(t, err)
	assert.Equal(t, "analyst", claims.Subject)
}

func TestRootCommand_RejectsUnknownOutputFormat(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "suite", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported output format "xml"`)
}

func TestCoerceParam(t *testing.T) {
	assert.Equal(t, int64(42), coerceParam("42"))
	assert.Equal(t, 3.5, coerceParam("3.5"))
	assert.Equal(t, "Sales", coerceParam("Sales"))
	assert.Equal(t, []interface{}{int64(7), "HR"}, coerceParams([]string{"7", "HR"}))
}

func TestTruncateCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "SELECT 1", truncate("SELECT\n\t1", 60))
	assert.Equal(t, "0123456...", truncate("0123456789012", 10))
}
