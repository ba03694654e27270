package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inferguard/internal/attack"
	"inferguard/internal/domain"
)

func attackTestTargets() attack.SuiteTargets {
	return attack.SuiteTargets{
		Differencing: domain.DifferencingTarget{Name: "Alice Johnson", Group: "Engineering"},
		Tracker:      domain.TrackerTarget{Name: "Bob Smith", Threshold: 90000},
		Sum:          domain.SumTarget{Group: "Operations", Known: map[string]float64{"Eve Adams": 60000}},
		Linear:       domain.LinearSystemTarget{Group: "Finance"},
	}
}

func attackTestHandler(exec domain.Executor) *APIHandler {
	suite := attack.NewSuite(exec, testLogger(), attackTestTargets())
	return NewHandler(nil, suite, &mockAuditSink{}, &mockHistoryStore{}, testLogger())
}

func failingExecutor() *mockExecutor {
	return &mockExecutor{
		executeFn: func(ctx context.Context, q domain.Query, ident domain.Identity) (*domain.ResultSet, error) {
			return nil, domain.ErrExecution("connection refused")
		},
	}
}

func TestRunSuite_RunsAllAttacksInOrder(t *testing.T) {
	h := attackTestHandler(failingExecutor())

	rec := serveAs(t, h, "analyst", http.MethodPost, "/attacks/suite", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.SuiteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.NotEmpty(t, result.RunID)
	assert.False(t, result.RanAt.IsZero())
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 0, result.Successes)
	require.Len(t, result.Results, 4)
	for i, kind := range domain.AllAttackKinds() {
		assert.Equal(t, kind, result.Results[i].Attack)
		assert.False(t, result.Results[i].Success)
	}
}

func TestRunAttack_RunsNamedKind(t *testing.T) {
	h := attackTestHandler(failingExecutor())

	rec := serveAs(t, h, "analyst", http.MethodPost, "/attacks/differencing", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.AttackResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.AttackDifferencing, result.Attack)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Reason)
}

func TestRunAttack_LinearIsShorthandForLinearSystem(t *testing.T) {
	h := attackTestHandler(failingExecutor())

	rec := serveAs(t, h, "analyst", http.MethodPost, "/attacks/linear", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.AttackResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.AttackLinearSystem, result.Attack)
}

func TestRunAttack_UnknownKindFails(t *testing.T) {
	h := attackTestHandler(failingExecutor())

	rec := serveAs(t, h, "analyst", http.MethodPost, "/attacks/voodoo", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "voodoo")
}

func TestRunSuite_RejectsMalformedBody(t *testing.T) {
	h := attackTestHandler(failingExecutor())

	rec := serveAs(t, h, "analyst", http.MethodPost, "/attacks/suite", strings.NewReader(`{`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestRunAttack_ForwardsCallerAndCredentials(t *testing.T) {
	var mu sync.Mutex
	var seen []domain.Identity
	exec := &mockExecutor{
		executeFn: func(ctx context.Context, q domain.Query, ident domain.Identity) (*domain.ResultSet, error) {
			mu.Lock()
			seen = append(seen, ident)
			mu.Unlock()
			return nil, domain.ErrExecution("permission denied")
		},
	}
	h := attackTestHandler(exec)

	body := `{"credentials": {"user": "attacker", "password": "hunter2"}}`
	rec := serveAs(t, h, "mallory", http.MethodPost, "/attacks/tracker", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotEmpty(t, seen)
	for _, ident := range seen {
		assert.Equal(t, "mallory", ident.Caller)
		require.NotNil(t, ident.Credentials)
		assert.Equal(t, "attacker", ident.Credentials.User)
	}
}
