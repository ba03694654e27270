package domain

import "time"

// AttackKind tags one inference-attack variant. Closed set, same convention
// as StrategyKind.
type AttackKind string

const (
	AttackDifferencing AttackKind = "differencing"
	AttackTracker      AttackKind = "tracker"
	AttackSum          AttackKind = "sum"
	AttackLinearSystem AttackKind = "linear_system"
)

// AllAttackKinds returns the closed set of attack tags in the fixed
// demonstration order.
func AllAttackKinds() []AttackKind {
	return []AttackKind{AttackDifferencing, AttackTracker, AttackSum, AttackLinearSystem}
}

// AttackResult reports one attack run. Inferred and Actual are keyed by
// entity identifier; Actual is populated only when ground truth was
// reachable through a verification query. QueriesUsed counts the
// reconstruction queries; verification lookups are not included.
type AttackResult struct {
	Attack       AttackKind             `json:"attack"`
	Success      bool                   `json:"success"`
	Target       string                 `json:"target"`
	Reason       string                 `json:"reason,omitempty"`
	Inferred     map[string]interface{} `json:"inferred,omitempty"`
	Actual       map[string]interface{} `json:"actual,omitempty"`
	ErrorMetrics map[string]float64     `json:"error_metrics,omitempty"`
	// Details carries attack-specific working values (group sums, unknown
	// counts, equation tallies) so a result is readable on its own.
	Details     map[string]interface{} `json:"details,omitempty"`
	QueriesUsed int                    `json:"queries_used"`
}

// DifferencingTarget names an individual and the group whose aggregates
// leak that individual's value.
type DifferencingTarget struct {
	Name  string `json:"name" yaml:"name"`
	Group string `json:"group" yaml:"group"`
}

// TrackerTarget names an individual and the threshold whose membership is
// inferred by strict count comparison.
type TrackerTarget struct {
	Name      string  `json:"name" yaml:"name"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// SumTarget names a group and the values the adversary already knows,
// keyed by entity name.
type SumTarget struct {
	Group string             `json:"group" yaml:"group"`
	Known map[string]float64 `json:"known" yaml:"known"`
}

// LinearSystemTarget names a group whose individual values are
// reconstructed by solving exclusion equations.
type LinearSystemTarget struct {
	Group string `json:"group" yaml:"group"`
}

// SuiteResult aggregates one fixed demonstration run of all attacks.
type SuiteResult struct {
	RunID     string         `json:"run_id"`
	RanAt     time.Time      `json:"ran_at"`
	Results   []AttackResult `json:"results"`
	Successes int            `json:"successes"`
	Total     int            `json:"total"`
}
