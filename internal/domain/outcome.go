package domain

// StrategyKind tags one protection strategy variant. The set is closed:
// adding a strategy means adding a tag and a variant, not subclassing.
type StrategyKind string

const (
	StrategyNoProtection        StrategyKind = "no_protection"
	StrategyMinimumSize         StrategyKind = "min_size"
	StrategyDifferentialPrivacy StrategyKind = "differential_privacy"
	StrategyOverlapControl      StrategyKind = "overlap_control"
	StrategyCellSuppression     StrategyKind = "cell_suppression"
)

// AllStrategyKinds returns the closed set of strategy tags in comparator
// display order.
func AllStrategyKinds() []StrategyKind {
	return []StrategyKind{
		StrategyNoProtection,
		StrategyMinimumSize,
		StrategyDifferentialPrivacy,
		StrategyOverlapControl,
		StrategyCellSuppression,
	}
}

// Outcome is a strategy's decision for one query. Exactly one of Blocked or
// Result is populated: Blocked=true means Result is nil, Blocked=false means
// Result is present (possibly with zero rows when the query legitimately
// returns nothing).
type Outcome struct {
	Strategy    StrategyKind `json:"strategy"`
	Blocked     bool         `json:"blocked"`
	BlockReason string       `json:"block_reason,omitempty"`
	Result      *ResultSet   `json:"result,omitempty"`
	Protection  string       `json:"protection,omitempty"`
}

// AllowedOutcome builds an Outcome carrying rows.
func AllowedOutcome(kind StrategyKind, result *ResultSet, protection string) *Outcome {
	if result == nil {
		result = &ResultSet{Rows: []Row{}}
	}
	return &Outcome{Strategy: kind, Result: result, Protection: protection}
}

// BlockedOutcome builds an Outcome refusing the query.
func BlockedOutcome(kind StrategyKind, reason, protection string) *Outcome {
	return &Outcome{Strategy: kind, Blocked: true, BlockReason: reason, Protection: protection}
}
