// Package protect implements the disclosure-control strategies and the
// comparator that runs a query through all of them side by side.
//
// Every strategy talks to the store exclusively through the Executor
// Gateway and owns its Outcome: an executor failure is folded into a
// blocked Outcome with the failure reason verbatim, never propagated as
// an error. Thresholds are fixed at construction.
package protect

import (
	"context"

	"inferguard/internal/domain"
)

// Strategy evaluates one query under one protection discipline.
type Strategy interface {
	Kind() domain.StrategyKind
	Evaluate(ctx context.Context, q domain.Query, ident domain.Identity) *domain.Outcome
}
