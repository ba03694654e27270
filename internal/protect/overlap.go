package protect

import (
	"context"
	"fmt"
	"sync"

	"inferguard/internal/domain"
)

// OverlapControl blocks queries whose result set is too similar to one the
// caller has already seen, comparing content hashes bit by bit against the
// caller's recent history. Admitted results are appended to history.
//
// The check-then-append sequence is serialized per caller: without that,
// two concurrent queries could both pass against a stale history snapshot
// and both be admitted.
type OverlapControl struct {
	exec      domain.Executor
	history   domain.HistoryStore
	threshold float64
	limit     int

	callers sync.Map // caller -> *sync.Mutex
}

func NewOverlapControl(exec domain.Executor, history domain.HistoryStore, threshold float64, historyLimit int) *OverlapControl {
	return &OverlapControl{
		exec:      exec,
		history:   history,
		threshold: threshold,
		limit:     historyLimit,
	}
}

var _ Strategy = (*OverlapControl)(nil)

func (s *OverlapControl) Kind() domain.StrategyKind { return domain.StrategyOverlapControl }

func (s *OverlapControl) Evaluate(ctx context.Context, q domain.Query, ident domain.Identity) *domain.Outcome {
	baseDescriptor := fmt.Sprintf("threshold=%g", s.threshold)

	mu := s.callerLock(ident.Caller)
	mu.Lock()
	defer mu.Unlock()

	entries, err := s.history.Recent(ctx, ident.Caller, s.limit)
	if err != nil {
		return domain.BlockedOutcome(s.Kind(), err.Error(), baseDescriptor)
	}

	rs, err := s.exec.Execute(ctx, q, ident)
	if err != nil {
		return domain.BlockedOutcome(s.Kind(), err.Error(), baseDescriptor)
	}
	if rs.RowCount() == 0 {
		// Nothing disclosed, nothing worth recording.
		return domain.AllowedOutcome(s.Kind(), rs, baseDescriptor)
	}

	hash := ResultSetHash(rs)
	for _, entry := range entries {
		if entry.ResultSetHash == nil {
			continue
		}
		if sim := HammingSimilarity(hash, *entry.ResultSetHash); sim > s.threshold {
			reason := fmt.Sprintf("Query overlap too high: %.2f", sim)
			return domain.BlockedOutcome(s.Kind(), reason, baseDescriptor)
		}
	}

	// Results leave the building only if their disclosure is on record.
	if err := s.history.Append(ctx, ident.Caller, q.Text(), &hash); err != nil {
		return domain.BlockedOutcome(s.Kind(), err.Error(), baseDescriptor)
	}

	return domain.AllowedOutcome(s.Kind(), rs, baseDescriptor+", overlap_acceptable")
}

func (s *OverlapControl) callerLock(caller string) *sync.Mutex {
	mu, _ := s.callers.LoadOrStore(caller, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
