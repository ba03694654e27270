package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"inferguard/internal/domain"
)

// strategySet is a pflag.Value that accumulates an ordered, deduplicated
// list of strategy kinds. Values may be comma-separated, the flag may be
// repeated, and unknown names are rejected at parse time.
type strategySet struct {
	kinds []domain.StrategyKind
}

var _ pflag.Value = (*strategySet)(nil)

func (s *strategySet) String() string {
	parts := make([]string, len(s.kinds))
	for i, k := range s.kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

func (s *strategySet) Set(raw string) error {
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		kind := domain.StrategyKind(name)
		if !knownStrategy(kind) {
			return fmt.Errorf("unknown strategy %q (choose from %s)", name, strategyNames())
		}
		if !s.contains(kind) {
			s.kinds = append(s.kinds, kind)
		}
	}
	return nil
}

func (s *strategySet) Type() string { return "strategySet" }

func (s *strategySet) contains(kind domain.StrategyKind) bool {
	for _, k := range s.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func knownStrategy(kind domain.StrategyKind) bool {
	for _, k := range domain.AllStrategyKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

func strategyNames() string {
	all := domain.AllStrategyKinds()
	parts := make([]string, len(all))
	for i, k := range all {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
