// Package scenario defines the demonstration setup: which targets the
// attack suite goes after, which clearance vantages the polyinstantiation
// demo walks, and which role identities probe the store. Scenarios load
// from YAML with strict field checking; a compiled-in default mirrors the
// demo dataset.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"inferguard/internal/attack"
	"inferguard/internal/domain"
)

// Scenario is one complete demonstration setup.
type Scenario struct {
	Name  string     `yaml:"name"`
	Suite SuiteSpec  `yaml:"suite"`
	Poly  PolySpec   `yaml:"poly"`
	Roles []RoleSpec `yaml:"roles"`
}

// SuiteSpec holds the predetermined attack-suite targets.
type SuiteSpec struct {
	Differencing domain.DifferencingTarget `yaml:"differencing"`
	Tracker      domain.TrackerTarget      `yaml:"tracker"`
	Sum          domain.SumTarget          `yaml:"sum"`
	Linear       domain.LinearSystemTarget `yaml:"linear"`
}

// PolySpec names the employee the polyinstantiation demo inspects and the
// clearance vantages it walks.
type PolySpec struct {
	Target string `yaml:"target"`
	Group  string `yaml:"group"`
	Levels []int  `yaml:"levels"`
}

// RoleSpec is one role identity for the least-privilege probe matrix.
type RoleSpec struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	User        string      `yaml:"user"`
	Password    string      `yaml:"password,omitempty"`
	Probes      []ProbeSpec `yaml:"probes"`
}

// ProbeSpec is one named access probe.
type ProbeSpec struct {
	Name  string `yaml:"name"`
	Query string `yaml:"query"`
}

// Load reads and validates a scenario file. Unknown YAML fields are
// rejected rather than silently dropped.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks the scenario for holes that would only surface mid-run.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Suite.Differencing.Name == "" || s.Suite.Differencing.Group == "" {
		return fmt.Errorf("suite.differencing requires name and group")
	}
	if s.Suite.Tracker.Name == "" {
		return fmt.Errorf("suite.tracker requires name")
	}
	if s.Suite.Tracker.Threshold <= 0 {
		return fmt.Errorf("suite.tracker.threshold must be positive, got %g", s.Suite.Tracker.Threshold)
	}
	if s.Suite.Sum.Group == "" {
		return fmt.Errorf("suite.sum requires group")
	}
	if s.Suite.Linear.Group == "" {
		return fmt.Errorf("suite.linear requires group")
	}

	if s.Poly.Target == "" || s.Poly.Group == "" {
		return fmt.Errorf("poly requires target and group")
	}
	if len(s.Poly.Levels) == 0 {
		return fmt.Errorf("poly requires at least one clearance level")
	}
	for _, level := range s.Poly.Levels {
		if level < 1 {
			return fmt.Errorf("poly.levels must be positive, got %d", level)
		}
	}

	seenRoles := make(map[string]bool, len(s.Roles))
	for i, role := range s.Roles {
		if role.Name == "" {
			return fmt.Errorf("roles[%d]: name is required", i)
		}
		if seenRoles[role.Name] {
			return fmt.Errorf("roles[%d]: duplicate role %q", i, role.Name)
		}
		seenRoles[role.Name] = true
		if role.User == "" {
			return fmt.Errorf("role %q: user is required", role.Name)
		}
		if len(role.Probes) == 0 {
			return fmt.Errorf("role %q: at least one probe is required", role.Name)
		}
		for j, probe := range role.Probes {
			if probe.Name == "" || probe.Query == "" {
				return fmt.Errorf("role %q: probes[%d] requires name and query", role.Name, j)
			}
		}
	}
	return nil
}

// SuiteTargets converts the suite section into the attack package's
// target bundle.
func (s *Scenario) SuiteTargets() attack.SuiteTargets {
	return attack.SuiteTargets{
		Differencing: s.Suite.Differencing,
		Tracker:      s.Suite.Tracker,
		Sum:          s.Suite.Sum,
		Linear:       s.Suite.Linear,
	}
}
