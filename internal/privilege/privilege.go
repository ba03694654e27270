// Package privilege exercises least-privilege access control. Each
// configured role carries its own store credentials and a set of probe
// queries; the prober runs every probe under every role and records which
// were admitted. Denials come from the store's own grants, so against an
// engine without per-user permissions the matrix simply shows everything
// allowed.
package privilege

import (
	"context"
	"log/slog"
	"time"

	"inferguard/internal/domain"
	"inferguard/internal/scenario"
)

// ProbeResult is the outcome of one query under one role.
type ProbeResult struct {
	Probe   string   `json:"probe"`
	Query   string   `json:"query"`
	Allowed bool     `json:"allowed"`
	Records int      `json:"records,omitempty"`
	Columns []string `json:"columns,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// RoleReport collects one role's probe results.
type RoleReport struct {
	Role        string        `json:"role"`
	Description string        `json:"description,omitempty"`
	User        string        `json:"user"`
	Results     []ProbeResult `json:"results"`
	Allowed     int           `json:"allowed"`
	Denied      int           `json:"denied"`
}

// Matrix is the full role-by-probe access picture.
type Matrix struct {
	RanAt time.Time    `json:"ran_at"`
	Roles []RoleReport `json:"roles"`
}

// Prober runs the probe matrix through the gateway so every attempt,
// allowed or not, lands in the audit trail.
type Prober struct {
	exec   domain.Executor
	logger *slog.Logger
	roles  []scenario.RoleSpec
}

func NewProber(exec domain.Executor, logger *slog.Logger, roles []scenario.RoleSpec) *Prober {
	return &Prober{
		exec:   exec,
		logger: logger.With("component", "privilege"),
		roles:  roles,
	}
}

// Run probes every role in configuration order. A denied probe is a data
// point, not a failure; Run never errors.
func (p *Prober) Run(ctx context.Context) *Matrix {
	matrix := &Matrix{RanAt: time.Now().UTC()}
	for _, role := range p.roles {
		report := p.probeRole(ctx, role)
		p.logger.Info("role probed",
			"role", report.Role,
			"user", report.User,
			"allowed", report.Allowed,
			"denied", report.Denied)
		matrix.Roles = append(matrix.Roles, report)
	}
	return matrix
}

func (p *Prober) probeRole(ctx context.Context, role scenario.RoleSpec) RoleReport {
	ident := domain.Identity{
		Caller: role.User,
		Credentials: &domain.Credentials{
			User:     role.User,
			Password: role.Password,
		},
	}
	report := RoleReport{
		Role:        role.Name,
		Description: role.Description,
		User:        role.User,
	}
	for _, probe := range role.Probes {
		result := ProbeResult{Probe: probe.Name, Query: probe.Query}
		rs, err := p.exec.Execute(ctx, domain.NewQuery(probe.Query), ident)
		if err != nil {
			result.Error = err.Error()
			report.Denied++
		} else {
			result.Allowed = true
			result.Records = rs.RowCount()
			result.Columns = rs.Columns
			report.Allowed++
		}
		report.Results = append(report.Results, result)
	}
	return report
}
