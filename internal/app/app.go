// Package app provides application-level wiring: it turns config and
// database handles into the gateway, strategies, attacks, demonstrations,
// and middleware that the server and CLI mount.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"inferguard/internal/attack"
	"inferguard/internal/config"
	"inferguard/internal/db/repository"
	"inferguard/internal/domain"
	"inferguard/internal/gateway"
	"inferguard/internal/middleware"
	"inferguard/internal/poly"
	"inferguard/internal/privilege"
	"inferguard/internal/protect"
	"inferguard/internal/scenario"
	"inferguard/internal/schedule"
)

// Deps holds the external dependencies that main() must provide: config,
// the protected store, and the metastore pools.
type Deps struct {
	Cfg     *config.Config
	Store   domain.Store
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups the domain services the bindings call into.
type Services struct {
	Comparator *protect.Comparator
	Suite      *attack.Suite
	Poly       *poly.Demo
	Privilege  *privilege.Prober
}

// App is the fully wired application.
type App struct {
	Services Services
	Gateway  *gateway.Gateway
	Scenario *scenario.Scenario

	// Audit and History are the metastore read views for the list
	// endpoints; the gateway and overlap strategy write through their
	// own write-pool repositories.
	Audit   domain.AuditSink
	History domain.HistoryStore

	// Scheduler is nil unless PROBE_SCHEDULE is configured. The caller
	// owns Start and Stop.
	Scheduler *schedule.Scheduler

	// AuthMiddleware resolves the caller principal per AUTH_MODE.
	AuthMiddleware func(http.Handler) http.Handler
}

// New wires repositories, the gateway, strategies, attacks, and the
// demonstrations from the provided deps.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	// === Metastore repositories ===
	// Appends go through the single-writer pool. The overlap strategy also
	// reads history through it so its own appends are always visible; the
	// list endpoints read through the parallel read pool.
	auditSink := repository.NewAuditRepo(deps.WriteDB)
	historyStore := repository.NewHistoryRepo(deps.WriteDB)
	auditView := repository.NewAuditRepo(deps.ReadDB)
	historyView := repository.NewHistoryRepo(deps.ReadDB)

	// === Executor gateway ===
	gw := gateway.New(deps.Store, auditSink, deps.Logger)

	// === Scenario ===
	sc := scenario.Default()
	if cfg.ScenarioPath != "" {
		loaded, err := scenario.Load(cfg.ScenarioPath)
		if err != nil {
			return nil, fmt.Errorf("load scenario: %w", err)
		}
		sc = loaded
		deps.Logger.Info("scenario loaded", "path", cfg.ScenarioPath, "name", sc.Name)
	}

	// === Protection strategies ===
	p := cfg.Protection
	comparator := protect.NewComparator(deps.Logger,
		protect.NewNoProtection(gw),
		protect.NewMinimumSize(gw, p.MinResultSize),
		protect.NewDifferentialPrivacy(gw, p.Epsilon),
		protect.NewOverlapControl(gw, historyStore, p.OverlapThreshold, p.OverlapHistoryLimit),
		protect.NewCellSuppression(gw, p.MinCellSize, p.SuppressionMarker),
	)

	// === Attacks and demonstrations ===
	suite := attack.NewSuite(gw, deps.Logger, sc.SuiteTargets())
	polyDemo := poly.NewDemo(gw, deps.Logger, poly.Subject{
		Target: sc.Poly.Target,
		Group:  sc.Poly.Group,
		Levels: sc.Poly.Levels,
	})
	prober := privilege.NewProber(gw, deps.Logger, sc.Roles)

	// === Auth middleware ===
	authMW, err := buildAuthMiddleware(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// === Scheduled probe ===
	var scheduler *schedule.Scheduler
	if cfg.ProbeSchedule != "" {
		scheduler = schedule.NewScheduler(suite, cfg.ProbeSchedule, "scheduled_probe", deps.Logger)
	}

	return &App{
		Services: Services{
			Comparator: comparator,
			Suite:      suite,
			Poly:       polyDemo,
			Privilege:  prober,
		},
		Gateway:        gw,
		Scenario:       sc,
		Audit:          auditView,
		History:        historyView,
		Scheduler:      scheduler,
		AuthMiddleware: authMW,
	}, nil
}

func buildAuthMiddleware(ctx context.Context, cfg *config.Config) (func(http.Handler) http.Handler, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeDev:
		return middleware.DevAuth(), nil

	case config.AuthModeHS256:
		validator, err := middleware.NewHS256Validator(cfg.Auth.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("hs256 auth: %w", err)
		}
		return middleware.TokenAuth(validator), nil

	case config.AuthModeOIDC:
		var (
			validator *middleware.OIDCValidator
			err       error
		)
		if cfg.Auth.JWKSURL != "" {
			validator, err = middleware.NewOIDCValidatorFromJWKS(ctx,
				cfg.Auth.JWKSURL, cfg.Auth.IssuerURL, cfg.Auth.Audience, cfg.Auth.AllowedIssuers)
		} else {
			validator, err = middleware.NewOIDCValidator(ctx,
				cfg.Auth.IssuerURL, cfg.Auth.Audience, cfg.Auth.AllowedIssuers)
		}
		if err != nil {
			return nil, fmt.Errorf("oidc auth: %w", err)
		}
		return middleware.TokenAuth(validator), nil
	}
	return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
}
