package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"inferguard/internal/api"
	"inferguard/internal/app"
	"inferguard/internal/config"
	"inferguard/internal/db"
	"inferguard/internal/middleware"
	"inferguard/internal/store"
	"inferguard/internal/ui"
)

func main() {
	ctx := context.Background()

	// Load .env file (if present)
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := slog.New(cfg.SlogHandler(os.Stdout))
	slog.SetDefault(logger)
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN, cfg.Store.SeedDemo, logger)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	// Open the migrated SQLite metastore with hardened connection settings.
	// writeDB: single-connection pool for serialized writes (WAL + txlock=immediate).
	// readDB:  4-connection pool for concurrent reads (WAL, no txlock).
	writeDB, readDB, err := db.OpenMetastore(cfg.MetaDBPath, 4)
	if err != nil {
		log.Fatalf("open metastore: %v", err)
	}
	defer writeDB.Close()
	defer readDB.Close()

	a, err := app.New(ctx, app.Deps{
		Cfg:     cfg,
		Store:   st,
		WriteDB: writeDB,
		ReadDB:  readDB,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("wire application: %v", err)
	}

	if a.Scheduler != nil {
		if err := a.Scheduler.Start(); err != nil {
			log.Fatalf("start probe scheduler: %v", err)
		}
		defer a.Scheduler.Stop()
		logger.Info("probe scheduler running", "schedule", cfg.ProbeSchedule)
	}

	apiHandler := api.NewHandler(a.Services.Comparator, a.Services.Suite, a.Audit, a.History, logger)
	uiHandler := ui.NewHandler(a.Services.Comparator, logger)

	// Setup Chi router
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.CallerHeader},
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	// Health stays public; everything else requires a resolved caller.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(a.AuthMiddleware)
		r.Mount("/", apiHandler.Routes())
	})

	// Comparison report, behind the same auth as the API
	r.Group(func(r chi.Router) {
		r.Use(a.AuthMiddleware)
		ui.MountRoutes(r, uiHandler)
	})

	log.Printf("inferguard listening on %s (store driver %s, auth %s)", cfg.ListenAddr, cfg.Store.Driver, cfg.Auth.Mode)
	log.Printf("Try: curl -s -X POST http://%s/v1/protect/compare -H 'X-Caller: analyst' -d '{\"query\":\"SELECT COUNT(*) FROM employees\"}'", curlHostForListenAddr(cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// curlHostForListenAddr turns a listen address into something pasteable
// into curl: wildcard and empty hosts become localhost, and a malformed
// address passes through untouched.
func curlHostForListenAddr(listenAddr string) string {
	addr := strings.TrimSpace(listenAddr)
	if addr == "" {
		return "localhost:8080"
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
