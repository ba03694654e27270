// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Auth modes supported by the HTTP binding.
const (
	AuthModeDev   = "dev"   // trust the X-Caller header (local demos only)
	AuthModeHS256 = "hs256" // shared-secret JWT
	AuthModeOIDC  = "oidc"  // external identity provider
)

// DefaultJWTSecret is the insecure development signing secret.
const DefaultJWTSecret = "dev-secret-change-in-production"

// AuthConfig holds authentication configuration for the HTTP binding.
type AuthConfig struct {
	Mode           string   // dev, hs256, or oidc
	JWTSecret      string   // HS256 shared secret
	IssuerURL      string   // OIDC issuer URL
	JWKSURL        string   // override JWKS URL (no .well-known discovery)
	Audience       string   // required audience claim
	AllowedIssuers []string // accepted issuers (defaults to [IssuerURL])
}

// Validate checks that the auth configuration is internally consistent.
func (a *AuthConfig) Validate() error {
	switch a.Mode {
	case AuthModeDev, AuthModeHS256:
		return nil
	case AuthModeOIDC:
		if a.IssuerURL == "" && a.JWKSURL == "" {
			return fmt.Errorf("AUTH_MODE=oidc requires OIDC_ISSUER or OIDC_JWKS_URL")
		}
		if a.IssuerURL != "" && a.Audience == "" {
			return fmt.Errorf("OIDC_AUDIENCE is required when OIDC_ISSUER is set")
		}
		return nil
	default:
		return fmt.Errorf("unknown AUTH_MODE %q: use dev, hs256, or oidc", a.Mode)
	}
}

// StoreConfig selects the sensitive-store adapter.
type StoreConfig struct {
	Driver   string // sqlite, postgres, or duckdb
	DSN      string // driver-specific data source name
	SeedDemo bool   // create and populate the demo dataset on startup
}

// ProtectionConfig holds the disclosure-control thresholds. Each strategy
// receives its threshold at construction and never changes it afterwards.
type ProtectionConfig struct {
	MinResultSize       int     // minimum-size restriction (default 5)
	Epsilon             float64 // differential privacy epsilon (default 1.0)
	OverlapThreshold    float64 // blocking similarity (default 0.8)
	OverlapHistoryLimit int     // history entries consulted per check (default 20)
	MinCellSize         int     // cell suppression floor (default 3)
	SuppressionMarker   string  // marker written over suppressed cells
}

// Config holds the configuration for both binaries.
type Config struct {
	MetaDBPath string // path to the SQLite audit/history metastore
	ListenAddr string // HTTP listen address (default ":8080")
	LogLevel   string // debug, info, warn, error (default "info")
	LogFormat  string // "text" (default) or "json"
	Env        string // "development" (default) or "production"

	// Rate limiting (per caller, query endpoints only)
	RateLimitRPS   float64 // sustained requests per second (default 10)
	RateLimitBurst int     // burst capacity (default 20)

	// CORS
	CORSAllowedOrigins []string // allowed origins (default: ["*"])

	ProbeSchedule string // cron spec for the recurring attack-suite probe; empty disables
	ScenarioPath  string // optional YAML scenario file; empty uses the built-in demo scenario

	Store      StoreConfig
	Protection ProtectionConfig
	Auth       AuthConfig

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SlogHandler builds the handler for the configured format and level.
func (c *Config) SlogHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables, applying
// defaults and validating threshold ranges. Production mode turns insecure
// defaults into fatal errors.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		MetaDBPath:    os.Getenv("META_DB_PATH"),
		ListenAddr:    os.Getenv("LISTEN_ADDR"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFormat:     os.Getenv("LOG_FORMAT"),
		Env:           os.Getenv("ENV"),
		ProbeSchedule: os.Getenv("PROBE_SCHEDULE"),
		ScenarioPath:  os.Getenv("SCENARIO_PATH"),
		Store: StoreConfig{
			Driver:   os.Getenv("STORE_DRIVER"),
			DSN:      os.Getenv("STORE_DSN"),
			SeedDemo: parseBoolEnvDefault("STORE_SEED_DEMO", true),
		},
		Protection: ProtectionConfig{
			MinResultSize:       parseIntEnvDefault("MIN_RESULT_SIZE", 5),
			Epsilon:             parseFloatEnvDefault("DP_EPSILON", 1.0),
			OverlapThreshold:    parseFloatEnvDefault("OVERLAP_THRESHOLD", 0.8),
			OverlapHistoryLimit: parseIntEnvDefault("OVERLAP_HISTORY_LIMIT", 20),
			MinCellSize:         parseIntEnvDefault("MIN_CELL_SIZE", 3),
			SuppressionMarker:   os.Getenv("SUPPRESSION_MARKER"),
		},
		Auth: AuthConfig{
			Mode:      os.Getenv("AUTH_MODE"),
			JWTSecret: os.Getenv("JWT_SECRET"),
			IssuerURL: os.Getenv("OIDC_ISSUER"),
			JWKSURL:   os.Getenv("OIDC_JWKS_URL"),
			Audience:  os.Getenv("OIDC_AUDIENCE"),
		},
	}

	cfg.RateLimitRPS = parseFloatEnvDefault("RATE_LIMIT_RPS", 10)
	cfg.RateLimitBurst = parseIntEnvDefault("RATE_LIMIT_BURST", 20)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = origins
	}
	if v := os.Getenv("OIDC_ALLOWED_ISSUERS"); v != "" {
		cfg.Auth.AllowedIssuers = strings.Split(v, ",")
	}

	// Defaults
	if cfg.MetaDBPath == "" {
		cfg.MetaDBPath = "inferguard_meta.sqlite"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "sqlite"
	}
	if cfg.Store.DSN == "" {
		cfg.Store.DSN = defaultStoreDSN(cfg.Store.Driver)
	}
	if cfg.Protection.SuppressionMarker == "" {
		cfg.Protection.SuppressionMarker = "SUPPRESSED"
	}
	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = AuthModeDev
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = DefaultJWTSecret
		cfg.Warnings = append(cfg.Warnings, "JWT_SECRET not set, using insecure default. Set JWT_SECRET in production!")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	switch cfg.Store.Driver {
	case "sqlite", "postgres", "duckdb":
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q: use sqlite, postgres, or duckdb", cfg.Store.Driver)
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return nil, fmt.Errorf("unknown LOG_FORMAT %q: use text or json", cfg.LogFormat)
	}

	if err := cfg.Auth.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Protection.validate(); err != nil {
		return nil, err
	}

	// Production mode: insecure defaults are fatal errors.
	if cfg.IsProduction() {
		if cfg.Auth.Mode == AuthModeDev {
			return nil, fmt.Errorf("AUTH_MODE=dev is not allowed in production (ENV=production)")
		}
		if cfg.Auth.Mode == AuthModeHS256 && cfg.Auth.JWTSecret == DefaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set in production (ENV=production)")
		}
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
	}

	return cfg, nil
}

// validate rejects threshold values the strategies cannot operate with.
func (p *ProtectionConfig) validate() error {
	if p.MinResultSize < 1 {
		return fmt.Errorf("MIN_RESULT_SIZE must be at least 1, got %d", p.MinResultSize)
	}
	if p.Epsilon <= 0 {
		return fmt.Errorf("DP_EPSILON must be positive, got %g", p.Epsilon)
	}
	if p.OverlapThreshold <= 0 || p.OverlapThreshold > 1 {
		return fmt.Errorf("OVERLAP_THRESHOLD must be in (0, 1], got %g", p.OverlapThreshold)
	}
	if p.OverlapHistoryLimit < 1 {
		return fmt.Errorf("OVERLAP_HISTORY_LIMIT must be at least 1, got %d", p.OverlapHistoryLimit)
	}
	if p.MinCellSize < 1 {
		return fmt.Errorf("MIN_CELL_SIZE must be at least 1, got %d", p.MinCellSize)
	}
	return nil
}

func defaultStoreDSN(driver string) string {
	switch driver {
	case "postgres":
		return "postgres://localhost:5432/inferguard_demo?sslmode=disable"
	case "duckdb":
		return "" // in-memory
	default:
		return "inferguard_demo.sqlite"
	}
}

func parseBoolEnvDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	if v == "0" || v == "false" || v == "no" || v == "off" {
		return false
	}
	if v == "1" || v == "true" || v == "yes" || v == "on" {
		return true
	}
	return defaultVal
}

func parseIntEnvDefault(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func parseFloatEnvDefault(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

// LoadDotEnv reads a .env file and sets any variables not already in the
// environment. Lines must be in KEY=VALUE format. Comments (#) and blank
// lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
