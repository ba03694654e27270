package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/term"

	"inferguard/internal/app"
	"inferguard/internal/config"
	"inferguard/internal/db"
	"inferguard/internal/domain"
	"inferguard/internal/store"
)

// runtime is one fully wired application instance for a single command run.
type runtime struct {
	cfg   *config.Config
	app   *app.App
	ident domain.Identity

	closers []func() error
}

// openRuntime loads config from the environment, opens the protected store
// and the metastore pools, and wires the application.
func openRuntime(ctx context.Context, flags *rootFlags) (*runtime, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if flags.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		for _, w := range cfg.Warnings {
			logger.Warn(w)
		}
	}

	rt := &runtime{cfg: cfg}

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN, cfg.Store.SeedDemo, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	rt.closers = append(rt.closers, st.Close)

	writeDB, readDB, err := db.OpenMetastore(cfg.MetaDBPath, 4)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open metastore: %w", err)
	}
	rt.closers = append(rt.closers, writeDB.Close, readDB.Close)

	a, err := app.New(ctx, app.Deps{
		Cfg:     cfg,
		Store:   st,
		WriteDB: writeDB,
		ReadDB:  readDB,
		Logger:  logger,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.app = a

	ident, err := resolveIdentity(flags)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.ident = ident

	return rt, nil
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i]()
	}
}

// resolveIdentity builds the identity commands run under. With --store-user
// the password comes from STORE_PASSWORD or an interactive no-echo prompt.
func resolveIdentity(flags *rootFlags) (domain.Identity, error) {
	ident := domain.Identity{Caller: flags.caller}
	if flags.storeUser == "" {
		return ident, nil
	}

	password := os.Getenv("STORE_PASSWORD")
	if password == "" {
		var err error
		password, err = promptPassword(fmt.Sprintf("Password for %s: ", flags.storeUser))
		if err != nil {
			return domain.Identity{}, err
		}
	}

	ident.Credentials = &domain.Credentials{User: flags.storeUser, Password: password}
	return ident, nil
}

func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal; set STORE_PASSWORD instead")
	}

	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

// coerceParam turns a positional argument into the most specific SQL
// parameter type it parses as.
func coerceParam(arg string) interface{} {
	if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f
	}
	return arg
}

func coerceParams(args []string) []interface{} {
	params := make([]interface{}, len(args))
	for i, arg := range args {
		params[i] = coerceParam(arg)
	}
	return params
}
