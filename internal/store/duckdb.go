package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"inferguard/internal/domain"
)

// DuckDBStore executes queries against an in-process DuckDB database.
// An empty DSN opens an in-memory database, which pairs well with demo
// seeding. Like SQLite, DuckDB has no user accounts; credentials are
// ignored.
type DuckDBStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenDuckDBStore opens the DuckDB database at path ("" for in-memory).
func OpenDuckDBStore(dsn string, logger *slog.Logger) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, domain.ErrExecution("open duckdb store: %v", err)
	}
	// Each pooled connection to an in-memory DSN would get its own
	// empty database, so the pool must stay at one connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, domain.ErrExecution("ping duckdb store: %v", err)
	}

	return &DuckDBStore{db: db, logger: logger.With("component", "store.duckdb")}, nil
}

var _ Store = (*DuckDBStore)(nil)

// Execute runs the query and returns all rows.
func (s *DuckDBStore) Execute(ctx context.Context, q domain.Query, ident domain.Identity) (*domain.ResultSet, error) {
	if ident.Credentials != nil {
		s.logger.Debug("duckdb has no per-user accounts; credentials ignored", "caller", ident.Caller)
	}

	rows, err := s.db.QueryContext(ctx, q.Text(), q.Params()...)
	if err != nil {
		return nil, domain.ErrExecution("execute query: %v", err)
	}
	defer rows.Close() //nolint:errcheck

	return scanResultSet(rows)
}

func (s *DuckDBStore) Close() error {
	return s.db.Close()
}
