// Package store provides the adapters that execute SQL against the
// sensitive relational store. Three drivers are supported: an embedded
// SQLite file (default, demo-friendly), PostgreSQL (per-identity
// credentials, real grants), and an in-process DuckDB database for
// analytical workloads.
//
// Adapters are the only code that touches a database driver. Access
// rights are enforced entirely by the store; the adapters never filter
// or rewrite results.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"inferguard/internal/domain"
)

// Store is a sensitive-store adapter with an explicit lifecycle. There are
// no package-level connections; callers own the handle they open.
type Store interface {
	domain.Store
	Close() error
}

// Open opens the adapter for the configured driver and, when seedDemo is
// set, creates and populates the demo dataset if it is not already present.
func Open(ctx context.Context, driver, dsn string, seedDemo bool, logger *slog.Logger) (Store, error) {
	var (
		st  Store
		db  *sql.DB
		err error
	)

	switch driver {
	case "sqlite":
		s, openErr := OpenSQLiteStore(dsn, logger)
		if openErr != nil {
			return nil, openErr
		}
		st, db = s, s.db
	case "postgres":
		s, openErr := OpenPostgresStore(dsn, logger)
		if openErr != nil {
			return nil, openErr
		}
		st, db = s, s.db
	case "duckdb":
		s, openErr := OpenDuckDBStore(dsn, logger)
		if openErr != nil {
			return nil, openErr
		}
		st, db = s, s.db
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	if seedDemo {
		if err = SeedDemo(ctx, db, driver); err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("seed demo dataset: %w", err)
		}
	}

	return st, nil
}

// scanResultSet drains rows into a ResultSet, keyed by column name.
// Driver byte slices become strings so results serialize cleanly.
func scanResultSet(rows *sql.Rows) (*domain.ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, domain.ErrExecution("read columns: %v", err)
	}

	rs := &domain.ResultSet{Columns: cols, Rows: []domain.Row{}}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, domain.ErrExecution("scan row: %v", err)
		}

		row := make(domain.Row, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = vals[i]
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrExecution("iterate rows: %v", err)
	}

	return rs, nil
}
