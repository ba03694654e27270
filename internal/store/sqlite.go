package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"inferguard/internal/domain"
)

// SQLiteStore executes queries against a SQLite file. SQLite has no user
// accounts, so identity credentials cannot change access rights here; the
// caller is still threaded through for auditing.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLiteStore opens (and creates if missing) the SQLite store file.
func OpenSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, domain.ErrExecution("open sqlite store: %v", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, domain.ErrExecution("ping sqlite store: %v", err)
	}

	return &SQLiteStore{db: db, logger: logger.With("component", "store.sqlite")}, nil
}

var _ Store = (*SQLiteStore)(nil)

// Execute runs the query and returns all rows.
func (s *SQLiteStore) Execute(ctx context.Context, q domain.Query, ident domain.Identity) (*domain.ResultSet, error) {
	if ident.Credentials != nil {
		s.logger.Debug("sqlite has no per-user accounts; credentials ignored", "caller", ident.Caller)
	}

	rows, err := s.db.QueryContext(ctx, q.Text(), q.Params()...)
	if err != nil {
		return nil, domain.ErrExecution("execute query: %v", err)
	}
	defer rows.Close() //nolint:errcheck

	return scanResultSet(rows)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
