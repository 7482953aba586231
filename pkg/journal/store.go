package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"mercator-hq/waypoint/pkg/telemetry/logging"
)

// Supported database/sql driver names.
const (
	DriverModernc = "sqlite"
	DriverCgo     = "sqlite3"
)

const busyTimeout = 5 * time.Second

// Store reads and writes journal rows.
type Store struct {
	db     *sql.DB
	driver string
	path   string
	logger *logging.Logger
}

// Open opens or creates the journal database at path and applies the schema.
func Open(driver, path string, logger *logging.Logger) (*Store, error) {
	if driver != DriverModernc && driver != DriverCgo {
		return nil, fmt.Errorf("unsupported journal driver %q", driver)
	}
	if path == "" {
		return nil, errors.New("journal path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, storageErr(driver, "mkdir", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, storageErr(driver, "open", err)
	}

	// SQLite allows a single writer; one connection also keeps the pragmas
	// below in effect.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{
		db:     db,
		driver: driver,
		path:   path,
		logger: logger.With("component", "journal.store"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("Session journal opened", "driver", driver, "path", path)
	return s, nil
}

func (s *Store) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return storageErr(s.driver, "enable_wal", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds())); err != nil {
		return storageErr(s.driver, "set_busy_timeout", err)
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return storageErr(s.driver, "create_schema", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return storageErr(s.driver, "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return storageErr(s.driver, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return storageErr(s.driver, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Insert stores one entry.
func (s *Store) Insert(ctx context.Context, e *Entry) error {
	_, err := s.db.ExecContext(ctx, insertSession,
		e.ID, e.SessionID, e.ClientIP, e.ClientPort, e.Host, e.Port, e.RequestLine,
		e.Status, e.BytesUp, e.BytesDown, e.Outcome,
		e.Start.UnixNano(), e.End.UnixNano(),
	)
	if err != nil {
		return storageErr(s.driver, "insert", err)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, storageErr(s.driver, "count", err)
	}
	return n, nil
}

// Recent returns up to limit entries, most recently ended first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		return []*Entry{}, nil
	}

	rows, err := s.db.QueryContext(ctx, selectRecent, limit)
	if err != nil {
		return nil, storageErr(s.driver, "query", err)
	}
	defer rows.Close()

	entries := make([]*Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var start, end int64
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.ClientIP, &e.ClientPort, &e.Host, &e.Port, &e.RequestLine,
			&e.Status, &e.BytesUp, &e.BytesDown, &e.Outcome, &start, &end,
		); err != nil {
			return nil, storageErr(s.driver, "scan", err)
		}
		e.Start = time.Unix(0, start)
		e.End = time.Unix(0, end)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(s.driver, "query", err)
	}
	return entries, nil
}

// Prune deletes entries whose session ended before the cutoff and returns
// how many were removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE ended_at < ?", before.UnixNano())
	if err != nil {
		return 0, storageErr(s.driver, "prune", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr(s.driver, "prune", err)
	}
	return n, nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageErr(s.driver, "ping", err)
	}
	return nil
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string {
	return s.driver
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return storageErr(s.driver, "close", err)
	}
	return nil
}
