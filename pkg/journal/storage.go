package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	// DriverCGO is github.com/mattn/go-sqlite3 and needs cgo.
	DriverCGO = "sqlite3"

	// DriverPure is modernc.org/sqlite.
	DriverPure = "sqlite"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Driver is DriverCGO or DriverPure. Default: DriverPure
	Driver string

	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool

	// BusyTimeout is how long a writer waits on a locked database.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:       DriverPure,
		Path:         "data/journal.db",
		MaxOpenConns: 4,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database and applies the schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverPure
	}
	if config.Driver != DriverCGO && config.Driver != DriverPure {
		return nil, NewStorageError(config.Driver, "open", fmt.Errorf("unsupported driver %q", config.Driver))
	}

	logger := slog.Default().With("component", "journal.storage")

	if dir := filepath.Dir(config.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewStorageError(config.Driver, "mkdir", err)
		}
	}

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, NewStorageError(config.Driver, "open", err)
	}
	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("journal storage initialized",
		"driver", config.Driver,
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError(s.config.Driver, "enable_wal", err)
		}
	}

	if s.config.BusyTimeout > 0 {
		stmt := fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())
		if _, err := s.db.Exec(stmt); err != nil {
			return NewStorageError(s.config.Driver, "set_busy_timeout", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError(s.config.Driver, "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError(s.config.Driver, "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return NewStorageError(s.config.Driver, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError(s.config.Driver, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store inserts one entry.
func (s *SQLiteStorage) Store(ctx context.Context, entry *Entry) error {
	var errorVal any
	if entry.Error != "" {
		errorVal = entry.Error
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO route_journal (
			id, request_id, route_id,
			format, start_kind, end_kind,
			status, engine_code, cached, error,
			latency_ms, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.RequestID, entry.RouteID,
		entry.Format, entry.StartKind, entry.EndKind,
		entry.Status, entry.EngineCode, entry.Cached, errorVal,
		entry.LatencyMS, entry.RecordedAt.UnixMilli(),
	)
	if err != nil {
		return NewStorageError(s.config.Driver, "store", err)
	}
	return nil
}

// Query returns entries matching query, newest first unless SortOrder is
// "asc". At most 100 entries are returned when no limit is set.
func (s *SQLiteStorage) Query(ctx context.Context, query *Query) ([]*Entry, error) {
	if query == nil {
		query = &Query{}
	}
	where, args := buildWhereClause(query)

	stmt := "SELECT id, request_id, route_id, format, start_kind, end_kind, status, engine_code, cached, error, latency_ms, recorded_at FROM route_journal"
	if where != "" {
		stmt += " WHERE " + where
	}

	order := "DESC"
	if strings.EqualFold(query.SortOrder, "asc") {
		order = "ASC"
	}
	stmt += " ORDER BY recorded_at " + order + ", id " + order

	limit := 100
	if query.Limit > 0 {
		limit = query.Limit
	}
	stmt += fmt.Sprintf(" LIMIT %d", limit)
	if query.Offset > 0 {
		stmt += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, NewStorageError(s.config.Driver, "query", err)
	}
	defer rows.Close()

	entries := []*Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, NewStorageError(s.config.Driver, "scan", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(s.config.Driver, "query", err)
	}

	return entries, nil
}

// Count returns the number of entries matching query.
func (s *SQLiteStorage) Count(ctx context.Context, query *Query) (int64, error) {
	if query == nil {
		query = &Query{}
	}
	where, args := buildWhereClause(query)

	stmt := "SELECT COUNT(*) FROM route_journal"
	if where != "" {
		stmt += " WHERE " + where
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, NewStorageError(s.config.Driver, "count", err)
	}
	return count, nil
}

// Delete removes entries matching query and returns how many were removed.
func (s *SQLiteStorage) Delete(ctx context.Context, query *Query) (int64, error) {
	if query == nil {
		query = &Query{}
	}
	where, args := buildWhereClause(query)

	stmt := "DELETE FROM route_journal"
	if where != "" {
		stmt += " WHERE " + where
	}

	result, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, NewStorageError(s.config.Driver, "delete", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError(s.config.Driver, "delete", err)
	}
	return count, nil
}

// Ping checks the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStorageError(s.config.Driver, "ping", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError(s.config.Driver, "close", err)
	}
	s.logger.Info("journal storage closed")
	return nil
}

func buildWhereClause(query *Query) (string, []any) {
	var conditions []string
	var args []any

	if query.Since != nil {
		conditions = append(conditions, "recorded_at >= ?")
		args = append(args, query.Since.UnixMilli())
	}
	if query.Until != nil {
		conditions = append(conditions, "recorded_at < ?")
		args = append(args, query.Until.UnixMilli())
	}
	if query.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, query.Status)
	}
	if query.RouteID != "" {
		conditions = append(conditions, "route_id = ?")
		args = append(args, query.RouteID)
	}

	return strings.Join(conditions, " AND "), args
}

func scanEntry(rows *sql.Rows) (*Entry, error) {
	var entry Entry
	var errorVal sql.NullString
	var recordedAt int64

	err := rows.Scan(
		&entry.ID, &entry.RequestID, &entry.RouteID,
		&entry.Format, &entry.StartKind, &entry.EndKind,
		&entry.Status, &entry.EngineCode, &entry.Cached, &errorVal,
		&entry.LatencyMS, &recordedAt,
	)
	if err != nil {
		return nil, err
	}

	if errorVal.Valid {
		entry.Error = errorVal.String
	}
	entry.RecordedAt = time.UnixMilli(recordedAt).UTC()

	return &entry, nil
}
