package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"repurposer/internal/util"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Timestamps are stored as fixed-width UTC text so that ORDER BY on the
// column matches chronological order on both engines.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type DB struct {
	Conn    *sql.DB
	Dialect Dialect
}

// NewDB opens the store named by dsn. postgres:// and postgresql:// DSNs go
// through pgx; anything else is treated as a SQLite file path.
func NewDB(ctx context.Context, dsn string) (*DB, error) {
	dialect := DialectForDSN(dsn)
	switch dialect {
	case DialectPostgres:
		conn, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := conn.PingContext(ctx); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &DB{Conn: conn, Dialect: dialect}, nil
	default:
		if dir := filepath.Dir(sqlitePath(dsn)); dir != "." && dir != "" {
			if err := util.EnsureDir(dir); err != nil {
				return nil, err
			}
		}
		conn, err := sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// One writer at a time; the engine's file lock handles other processes.
		conn.SetMaxOpenConns(1)
		if err := conn.PingContext(ctx); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("connect sqlite: %w", err)
		}
		return &DB{Conn: conn, Dialect: DialectSQLite}, nil
	}
}

// sqlitePragmas are applied by the driver to every new connection, so a
// recycled connection keeps the busy timeout.
var sqlitePragmas = []string{"busy_timeout(5000)", "journal_mode(WAL)"}

func sqliteDSN(dsn string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// sqlitePath is the file a SQLite DSN points at, without URI prefix or
// query parameters.
func sqlitePath(dsn string) string {
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	return path
}

func DialectForDSN(dsn string) Dialect {
	low := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(low, "postgres://") || strings.HasPrefix(low, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Init creates the schema. It is safe to run against an initialized store.
func (d *DB) Init(ctx context.Context) error {
	for _, stmt := range schemaFor(d.Dialect) {
		if _, err := d.Conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (d *DB) Close() error {
	if d == nil || d.Conn == nil {
		return nil
	}
	return d.Conn.Close()
}

// rebind rewrites ? placeholders to $n for postgres.
func (d *DB) rebind(query string) string {
	if d.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
