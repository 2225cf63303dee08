package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Yathushan/coldsweat/internal/domain/repository"
	"github.com/Yathushan/coldsweat/pkg/config"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Store implements the domain repositories on database/sql, for SQLite
// (modernc.org/sqlite) and PostgreSQL (lib/pq). Queries are written with "?"
// placeholders and rebound for PostgreSQL.
type Store struct {
	db     *sql.DB
	engine string
	now    func() time.Time
}

var (
	_ repository.EntryRepository   = (*Store)(nil)
	_ repository.FeedRepository    = (*Store)(nil)
	_ repository.UserRepository    = (*Store)(nil)
	_ repository.SessionRepository = (*Store)(nil)
	_ repository.SystemRepository  = (*Store)(nil)
)

// Open connects to the configured database. It does not migrate; call
// Migrate for that.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Engine {
	case config.EngineSQLite:
		if strings.TrimSpace(cfg.Filename) == "" {
			return nil, fmt.Errorf("sqlite filename is required")
		}
		dsn := "file:" + filepath.Clean(cfg.Filename) +
			"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"
		db, err = sql.Open("sqlite", dsn)
	case config.EnginePostgres:
		db, err = sql.Open("postgres", cfg.DSN())
	default:
		return nil, fmt.Errorf("unknown database engine %q", cfg.Engine)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Engine, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Engine, err)
	}

	return New(db, cfg.Engine), nil
}

// New wraps an already opened database.
func New(db *sql.DB, engine string) *Store {
	return &Store{
		db:     db,
		engine: engine,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Engine reports config.EngineSQLite or config.EnginePostgres.
func (s *Store) Engine() string {
	return s.engine
}

// rebind rewrites "?" placeholders to "$n" for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.engine != config.EnginePostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// typed returns a placeholder carrying an explicit type where PostgreSQL
// cannot infer one.
func (s *Store) typed(pgType string) string {
	if s.engine == config.EnginePostgres {
		return "?::" + pgType
	}
	return "?"
}

func (s *Store) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

// utc normalises timestamps before they are stored: SQLite compares them as
// text, so they must share one zone and precision.
func utc(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
