// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite (pure Go, no cgo). The schema is owned
// by goose migrations embedded from migrations/*.sql and applied in New.
//
// Every repository in this package is a thin struct over a dbtx, which is
// satisfied by both *sql.DB and *sql.Tx. Services only ever receive
// repositories bound to a *sql.Tx through DB.WithTx.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/sakif/sightings/internal/repository"
)

//go:embed migrations/*.sql
var migrations embed.FS

// dbtx is the subset of database/sql used by the repositories.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps the sql.DB pool and is the application's repository.Store.
type DB struct {
	conn *sql.DB
}

var _ repository.Store = (*DB)(nil)

// New opens the database at dsn and migrates it to the latest schema.
//
// dsn is a file path ("data/sightings.db") or ":memory:". Connection pragmas
// are added to the DSN rather than run once with Exec, because PRAGMA
// foreign_keys is per connection and the pool may open several.
func New(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each connection to :memory: is its own empty database.
	if isMemory(dsn) {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// WithTx begins a transaction, hands fn the repositories bound to it, and
// commits on success or rolls back on error/panic. Panics are rethrown.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context, r repository.Repositories) error) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("sqlite: committing transaction: %w", cerr)
		}
	}()

	return fn(ctx, repositoriesFor(tx))
}

func repositoriesFor(q dbtx) repository.Repositories {
	return repository.Repositories{
		Users:     &UserRepo{q: q},
		Locations: &LocationRepo{q: q},
		Sightings: &SightingRepo{q: q},
		Comments:  &CommentRepo{q: q},
		Sessions:  &SessionRepo{q: q},
	}
}

// gooseUp is a seam for tests that need to fail the migration step.
var gooseUp = goose.UpContext

func (db *DB) migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	return gooseUp(ctx, db.conn, "migrations")
}

func isMemory(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, ":memory:?") || strings.Contains(dsn, "mode=memory")
}

// withPragmas appends the connection pragmas the schema relies on.
// _time_format=sqlite writes times as "2006-01-02 15:04:05.999999999-07:00",
// the same shape the users trigger produces. _txlock=immediate makes BEGIN
// take the write lock up front, so a read-then-write transaction waits on
// busy_timeout instead of failing when another writer commits first.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite&_txlock=immediate"
	if !isMemory(dsn) {
		pragmas += "&_pragma=journal_mode(WAL)"
	}
	return dsn + sep + pragmas
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc returns the SQLite message text, which is stable across versions.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
