// Package sqlite implements the account repository on top of SQLite.
//
// WHY SQLITE?
// The account set lives in a single local database file — no separate server
// to install or operate. That fits this service's deployment model (one
// process, one writer) while still giving us real transactional semantics and
// a UNIQUE constraint to enforce username uniqueness at write time.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C toolchain and complicates
// cross-compilation. modernc.org/sqlite is a pure Go translation of SQLite —
// it works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements repository.AccountRepository.
//
// The handle is constructed once at process start and injected into the
// service layer — there is no package-level database state anywhere.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath, verifies the connection, and ensures the
// schema exists. It is safe to call on every process start: the migration is
// idempotent (CREATE TABLE IF NOT EXISTS), so an already-initialized file is
// a no-op.
//
// dbPath may be a file path ("data/accounts.db") or ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	// sql.Open only creates the pool manager; Ping forces a real connection
	// so a bad path or permission problem surfaces here, not on first query.
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows a single writer at a time. Pinning the pool to one
	// connection serializes conflicting writes inside the pool instead of
	// surfacing SQLITE_BUSY to callers, and guarantees the per-connection
	// pragmas below apply to every statement this handle ever runs.
	// Concurrent requests still run fine — they queue on the pool, and each
	// statement is short.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight. The default rollback
	// journal locks the whole file per write, which stalls concurrent logins
	// during a signup burst.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// If another process holds the write lock, wait instead of failing with
	// SQLITE_BUSY. Uniqueness violations still fail immediately; busy_timeout
	// only covers lock contention.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool, flushing the WAL and releasing the file
// lock. Callers should defer this right after New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the accounts table if it doesn't exist.
//
// AUTOINCREMENT (as opposed to plain INTEGER PRIMARY KEY) guarantees ids are
// monotonic and never reused, even after a row is deleted. The UNIQUE
// constraint on username is the uniqueness source of truth for the whole
// service — every other check is advisory.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			nickname      TEXT NOT NULL,
			age           INTEGER NOT NULL,
			gender        TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating accounts table: %w", err)
	}

	return nil
}
