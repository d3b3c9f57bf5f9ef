package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/repository"
)

// compile-time check that *DB implements repository.AccountRepository
var _ repository.AccountRepository = (*DB)(nil)

// isUniqueViolation reports whether err is SQLite's UNIQUE-constraint error.
//
// The modernc driver returns a typed *sqlite.Error carrying the extended
// result code, so we can match on the code instead of the error text.
func isUniqueViolation(err error) bool {
	var se *sqlitedrv.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// Create inserts a new account and populates ID and CreatedAt on the passed
// model.
//
// Uniqueness is enforced here, atomically, by the UNIQUE constraint on
// username: of two racing inserts for the same username exactly one commits
// and the other returns apperror.ErrDuplicate. There is no read-then-write
// window to exploit.
//
// Any other driver failure is wrapped as apperror.ErrUnavailable — a raw
// infrastructure error never escapes this layer.
func (db *DB) Create(ctx context.Context, account *model.Account) error {
	account.CreatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO accounts (username, password_hash, nickname, age, gender, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		account.Username,
		account.PasswordHash,
		account.Nickname,
		account.Age,
		account.Gender,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Duplicate("account", account.Username)
		}
		return fmt.Errorf("sqlite: inserting account %q: %w",
			account.Username, apperror.Unavailable("insert", err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new account id: %w", apperror.Unavailable("insert", err))
	}
	account.ID = id

	return nil
}

// GetByUsername retrieves a full account row, password hash included.
// The hash stays inside the service boundary — callers that hand accounts to
// clients go through the service layer, which strips it.
// Returns apperror.ErrNotFound if no account has that exact username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	var a model.Account

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, nickname, age, gender, created_at
		 FROM accounts WHERE username = ?`,
		username,
	).Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.Nickname,
		&a.Age,
		&a.Gender,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("account", username)
		}
		return nil, fmt.Errorf("sqlite: getting account %q: %w",
			username, apperror.Unavailable("select", err))
	}

	return &a, nil
}

// UsernameExists reports whether an account with this exact username exists.
//
// A storage fault returns (false, err) rather than pretending to know either
// way — callers fail closed and report the error as retryable instead of
// answering "taken" or "free".
func (db *DB) UsernameExists(ctx context.Context, username string) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE username = ?`, username,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("sqlite: checking username %q: %w",
			username, apperror.Unavailable("select", err))
	}
	return true, nil
}

// List returns all accounts ordered by id. Hashes are included (internal
// projection); the service layer strips them before anything leaves the
// process.
func (db *DB) List(ctx context.Context) ([]model.Account, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, password_hash, nickname, age, gender, created_at
		 FROM accounts ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing accounts: %w", apperror.Unavailable("select", err))
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(
			&a.ID,
			&a.Username,
			&a.PasswordHash,
			&a.Nickname,
			&a.Age,
			&a.Gender,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating accounts: %w", apperror.Unavailable("select", err))
	}

	return accounts, nil
}
