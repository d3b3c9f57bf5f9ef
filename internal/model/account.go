// Package model defines the data structures used throughout the application.
package model

import "time"

// Account represents a registered user account.
//
// The username is the external identity: it is unique (enforced by a UNIQUE
// constraint in the database, not by callers) and immutable after creation.
// The numeric ID is a surrogate key assigned by SQLite's AUTOINCREMENT, so it
// is monotonic and never reused even if rows were ever deleted.
//
// WHY `json:"-"` ON PasswordHash?
// The hash must never appear in an API response. Tagging it with "-" means
// encoding/json skips the field entirely, so handlers can return an *Account
// directly without building a separate response struct and without any risk
// of leaking the credential material.
type Account struct {
	ID           int64     `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	PasswordHash string    `json:"-"         db:"password_hash"` // bcrypt output, never serialized
	Nickname     string    `json:"nickname"  db:"nickname"`
	Age          int64     `json:"age"       db:"age"` // unvalidated beyond presence, by current product scope
	Gender       string    `json:"gender"    db:"gender"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
