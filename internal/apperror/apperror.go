// Package apperror defines the application's error taxonomy.
//
// Business-rule outcomes (duplicate username, bad credential, missing field)
// are expected results, not faults. They are modelled as sentinel errors that
// callers check with errors.Is, so the HTTP layer can map each class to a
// status code without parsing error strings.
//
// Infrastructure faults (disk, connection) are a separate class: ErrUnavailable.
// They are the only errors a caller may sensibly retry.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrDuplicate     = errors.New("duplicate")
	ErrNotFound      = errors.New("not found")
	ErrBadCredential = errors.New("bad credential")
	ErrUnavailable   = errors.New("storage unavailable")
)

type AppError struct {
	Err     error  // sentinel (possibly wrapping a cause)
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Duplicate reports a uniqueness-constraint violation on a resource key.
func Duplicate(resource, key string) *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: fmt.Sprintf("%s %q already exists", resource, key),
	}
}

func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, key),
	}
}

// BadCredential covers both "unknown username" and "wrong password".
// The two cases share one message so responses cannot be used to
// enumerate registered usernames.
func BadCredential() *AppError {
	return &AppError{
		Err:     ErrBadCredential,
		Message: "invalid username or password",
	}
}

// Unavailable wraps an infrastructure fault from the storage layer.
// The cause is kept in the chain for logging; the message stays generic
// so raw driver errors never reach a client.
func Unavailable(op string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %v", ErrUnavailable, op, cause),
		Message: "storage temporarily unavailable",
	}
}
