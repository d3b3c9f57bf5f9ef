package repository

import (
	"context"

	"github.com/sakif/account-service/internal/model"
)

// AccountRepository is the storage contract for accounts.
//
// Implementations must enforce username uniqueness atomically at insert time:
// of two racing Create calls for the same username, exactly one succeeds and
// the other observes apperror.ErrDuplicate. UsernameExists is advisory only —
// a check-then-create sequence is inherently racy and callers must treat the
// Create result as the source of truth.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByUsername(ctx context.Context, username string) (*model.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]model.Account, error)
}
