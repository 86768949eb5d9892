package account

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// List returns every account ordered by username ascending
	List(ctx context.Context) ([]*Account, error)

	// LockForUpdate acquires a row lock on the account for the duration of
	// the enclosing transaction and returns its current state
	LockForUpdate(ctx context.Context, username string) (*Account, error)

	// UpdateBalance persists a new balance for a row previously locked with
	// LockForUpdate
	UpdateBalance(ctx context.Context, account *Account) error

	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	Username string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.Username
}

// Is matches any ErrAccountNotFound when the target carries no username
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.Username == "" || t.Username == e.Username
}

// ErrAccountAlreadyExists indicates username uniqueness violation
type ErrAccountAlreadyExists struct {
	Username string
}

func (e ErrAccountAlreadyExists) Error() string {
	return "account already exists: " + e.Username
}

// Is matches any ErrAccountAlreadyExists when the target carries no username
func (e ErrAccountAlreadyExists) Is(target error) bool {
	t, ok := target.(ErrAccountAlreadyExists)
	if !ok {
		return false
	}
	return t.Username == "" || t.Username == e.Username
}
