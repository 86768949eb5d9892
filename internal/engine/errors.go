package engine

import (
	"errors"

	"github.com/bankcore-ledger/internal/domain/account"
	"github.com/bankcore-ledger/internal/domain/credential"
	"github.com/bankcore-ledger/internal/domain/ledger"
)

// StorageError reports that the underlying atomic commit could not complete.
// The failed transaction was rolled back in full, so callers may safely
// retry the identical request.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage failure during " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsDomainError reports whether err is one of the business errors callers
// are expected to branch on, as opposed to a storage failure
func IsDomainError(err error) bool {
	return errors.Is(err, account.ErrInvalidAmount) ||
		errors.Is(err, account.ErrInsufficientFunds) ||
		errors.Is(err, account.ErrEmptyUsername) ||
		errors.Is(err, ledger.ErrSameAccount) ||
		errors.Is(err, credential.ErrInvalidCredentials) ||
		errors.Is(err, account.ErrAccountNotFound{}) ||
		errors.Is(err, account.ErrAccountAlreadyExists{})
}

// classify passes business errors through untouched and wraps everything
// else as a StorageError for the named operation
func classify(op string, err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
