package handler

import (
	"context"

	"github.com/bankcore-ledger/internal/domain/account"
	"github.com/bankcore-ledger/internal/domain/ledger"
)

// LedgerService is the call contract the handlers consume; the engine
// satisfies it
type LedgerService interface {
	CreateAccount(ctx context.Context, username string) (*account.Account, error)
	GetBalance(ctx context.Context, username string) (int64, error)
	Deposit(ctx context.Context, username string, amount int64) (*ledger.Entry, error)
	Withdraw(ctx context.Context, username string, amount int64) (*ledger.Entry, error)
	Transfer(ctx context.Context, sender, receiver string, amount int64) (*ledger.Entry, *ledger.Entry, error)
	GetHistory(ctx context.Context, username string) ([]*ledger.Entry, error)
	ListAccounts(ctx context.Context) ([]*account.Account, error)
}

// AuthService verifies identities and provisions accounts at signup
type AuthService interface {
	Signup(ctx context.Context, username, password string) (*account.Account, error)
	Login(ctx context.Context, username, password string) error
}
