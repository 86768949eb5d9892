// Package auth is the identity collaborator at the ledger's boundary: it
// owns signup and login, and hands the engine nothing but verified
// usernames. The engine itself never sees a password.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bankcore-ledger/internal/domain/account"
	"github.com/bankcore-ledger/internal/domain/credential"
	"github.com/bankcore-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword indicates a signup attempt without a password
var ErrEmptyPassword = errors.New("password cannot be empty")

// Service verifies identities and provisions accounts at signup
type Service struct {
	db          persistence.TxStarter
	credentials credential.Repository
	accounts    account.Repository
	bcryptCost  int
	logger      *slog.Logger
}

// NewService creates an auth service. bcryptCost controls credential hashing
// strength; bcrypt.DefaultCost is a reasonable value.
func NewService(
	logger *slog.Logger,
	db persistence.TxStarter,
	credentials credential.Repository,
	accounts account.Repository,
	bcryptCost int,
) *Service {
	return &Service{
		db:          db,
		credentials: credentials,
		accounts:    accounts,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

// Signup creates a credential and the matching zero-balance ledger account
// in one transaction, so a user can never exist with a login but no account
// or the other way around. Returns ErrAccountAlreadyExists for a taken
// username.
func (s *Service) Signup(ctx context.Context, username, password string) (*account.Account, error) {
	if username == "" {
		return nil, account.ErrEmptyUsername
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	acc, err := account.NewAccount(username)
	if err != nil {
		return nil, err
	}

	cred := &credential.Credential{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    acc.CreatedAt,
	}

	err = persistence.WithinTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.accounts.WithTx(tx).Create(ctx, acc); err != nil {
			return err
		}
		return s.credentials.WithTx(tx).Create(ctx, cred)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", "username", username)
	return acc, nil
}

// Login verifies the username/password pair. Returns ErrInvalidCredentials
// for an unknown user or a wrong password, without distinguishing the two.
func (s *Service) Login(ctx context.Context, username, password string) error {
	cred, err := s.credentials.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return credential.ErrInvalidCredentials
	}

	return nil
}
