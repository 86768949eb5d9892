// Package postgres provides PostgreSQL implementations of the domain
// repositories. All money-movement writes are expected to run through
// WithTx-wrapped instances so that balance updates, ledger appends and
// outbox inserts commit as one unit.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bankcore-ledger/internal/domain/account"
	"github.com/bankcore-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches
const uniqueViolation = "23505"

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, querier persistence.Querier) account.Repository {
	return &AccountRepository{
		querier: querier,
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic
// operations across multiple repository calls
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account. Returns ErrAccountAlreadyExists if the
// username is taken (case-sensitive exact match, enforced by the primary key).
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (username, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.Username,
		acc.Balance,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return account.ErrAccountAlreadyExists{Username: acc.Username}
		}
		r.logger.Error("Failed to create account", "username", acc.Username, "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByUsername retrieves an account by its username
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	query := `
		SELECT username, balance, created_at, updated_at
		FROM accounts
		WHERE username = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, username).Scan(
		&acc.Username,
		&acc.Balance,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{Username: username}
		}
		r.logger.Error("Failed to get account", "username", username, "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// List returns all accounts ordered by username ascending
func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	query := `
		SELECT username, balance, created_at, updated_at
		FROM accounts
		ORDER BY username ASC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		if err := rows.Scan(&acc.Username, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan account row", "error", err)
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, &acc)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over accounts", "error", err)
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

// LockForUpdate obtains a pessimistic row lock on the account and returns its
// current state. Must be called within a transaction.
func (r *AccountRepository) LockForUpdate(ctx context.Context, username string) (*account.Account, error) {
	query := `
		SELECT username, balance, created_at, updated_at
		FROM accounts
		WHERE username = $1
		FOR UPDATE
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, username).Scan(
		&acc.Username,
		&acc.Balance,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{Username: username}
		}
		r.logger.Error("Failed to lock account for update", "username", username, "error", err)
		return nil, fmt.Errorf("failed to lock account for update: %w", err)
	}

	return &acc, nil
}

// UpdateBalance persists the balance of an account previously locked with
// LockForUpdate within the same transaction
func (r *AccountRepository) UpdateBalance(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = $2
		WHERE username = $3
	`

	result, err := r.querier.Exec(ctx, query, acc.Balance, acc.UpdatedAt, acc.Username)
	if err != nil {
		r.logger.Error("Failed to update account balance", "username", acc.Username, "error", err)
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{Username: acc.Username}
	}

	return nil
}
