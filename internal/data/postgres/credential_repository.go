package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bankcore-ledger/internal/domain/account"
	"github.com/bankcore-ledger/internal/domain/credential"
	"github.com/bankcore-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CredentialRepository implements the credential.Repository interface for
// PostgreSQL
type CredentialRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewCredentialRepository creates a new PostgreSQL credential repository
func NewCredentialRepository(logger *slog.Logger, querier persistence.Querier) credential.Repository {
	return &CredentialRepository{
		querier: querier,
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so credential creation
// commits atomically with account creation at signup
func (r *CredentialRepository) WithTx(tx pgx.Tx) credential.Repository {
	return &CredentialRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new credential. Returns ErrAccountAlreadyExists if a
// credential for the username is already present.
func (r *CredentialRepository) Create(ctx context.Context, cred *credential.Credential) error {
	query := `
		INSERT INTO credentials (username, password_hash, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.querier.Exec(ctx, query, cred.Username, cred.PasswordHash, cred.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return account.ErrAccountAlreadyExists{Username: cred.Username}
		}
		r.logger.Error("Failed to create credential", "username", cred.Username, "error", err)
		return fmt.Errorf("failed to create credential: %w", err)
	}

	return nil
}

// GetByUsername retrieves a credential by username. Returns
// ErrInvalidCredentials for unknown users so lookups cannot distinguish a
// missing user from a wrong password.
func (r *CredentialRepository) GetByUsername(ctx context.Context, username string) (*credential.Credential, error) {
	query := `
		SELECT username, password_hash, created_at
		FROM credentials
		WHERE username = $1
	`

	var cred credential.Credential
	err := r.querier.QueryRow(ctx, query, username).Scan(
		&cred.Username,
		&cred.PasswordHash,
		&cred.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, credential.ErrInvalidCredentials
		}
		r.logger.Error("Failed to get credential", "username", username, "error", err)
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return &cred, nil
}
