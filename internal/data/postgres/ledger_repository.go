package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bankcore-ledger/internal/domain/ledger"
	"github.com/bankcore-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// LedgerRepository implements the ledger.Repository interface for PostgreSQL.
// The ledger_entries table is append-only; ids come from a BIGSERIAL
// sequence so insertion order is the total order of the ledger.
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, querier persistence.Querier) ledger.Repository {
	return &LedgerRepository{
		querier: querier,
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so entries commit
// atomically with the balance updates they describe
func (r *LedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Append writes an entry and fills in its sequence-assigned ID
func (r *LedgerRepository) Append(ctx context.Context, entry *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (operation_id, username, kind, amount, counterparty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		entry.OperationID,
		entry.Username,
		entry.Kind,
		entry.Amount,
		entry.Counterparty,
		entry.CreatedAt,
	).Scan(&entry.ID)

	if err != nil {
		r.logger.Error("Failed to append ledger entry",
			"operation_id", entry.OperationID.String(),
			"username", entry.Username,
			"error", err,
		)
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

// ListByUsername returns every entry where the account is the primary party,
// ordered by id ascending
func (r *LedgerRepository) ListByUsername(ctx context.Context, username string) ([]*ledger.Entry, error) {
	query := `
		SELECT id, operation_id, username, kind, amount, counterparty, created_at
		FROM ledger_entries
		WHERE username = $1
		ORDER BY id ASC
	`

	rows, err := r.querier.Query(ctx, query, username)
	if err != nil {
		r.logger.Error("Failed to list ledger entries", "username", username, "error", err)
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		err := rows.Scan(
			&entry.ID,
			&entry.OperationID,
			&entry.Username,
			&entry.Kind,
			&entry.Amount,
			&entry.Counterparty,
			&entry.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan ledger entry", "error", err)
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over ledger entries", "error", err)
		return nil, fmt.Errorf("error iterating over ledger entries: %w", err)
	}

	return entries, nil
}
