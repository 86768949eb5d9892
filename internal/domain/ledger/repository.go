package ledger

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository manages ledger entry persistence. Entries are append-only:
// there are no update or delete operations.
type Repository interface {
	// Append writes an entry and fills in its sequence-assigned ID
	Append(ctx context.Context, entry *Entry) error

	// ListByUsername returns every entry where the account is the primary
	// party, ordered by id ascending
	ListByUsername(ctx context.Context, username string) ([]*Entry, error)

	WithTx(tx pgx.Tx) Repository
}
