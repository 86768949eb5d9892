package credential

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrInvalidCredentials indicates a failed username/password check. The same
// error is returned for an unknown user and a wrong password so callers
// cannot probe which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Credential stores a user's password hash. Plaintext passwords are never
// persisted.
type Credential struct {
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Repository defines credential persistence operations
type Repository interface {
	Create(ctx context.Context, cred *Credential) error
	GetByUsername(ctx context.Context, username string) (*Credential, error)
	WithTx(tx pgx.Tx) Repository
}
