// Package ledger defines the append-only record of money movement. Entries
// are immutable once written; an account's balance always equals the signed
// sum of its entries.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSameAccount indicates a transfer where sender and receiver match
var ErrSameAccount = errors.New("cannot transfer to the same account")

// Kind classifies a ledger entry
type Kind string

const (
	KindDeposit     Kind = "DEPOSIT"
	KindWithdrawal  Kind = "WITHDRAWAL"
	KindTransferOut Kind = "TRANSFER_OUT"
	KindTransferIn  Kind = "TRANSFER_IN"
)

// Entry is a single row in the ledger. The id is assigned by the store at
// commit time from a monotonic sequence, so id order is chronological order.
// Both legs of a transfer carry the same OperationID for audit pairing.
type Entry struct {
	ID           int64     `json:"id"`
	OperationID  uuid.UUID `json:"operation_id"`
	Username     string    `json:"username"`
	Kind         Kind      `json:"kind"`
	Amount       int64     `json:"amount"` // Minor units, always positive
	Counterparty string    `json:"counterparty,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewDeposit builds the entry recorded for a deposit
func NewDeposit(username string, amount int64) *Entry {
	return &Entry{
		OperationID: uuid.New(),
		Username:    username,
		Kind:        KindDeposit,
		Amount:      amount,
		CreatedAt:   time.Now().UTC(),
	}
}

// NewWithdrawal builds the entry recorded for a withdrawal
func NewWithdrawal(username string, amount int64) *Entry {
	return &Entry{
		OperationID: uuid.New(),
		Username:    username,
		Kind:        KindWithdrawal,
		Amount:      amount,
		CreatedAt:   time.Now().UTC(),
	}
}

// NewTransferPair builds both legs of a transfer. The legs share one
// operation id and reference each other as counterparty.
func NewTransferPair(sender, receiver string, amount int64) (*Entry, *Entry) {
	opID := uuid.New()
	now := time.Now().UTC()

	out := &Entry{
		OperationID:  opID,
		Username:     sender,
		Kind:         KindTransferOut,
		Amount:       amount,
		Counterparty: receiver,
		CreatedAt:    now,
	}
	in := &Entry{
		OperationID:  opID,
		Username:     receiver,
		Kind:         KindTransferIn,
		Amount:       amount,
		Counterparty: sender,
		CreatedAt:    now,
	}
	return out, in
}

// Signed returns the amount with the sign it contributes to the account
// balance: positive for money in, negative for money out.
func (e *Entry) Signed() int64 {
	switch e.Kind {
	case KindWithdrawal, KindTransferOut:
		return -e.Amount
	default:
		return e.Amount
	}
}
