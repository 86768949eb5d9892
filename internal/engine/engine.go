// Package engine implements the ledger core: atomic, concurrency-safe money
// movement over accounts and an append-only entry log.
//
// Every mutating operation runs as one database transaction that locks the
// touched account row(s), re-reads balances under the lock, applies the
// mutation, appends the ledger entries and enqueues the outbox event. Either
// everything commits or nothing does; there is no observable state where a
// balance moved without its entry or vice versa. Transfers lock the two rows
// in lexicographic username order so opposed concurrent transfers cannot
// deadlock.
package engine

import (
	"context"
	"log/slog"

	"github.com/bankcore-ledger/internal/domain/account"
	"github.com/bankcore-ledger/internal/domain/ledger"
	"github.com/bankcore-ledger/internal/domain/outbox"
	"github.com/bankcore-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// Engine owns account balances and the transaction log
type Engine struct {
	db       persistence.TxStarter
	accounts account.Repository
	entries  ledger.Repository
	outbox   outbox.Repository
	logger   *slog.Logger
}

// New creates a ledger engine on top of an injected storage handle. The
// repositories must be bound to the same database as db.
func New(
	logger *slog.Logger,
	db persistence.TxStarter,
	accounts account.Repository,
	entries ledger.Repository,
	outboxRepo outbox.Repository,
) *Engine {
	return &Engine{
		db:       db,
		accounts: accounts,
		entries:  entries,
		outbox:   outboxRepo,
		logger:   logger,
	}
}

// CreateAccount creates an account with a zero balance. Fails with
// ErrAccountAlreadyExists if the username is taken; the insert is a single
// statement, so failure leaves no side effects.
func (e *Engine) CreateAccount(ctx context.Context, username string) (*account.Account, error) {
	acc, err := account.NewAccount(username)
	if err != nil {
		return nil, err
	}

	if err := e.accounts.Create(ctx, acc); err != nil {
		return nil, classify("create account", err)
	}

	e.logger.Info("Account created", "username", username)
	return acc, nil
}

// GetBalance returns the current committed balance in minor units
func (e *Engine) GetBalance(ctx context.Context, username string) (int64, error) {
	acc, err := e.accounts.GetByUsername(ctx, username)
	if err != nil {
		return 0, classify("get balance", err)
	}
	return acc.Balance, nil
}

// Deposit credits the account and appends one DEPOSIT entry, atomically
func (e *Engine) Deposit(ctx context.Context, username string, amount int64) (*ledger.Entry, error) {
	if amount <= 0 {
		return nil, account.ErrInvalidAmount
	}

	entry := ledger.NewDeposit(username, amount)

	err := persistence.WithinTx(ctx, e.db, func(tx pgx.Tx) error {
		accounts := e.accounts.WithTx(tx)

		acc, err := accounts.LockForUpdate(ctx, username)
		if err != nil {
			return err
		}
		if err := acc.Deposit(amount); err != nil {
			return err
		}
		if err := accounts.UpdateBalance(ctx, acc); err != nil {
			return err
		}
		if err := e.entries.WithTx(tx).Append(ctx, entry); err != nil {
			return err
		}
		return e.enqueueEvent(ctx, tx, entry)
	})
	if err != nil {
		return nil, classify("deposit", err)
	}

	e.logger.Info("Deposit committed", "username", username, "amount", amount, "entry_id", entry.ID)
	return entry, nil
}

// Withdraw debits the account and appends one WITHDRAWAL entry. The balance
// check runs under the row lock, in the same transaction as the debit, so
// two concurrent withdrawals can never jointly overdraw the account.
func (e *Engine) Withdraw(ctx context.Context, username string, amount int64) (*ledger.Entry, error) {
	if amount <= 0 {
		return nil, account.ErrInvalidAmount
	}

	entry := ledger.NewWithdrawal(username, amount)

	err := persistence.WithinTx(ctx, e.db, func(tx pgx.Tx) error {
		accounts := e.accounts.WithTx(tx)

		acc, err := accounts.LockForUpdate(ctx, username)
		if err != nil {
			return err
		}
		if err := acc.Withdraw(amount); err != nil {
			return err
		}
		if err := accounts.UpdateBalance(ctx, acc); err != nil {
			return err
		}
		if err := e.entries.WithTx(tx).Append(ctx, entry); err != nil {
			return err
		}
		return e.enqueueEvent(ctx, tx, entry)
	})
	if err != nil {
		return nil, classify("withdraw", err)
	}

	e.logger.Info("Withdrawal committed", "username", username, "amount", amount, "entry_id", entry.ID)
	return entry, nil
}

// Transfer moves amount from sender to receiver as one atomic unit: both
// balance changes and both ledger entries (TRANSFER_OUT for the sender,
// TRANSFER_IN for the receiver, sharing one operation id) commit together or
// not at all.
func (e *Engine) Transfer(ctx context.Context, sender, receiver string, amount int64) (*ledger.Entry, *ledger.Entry, error) {
	if amount <= 0 {
		return nil, nil, account.ErrInvalidAmount
	}
	if sender == receiver {
		return nil, nil, ledger.ErrSameAccount
	}

	out, in := ledger.NewTransferPair(sender, receiver, amount)

	err := persistence.WithinTx(ctx, e.db, func(tx pgx.Tx) error {
		accounts := e.accounts.WithTx(tx)

		// Lock in lexicographic order regardless of transfer direction
		first, second := sender, receiver
		if second < first {
			first, second = second, first
		}

		firstAcc, err := accounts.LockForUpdate(ctx, first)
		if err != nil {
			return err
		}
		secondAcc, err := accounts.LockForUpdate(ctx, second)
		if err != nil {
			return err
		}

		senderAcc, receiverAcc := firstAcc, secondAcc
		if senderAcc.Username != sender {
			senderAcc, receiverAcc = secondAcc, firstAcc
		}

		if err := senderAcc.Withdraw(amount); err != nil {
			return err
		}
		if err := receiverAcc.Deposit(amount); err != nil {
			return err
		}
		if err := accounts.UpdateBalance(ctx, senderAcc); err != nil {
			return err
		}
		if err := accounts.UpdateBalance(ctx, receiverAcc); err != nil {
			return err
		}

		entries := e.entries.WithTx(tx)
		if err := entries.Append(ctx, out); err != nil {
			return err
		}
		if err := entries.Append(ctx, in); err != nil {
			return err
		}
		return e.enqueueEvent(ctx, tx, out, in)
	})
	if err != nil {
		return nil, nil, classify("transfer", err)
	}

	e.logger.Info("Transfer committed",
		"sender", sender,
		"receiver", receiver,
		"amount", amount,
		"operation_id", out.OperationID.String(),
	)
	return out, in, nil
}

// GetHistory returns every entry where the account is the primary party,
// ordered by id ascending. An unknown username is an error rather than an
// empty history.
func (e *Engine) GetHistory(ctx context.Context, username string) ([]*ledger.Entry, error) {
	if _, err := e.accounts.GetByUsername(ctx, username); err != nil {
		return nil, classify("get history", err)
	}

	entries, err := e.entries.ListByUsername(ctx, username)
	if err != nil {
		return nil, classify("get history", err)
	}
	return entries, nil
}

// ListAccounts returns every account with its balance, ordered by username
// ascending
func (e *Engine) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	accounts, err := e.accounts.List(ctx)
	if err != nil {
		return nil, classify("list accounts", err)
	}
	return accounts, nil
}

// enqueueEvent writes the operation's event to the outbox inside the same
// transaction as the ledger writes it describes
func (e *Engine) enqueueEvent(ctx context.Context, tx pgx.Tx, entries ...*ledger.Entry) error {
	message, err := outbox.NewMessage(ledger.NewEvent(entries...))
	if err != nil {
		return err
	}
	return e.outbox.WithTx(tx).Create(ctx, message)
}
