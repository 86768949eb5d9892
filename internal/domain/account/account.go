package account

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds for withdrawal")
	ErrEmptyUsername     = errors.New("username cannot be empty")
)

// Account represents a bank account. The balance is stored in integer minor
// units (cents); floating point is never used for money.
type Account struct {
	Username  string    `json:"username"`
	Balance   int64     `json:"balance"` // Minor units
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccount creates a new account with a zero balance
func NewAccount(username string) (*Account, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}

	now := time.Now().UTC()
	return &Account{
		Username:  username,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Deposit adds the specified amount to the account balance
func (a *Account) Deposit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	a.Balance += amount
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Withdraw subtracts the specified amount from the account balance
func (a *Account) Withdraw(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if a.Balance < amount {
		return ErrInsufficientFunds
	}

	a.Balance -= amount
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// CanWithdraw checks if the account has sufficient funds for a withdrawal
func (a *Account) CanWithdraw(amount int64) bool {
	return a.Balance >= amount
}
