package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	//
	// A malformed transaction ID collapses to the same error so that the
	// internal ID format does not leak to callers.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidAmount indicates that the amount is not a valid decimal number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates that the amount is zero or negative.
	ErrNegativeAmount = errors.New("amount must be positive")
	// ErrInvalidDirection indicates that the direction is neither IN nor OUT.
	ErrInvalidDirection = errors.New("invalid transaction direction")
	// ErrCurrencyNotSupported indicates that the currency code is not supported.
	ErrCurrencyNotSupported = errors.New("currency not supported")
	// ErrInsufficientBalance indicates that the balance cannot cover an OUT transaction.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Direction tells whether a transaction credits or debits a balance.
type Direction string

// Transaction directions.
const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// NewBalanceAmount returns the balance amount after applying the
// transaction amount in the given direction.
func NewBalanceAmount(balance, amount decimal.Decimal, d Direction) decimal.Decimal {
	if d == DirectionIn {
		return balance.Add(amount)
	}

	return balance.Sub(amount)
}

// Transaction is an immutable record of one balance-affecting event.
//
// BalanceAmount is the balance snapshot taken right after the
// transaction was applied.
type Transaction struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"accountId"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Direction     string    `json:"direction"`
	Description   string    `json:"description"`
	BalanceAmount string    `json:"balanceAmount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateTransactionParams holds the input for recording a transaction.
type CreateTransactionParams struct {
	AccountID   string
	Amount      string
	Currency    string
	Direction   Direction
	Description string
}
