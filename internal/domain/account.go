// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrCurrencyBalanceNotFound indicates that the account has no balance in the requested currency.
	ErrCurrencyBalanceNotFound = errors.New("account does not have a balance for the given currency")
	// ErrCurrencyAlreadyExists indicates that the account already holds a balance in the given currency.
	ErrCurrencyAlreadyExists = errors.New("account currency balance already exists")
)

// Balance holds the current amount for one account and currency pair.
type Balance struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	Currency  string `json:"currency"`
	Amount    string `json:"amount"`
}

// Account aggregates the customer's balances keyed by currency code.
//
// Keying by currency makes the one-balance-per-currency invariant
// structural; the unique constraint on (account_id, currency) enforces
// it in the database.
type Account struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customerId"`
	Balances   map[string]Balance `json:"balances"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// BalanceFor returns the account's balance in the given currency.
func (a Account) BalanceFor(currency string) (Balance, error) {
	b, ok := a.Balances[currency]
	if !ok {
		return Balance{}, ErrCurrencyBalanceNotFound
	}

	return b, nil
}

// CreateAccountParams holds the input for opening an account.
type CreateAccountParams struct {
	CustomerID string
	Currencies []string
}
