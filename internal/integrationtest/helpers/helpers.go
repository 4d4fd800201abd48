// Package helpers provides seed functions shared by integration tests.
package helpers

import (
	"context"
	"testing"

	"github.com/go-anri/tx-ledger/internal/balancerepo"
	"github.com/go-anri/tx-ledger/internal/domain"
	"github.com/go-anri/tx-ledger/pkg/dbpkg"
	"github.com/go-anri/tx-ledger/pkg/randompkg"
)

const seedAccountQuery = `
INSERT INTO accounts (id, customer_id) VALUES ($1, $2)
RETURNING id, customer_id, created_at
`

// SeedAccount creates an account with a zero balance in each given currency.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, currencies ...string) domain.Account {
	t.Helper()

	var a domain.Account

	row := db.QueryRowContext(context.Background(), seedAccountQuery, randompkg.UUID(), randompkg.UUID())
	if err := row.Scan(&a.ID, &a.CustomerID, &a.CreatedAt); err != nil {
		t.Fatalf("seeding account returned error: %v", err)
	}

	balanceRepo := balancerepo.NewRepoPGS(db)
	a.Balances = make(map[string]domain.Balance, len(currencies))

	for _, currency := range currencies {
		b, err := balanceRepo.Create(context.Background(), randompkg.UUID(), a.ID, currency)
		if err != nil {
			t.Fatalf("seeding %v balance returned error: %v", currency, err)
		}

		a.Balances[b.Currency] = b
	}

	return a
}

// SeedBalanceAmount adjusts the seeded balance by the given signed amount.
func SeedBalanceAmount(t *testing.T, db dbpkg.SQLInterface, amount, balanceID string) domain.Balance {
	t.Helper()

	balanceRepo := balancerepo.NewRepoPGS(db)

	b, err := balanceRepo.AddAmount(context.Background(), amount, balanceID)
	if err != nil {
		t.Fatalf("balanceRepo.AddAmount(ctx, %v, %v) returned error: %v", amount, balanceID, err)
	}

	return b
}

const seedTransactionQuery = `
INSERT INTO
    transactions (id, account_id, currency, amount, direction, description, balance_amount)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at
`

// SeedTransaction appends a transaction row as given.
func SeedTransaction(t *testing.T, db dbpkg.SQLInterface, arg domain.Transaction) domain.Transaction {
	t.Helper()

	row := db.QueryRowContext(context.Background(), seedTransactionQuery,
		arg.ID,
		arg.AccountID,
		arg.Currency,
		arg.Amount,
		arg.Direction,
		arg.Description,
		arg.BalanceAmount,
	)

	if err := row.Scan(&arg.CreatedAt); err != nil {
		t.Fatalf("seeding transaction %+v returned error: %v", arg, err)
	}

	return arg
}
