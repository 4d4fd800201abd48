//go:build integration

package transactionrepo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-anri/tx-ledger/internal/balancerepo"
	"github.com/go-anri/tx-ledger/internal/domain"
	"github.com/go-anri/tx-ledger/internal/integrationtest"
	"github.com/go-anri/tx-ledger/internal/integrationtest/helpers"
	"github.com/go-anri/tx-ledger/internal/transactionrepo"
	"github.com/go-anri/tx-ledger/pkg/configpkg"
	"github.com/go-anri/tx-ledger/pkg/currencypkg"
	"github.com/go-anri/tx-ledger/pkg/randompkg"
)

var (
	dbDriver string
	dbSource string
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transactionRepo := transactionrepo.NewRepoPGS(db)

	t.Run("InCreditsExactly", func(t *testing.T) {
		account := helpers.SeedAccount(t, db, currencypkg.USD)
		balance := account.Balances[currencypkg.USD]

		start := randompkg.MoneyAmountBetween(0, 1000)
		balance = helpers.SeedBalanceAmount(t, db, start, balance.ID)

		amount := randompkg.MoneyAmountBetween(0.0001, 1000)
		arg := domain.CreateTransactionParams{
			AccountID:   account.ID,
			Amount:      amount,
			Currency:    currencypkg.USD,
			Direction:   domain.DirectionIn,
			Description: "deposit",
		}

		got, err := transactionRepo.Create(context.Background(), randompkg.UUID(), balance.ID, arg)
		require.NoError(t, err)

		want := decimal.RequireFromString(start).Add(decimal.RequireFromString(amount))
		require.True(t, want.Equal(decimal.RequireFromString(got.BalanceAmount)),
			"IN %v on %v: want snapshot %v, got %v", amount, start, want, got.BalanceAmount)

		updated := helpers.SeedBalanceAmount(t, db, "0", balance.ID)
		require.True(t, want.Equal(decimal.RequireFromString(updated.Amount)),
			"balance row %v does not match snapshot %v", updated.Amount, want)
	})

	t.Run("OutDebitsExactly", func(t *testing.T) {
		account := helpers.SeedAccount(t, db, currencypkg.USD)
		balance := account.Balances[currencypkg.USD]

		start := randompkg.MoneyAmountBetween(1000, 2000)
		balance = helpers.SeedBalanceAmount(t, db, start, balance.ID)

		amount := randompkg.MoneyAmountBetween(0.0001, 1000)
		arg := domain.CreateTransactionParams{
			AccountID:   account.ID,
			Amount:      amount,
			Currency:    currencypkg.USD,
			Direction:   domain.DirectionOut,
			Description: "withdrawal",
		}

		got, err := transactionRepo.Create(context.Background(), randompkg.UUID(), balance.ID, arg)
		require.NoError(t, err)

		want := decimal.RequireFromString(start).Sub(decimal.RequireFromString(amount))
		require.True(t, want.Equal(decimal.RequireFromString(got.BalanceAmount)),
			"OUT %v on %v: want snapshot %v, got %v", amount, start, want, got.BalanceAmount)
	})

	t.Run("ExactDepletion", func(t *testing.T) {
		account := helpers.SeedAccount(t, db, currencypkg.USD)
		balance := account.Balances[currencypkg.USD]
		balance = helpers.SeedBalanceAmount(t, db, "10", balance.ID)

		arg := domain.CreateTransactionParams{
			AccountID: account.ID,
			Amount:    "10",
			Currency:  currencypkg.USD,
			Direction: domain.DirectionOut,
		}

		got, err := transactionRepo.Create(context.Background(), randompkg.UUID(), balance.ID, arg)
		require.NoError(t, err)
		require.True(t, decimal.Zero.Equal(decimal.RequireFromString(got.BalanceAmount)))
	})

	t.Run("UnknownBalanceWritesNothing", func(t *testing.T) {
		account := helpers.SeedAccount(t, db, currencypkg.USD)

		arg := domain.CreateTransactionParams{
			AccountID: account.ID,
			Amount:    "10",
			Currency:  currencypkg.USD,
			Direction: domain.DirectionIn,
		}

		id := randompkg.UUID()

		_, err := transactionRepo.Create(context.Background(), id, randompkg.UUID(), arg)
		require.ErrorIs(t, err, domain.ErrCurrencyBalanceNotFound)

		_, err = transactionRepo.Get(context.Background(), id)
		require.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})
}

// TestLedgerConsistency replays random transactions for one account and
// currency and checks that summing signed amounts reproduces the
// balance snapshot on the most recent transaction.
func TestLedgerConsistency(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transactionRepo := transactionrepo.NewRepoPGS(db)

	account := helpers.SeedAccount(t, db, currencypkg.EUR)
	balance := account.Balances[currencypkg.EUR]

	running := decimal.Zero

	for i := 0; i < 25; i++ {
		amount := randompkg.MoneyAmountBetween(0.0001, 100)
		direction := domain.DirectionIn

		// Withdraw only when the running balance covers the amount.
		if i%3 == 0 && running.GreaterThanOrEqual(decimal.RequireFromString(amount)) {
			direction = domain.DirectionOut
		}

		arg := domain.CreateTransactionParams{
			AccountID: account.ID,
			Amount:    amount,
			Currency:  currencypkg.EUR,
			Direction: direction,
		}

		_, err := transactionRepo.Create(context.Background(), randompkg.UUID(), balance.ID, arg)
		require.NoError(t, err)

		running = domain.NewBalanceAmount(running, decimal.RequireFromString(amount), direction)
	}

	transactions, err := transactionRepo.ListForAccount(context.Background(), account.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 25)

	replayed := decimal.Zero

	for _, transaction := range transactions {
		replayed = domain.NewBalanceAmount(
			replayed,
			decimal.RequireFromString(transaction.Amount),
			domain.Direction(transaction.Direction),
		)
	}

	last := transactions[len(transactions)-1]
	require.True(t, replayed.Equal(decimal.RequireFromString(last.BalanceAmount)),
		"replayed %v, last snapshot %v", replayed, last.BalanceAmount)
	require.True(t, running.Equal(replayed))
}

func TestGet(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transactionRepo := transactionrepo.NewRepoPGS(db)

	account := helpers.SeedAccount(t, db, currencypkg.USD)

	want := helpers.SeedTransaction(t, db, domain.Transaction{
		ID:            randompkg.UUID(),
		AccountID:     account.ID,
		Amount:        "100",
		Currency:      currencypkg.USD,
		Direction:     string(domain.DirectionIn),
		Description:   "Add start money",
		BalanceAmount: "100",
	})

	t.Run("OK", func(t *testing.T) {
		got, err := transactionRepo.Get(context.Background(), want.ID)
		require.NoError(t, err)
		require.Equal(t, want.ID, got.ID)
		require.Equal(t, want.AccountID, got.AccountID)
		require.Equal(t, want.Description, got.Description)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := transactionRepo.Get(context.Background(), randompkg.UUID())
		require.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})
}

func TestListForAccountOrder(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	transactionRepo := transactionrepo.NewRepoPGS(db)
	balanceRepo := balancerepo.NewRepoPGS(db)

	account := helpers.SeedAccount(t, db, currencypkg.USD)
	balance, err := balanceRepo.AddAmount(context.Background(), "0", account.Balances[currencypkg.USD].ID)
	require.NoError(t, err)

	var created []string

	for i := 0; i < 5; i++ {
		transaction, err := transactionRepo.Create(context.Background(), randompkg.UUID(), balance.ID,
			domain.CreateTransactionParams{
				AccountID: account.ID,
				Amount:    "1",
				Currency:  currencypkg.USD,
				Direction: domain.DirectionIn,
			})
		require.NoError(t, err)

		created = append(created, transaction.ID)
	}

	transactions, err := transactionRepo.ListForAccount(context.Background(), account.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 5)

	for i, transaction := range transactions {
		require.Equal(t, created[i], transaction.ID)
	}
}
