//go:build integration

package balancerepo_test

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

// TestCreate runs on a plain connection. A constraint violation aborts
// the enclosing Postgres transaction, so the violating subtests cannot
// share a SetupTX handle with the ones that follow.
func TestCreate(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	account := helpers.SeedAccount(t, db, currencypkg.USD)
	balanceRepo := balancerepo.NewRepoPGS(db)

	t.Run("OK", func(t *testing.T) {
		got, err := balanceRepo.Create(context.Background(), randompkg.UUID(), account.ID, currencypkg.EUR)
		require.NoError(t, err)
		require.Equal(t, account.ID, got.AccountID)
		require.Equal(t, currencypkg.EUR, got.Currency)
		require.Equal(t, "0", got.Amount)
	})

	t.Run("DuplicateCurrency", func(t *testing.T) {
		_, err := balanceRepo.Create(context.Background(), randompkg.UUID(), account.ID, currencypkg.USD)
		require.ErrorIs(t, err, domain.ErrCurrencyAlreadyExists)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		_, err := balanceRepo.Create(context.Background(), randompkg.UUID(), randompkg.UUID(), currencypkg.GBP)
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestAddAmount(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	account := helpers.SeedAccount(t, tx, currencypkg.USD)
	balance := account.Balances[currencypkg.USD]
	balanceRepo := balancerepo.NewRepoPGS(tx)

	t.Run("AccumulatesExactly", func(t *testing.T) {
		want := decimal.Zero

		for i := 0; i < 20; i++ {
			amount := randompkg.MoneyAmountBetween(-100, 100)
			want = want.Add(decimal.RequireFromString(amount))

			got, err := balanceRepo.AddAmount(context.Background(), amount, balance.ID)
			require.NoError(t, err)
			require.True(t, want.Equal(decimal.RequireFromString(got.Amount)),
				"after adding %v want %v, got %v", amount, want, got.Amount)
		}
	})

	t.Run("UnknownBalance", func(t *testing.T) {
		_, err := balanceRepo.AddAmount(context.Background(), "1", randompkg.UUID())
		require.ErrorIs(t, err, domain.ErrCurrencyBalanceNotFound)
	})
}

func TestListForAccount(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	account := helpers.SeedAccount(t, tx, currencypkg.USD, currencypkg.EUR)
	balanceRepo := balancerepo.NewRepoPGS(tx)

	got, err := balanceRepo.ListForAccount(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, account.Balances, got)

	empty, err := balanceRepo.ListForAccount(context.Background(), randompkg.UUID())
	require.NoError(t, err)
	require.Empty(t, empty)
}
