package currencypkg_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-anri/tx-ledger/pkg/currencypkg"
)

func TestIsSupportedCurrency(t *testing.T) {
	for _, c := range currencypkg.SupportedCurrencies {
		require.True(t, currencypkg.IsSupportedCurrency(c), c)
	}

	for _, c := range []string{"", "usd", "DOGE", "US"} {
		require.False(t, currencypkg.IsSupportedCurrency(c), c)
	}
}
