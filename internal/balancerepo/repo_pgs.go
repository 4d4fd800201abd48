// Package balancerepo manages repository layer of currency balances.
package balancerepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-anri/tx-ledger/internal/domain"
	"github.com/go-anri/tx-ledger/pkg/dbpkg"
	"github.com/go-anri/tx-ledger/pkg/errorspkg"
)

// RepoPGS facilitates balance repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns balance RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    balances (id, account_id, currency, amount)
VALUES
    ($1, $2, $3, 0)
RETURNING id, account_id, currency, amount
`

// Create opens a zero balance in the given currency and then returns it.
func (r *RepoPGS) Create(ctx context.Context, id, accountID, currency string) (domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, id, accountID, currency)

	var b domain.Balance

	err := row.Scan(
		&b.ID,
		&b.AccountID,
		&b.Currency,
		&b.Amount,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "balances_account_id_fkey":
				return b, domain.ErrAccountNotFound
			case "balances_account_id_currency_key":
				return b, domain.ErrCurrencyAlreadyExists
			}
		}

		return b, errorspkg.ErrInternal
	}

	return b, nil
}

const addAmountQuery = `
UPDATE balances
SET amount = amount + $1
WHERE id = $2
RETURNING id, account_id, currency, amount
`

// AddAmount adjusts the balance by the given signed amount and returns
// the changed balance.
//
// The relative update serializes concurrent adjustments at the balance
// row, so the returned amount never reflects a lost update.
func (r *RepoPGS) AddAmount(ctx context.Context, amount, id string) (domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addAmountQuery, amount, id)

	var b domain.Balance

	err := row.Scan(
		&b.ID,
		&b.AccountID,
		&b.Currency,
		&b.Amount,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return b, domain.ErrCurrencyBalanceNotFound
		}

		return b, errorspkg.ErrInternal
	}

	return b, nil
}

const listForAccountQuery = `
SELECT id, account_id, currency, amount FROM balances
WHERE account_id = $1
`

// ListForAccount returns the account's balances keyed by currency.
//
// Should duplicate currency rows ever appear despite the unique
// constraint, the first row scanned wins; that tie-break is
// implementation-defined and not to be relied upon.
func (r *RepoPGS) ListForAccount(ctx context.Context, accountID string) (map[string]domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listForAccountQuery, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	balances := map[string]domain.Balance{}

	for rows.Next() {
		var b domain.Balance
		if err := rows.Scan(
			&b.ID,
			&b.AccountID,
			&b.Currency,
			&b.Amount,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		if _, ok := balances[b.Currency]; !ok {
			balances[b.Currency] = b
		}
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return balances, nil
}
