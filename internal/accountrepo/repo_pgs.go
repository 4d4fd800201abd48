// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-anri/tx-ledger/internal/balancerepo"
	"github.com/go-anri/tx-ledger/internal/domain"
	"github.com/go-anri/tx-ledger/pkg/dbpkg"
	"github.com/go-anri/tx-ledger/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns account RepoPGS running over an outer transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

// NewRepoPGS returns account RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    accounts (id, customer_id)
VALUES
    ($1, $2)
RETURNING id, customer_id, created_at
`

// Create opens the account with a zero balance in each requested
// currency and then returns it.
//
// The account row and all balance rows are written within a single
// database transaction.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return a, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	row := tx.QueryRowContext(ctx, createQuery, uuid.NewString(), arg.CustomerID)

	err = row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()
		return a, errorspkg.ErrInternal
	}

	balanceRepo := balancerepo.NewRepoPGS(tx)
	a.Balances = make(map[string]domain.Balance, len(arg.Currencies))

	for _, currency := range arg.Currencies {
		b, err := balanceRepo.Create(ctx, uuid.NewString(), a.ID, currency)
		if err != nil {
			return domain.Account{}, err
		}

		a.Balances[b.Currency] = b
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT id, customer_id, created_at FROM accounts
WHERE id = $1 LIMIT 1
`

// Get returns the account aggregate with its balances.
func (r *RepoPGS) Get(ctx context.Context, id string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	balanceRepo := balancerepo.NewRepoPGS(r.db)

	a.Balances, err = balanceRepo.ListForAccount(ctx, a.ID)
	if err != nil {
		return domain.Account{}, err
	}

	return a, nil
}
