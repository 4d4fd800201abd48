// Package transactionrepo manages repository layer of transactions.
package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-anri/tx-ledger/internal/balancerepo"
	"github.com/go-anri/tx-ledger/internal/domain"
	"github.com/go-anri/tx-ledger/pkg/dbpkg"
	"github.com/go-anri/tx-ledger/pkg/errorspkg"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transaction RepoPGS running over an outer transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

// NewRepoPGS returns transaction RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    transactions (id, account_id, currency, amount, direction, description, balance_amount)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, account_id, currency, amount, direction, description, balance_amount, created_at
`

// insert appends the transaction row with the given balance snapshot.
func (r *RepoPGS) insert(ctx context.Context, db dbpkg.SQLInterface, id, balanceAmount string, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := db.QueryRowContext(ctx, createQuery,
		id,
		arg.AccountID,
		arg.Currency,
		arg.Amount,
		string(arg.Direction),
		arg.Description,
		balanceAmount,
	)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.Currency,
		&t.Amount,
		&t.Direction,
		&t.Description,
		&t.BalanceAmount,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("insert(ctx, db, %v, %v, %+v)", id, balanceAmount, arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_account_id_fkey":
				return t, domain.ErrAccountNotFound
			case "transactions_pkey":
				// ID collision is practically impossible; fail closed.
				return t, errorspkg.ErrInternal
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

// Create applies the signed amount to the balance row and appends the
// transaction row with the resulting balance snapshot within a single
// database transaction. Both writes commit or both roll back.
func (r *RepoPGS) Create(ctx context.Context, id, balanceID string, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var result domain.Transaction

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	amount := arg.Amount
	if arg.Direction == domain.DirectionOut {
		amount = "-" + arg.Amount
	}

	balanceRepo := balancerepo.NewRepoPGS(tx)

	balance, err := balanceRepo.AddAmount(ctx, amount, balanceID)
	if err != nil {
		l.Error().Err(err).Send()
		return result, err
	}

	result, err = r.insert(ctx, tx, id, balance.Amount, arg)
	if err != nil {
		return domain.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return result, nil
}

const getQuery = `
SELECT
	id, account_id, currency, amount, direction, description, balance_amount, created_at
FROM transactions
WHERE id = $1 LIMIT 1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.Currency,
		&t.Amount,
		&t.Direction,
		&t.Description,
		&t.BalanceAmount,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listForAccountQuery = `
SELECT
	id, account_id, currency, amount, direction, description, balance_amount, created_at
FROM transactions
WHERE account_id = $1
ORDER BY created_at, id
`

// ListForAccount returns the account's transactions in creation order.
func (r *RepoPGS) ListForAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listForAccountQuery, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&t.Currency,
			&t.Amount,
			&t.Direction,
			&t.Description,
			&t.BalanceAmount,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
