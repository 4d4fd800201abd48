// Package transactionservice manages business logic layer of transactions.
package transactionservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-anri/tx-ledger/internal/domain"
	"github.com/go-anri/tx-ledger/pkg/currencypkg"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Create(ctx context.Context, id, balanceID string, arg domain.CreateTransactionParams) (domain.Transaction, error)
	Get(ctx context.Context, id string) (domain.Transaction, error)
	ListForAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// AccountService resolves an account ID to the account aggregate with
// its balances.
type AccountService interface {
	Get(ctx context.Context, id string) (domain.Account, error)
}

// Notifier publishes finalized transactions for asynchronous downstream
// consumption.
type Notifier interface {
	SendTransaction(ctx context.Context, transaction domain.Transaction) error
}

// Cache holds immutable transactions for cheap repeated reads.
type Cache interface {
	Get(ctx context.Context, id string) (domain.Transaction, bool)
	Set(ctx context.Context, transaction domain.Transaction)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo           Repo
	accountService AccountService
	notifier       Notifier
	cache          Cache
}

// New returns transaction service struct to manage transaction business logic.
func New(tr Repo, as AccountService, n Notifier, c Cache) *Service {
	return &Service{
		repo:           tr,
		accountService: as,
		notifier:       n,
		cache:          c,
	}
}

// validRequest checks the business rules of a transaction request
// against the matched balance and returns the parsed amount. It is a
// pure check and mutates nothing.
func (s *Service) validRequest(ctx context.Context, arg domain.CreateTransactionParams, balance domain.Balance) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, domain.ErrNegativeAmount
	}

	if !arg.Direction.Valid() {
		return decimal.Decimal{}, domain.ErrInvalidDirection
	}

	if !currencypkg.IsSupportedCurrency(arg.Currency) {
		return decimal.Decimal{}, domain.ErrCurrencyNotSupported
	}

	if arg.Direction == domain.DirectionOut {
		balanceAmount, err := decimal.NewFromString(balance.Amount)
		if err != nil {
			l.Error().Err(err).Send()
			return decimal.Decimal{}, err
		}

		// Exact depletion is allowed; only a negative result is rejected.
		if domain.NewBalanceAmount(balanceAmount, amount, arg.Direction).IsNegative() {
			return decimal.Decimal{}, domain.ErrInsufficientBalance
		}
	}

	return amount, nil
}

// Create validates the transaction request, applies it to the matched
// currency balance atomically and returns the recorded transaction.
//
// The transaction ID is generated before any write so that a failure
// prior to commit leaves no artifact referencing it. Notification
// delivery is best-effort and never fails the committed transaction.
func (s *Service) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	transactionID := uuid.NewString()

	account, err := s.accountService.Get(ctx, arg.AccountID)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	balance, err := account.BalanceFor(arg.Currency)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	amount, err := s.validRequest(ctx, arg, balance)
	if err != nil {
		return domain.Transaction{}, err
	}

	// The repo signs the delta by prefixing, so the amount must be in
	// canonical form; "+100" parses but "-+100" is not a numeric.
	arg.Amount = amount.String()

	transaction, err := s.repo.Create(ctx, transactionID, balance.ID, arg)
	if err != nil {
		return transaction, err
	}

	if err := s.notifier.SendTransaction(ctx, transaction); err != nil {
		l.Warn().Err(err).Str("transaction_id", transaction.ID).Msg("transaction notification failed")
	}

	s.cache.Set(ctx, transaction)

	return transaction, nil
}

// Get returns the transaction with the given id.
//
// A malformed ID collapses to ErrTransactionNotFound so callers cannot
// probe the internal ID format.
func (s *Service) Get(ctx context.Context, id string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	uid, err := uuid.Parse(id)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	if transaction, ok := s.cache.Get(ctx, uid.String()); ok {
		return transaction, nil
	}

	transaction, err := s.repo.Get(ctx, uid.String())
	if err != nil {
		return transaction, err
	}

	s.cache.Set(ctx, transaction)

	return transaction, nil
}

// ListForAccount returns the account's transactions in creation order.
func (s *Service) ListForAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	uid, err := uuid.Parse(accountID)
	if err != nil {
		l.Info().Err(err).Send()
		return nil, domain.ErrAccountNotFound
	}

	return s.repo.ListForAccount(ctx, uid.String())
}
