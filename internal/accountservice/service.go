// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-anri/tx-ledger/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, id string) (domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account business logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Create opens an account for the given customer with a zero balance
// in each requested currency.
func (s *Service) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	account, err := s.repo.Create(ctx, arg)
	if err != nil {
		return account, err
	}

	return account, nil
}

// Get returns the account aggregate for the given account ID.
//
// A malformed ID collapses to ErrAccountNotFound so callers cannot
// distinguish bad input from an absent account.
func (s *Service) Get(ctx context.Context, id string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	uid, err := uuid.Parse(id)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, domain.ErrAccountNotFound
	}

	account, err := s.repo.Get(ctx, uid.String())
	if err != nil {
		return account, err
	}

	return account, nil
}
