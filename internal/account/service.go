package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	CreateAccount(ctx context.Context, acc *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]*Account, error)
	UpdateAccount(ctx context.Context, acc *Account) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name           string
	Type           Type
	OpeningBalance decimal.Decimal
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Account, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("account name is required")
	}

	acc := &Account{
		UserID:         userID,
		Name:           params.Name,
		Type:           params.Type,
		OpeningBalance: params.OpeningBalance,
	}
	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// Get returns the account only when it belongs to the requesting user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Account, error) {
	acc, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if acc.UserID != userID {
		return nil, ErrNotFound
	}

	return acc, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Account, error) {
	return s.repo.ListAccounts(ctx, userID)
}

func (s *Service) Rename(ctx context.Context, userID, id uuid.UUID, name string) (*Account, error) {
	acc, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	acc.Name = name
	if err := s.repo.UpdateAccount(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}
