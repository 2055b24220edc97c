package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	CreateTransaction(ctx context.Context, txn *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, txn *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	SetReconciled(ctx context.Context, ids []uuid.UUID, reconciled bool) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	AccountID       uuid.UUID
	Amount          decimal.Decimal
	Date            time.Time
	Description     string
	ExternalID      string
	ReferenceNumber string
	Source          Source
	TransferGroupID *uuid.UUID
}

type ListFilter struct {
	AccountID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Source    *Source
}

// WindowFilter selects the account/date window used by matching runs.
// Already-reconciled transactions are excluded unless re-matching.
type WindowFilter struct {
	AccountID         uuid.UUID
	Start             time.Time
	End               time.Time
	IncludeReconciled bool
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	txn := &Transaction{
		AccountID:       params.AccountID,
		Amount:          params.Amount,
		Date:            params.Date,
		Description:     params.Description,
		ExternalID:      params.ExternalID,
		ReferenceNumber: params.ReferenceNumber,
		Source:          params.Source,
		TransferGroupID: params.TransferGroupID,
	}
	if err := s.repo.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Update(ctx context.Context, txn *Transaction) error {
	return s.repo.UpdateTransaction(ctx, txn)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

// ListWindow returns the transactions eligible for a matching pass in the
// given account and period.
func (s *Service) ListWindow(ctx context.Context, filter WindowFilter) ([]*Transaction, error) {
	txns, err := s.repo.ListTransactions(ctx, ListFilter{
		AccountID: &filter.AccountID,
		StartDate: &filter.Start,
		EndDate:   &filter.End,
	})
	if err != nil {
		return nil, err
	}

	if filter.IncludeReconciled {
		return txns, nil
	}

	eligible := txns[:0]

	for _, txn := range txns {
		if !txn.Reconciled {
			eligible = append(eligible, txn)
		}
	}

	return eligible, nil
}

// MarkReconciled flags the transactions claimed by an approved
// reconciliation so later runs skip them.
func (s *Service) MarkReconciled(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	return s.repo.SetReconciled(ctx, ids, true)
}
