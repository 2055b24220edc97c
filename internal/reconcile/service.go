package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calebmonroe/penny/internal/ledger"
	"github.com/calebmonroe/penny/internal/match"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=reconcile
type Repository interface {
	CreateReconciliation(ctx context.Context, rec *Reconciliation) error
	GetReconciliation(ctx context.Context, id uuid.UUID) (*Reconciliation, error)

	CreateItems(ctx context.Context, items []*Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context, reconciliationID uuid.UUID) ([]*Item, error)
	DeleteItems(ctx context.Context, reconciliationID uuid.UUID) error

	// ReplaceItem deletes the item and creates the replacements in one
	// storage transaction, so an unlink can never half-apply.
	ReplaceItem(ctx context.Context, itemID uuid.UUID, replacements []*Item) error

	ApproveItem(ctx context.Context, itemID uuid.UUID, approvedAt time.Time) error

	// MatchedTotal sums the ledger amounts referenced by matched items.
	MatchedTotal(ctx context.Context, reconciliationID uuid.UUID) (decimal.Decimal, error)

	Finalize(ctx context.Context, id uuid.UUID, finalizedAt time.Time) error
}

// Service orchestrates matching runs over persisted reconciliations. The
// matching itself stays in Run; the service loads the window, checks
// ownership, and turns results into stored items.
type Service struct {
	repo         Repository
	transactions *ledger.Service
	opts         Options
}

func NewService(repo Repository, transactions *ledger.Service, opts Options) *Service {
	return &Service{repo: repo, transactions: transactions, opts: opts}
}

type CreateParams struct {
	AccountID             uuid.UUID
	PeriodStart           time.Time
	PeriodEnd             time.Time
	StatementStartBalance decimal.Decimal
	StatementEndBalance   decimal.Decimal
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Reconciliation, error) {
	if params.PeriodEnd.Before(params.PeriodStart) {
		return nil, fmt.Errorf("%w: period end before period start", ErrInvalidArgument)
	}

	rec := &Reconciliation{
		AccountID:             params.AccountID,
		UserID:                userID,
		PeriodStart:           params.PeriodStart,
		PeriodEnd:             params.PeriodEnd,
		StatementStartBalance: params.StatementStartBalance,
		StatementEndBalance:   params.StatementEndBalance,
		Status:                StatusOpen,
	}
	if err := s.repo.CreateReconciliation(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating reconciliation: %w", err)
	}

	return rec, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Reconciliation, error) {
	return s.owned(ctx, userID, id)
}

func (s *Service) Items(ctx context.Context, userID, id uuid.UUID) ([]*Item, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	return s.repo.ListItems(ctx, id)
}

// RunMatch matches the supplied bank statement lines against the unreconciled
// ledger transactions in the reconciliation window and replaces the stored
// items with the outcome. Bank lines arrive already parsed and normalized.
// The confidence floor can be overridden per run; the exact threshold always
// comes from the configured options.
func (s *Service) RunMatch(ctx context.Context, userID, id uuid.UUID, bankLines []match.Record, minConfidence *float64) (*Result, error) {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	opts := s.opts
	if minConfidence != nil {
		opts.MinConfidence = *minConfidence
	}

	txns, err := s.transactions.ListWindow(ctx, ledger.WindowFilter{
		AccountID: rec.AccountID,
		Start:     rec.PeriodStart,
		End:       rec.PeriodEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("loading ledger window: %w", err)
	}

	records := make([]match.Record, len(txns))
	for i, txn := range txns {
		records[i] = txn.MatchRecord()
	}

	result, err := Run(ctx, records, bankLines, opts)
	if err != nil {
		return nil, err
	}

	items, err := s.resultItems(rec.ID, result)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteItems(ctx, rec.ID); err != nil {
		return nil, fmt.Errorf("clearing previous items: %w", err)
	}

	if err := s.repo.CreateItems(ctx, items); err != nil {
		return nil, fmt.Errorf("storing items: %w", err)
	}

	return result, nil
}

// ManualMatch records a user-supplied pairing. With both sides given the
// confidence is still computed for display, but the manual method overrides
// the threshold logic. With a single side the item is stored as the
// corresponding unmatched type, still marked manual.
func (s *Service) ManualMatch(ctx context.Context, userID, id uuid.UUID, transactionID *uuid.UUID, bankLine *match.Record) (*Item, error) {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if transactionID == nil && bankLine == nil {
		return nil, fmt.Errorf("%w: neither ledger transaction nor bank record supplied", ErrInvalidArgument)
	}

	method := MethodManual
	item := &Item{
		ReconciliationID: rec.ID,
		Method:           &method,
	}

	var txnRecord *match.Record

	if transactionID != nil {
		txn, err := s.transactions.Get(ctx, *transactionID)
		if err != nil {
			return nil, fmt.Errorf("%w: ledger transaction %s: %v", ErrInvalidArgument, *transactionID, err)
		}

		if txn.AccountID != rec.AccountID {
			return nil, fmt.Errorf("%w: transaction belongs to a different account", ErrInvalidArgument)
		}

		item.TransactionID = &txn.ID
		r := txn.MatchRecord()
		txnRecord = &r
	}

	if bankLine != nil {
		data, err := json.Marshal(bankLine)
		if err != nil {
			return nil, fmt.Errorf("encoding bank record: %w", err)
		}

		item.BankData = data
	}

	switch {
	case transactionID != nil && bankLine != nil:
		item.Type = ItemMatched
		confidence := match.Confidence(*txnRecord, *bankLine)
		item.Confidence = &confidence
	case transactionID != nil:
		item.Type = ItemUnmatchedApp
	default:
		item.Type = ItemUnmatchedBank
	}

	if err := s.repo.CreateItems(ctx, []*Item{item}); err != nil {
		return nil, fmt.Errorf("storing manual item: %w", err)
	}

	return item, nil
}

// Unlink deletes a matched item and restores the unmatched item(s) implied
// by the sides it carried, reproducing the pre-match state. Approval is
// discarded with the deleted item.
func (s *Service) Unlink(ctx context.Context, userID, itemID uuid.UUID) ([]*Item, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if item.Type != ItemMatched {
		return nil, fmt.Errorf("%w: cannot unlink %s item", ErrInvalidState, item.Type)
	}

	var replacements []*Item

	if item.TransactionID != nil {
		replacements = append(replacements, &Item{
			ReconciliationID: item.ReconciliationID,
			TransactionID:    item.TransactionID,
			Type:             ItemUnmatchedApp,
		})
	}

	if len(item.BankData) > 0 {
		replacements = append(replacements, &Item{
			ReconciliationID: item.ReconciliationID,
			Type:             ItemUnmatchedBank,
			BankData:         item.BankData,
		})
	}

	if err := s.repo.ReplaceItem(ctx, item.ID, replacements); err != nil {
		return nil, fmt.Errorf("replacing item: %w", err)
	}

	return replacements, nil
}

// Approve marks a matched item approved. The transition is one-way; the
// only way to discard an approval is to unlink the item.
func (s *Service) Approve(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if item.Type != ItemMatched {
		return fmt.Errorf("%w: cannot approve %s item", ErrInvalidState, item.Type)
	}

	if item.IsApproved {
		return nil
	}

	if err := s.repo.ApproveItem(ctx, item.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("approving item: %w", err)
	}

	return nil
}

// BalanceCheck reports the current balance state of the reconciliation.
type BalanceCheck struct {
	StatementEndBalance decimal.Decimal
	CalculatedBalance   decimal.Decimal
	Difference          decimal.Decimal
	IsBalanced          bool
}

func (s *Service) CheckBalance(ctx context.Context, userID, id uuid.UUID) (*BalanceCheck, error) {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	matched, err := s.repo.MatchedTotal(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("summing matched items: %w", err)
	}

	calculated := rec.StatementStartBalance.Add(matched)
	diff := BalanceDifference(rec.StatementEndBalance, calculated)

	return &BalanceCheck{
		StatementEndBalance: rec.StatementEndBalance,
		CalculatedBalance:   calculated,
		Difference:          diff,
		IsBalanced:          IsBalanced(diff),
	}, nil
}

// Finalize closes the reconciliation. An unbalanced reconciliation is never
// finalized silently: the caller must pass force explicitly.
func (s *Service) Finalize(ctx context.Context, userID, id uuid.UUID, force bool) (*BalanceCheck, error) {
	check, err := s.CheckBalance(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if !check.IsBalanced && !force {
		return check, fmt.Errorf("%w: difference %s", ErrUnbalanced, check.Difference)
	}

	if err := s.repo.Finalize(ctx, id, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("finalizing reconciliation: %w", err)
	}

	// Matched ledger transactions are now settled and must not be claimed
	// by a later run over the same window.
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	var matched []uuid.UUID

	for _, item := range items {
		if item.Type == ItemMatched && item.TransactionID != nil {
			matched = append(matched, *item.TransactionID)
		}
	}

	if err := s.transactions.MarkReconciled(ctx, matched); err != nil {
		return nil, fmt.Errorf("marking transactions reconciled: %w", err)
	}

	return check, nil
}

func (s *Service) owned(ctx context.Context, userID, id uuid.UUID) (*Reconciliation, error) {
	rec, err := s.repo.GetReconciliation(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.UserID != userID {
		return nil, fmt.Errorf("%w: reconciliation %s does not belong to user", ErrInvalidArgument, id)
	}

	return rec, nil
}

func (s *Service) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if _, err := s.owned(ctx, userID, item.ReconciliationID); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) resultItems(reconciliationID uuid.UUID, result *Result) ([]*Item, error) {
	items := make([]*Item, 0, len(result.Matched)+len(result.UnmatchedBank)+len(result.UnmatchedApp))

	for i := range result.Matched {
		m := &result.Matched[i]

		data, err := json.Marshal(m.Bank)
		if err != nil {
			return nil, fmt.Errorf("encoding bank record: %w", err)
		}

		txnID, err := uuid.Parse(m.Ledger.SourceID)
		if err != nil {
			return nil, fmt.Errorf("parsing ledger source id: %w", err)
		}

		confidence := m.Confidence
		method := m.Method

		items = append(items, &Item{
			ReconciliationID: reconciliationID,
			TransactionID:    &txnID,
			Type:             ItemMatched,
			Confidence:       &confidence,
			Method:           &method,
			BankData:         data,
		})
	}

	for i := range result.UnmatchedBank {
		data, err := json.Marshal(result.UnmatchedBank[i])
		if err != nil {
			return nil, fmt.Errorf("encoding bank record: %w", err)
		}

		items = append(items, &Item{
			ReconciliationID: reconciliationID,
			Type:             ItemUnmatchedBank,
			BankData:         data,
		})
	}

	for i := range result.UnmatchedApp {
		txnID, err := uuid.Parse(result.UnmatchedApp[i].SourceID)
		if err != nil {
			return nil, fmt.Errorf("parsing ledger source id: %w", err)
		}

		items = append(items, &Item{
			ReconciliationID: reconciliationID,
			TransactionID:    &txnID,
			Type:             ItemUnmatchedApp,
		})
	}

	return items, nil
}
