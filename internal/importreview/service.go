package importreview

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/calebmonroe/penny/internal/ledger"
	"github.com/calebmonroe/penny/internal/match"
)

// DefaultLookbackDays is how far back the existing-transaction window
// reaches when scanning an import batch for duplicates.
const DefaultLookbackDays = 180

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=importreview
type Repository interface {
	ListExclusions(ctx context.Context, userID uuid.UUID) ([][2]string, error)
	CreateExclusion(ctx context.Context, userID uuid.UUID, firstID, secondID string) error
}

// Service runs import analysis against the caller's ledger, loading the
// existing-transaction window and the stored duplicate exclusions before
// delegating to the planner.
type Service struct {
	repo         Repository
	transactions *ledger.Service
	lookbackDays int
}

// NewService builds the service. A non-positive lookbackDays falls back to
// DefaultLookbackDays.
func NewService(repo Repository, transactions *ledger.Service, lookbackDays int) *Service {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}

	return &Service{repo: repo, transactions: transactions, lookbackDays: lookbackDays}
}

// AnalyzeParams scope one analysis pass.
type AnalyzeParams struct {
	AccountID    uuid.UUID
	Candidates   []match.Record
	Options      match.ClassifierOptions
	LookbackDays int
}

func (s *Service) Analyze(ctx context.Context, userID uuid.UUID, params AnalyzeParams) (*Plan, error) {
	if len(params.Candidates) == 0 {
		return &Plan{Items: []ReviewItem{}}, nil
	}

	lookback := params.LookbackDays
	if lookback <= 0 {
		lookback = s.lookbackDays
	}

	start, end := candidateWindow(params.Candidates, lookback)

	txns, err := s.transactions.ListWindow(ctx, ledger.WindowFilter{
		AccountID:         params.AccountID,
		Start:             start,
		End:               end,
		IncludeReconciled: true,
	})
	if err != nil {
		return nil, fmt.Errorf("loading existing window: %w", err)
	}

	existing := make([]match.Record, len(txns))
	for i, txn := range txns {
		existing[i] = txn.MatchRecord()
	}

	pairs, err := s.repo.ListExclusions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading exclusions: %w", err)
	}

	return Analyze(ctx, params.Candidates, existing, params.Options, match.NewExclusionSet(pairs))
}

// Exclude records a user decision that two transactions are not duplicates
// of each other, suppressing the pair on subsequent analysis passes.
func (s *Service) Exclude(ctx context.Context, userID uuid.UUID, firstID, secondID string) error {
	if firstID == "" || secondID == "" || firstID == secondID {
		return fmt.Errorf("exclusion requires two distinct transaction ids")
	}

	if err := s.repo.CreateExclusion(ctx, userID, firstID, secondID); err != nil {
		return fmt.Errorf("storing exclusion: %w", err)
	}

	return nil
}

// candidateWindow spans the candidate dates padded by the lookback before
// the earliest and a symmetric margin after the latest.
func candidateWindow(candidates []match.Record, lookbackDays int) (time.Time, time.Time) {
	start := candidates[0].Date
	end := candidates[0].Date

	for _, c := range candidates[1:] {
		if c.Date.Before(start) {
			start = c.Date
		}

		if c.Date.After(end) {
			end = c.Date
		}
	}

	return start.AddDate(0, 0, -lookbackDays), end.AddDate(0, 0, lookbackDays)
}
