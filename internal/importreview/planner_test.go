package importreview_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebmonroe/penny/internal/importreview"
	"github.com/calebmonroe/penny/internal/match"
)

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func rec(id, amount string, date time.Time, desc string) match.Record {
	return match.Record{
		SourceID:    id,
		Amount:      decimal.RequireFromString(amount),
		Date:        date,
		Description: desc,
	}
}

func TestAnalyzeCleanBatch(t *testing.T) {
	candidates := []match.Record{
		rec("c1", "-10.00", day, "coffee shop"),
		rec("c2", "-25.00", day.AddDate(0, 0, 1), "book store"),
	}

	plan, err := importreview.Analyze(context.Background(), candidates, nil,
		match.DefaultClassifierOptions(), match.ExclusionSet{})
	require.NoError(t, err)

	require.Len(t, plan.Items, 2)

	for _, item := range plan.Items {
		assert.Empty(t, item.Conflicts)
		assert.Equal(t, match.DecisionImport, item.Decision)
		assert.False(t, item.Processed)
	}

	assert.Equal(t, 2, plan.Summary.TotalCandidates)
	assert.Equal(t, 2, plan.Summary.CleanImports)
	assert.Equal(t, 0, plan.Summary.NeedsReview)
}

func TestAnalyzeSummaryCounts(t *testing.T) {
	existing := []match.Record{
		// Exact duplicate of c1 via external id.
		{
			SourceID:    "e1",
			Amount:      decimal.RequireFromString("-50.00"),
			Date:        day,
			Description: "gas station",
			ExternalID:  "ext-1",
		},
		// Potential duplicate of c2.
		rec("e2", "-50.00", day.AddDate(0, 0, 2), "gas station"),
		// Opposite transfer leg of c3.
		{
			SourceID:    "e3",
			Amount:      decimal.RequireFromString("200.00"),
			Date:        day.AddDate(0, 0, 10),
			Description: "transfer to savings",
			IsTransfer:  true,
		},
		// Manual entry shadowing c4.
		{
			SourceID:    "e4",
			Amount:      decimal.RequireFromString("-15.00"),
			Date:        day.AddDate(0, 0, 20),
			Description: "lunch",
			Source:      match.SourceManual,
		},
	}

	candidates := []match.Record{
		{
			SourceID:    "c1",
			Amount:      decimal.RequireFromString("-50.00"),
			Date:        day,
			Description: "gas station",
			ExternalID:  "ext-1",
		},
		rec("c2", "-50.00", day.AddDate(0, 0, 3), "gas station abc"),
		rec("c3", "-200.00", day.AddDate(0, 0, 10), "transfer"),
		rec("c4", "-15.00", day.AddDate(0, 0, 20), "deli"),
		rec("c5", "-999.99", day.AddDate(0, 0, 40), "nothing like it"),
	}

	plan, err := importreview.Analyze(context.Background(), candidates, existing,
		match.DefaultClassifierOptions(), match.ExclusionSet{})
	require.NoError(t, err)

	require.Len(t, plan.Items, 5)

	assert.Equal(t, 5, plan.Summary.TotalCandidates)
	assert.Equal(t, 1, plan.Summary.ExactDuplicates)
	assert.Equal(t, 1, plan.Summary.TransferConflicts)
	assert.Equal(t, 1, plan.Summary.ManualConflicts)
	assert.Equal(t, 1, plan.Summary.CleanImports)

	require.Equal(t, match.DecisionSkip, plan.Items[0].Decision)
	require.Equal(t, match.DecisionImport, plan.Items[4].Decision)
}

func TestAnalyzeExactNotDoubleCountedAsPotential(t *testing.T) {
	existing := []match.Record{
		{
			SourceID:    "e1",
			Amount:      decimal.RequireFromString("-50.00"),
			Date:        day,
			Description: "gas station",
			ExternalID:  "ext-1",
		},
		// Similar enough to also register as a potential duplicate.
		rec("e2", "-50.00", day.AddDate(0, 0, 1), "gas station"),
	}

	candidate := match.Record{
		SourceID:    "c1",
		Amount:      decimal.RequireFromString("-50.00"),
		Date:        day,
		Description: "gas station",
		ExternalID:  "ext-1",
	}

	plan, err := importreview.Analyze(context.Background(), []match.Record{candidate}, existing,
		match.DefaultClassifierOptions(), match.ExclusionSet{})
	require.NoError(t, err)

	require.Len(t, plan.Items, 1)
	require.Len(t, plan.Items[0].Conflicts, 2)

	// Highest confidence first.
	assert.Equal(t, match.ConflictExactDuplicate, plan.Items[0].Conflicts[0].Type)

	assert.Equal(t, 1, plan.Summary.ExactDuplicates)
	assert.Equal(t, 0, plan.Summary.PotentialDuplicates)
}

func TestAnalyzeExclusionSuppressesPair(t *testing.T) {
	existing := []match.Record{
		rec("e1", "-50.00", day, "gas station"),
	}

	candidate := rec("c1", "-50.00", day, "gas station")

	exclusions := match.NewExclusionSet([][2]string{{"c1", "e1"}})

	plan, err := importreview.Analyze(context.Background(), []match.Record{candidate}, existing,
		match.DefaultClassifierOptions(), exclusions)
	require.NoError(t, err)

	require.Len(t, plan.Items, 1)
	assert.Empty(t, plan.Items[0].Conflicts)
	assert.Equal(t, match.DecisionImport, plan.Items[0].Decision)
	assert.Equal(t, 1, plan.Summary.CleanImports)
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan, err := importreview.Analyze(ctx,
		[]match.Record{rec("c1", "-10.00", day, "coffee")}, nil,
		match.DefaultClassifierOptions(), match.ExclusionSet{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, plan)
}

func TestAnalyzePendingCountsMatchDecisions(t *testing.T) {
	existing := []match.Record{
		rec("e1", "-50.00", day.AddDate(0, 0, 2), "gas station"),
	}

	candidates := []match.Record{
		rec("c1", "-50.00", day, "gas station abc"),
	}

	plan, err := importreview.Analyze(context.Background(), candidates, existing,
		match.DefaultClassifierOptions(), match.ExclusionSet{})
	require.NoError(t, err)

	var pending int

	for _, item := range plan.Items {
		if item.Decision == match.DecisionPending {
			pending++
		}
	}

	assert.Equal(t, pending, plan.Summary.NeedsReview)
	assert.Equal(t, 1, plan.Summary.PotentialDuplicates)
}
