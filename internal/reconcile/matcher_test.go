package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebmonroe/penny/internal/match"
	"github.com/calebmonroe/penny/internal/reconcile"
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

func TestRunPerfectMatches(t *testing.T) {
	ledger := []match.Record{
		rec("l1", "-42.00", day, "grocery store"),
		rec("l2", "1200.00", day.AddDate(0, 0, 3), "salary"),
		rec("l3", "-9.99", day.AddDate(0, 0, 5), "streaming service"),
	}

	bank := []match.Record{
		rec("b1", "-9.99", day.AddDate(0, 0, 5), "streaming service"),
		rec("b2", "-42.00", day, "grocery store"),
		rec("b3", "1200.00", day.AddDate(0, 0, 3), "salary"),
	}

	result, err := reconcile.Run(context.Background(), ledger, bank, reconcile.DefaultOptions())
	require.NoError(t, err)

	assert.Len(t, result.Matched, 3)
	assert.Empty(t, result.UnmatchedBank)
	assert.Empty(t, result.UnmatchedApp)

	for _, m := range result.Matched {
		assert.Equal(t, reconcile.MethodExact, m.Method)
		assert.InDelta(t, 1.0, m.Confidence, 1e-9)
		assert.Equal(t, m.Ledger.Description, m.Bank.Description)
	}
}

func TestRunGreedyClaimsBestPairFirst(t *testing.T) {
	ledger := []match.Record{
		rec("l1", "-50.00", day, "coffee shop"),
	}

	// Both bank lines clear the floor against the single ledger
	// transaction; only the higher-scoring one may claim it.
	bank := []match.Record{
		rec("b1", "-50.00", day.AddDate(0, 0, 1), "coffee shop"),
		rec("b2", "-50.00", day, "coffee shop"),
	}

	result, err := reconcile.Run(context.Background(), ledger, bank, reconcile.DefaultOptions())
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, "b2", result.Matched[0].Bank.SourceID)
	assert.Equal(t, "l1", result.Matched[0].Ledger.SourceID)

	require.Len(t, result.UnmatchedBank, 1)
	assert.Equal(t, "b1", result.UnmatchedBank[0].SourceID)
	assert.Empty(t, result.UnmatchedApp)
}

func TestRunConfidenceFloor(t *testing.T) {
	ledger := []match.Record{
		rec("l1", "-50.00", day, "coffee shop"),
	}

	bank := []match.Record{
		rec("b1", "-999.00", day.AddDate(0, 0, 60), "completely unrelated"),
	}

	result, err := reconcile.Run(context.Background(), ledger, bank, reconcile.DefaultOptions())
	require.NoError(t, err)

	assert.Empty(t, result.Matched)
	require.Len(t, result.UnmatchedBank, 1)
	require.Len(t, result.UnmatchedApp, 1)
}

func TestRunFuzzyBelowExactThreshold(t *testing.T) {
	ledger := []match.Record{
		rec("l1", "-50.00", day, "coffee shop"),
	}

	// Same amount and description, one day apart: 0.4 + 0.3*(2/3) + 0.3 = 0.9.
	bank := []match.Record{
		rec("b1", "-50.00", day.AddDate(0, 0, 1), "coffee shop"),
	}

	result, err := reconcile.Run(context.Background(), ledger, bank, reconcile.DefaultOptions())
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, reconcile.MethodFuzzy, result.Matched[0].Method)
	assert.InDelta(t, 0.9, result.Matched[0].Confidence, 1e-9)
}

func TestRunAnalysisAttached(t *testing.T) {
	ledger := []match.Record{
		rec("l1", "-50.00", day, "coffee shop"),
	}

	bank := []match.Record{
		rec("b1", "-50.00", day.AddDate(0, 0, 1), "coffee shop"),
	}

	result, err := reconcile.Run(context.Background(), ledger, bank, reconcile.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, result.Matched, 1)

	analysis := result.Matched[0].Analysis
	assert.True(t, analysis.AmountMatch)
	assert.Equal(t, 1, analysis.DateDifferenceInDays)
	assert.True(t, analysis.DescriptionSimilar)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ledger := []match.Record{rec("l1", "-50.00", day, "coffee shop")}
	bank := []match.Record{rec("b1", "-50.00", day, "coffee shop")}

	result, err := reconcile.Run(ctx, ledger, bank, reconcile.DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestRunEmptyInputs(t *testing.T) {
	result, err := reconcile.Run(context.Background(), nil, nil, reconcile.DefaultOptions())
	require.NoError(t, err)

	assert.Empty(t, result.Matched)
	assert.Empty(t, result.UnmatchedBank)
	assert.Empty(t, result.UnmatchedApp)
}
