package match_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/calebmonroe/penny/internal/match"
)

func rec(amount string, date time.Time, desc string) match.Record {
	return match.Record{
		Amount:      decimal.RequireFromString(amount),
		Date:        date,
		Description: desc,
	}
}

var day = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func TestDaysApart(t *testing.T) {
	assert.Equal(t, 0, match.DaysApart(day, day))
	assert.Equal(t, 1, match.DaysApart(day, day.AddDate(0, 0, 1)))
	assert.Equal(t, 1, match.DaysApart(day.AddDate(0, 0, 1), day))
	assert.Equal(t, 3, match.DaysApart(day, day.AddDate(0, 0, -3)))
	// Partial days truncate toward zero.
	assert.Equal(t, 1, match.DaysApart(day, day.Add(36*time.Hour)))
}

func TestSameAmountAndDate(t *testing.T) {
	type testCase struct {
		name          string
		r1, r2        match.Record
		toleranceDays int
		want          bool
	}

	tests := []testCase{
		{
			name: "ExactMatch",
			r1:   rec("-100.50", day, "a"), r2: rec("-100.50", day, "b"),
			toleranceDays: 0, want: true,
		},
		{
			name: "SubCentDifference",
			r1:   rec("10.001", day, "a"), r2: rec("10.005", day, "b"),
			toleranceDays: 0, want: true,
		},
		{
			name: "OneCentOff",
			r1:   rec("10.00", day, "a"), r2: rec("10.01", day, "b"),
			toleranceDays: 0, want: false,
		},
		{
			name: "DateOutsideTolerance",
			r1:   rec("10.00", day, "a"), r2: rec("10.00", day.AddDate(0, 0, 2), "b"),
			toleranceDays: 1, want: false,
		},
		{
			name: "DateAtToleranceBoundary",
			r1:   rec("10.00", day, "a"), r2: rec("10.00", day.AddDate(0, 0, 3), "b"),
			toleranceDays: 3, want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, match.SameAmountAndDate(tt.r1, tt.r2, tt.toleranceDays))
		})
	}
}

func TestSimilarAmountNearDate(t *testing.T) {
	tol := decimal.RequireFromString("0.01")

	type testCase struct {
		name          string
		r1, r2        match.Record
		toleranceDays int
		want          bool
	}

	tests := []testCase{
		{
			name: "WithinAbsoluteTolerance",
			r1:   rec("50.00", day, ""), r2: rec("50.01", day, ""),
			toleranceDays: 0, want: true,
		},
		{
			name: "WithinRelativeTolerance",
			r1:   rec("-50.00", day, ""), r2: rec("-50.25", day, ""),
			toleranceDays: 0, want: true,
		},
		{
			name: "OutsideBothTolerances",
			r1:   rec("50.00", day, ""), r2: rec("60.00", day, ""),
			toleranceDays: 3, want: false,
		},
		{
			name: "DateTooFar",
			r1:   rec("50.00", day, ""), r2: rec("50.00", day.AddDate(0, 0, 4), ""),
			toleranceDays: 3, want: false,
		},
		{
			name: "BothZeroAmounts",
			r1:   rec("0", day, ""), r2: rec("0", day, ""),
			toleranceDays: 0, want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, match.SimilarAmountNearDate(tt.r1, tt.r2, tol, tt.toleranceDays))
		})
	}
}

// SameAmountAndDate at zero tolerance must imply SimilarAmountNearDate for
// any amount tolerance of at least one cent.
func TestSameAmountAndDateImpliesSimilar(t *testing.T) {
	pairs := [][2]match.Record{
		{rec("10.00", day, ""), rec("10.005", day, "")},
		{rec("-3.999", day, ""), rec("-4.00", day, "")},
		{rec("0", day, ""), rec("0.001", day, "")},
	}

	tol := decimal.RequireFromString("0.01")

	for _, p := range pairs {
		if match.SameAmountAndDate(p[0], p[1], 0) {
			assert.True(t, match.SimilarAmountNearDate(p[0], p[1], tol, 0))
		}
	}
}

func TestSimilarDescription(t *testing.T) {
	assert.True(t, match.SimilarDescription("Gas Station", "Gas Station ABC", 0.7))
	assert.False(t, match.SimilarDescription("Gas Station", "Gas Station ABC", 0.8))
	assert.True(t, match.SimilarDescription("", "", 0.8))
	assert.False(t, match.SimilarDescription("", "abc", 0.8))
}
