package match

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Defaults applied when a call site does not override a tolerance.
// Reconciliation and import review pass their own values.
const (
	DefaultDateToleranceDays    = 3
	DefaultDescriptionThreshold = 0.8
)

var (
	// DefaultAmountTolerance is one cent: amounts closer than this are
	// treated as equal.
	DefaultAmountTolerance = decimal.NewFromFloat(0.01)

	// relativeAmountTolerance bounds SimilarAmountNearDate: 5% of the
	// larger magnitude.
	relativeAmountTolerance = decimal.NewFromFloat(0.05)
)

// DaysApart returns the absolute day difference computed from the time
// delta between the two dates.
func DaysApart(a, b time.Time) int {
	return int(math.Abs(a.Sub(b).Hours()) / 24)
}

// SameAmountAndDate reports whether the amounts differ by less than one
// cent and the dates by at most toleranceDays (inclusive).
func SameAmountAndDate(r1, r2 Record, toleranceDays int) bool {
	if r1.Amount.Sub(r2.Amount).Abs().GreaterThanOrEqual(DefaultAmountTolerance) {
		return false
	}

	return DaysApart(r1.Date, r2.Date) <= toleranceDays
}

// SimilarAmountNearDate reports whether the amounts are close and the dates
// within toleranceDays. Amounts are close when the absolute difference is
// within amountTolerance, or within 5% of the larger magnitude.
func SimilarAmountNearDate(r1, r2 Record, amountTolerance decimal.Decimal, toleranceDays int) bool {
	if DaysApart(r1.Date, r2.Date) > toleranceDays {
		return false
	}

	diff := r1.Amount.Sub(r2.Amount).Abs()
	if diff.LessThanOrEqual(amountTolerance) {
		return true
	}

	larger := decimal.Max(r1.Amount.Abs(), r2.Amount.Abs())
	if larger.IsZero() {
		return false
	}

	return diff.Div(larger).LessThanOrEqual(relativeAmountTolerance)
}

// SimilarDescription reports whether the two descriptions meet the
// similarity threshold.
func SimilarDescription(d1, d2 string, threshold float64) bool {
	return Similarity(d1, d2) >= threshold
}
