package match

import (
	"math"

	"github.com/shopspring/decimal"
)

// Weights of the composite confidence score.
const (
	amountWeight      = 0.40
	dateWeight        = 0.30
	descriptionWeight = 0.30
)

// Confidence computes the composite similarity score in [0,1] between a
// ledger transaction and an external (bank) record: 40% amount, 30% date,
// 30% description. It is deterministic and has no side effects; degenerate
// input (zero amounts, empty descriptions) yields a defined score, never an
// error.
func Confidence(ledger, bank Record) float64 {
	return amountWeight*amountScore(ledger.Amount, bank.Amount) +
		dateWeight*dateScore(DaysApart(ledger.Date, bank.Date)) +
		descriptionWeight*Similarity(ledger.Description, bank.Description)
}

// Analyze computes the same three signals as Confidence plus the raw
// booleans and differences for display. It accompanies every matched
// classification so the caller can show why two records paired up.
func Analyze(ledger, bank Record) Analysis {
	diff := ledger.Amount.Sub(bank.Amount).Abs()
	days := DaysApart(ledger.Date, bank.Date)
	sim := Similarity(ledger.Description, bank.Description)

	return Analysis{
		AmountMatch:           diff.LessThan(DefaultAmountTolerance),
		DateMatch:             days <= DefaultDateToleranceDays,
		DescriptionSimilar:    sim >= DefaultDescriptionThreshold,
		AmountDifference:      diff,
		DateDifferenceInDays:  days,
		DescriptionSimilarity: sim,
		LedgerAmount:          ledger.Amount,
		LedgerDate:            ledger.Date,
		LedgerDescription:     ledger.Description,
		BankAmount:            bank.Amount,
		BankDate:              bank.Date,
		BankDescription:       bank.Description,
	}
}

func amountScore(a, b decimal.Decimal) float64 {
	larger := decimal.Max(a.Abs(), b.Abs())
	if larger.IsZero() {
		// Both amounts are exactly zero.
		return 1
	}

	ratio, _ := a.Sub(b).Abs().Div(larger).Float64()

	return math.Max(0, 1-ratio)
}

func dateScore(daysApart int) float64 {
	return math.Max(0, 1-float64(daysApart)/float64(DefaultDateToleranceDays))
}
