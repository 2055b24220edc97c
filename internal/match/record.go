package match

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source records where a transaction originally came from.
type Source string

const (
	SourceManual   Source = "manual"
	SourceImport   Source = "import"
	SourceBankSync Source = "bank_sync"
)

// Record is the normalized projection of a ledger transaction, bank
// statement line or import candidate that the comparison functions consume.
// Adapter code in the owning packages maps each source type onto it, so the
// same scoring logic serves reconciliation and import review. A Record is
// never mutated once built for a matching pass.
type Record struct {
	SourceID        string          `json:"source_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	Description     string          `json:"description"`
	ExternalID      string          `json:"external_id,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`

	// Source and IsTransfer are only consulted by the conflict classifier.
	Source     Source `json:"source,omitempty"`
	IsTransfer bool   `json:"is_transfer,omitempty"`
}

// Analysis is the per-field breakdown of a single comparison, produced fresh
// each time so the caller can show why two records matched. It is never
// persisted.
type Analysis struct {
	AmountMatch           bool            `json:"amount_match"`
	DateMatch             bool            `json:"date_match"`
	DescriptionSimilar    bool            `json:"description_similar"`
	AmountDifference      decimal.Decimal `json:"amount_difference"`
	DateDifferenceInDays  int             `json:"date_difference_in_days"`
	DescriptionSimilarity float64         `json:"description_similarity"`

	LedgerAmount      decimal.Decimal `json:"ledger_amount"`
	LedgerDate        time.Time       `json:"ledger_date"`
	LedgerDescription string          `json:"ledger_description"`
	BankAmount        decimal.Decimal `json:"bank_amount"`
	BankDate          time.Time       `json:"bank_date"`
	BankDescription   string          `json:"bank_description"`
}
