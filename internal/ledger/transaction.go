package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calebmonroe/penny/internal/match"
)

var ErrNotFound = errors.New("transaction not found")

// Source records where a transaction came from.
type Source string

const (
	SourceManual   Source = "manual"
	SourceImport   Source = "import"
	SourceBankSync Source = "bank_sync"
)

// Transaction is a financial transaction in a user's account. Amounts are
// signed decimals: negative for outflows, positive for inflows.
type Transaction struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	Amount          decimal.Decimal
	Date            time.Time
	Description     string
	ExternalID      string
	ReferenceNumber string
	Source          Source
	TransferGroupID *uuid.UUID // set when this is one leg of a transfer
	Reconciled      bool
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
}

// MatchRecord projects the transaction onto the normalized shape consumed
// by the matching engine.
func (t *Transaction) MatchRecord() match.Record {
	return match.Record{
		SourceID:        t.ID.String(),
		Amount:          t.Amount,
		Date:            t.Date,
		Description:     t.Description,
		ExternalID:      t.ExternalID,
		ReferenceNumber: t.ReferenceNumber,
		Source:          match.Source(t.Source),
		IsTransfer:      t.TransferGroupID != nil,
	}
}
