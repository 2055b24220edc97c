package reconcile

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calebmonroe/penny/internal/match"
)

var (
	ErrNotFound     = errors.New("reconciliation not found")
	ErrItemNotFound = errors.New("reconciliation item not found")

	// ErrInvalidArgument covers missing identifiers and ownership
	// mismatches. Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState covers operations against an item in the wrong
	// state, such as unlinking a non-matched item.
	ErrInvalidState = errors.New("invalid state")

	// ErrUnbalanced guards finalization: an unbalanced reconciliation
	// needs an explicit force flag to proceed.
	ErrUnbalanced = errors.New("reconciliation is not balanced")
)

// Status is the lifecycle state of a reconciliation run.
type Status string

const (
	StatusOpen      Status = "open"
	StatusFinalized Status = "finalized"
)

// Reconciliation is one run: a single account and statement period.
type Reconciliation struct {
	ID                    uuid.UUID
	AccountID             uuid.UUID
	UserID                uuid.UUID
	PeriodStart           time.Time
	PeriodEnd             time.Time
	StatementStartBalance decimal.Decimal
	StatementEndBalance   decimal.Decimal
	Status                Status
	CreatedAt             time.Time
	FinalizedAt           *time.Time
}

// ItemType classifies a reconciliation item.
type ItemType string

const (
	ItemMatched       ItemType = "matched"
	ItemUnmatchedBank ItemType = "unmatched_bank"
	ItemUnmatchedApp  ItemType = "unmatched_app"
)

// MatchMethod records how a matched pair was established.
type MatchMethod string

const (
	MethodExact  MatchMethod = "exact"
	MethodFuzzy  MatchMethod = "fuzzy"
	MethodManual MatchMethod = "manual"
)

// Item is one persisted classification result inside a reconciliation.
// A matched item references both the ledger transaction and the serialized
// bank-side record; unmatched items carry exactly one side.
type Item struct {
	ID               uuid.UUID
	ReconciliationID uuid.UUID
	TransactionID    *uuid.UUID
	Type             ItemType
	Confidence       *float64
	Method           *MatchMethod
	BankData         []byte // serialized match.Record for the bank side
	IsApproved       bool
	ApprovedAt       *time.Time
	CreatedAt        time.Time
}

// Valid checks the structural invariant on the item's sides: matched items
// carry both, unmatched items exactly the one their type names.
func (i *Item) Valid() bool {
	hasTxn := i.TransactionID != nil
	hasBank := len(i.BankData) > 0

	switch i.Type {
	case ItemMatched:
		return hasTxn && hasBank
	case ItemUnmatchedApp:
		return hasTxn && !hasBank
	case ItemUnmatchedBank:
		return hasBank && !hasTxn
	default:
		return false
	}
}

// BalanceDifference returns statement end balance minus the calculated
// balance.
func BalanceDifference(statementEnd, calculated decimal.Decimal) decimal.Decimal {
	return statementEnd.Sub(calculated)
}

// IsBalanced reports whether the difference is within one cent.
func IsBalanced(difference decimal.Decimal) bool {
	return difference.Abs().LessThanOrEqual(match.DefaultAmountTolerance)
}
