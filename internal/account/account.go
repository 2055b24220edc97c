package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("account not found")

// Type represents the kind of account.
type Type string

const (
	TypeChecking   Type = "checking"
	TypeSavings    Type = "savings"
	TypeCreditCard Type = "credit_card"
	TypeCash       Type = "cash"
)

// Account is a user's financial account. Ledger transactions and
// reconciliations are always scoped to one account.
type Account struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Type           Type
	OpeningBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
