package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calebmonroe/penny/internal/ledger"
)

type transactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	AccountID       uuid.UUID       `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	Description     string          `json:"description"`
	ExternalID      string          `json:"external_id,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Source          ledger.Source   `json:"source"`
	TransferGroupID *uuid.UUID      `json:"transfer_group_id,omitempty"`
	Reconciled      bool            `json:"reconciled"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(txn *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:              txn.ID,
		AccountID:       txn.AccountID,
		Amount:          txn.Amount,
		Date:            txn.Date,
		Description:     txn.Description,
		ExternalID:      txn.ExternalID,
		ReferenceNumber: txn.ReferenceNumber,
		Source:          txn.Source,
		TransferGroupID: txn.TransferGroupID,
		Reconciled:      txn.Reconciled,
		CreatedAt:       txn.CreatedAt,
		UpdatedAt:       txn.UpdatedAt,
	}
}

func toResponseList(txns []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txns))
	for i, txn := range txns {
		resp[i] = toResponse(txn)
	}

	return resp
}
