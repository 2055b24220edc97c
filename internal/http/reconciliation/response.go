package reconciliation

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calebmonroe/penny/internal/match"
	"github.com/calebmonroe/penny/internal/reconcile"
)

type response struct {
	ID                    uuid.UUID        `json:"id"`
	AccountID             uuid.UUID        `json:"account_id"`
	PeriodStart           time.Time        `json:"period_start"`
	PeriodEnd             time.Time        `json:"period_end"`
	StatementStartBalance decimal.Decimal  `json:"statement_start_balance"`
	StatementEndBalance   decimal.Decimal  `json:"statement_end_balance"`
	Status                reconcile.Status `json:"status"`
	CreatedAt             time.Time        `json:"created_at"`
	FinalizedAt           *time.Time       `json:"finalized_at,omitempty"`
}

func toResponse(rec *reconcile.Reconciliation) response {
	return response{
		ID:                    rec.ID,
		AccountID:             rec.AccountID,
		PeriodStart:           rec.PeriodStart,
		PeriodEnd:             rec.PeriodEnd,
		StatementStartBalance: rec.StatementStartBalance,
		StatementEndBalance:   rec.StatementEndBalance,
		Status:                rec.Status,
		CreatedAt:             rec.CreatedAt,
		FinalizedAt:           rec.FinalizedAt,
	}
}

type itemResponse struct {
	ID            uuid.UUID              `json:"id"`
	TransactionID *uuid.UUID             `json:"transaction_id,omitempty"`
	Type          reconcile.ItemType     `json:"type"`
	Confidence    *float64               `json:"confidence,omitempty"`
	Method        *reconcile.MatchMethod `json:"method,omitempty"`
	BankRecord    *match.Record          `json:"bank_record,omitempty"`
	IsApproved    bool                   `json:"is_approved"`
	ApprovedAt    *time.Time             `json:"approved_at,omitempty"`
}

func toItemResponse(item *reconcile.Item) itemResponse {
	resp := itemResponse{
		ID:            item.ID,
		TransactionID: item.TransactionID,
		Type:          item.Type,
		Confidence:    item.Confidence,
		Method:        item.Method,
		IsApproved:    item.IsApproved,
		ApprovedAt:    item.ApprovedAt,
	}

	if len(item.BankData) > 0 {
		var rec match.Record
		if err := json.Unmarshal(item.BankData, &rec); err == nil {
			resp.BankRecord = &rec
		}
	}

	return resp
}

func toItemResponseList(items []*reconcile.Item) []itemResponse {
	resp := make([]itemResponse, len(items))
	for i, item := range items {
		resp[i] = toItemResponse(item)
	}

	return resp
}

type pairingResponse struct {
	Ledger     match.Record          `json:"ledger"`
	Bank       match.Record          `json:"bank"`
	Confidence float64               `json:"confidence"`
	Method     reconcile.MatchMethod `json:"method"`
	Analysis   match.Analysis        `json:"analysis"`
}

type resultResponse struct {
	Matched       []pairingResponse `json:"matched"`
	UnmatchedBank []match.Record    `json:"unmatched_bank"`
	UnmatchedApp  []match.Record    `json:"unmatched_app"`
}

func toResultResponse(result *reconcile.Result) resultResponse {
	resp := resultResponse{
		Matched:       make([]pairingResponse, len(result.Matched)),
		UnmatchedBank: result.UnmatchedBank,
		UnmatchedApp:  result.UnmatchedApp,
	}

	for i, m := range result.Matched {
		resp.Matched[i] = pairingResponse{
			Ledger:     m.Ledger,
			Bank:       m.Bank,
			Confidence: m.Confidence,
			Method:     m.Method,
			Analysis:   m.Analysis,
		}
	}

	return resp
}

type balanceResponse struct {
	StatementEndBalance decimal.Decimal `json:"statement_end_balance"`
	CalculatedBalance   decimal.Decimal `json:"calculated_balance"`
	Difference          decimal.Decimal `json:"difference"`
	IsBalanced          bool            `json:"is_balanced"`
}

func toBalanceResponse(check *reconcile.BalanceCheck) balanceResponse {
	return balanceResponse{
		StatementEndBalance: check.StatementEndBalance,
		CalculatedBalance:   check.CalculatedBalance,
		Difference:          check.Difference,
		IsBalanced:          check.IsBalanced,
	}
}
