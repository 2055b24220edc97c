package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calebmonroe/penny/internal/reconcile"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) CreateReconciliation(ctx context.Context, rec *reconcile.Reconciliation) error {
	query := `
		INSERT INTO reconciliations (account_id, user_id, period_start, period_end, statement_start_balance, statement_end_balance, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		rec.AccountID,
		rec.UserID,
		rec.PeriodStart,
		rec.PeriodEnd,
		rec.StatementStartBalance,
		rec.StatementEndBalance,
		rec.Status,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating reconciliation: %w", err)
	}

	return nil
}

func (s *Store) GetReconciliation(ctx context.Context, id uuid.UUID) (*reconcile.Reconciliation, error) {
	query := `
		SELECT id, account_id, user_id, period_start, period_end,
			statement_start_balance, statement_end_balance, status, created_at, finalized_at
		FROM reconciliations
		WHERE id = $1
	`

	var rec reconcile.Reconciliation

	var statusStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.AccountID, &rec.UserID, &rec.PeriodStart, &rec.PeriodEnd,
		&rec.StatementStartBalance, &rec.StatementEndBalance, &statusStr,
		&rec.CreatedAt, &rec.FinalizedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, reconcile.ErrNotFound
		}

		return nil, fmt.Errorf("getting reconciliation: %w", err)
	}

	rec.Status = reconcile.Status(statusStr)

	return &rec, nil
}

const selectItemColumns = `
	i.id, i.reconciliation_id, i.transaction_id, i.item_type, i.match_confidence,
	i.match_method, i.bank_data, i.is_approved, i.approved_at, i.created_at
`

func scanItem(s scanner) (*reconcile.Item, error) {
	var item reconcile.Item

	var typeStr string

	var methodStr sql.NullString

	if err := s.Scan(
		&item.ID, &item.ReconciliationID, &item.TransactionID, &typeStr,
		&item.Confidence, &methodStr, &item.BankData,
		&item.IsApproved, &item.ApprovedAt, &item.CreatedAt,
	); err != nil {
		return nil, err
	}

	item.Type = reconcile.ItemType(typeStr)

	if methodStr.Valid {
		m := reconcile.MatchMethod(methodStr.String)
		item.Method = &m
	}

	return &item, nil
}

func (s *Store) CreateItems(ctx context.Context, items []*reconcile.Item) error {
	return s.createItems(ctx, s.db, items)
}

type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) createItems(ctx context.Context, db execer, items []*reconcile.Item) error {
	query := `
		INSERT INTO reconciliation_items (reconciliation_id, transaction_id, item_type, match_confidence, match_method, bank_data, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW())
		RETURNING id, created_at
	`

	for _, item := range items {
		var method *string

		if item.Method != nil {
			m := string(*item.Method)
			method = &m
		}

		err := db.QueryRowContext(ctx, query,
			item.ReconciliationID,
			item.TransactionID,
			item.Type,
			item.Confidence,
			method,
			item.BankData,
		).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating reconciliation item: %w", err)
		}
	}

	return nil
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*reconcile.Item, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM reconciliation_items i
		WHERE i.id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, reconcile.ErrItemNotFound
		}

		return nil, fmt.Errorf("getting reconciliation item: %w", err)
	}

	return item, nil
}

func (s *Store) ListItems(ctx context.Context, reconciliationID uuid.UUID) ([]*reconcile.Item, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM reconciliation_items i
		WHERE i.reconciliation_id = $1
		ORDER BY i.item_type, i.created_at`

	rows, err := s.db.QueryContext(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("listing reconciliation items: %w", err)
	}
	defer rows.Close()

	var items []*reconcile.Item

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reconciliation item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}

	return items, nil
}

func (s *Store) DeleteItems(ctx context.Context, reconciliationID uuid.UUID) error {
	query := `DELETE FROM reconciliation_items WHERE reconciliation_id = $1`

	if _, err := s.db.ExecContext(ctx, query, reconciliationID); err != nil {
		return fmt.Errorf("deleting reconciliation items: %w", err)
	}

	return nil
}

// ReplaceItem deletes an item and creates its replacements atomically.
func (s *Store) ReplaceItem(ctx context.Context, itemID uuid.UUID, replacements []*reconcile.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM reconciliation_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return reconcile.ErrItemNotFound
	}

	if err := s.createItems(ctx, tx, replacements); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replacement: %w", err)
	}

	return nil
}

func (s *Store) ApproveItem(ctx context.Context, itemID uuid.UUID, approvedAt time.Time) error {
	query := `
		UPDATE reconciliation_items
		SET is_approved = TRUE, approved_at = $1
		WHERE id = $2
	`

	if _, err := s.db.ExecContext(ctx, query, approvedAt, itemID); err != nil {
		return fmt.Errorf("approving item: %w", err)
	}

	return nil
}

// MatchedTotal sums the ledger-side amounts claimed by matched items.
func (s *Store) MatchedTotal(ctx context.Context, reconciliationID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM reconciliation_items i
		JOIN transactions t ON t.id = i.transaction_id
		WHERE i.reconciliation_id = $1 AND i.item_type = 'matched'
	`

	var total decimal.Decimal

	if err := s.db.QueryRowContext(ctx, query, reconciliationID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing matched items: %w", err)
	}

	return total, nil
}

func (s *Store) Finalize(ctx context.Context, id uuid.UUID, finalizedAt time.Time) error {
	query := `
		UPDATE reconciliations
		SET status = 'finalized', finalized_at = $1
		WHERE id = $2
	`

	if _, err := s.db.ExecContext(ctx, query, finalizedAt, id); err != nil {
		return fmt.Errorf("finalizing reconciliation: %w", err)
	}

	return nil
}
