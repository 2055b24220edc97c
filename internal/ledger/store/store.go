package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/calebmonroe/penny/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.account_id, t.amount, t.date, t.description, t.external_id,
	t.reference_number, t.source, t.transfer_group_id, t.reconciled,
	t.created_at, t.updated_at, t.deleted_at
`

func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var txn ledger.Transaction

	var sourceStr string

	var externalID, referenceNumber sql.NullString

	if err := s.Scan(
		&txn.ID, &txn.AccountID, &txn.Amount, &txn.Date, &txn.Description,
		&externalID, &referenceNumber, &sourceStr, &txn.TransferGroupID,
		&txn.Reconciled, &txn.CreatedAt, &txn.UpdatedAt, &txn.DeletedAt,
	); err != nil {
		return nil, err
	}

	txn.Source = ledger.Source(sourceStr)
	txn.ExternalID = externalID.String
	txn.ReferenceNumber = referenceNumber.String

	return &txn, nil
}

func (s *Store) CreateTransaction(ctx context.Context, txn *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, amount, date, description, external_id, reference_number, source, transfer_group_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		txn.AccountID,
		txn.Amount,
		txn.Date,
		txn.Description,
		txn.ExternalID,
		txn.ReferenceNumber,
		txn.Source,
		txn.TransferGroupID,
	).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.deleted_at IS NULL`

	txn, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return txn, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND t.account_id = $%d", argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Source != nil {
		query += fmt.Sprintf(" AND t.source = $%d", argIdx)

		args = append(args, *filter.Source)
		argIdx++
	}

	query += " ORDER BY t.date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txns []*ledger.Transaction

	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txns, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, txn *ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $1, date = $2, description = $3, external_id = NULLIF($4, ''),
			reference_number = NULLIF($5, ''), transfer_group_id = $6, updated_at = NOW()
		WHERE id = $7 AND deleted_at IS NULL
	`

	_, err := s.db.ExecContext(ctx, query,
		txn.Amount,
		txn.Date,
		txn.Description,
		txn.ExternalID,
		txn.ReferenceNumber,
		txn.TransferGroupID,
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE id = $1
	`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

func (s *Store) SetReconciled(ctx context.Context, ids []uuid.UUID, reconciled bool) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE transactions
		SET reconciled = $1, updated_at = NOW()
		WHERE id = ANY($2) AND deleted_at IS NULL
	`

	_, err := s.db.ExecContext(ctx, query, reconciled, ids)
	if err != nil {
		return fmt.Errorf("setting reconciled flag: %w", err)
	}

	return nil
}
