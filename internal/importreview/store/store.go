package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Exclusion pairs are stored ordered (first < second) so the unordered
// user decision maps to one row.
func orderPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}

	return a, b
}

func (s *Store) ListExclusions(ctx context.Context, userID uuid.UUID) ([][2]string, error) {
	query := `
		SELECT first_transaction_id, second_transaction_id
		FROM duplicate_exclusions
		WHERE user_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing exclusions: %w", err)
	}
	defer rows.Close()

	var pairs [][2]string

	for rows.Next() {
		var first, second string

		if err := rows.Scan(&first, &second); err != nil {
			return nil, fmt.Errorf("scanning exclusion: %w", err)
		}

		pairs = append(pairs, [2]string{first, second})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exclusion rows: %w", err)
	}

	return pairs, nil
}

func (s *Store) CreateExclusion(ctx context.Context, userID uuid.UUID, firstID, secondID string) error {
	first, second := orderPair(firstID, secondID)

	query := `
		INSERT INTO duplicate_exclusions (user_id, first_transaction_id, second_transaction_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, first_transaction_id, second_transaction_id) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, query, userID, first, second); err != nil {
		return fmt.Errorf("creating exclusion: %w", err)
	}

	return nil
}
