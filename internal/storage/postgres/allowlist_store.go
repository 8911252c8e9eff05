package postgres

import (
	"context"
	"fmt"

	"crowdsale/internal/storage"
)

// AllowListStore implements storage.AllowListStore using PostgreSQL.
type AllowListStore struct {
	pool *Pool
}

// NewAllowListStore creates a new AllowListStore.
func NewAllowListStore(pool *Pool) *AllowListStore {
	return &AllowListStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AllowListStore = (*AllowListStore)(nil)

// Add inserts an account. Re-adding an existing account is a no-op.
func (s *AllowListStore) Add(ctx context.Context, account string, addedAt int64) error {
	if account == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO allow_list (account, added_at)
		VALUES ($1, $2)
		ON CONFLICT (account) DO NOTHING
	`

	if _, err := s.pool.Exec(ctx, query, account, addedAt); err != nil {
		return fmt.Errorf("add to allow list: %w", err)
	}
	return nil
}

// Contains reports whether account is on the allow-list.
func (s *AllowListStore) Contains(ctx context.Context, account string) (bool, error) {
	query := `SELECT 1 FROM allow_list WHERE account = $1`

	var one int
	err := s.pool.QueryRow(ctx, query, account).Scan(&one)
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("check allow list: %w", err)
	}
	return true, nil
}

// List returns all allow-listed accounts, ordered by added_at ASC.
func (s *AllowListStore) List(ctx context.Context) ([]string, error) {
	query := `SELECT account FROM allow_list ORDER BY added_at ASC, account ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list allow list: %w", err)
	}
	defer rows.Close()

	var accounts []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scan allow list entry: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allow list: %w", err)
	}
	return accounts, nil
}
