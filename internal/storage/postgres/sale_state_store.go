package postgres

import (
	"context"
	"fmt"

	"crowdsale/internal/domain"
	"crowdsale/internal/storage"
)

// SaleStateStore implements storage.SaleStateStore using PostgreSQL.
// The sale engine is a singleton, so the table holds exactly one row.
type SaleStateStore struct {
	pool *Pool
}

// NewSaleStateStore creates a new SaleStateStore.
func NewSaleStateStore(pool *Pool) *SaleStateStore {
	return &SaleStateStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SaleStateStore = (*SaleStateStore)(nil)

// Save upserts the snapshot.
func (s *SaleStateStore) Save(ctx context.Context, snap *domain.SaleSnapshot) error {
	if snap == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO sale_state (singleton_id, unit_price, tokens_sold, payment_collected, finalized, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (singleton_id) DO UPDATE SET
			unit_price = EXCLUDED.unit_price,
			tokens_sold = EXCLUDED.tokens_sold,
			payment_collected = EXCLUDED.payment_collected,
			finalized = EXCLUDED.finalized,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		int64(snap.UnitPrice),
		int64(snap.TokensSold),
		int64(snap.PaymentCollected),
		snap.Finalized,
		snap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save sale state: %w", err)
	}
	return nil
}

// Load retrieves the snapshot. Returns ErrNotFound if never saved.
func (s *SaleStateStore) Load(ctx context.Context) (*domain.SaleSnapshot, error) {
	query := `
		SELECT unit_price, tokens_sold, payment_collected, finalized, updated_at
		FROM sale_state
		WHERE singleton_id = 1
	`

	var snap domain.SaleSnapshot
	var unitPrice, tokensSold, paymentCollected int64

	err := s.pool.QueryRow(ctx, query).Scan(
		&unitPrice,
		&tokensSold,
		&paymentCollected,
		&snap.Finalized,
		&snap.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("load sale state: %w", err)
	}

	snap.UnitPrice = uint64(unitPrice)
	snap.TokensSold = uint64(tokensSold)
	snap.PaymentCollected = uint64(paymentCollected)
	return &snap, nil
}
