package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"crowdsale/internal/domain"
	"crowdsale/internal/storage"
)

// ReceiptStore implements storage.ReceiptStore using PostgreSQL.
// Amounts are stored as BIGINT; base-unit quantities fit comfortably.
type ReceiptStore struct {
	pool *Pool
}

// NewReceiptStore creates a new ReceiptStore.
func NewReceiptStore(pool *Pool) *ReceiptStore {
	return &ReceiptStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ReceiptStore = (*ReceiptStore)(nil)

// Insert adds a new receipt. Returns ErrDuplicateKey if receipt_id exists.
func (s *ReceiptStore) Insert(ctx context.Context, r *domain.PurchaseReceipt) error {
	if r == nil || r.ReceiptID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO purchase_receipts (
			receipt_id, buyer, quantity, payment, unit_price, tokens_sold_after, purchased_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	createdAt := r.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().UnixMilli()
	}

	_, err := s.pool.Exec(ctx, query,
		r.ReceiptID,
		r.Buyer,
		int64(r.Quantity),
		int64(r.Payment),
		int64(r.UnitPrice),
		int64(r.TokensSoldAfter),
		r.PurchasedAt,
		createdAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// GetByID retrieves a receipt by its ID. Returns ErrNotFound if not exists.
func (s *ReceiptStore) GetByID(ctx context.Context, receiptID string) (*domain.PurchaseReceipt, error) {
	query := `
		SELECT receipt_id, buyer, quantity, payment, unit_price, tokens_sold_after, purchased_at, created_at
		FROM purchase_receipts
		WHERE receipt_id = $1
	`

	row := s.pool.QueryRow(ctx, query, receiptID)
	r, err := scanReceipt(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get receipt by id: %w", err)
	}
	return r, nil
}

// GetByBuyer retrieves all receipts for a buyer, ordered by purchased_at ASC.
func (s *ReceiptStore) GetByBuyer(ctx context.Context, buyer string) ([]*domain.PurchaseReceipt, error) {
	query := `
		SELECT receipt_id, buyer, quantity, payment, unit_price, tokens_sold_after, purchased_at, created_at
		FROM purchase_receipts
		WHERE buyer = $1
		ORDER BY purchased_at ASC, receipt_id ASC
	`

	rows, err := s.pool.Query(ctx, query, buyer)
	if err != nil {
		return nil, fmt.Errorf("get receipts by buyer: %w", err)
	}
	defer rows.Close()

	return collectReceipts(rows)
}

// GetByTimeRange retrieves receipts purchased within [start, end] (inclusive).
func (s *ReceiptStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.PurchaseReceipt, error) {
	query := `
		SELECT receipt_id, buyer, quantity, payment, unit_price, tokens_sold_after, purchased_at, created_at
		FROM purchase_receipts
		WHERE purchased_at >= $1 AND purchased_at <= $2
		ORDER BY purchased_at ASC, receipt_id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get receipts by time range: %w", err)
	}
	defer rows.Close()

	return collectReceipts(rows)
}

// GetAll retrieves every receipt, ordered by purchased_at ASC.
func (s *ReceiptStore) GetAll(ctx context.Context) ([]*domain.PurchaseReceipt, error) {
	query := `
		SELECT receipt_id, buyer, quantity, payment, unit_price, tokens_sold_after, purchased_at, created_at
		FROM purchase_receipts
		ORDER BY purchased_at ASC, receipt_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all receipts: %w", err)
	}
	defer rows.Close()

	return collectReceipts(rows)
}

// rowScanner abstracts pgx.Row and pgx.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanReceipt scans a single receipt row.
func scanReceipt(row rowScanner) (*domain.PurchaseReceipt, error) {
	var r domain.PurchaseReceipt
	var quantity, payment, unitPrice, tokensSoldAfter int64

	err := row.Scan(
		&r.ReceiptID,
		&r.Buyer,
		&quantity,
		&payment,
		&unitPrice,
		&tokensSoldAfter,
		&r.PurchasedAt,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Quantity = uint64(quantity)
	r.Payment = uint64(payment)
	r.UnitPrice = uint64(unitPrice)
	r.TokensSoldAfter = uint64(tokensSoldAfter)
	return &r, nil
}

// collectReceipts scans all rows into a slice.
func collectReceipts(rows pgx.Rows) ([]*domain.PurchaseReceipt, error) {
	var result []*domain.PurchaseReceipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipts: %w", err)
	}
	return result, nil
}
