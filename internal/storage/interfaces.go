package storage

import (
	"context"

	"crowdsale/internal/domain"
)

// ReceiptStore provides access to purchase_receipts storage.
type ReceiptStore interface {
	// Insert adds a new receipt. Returns ErrDuplicateKey if receipt_id exists.
	Insert(ctx context.Context, r *domain.PurchaseReceipt) error

	// GetByID retrieves a receipt by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, receiptID string) (*domain.PurchaseReceipt, error)

	// GetByBuyer retrieves all receipts for a buyer, ordered by purchased_at ASC.
	GetByBuyer(ctx context.Context, buyer string) ([]*domain.PurchaseReceipt, error)

	// GetByTimeRange retrieves receipts purchased within [start, end] (inclusive, ms).
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.PurchaseReceipt, error)

	// GetAll retrieves every receipt, ordered by purchased_at ASC.
	GetAll(ctx context.Context) ([]*domain.PurchaseReceipt, error)
}

// AllowListStore provides access to allow_list storage.
type AllowListStore interface {
	// Add inserts an account. Re-adding an existing account is a no-op.
	Add(ctx context.Context, account string, addedAt int64) error

	// Contains reports whether account is on the allow-list.
	Contains(ctx context.Context, account string) (bool, error)

	// List returns all allow-listed accounts, ordered by added_at ASC.
	List(ctx context.Context) ([]string, error)
}

// SaleStateStore persists the singleton sale engine snapshot.
type SaleStateStore interface {
	// Save upserts the snapshot.
	Save(ctx context.Context, s *domain.SaleSnapshot) error

	// Load retrieves the snapshot. Returns ErrNotFound if never saved.
	Load(ctx context.Context) (*domain.SaleSnapshot, error)
}

// EventArchiveStore provides access to the sale_events archive consumed by
// downstream indexers.
type EventArchiveStore interface {
	// Insert adds a single event.
	Insert(ctx context.Context, ev *domain.SaleEvent) error

	// InsertBatch adds multiple events.
	InsertBatch(ctx context.Context, events []*domain.SaleEvent) error

	// GetByTimeRange retrieves events within [start, end] (inclusive, ms),
	// ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.SaleEvent, error)

	// CountByKind returns the number of archived events of the given kind.
	CountByKind(ctx context.Context, kind domain.EventKind) (uint64, error)
}
