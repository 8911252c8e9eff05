package memory

import (
	"context"
	"sort"
	"sync"

	"crowdsale/internal/domain"
	"crowdsale/internal/storage"
)

// ReceiptStore is an in-memory implementation of storage.ReceiptStore.
type ReceiptStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PurchaseReceipt // keyed by receipt_id
}

// NewReceiptStore creates a new in-memory receipt store.
func NewReceiptStore() *ReceiptStore {
	return &ReceiptStore{
		data: make(map[string]*domain.PurchaseReceipt),
	}
}

// Compile-time interface check.
var _ storage.ReceiptStore = (*ReceiptStore)(nil)

// Insert adds a new receipt. Returns ErrDuplicateKey if receipt_id exists.
func (s *ReceiptStore) Insert(_ context.Context, r *domain.PurchaseReceipt) error {
	if r == nil || r.ReceiptID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ReceiptID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	receiptCopy := *r
	s.data[r.ReceiptID] = &receiptCopy
	return nil
}

// GetByID retrieves a receipt by its ID. Returns ErrNotFound if not exists.
func (s *ReceiptStore) GetByID(_ context.Context, receiptID string) (*domain.PurchaseReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[receiptID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	receiptCopy := *r
	return &receiptCopy, nil
}

// GetByBuyer retrieves all receipts for a buyer, ordered by purchased_at ASC.
func (s *ReceiptStore) GetByBuyer(_ context.Context, buyer string) ([]*domain.PurchaseReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PurchaseReceipt
	for _, r := range s.data {
		if r.Buyer == buyer {
			receiptCopy := *r
			result = append(result, &receiptCopy)
		}
	}

	sortReceipts(result)
	return result, nil
}

// GetByTimeRange retrieves receipts purchased within [start, end] (inclusive).
func (s *ReceiptStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.PurchaseReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PurchaseReceipt
	for _, r := range s.data {
		if r.PurchasedAt >= start && r.PurchasedAt <= end {
			receiptCopy := *r
			result = append(result, &receiptCopy)
		}
	}

	sortReceipts(result)
	return result, nil
}

// GetAll retrieves every receipt, ordered by purchased_at ASC.
func (s *ReceiptStore) GetAll(_ context.Context) ([]*domain.PurchaseReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.PurchaseReceipt, 0, len(s.data))
	for _, r := range s.data {
		receiptCopy := *r
		result = append(result, &receiptCopy)
	}

	sortReceipts(result)
	return result, nil
}

// sortReceipts orders by purchased_at ASC with receipt_id as tiebreaker.
func sortReceipts(receipts []*domain.PurchaseReceipt) {
	sort.Slice(receipts, func(i, j int) bool {
		if receipts[i].PurchasedAt != receipts[j].PurchasedAt {
			return receipts[i].PurchasedAt < receipts[j].PurchasedAt
		}
		return receipts[i].ReceiptID < receipts[j].ReceiptID
	})
}
