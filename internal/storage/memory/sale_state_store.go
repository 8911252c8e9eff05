package memory

import (
	"context"
	"sync"

	"crowdsale/internal/domain"
	"crowdsale/internal/storage"
)

// SaleStateStore is an in-memory implementation of storage.SaleStateStore.
type SaleStateStore struct {
	mu       sync.RWMutex
	snapshot *domain.SaleSnapshot
}

// NewSaleStateStore creates a new in-memory sale state store.
func NewSaleStateStore() *SaleStateStore {
	return &SaleStateStore{}
}

// Compile-time interface check.
var _ storage.SaleStateStore = (*SaleStateStore)(nil)

// Save upserts the snapshot.
func (s *SaleStateStore) Save(_ context.Context, snap *domain.SaleSnapshot) error {
	if snap == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapCopy := *snap
	s.snapshot = &snapCopy
	return nil
}

// Load retrieves the snapshot. Returns ErrNotFound if never saved.
func (s *SaleStateStore) Load(_ context.Context) (*domain.SaleSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, storage.ErrNotFound
	}

	snapCopy := *s.snapshot
	return &snapCopy, nil
}
