package memory

import (
	"context"
	"sort"
	"sync"

	"crowdsale/internal/storage"
)

// AllowListStore is an in-memory implementation of storage.AllowListStore.
type AllowListStore struct {
	mu   sync.RWMutex
	data map[string]int64 // account -> added_at (ms)
}

// NewAllowListStore creates a new in-memory allow-list store.
func NewAllowListStore() *AllowListStore {
	return &AllowListStore{
		data: make(map[string]int64),
	}
}

// Compile-time interface check.
var _ storage.AllowListStore = (*AllowListStore)(nil)

// Add inserts an account. Re-adding an existing account is a no-op.
func (s *AllowListStore) Add(_ context.Context, account string, addedAt int64) error {
	if account == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[account]; !exists {
		s.data[account] = addedAt
	}
	return nil
}

// Contains reports whether account is on the allow-list.
func (s *AllowListStore) Contains(_ context.Context, account string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.data[account]
	return exists, nil
}

// List returns all allow-listed accounts, ordered by added_at ASC.
func (s *AllowListStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]string, 0, len(s.data))
	for a := range s.data {
		accounts = append(accounts, a)
	}

	sort.Slice(accounts, func(i, j int) bool {
		ai, aj := s.data[accounts[i]], s.data[accounts[j]]
		if ai != aj {
			return ai < aj
		}
		return accounts[i] < accounts[j]
	})

	return accounts, nil
}
