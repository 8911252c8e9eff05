package memory

import (
	"context"
	"sort"
	"sync"

	"crowdsale/internal/domain"
	"crowdsale/internal/storage"
)

// EventArchiveStore is an in-memory implementation of storage.EventArchiveStore.
type EventArchiveStore struct {
	mu     sync.RWMutex
	events []domain.SaleEvent
}

// NewEventArchiveStore creates a new in-memory event archive store.
func NewEventArchiveStore() *EventArchiveStore {
	return &EventArchiveStore{}
}

// Compile-time interface check.
var _ storage.EventArchiveStore = (*EventArchiveStore)(nil)

// Insert adds a single event.
func (s *EventArchiveStore) Insert(_ context.Context, ev *domain.SaleEvent) error {
	if ev == nil || ev.EventID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, *ev)
	return nil
}

// InsertBatch adds multiple events.
func (s *EventArchiveStore) InsertBatch(ctx context.Context, events []*domain.SaleEvent) error {
	for _, ev := range events {
		if ev == nil || ev.EventID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range events {
		s.events = append(s.events, *ev)
	}
	return nil
}

// GetByTimeRange retrieves events within [start, end] (inclusive, ms),
// ordered by timestamp ASC.
func (s *EventArchiveStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.SaleEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SaleEvent
	for i := range s.events {
		ev := s.events[i]
		if ev.Timestamp >= start && ev.Timestamp <= end {
			evCopy := ev
			result = append(result, &evCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].EventID < result[j].EventID
	})

	return result, nil
}

// CountByKind returns the number of archived events of the given kind.
func (s *EventArchiveStore) CountByKind(_ context.Context, kind domain.EventKind) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n uint64
	for i := range s.events {
		if s.events[i].Kind == kind {
			n++
		}
	}
	return n, nil
}
