package events

import (
	"context"
	"sync"

	"crowdsale/internal/domain"
)

// Log is an in-memory ordered event log. It backs the HTTP event feed and
// serves as the reference sink in tests.
type Log struct {
	mu      sync.RWMutex
	entries []domain.SaleEvent
}

// NewLog creates an empty event log.
func NewLog() *Log {
	return &Log{}
}

// Compile-time interface check.
var _ Sink = (*Log)(nil)

// Append adds an event to the end of the log.
func (l *Log) Append(_ context.Context, ev domain.SaleEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, ev)
	return nil
}

// All returns a copy of the full log in append order.
func (l *Log) All() []domain.SaleEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.SaleEvent, len(l.entries))
	copy(out, l.entries)
	return out
}

// Recent returns up to n most recent events in append order.
func (l *Log) Recent(n int) []domain.SaleEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || len(l.entries) == 0 {
		return nil
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]domain.SaleEvent, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Len returns the number of logged events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
