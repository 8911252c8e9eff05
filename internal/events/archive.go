package events

import (
	"context"

	"crowdsale/internal/domain"
	"crowdsale/internal/storage"
)

// ArchiveSink writes events to a durable archive store so indexers can
// replay the stream later.
type ArchiveSink struct {
	store storage.EventArchiveStore
}

// NewArchiveSink creates a sink over the given archive store.
func NewArchiveSink(store storage.EventArchiveStore) *ArchiveSink {
	return &ArchiveSink{store: store}
}

// Compile-time interface check.
var _ Sink = (*ArchiveSink)(nil)

// Append persists ev to the archive.
func (a *ArchiveSink) Append(ctx context.Context, ev domain.SaleEvent) error {
	return a.store.Insert(ctx, &ev)
}
