package clickhouse

import (
	"context"
	"fmt"

	"crowdsale/internal/domain"
	"crowdsale/internal/storage"
)

// EventArchiveStore implements storage.EventArchiveStore using ClickHouse.
// MergeTree does not enforce uniqueness; the engine emits each event once,
// so the archive trusts the stream.
type EventArchiveStore struct {
	conn *Conn
}

// NewEventArchiveStore creates a new EventArchiveStore.
func NewEventArchiveStore(conn *Conn) *EventArchiveStore {
	return &EventArchiveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EventArchiveStore = (*EventArchiveStore)(nil)

// Insert adds a single event.
func (s *EventArchiveStore) Insert(ctx context.Context, ev *domain.SaleEvent) error {
	if ev == nil || ev.EventID == "" {
		return storage.ErrInvalidInput
	}
	return s.InsertBatch(ctx, []*domain.SaleEvent{ev})
}

// InsertBatch adds multiple events.
func (s *EventArchiveStore) InsertBatch(ctx context.Context, events []*domain.SaleEvent) error {
	if len(events) == 0 {
		return nil
	}
	for _, ev := range events {
		if ev == nil || ev.EventID == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO sale_events (
			event_id, kind, buyer, quantity, tokens_sold, payment_collected, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, ev := range events {
		err = batch.Append(
			ev.EventID, string(ev.Kind), ev.Buyer,
			ev.Quantity, ev.TokensSold, ev.PaymentCollected, uint64(ev.Timestamp),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByTimeRange retrieves events within [start, end] (inclusive, ms),
// ordered by timestamp ASC.
func (s *EventArchiveStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.SaleEvent, error) {
	query := `
		SELECT event_id, kind, buyer, quantity, tokens_sold, payment_collected, timestamp_ms
		FROM sale_events
		WHERE timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC, event_id ASC
	`

	rows, err := s.conn.Query(ctx, query, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query events by time range: %w", err)
	}
	defer rows.Close()

	var result []*domain.SaleEvent
	for rows.Next() {
		var ev domain.SaleEvent
		var kind string
		var timestampMs uint64

		err := rows.Scan(
			&ev.EventID, &kind, &ev.Buyer,
			&ev.Quantity, &ev.TokensSold, &ev.PaymentCollected, &timestampMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		ev.Kind = domain.EventKind(kind)
		ev.Timestamp = int64(timestampMs)
		result = append(result, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return result, nil
}

// CountByKind returns the number of archived events of the given kind.
func (s *EventArchiveStore) CountByKind(ctx context.Context, kind domain.EventKind) (uint64, error) {
	query := `SELECT count() FROM sale_events WHERE kind = ?`

	var n uint64
	if err := s.conn.QueryRow(ctx, query, string(kind)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events by kind: %w", err)
	}
	return n, nil
}
