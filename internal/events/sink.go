// Package events carries the sale engine's ordered notification stream.
// The engine appends an event strictly after the corresponding state
// mutation commits; sinks fan the stream out to observers (in-memory feed,
// Kafka, WebSocket subscribers, archive).
package events

import (
	"context"

	"crowdsale/internal/domain"
)

// Sink receives sale events in commit order.
type Sink interface {
	Append(ctx context.Context, ev domain.SaleEvent) error
}
