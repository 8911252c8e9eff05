package events

import (
	"context"
	"fmt"
	"log"

	"crowdsale/internal/domain"
	"crowdsale/internal/observability"
)

// Fanout appends each event to several sinks in order. A failing sink is
// logged and skipped so one slow or broken observer cannot block the
// others; the engine's own commit has already happened by the time a sink
// sees the event.
type Fanout struct {
	sinks  []Sink
	logger *log.Logger
}

// NewFanout creates a fan-out over the given sinks.
func NewFanout(logger *log.Logger, sinks ...Sink) *Fanout {
	if logger == nil {
		logger = log.Default()
	}
	return &Fanout{sinks: sinks, logger: logger}
}

// Compile-time interface check.
var _ Sink = (*Fanout)(nil)

// Append delivers ev to every sink in registration order.
func (f *Fanout) Append(ctx context.Context, ev domain.SaleEvent) error {
	for _, s := range f.sinks {
		if err := s.Append(ctx, ev); err != nil {
			f.logger.Printf("event sink %T failed for event %s: %v", s, ev.EventID, err)
			observability.RecordSinkError(fmt.Sprintf("%T", s))
		}
	}
	return nil
}
