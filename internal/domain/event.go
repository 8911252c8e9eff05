package domain

// EventKind identifies the type of a sale notification.
type EventKind string

// Sale event kinds.
const (
	EventPurchase EventKind = "purchase"
	EventFinalize EventKind = "finalize"
)

// SaleEvent is one entry in the sale's ordered notification stream.
// Purchase events carry Buyer/Quantity; finalize events carry the final
// TokensSold/PaymentCollected totals. Corresponds to sale_events table
// in ClickHouse.
type SaleEvent struct {
	EventID          string    `json:"event_id"`          // UUID
	Kind             EventKind `json:"kind"`              // purchase | finalize
	Buyer            string    `json:"buyer,omitempty"`   // purchase only
	Quantity         uint64    `json:"quantity"`          // purchase only, base units
	TokensSold       uint64    `json:"tokens_sold"`       // cumulative after the event
	PaymentCollected uint64    `json:"payment_collected"` // cumulative after the event
	Timestamp        int64     `json:"timestamp_ms"`      // Unix timestamp in milliseconds
}
