package domain

// PurchaseReceipt records one successful token purchase.
// Corresponds to purchase_receipts table in PostgreSQL.
type PurchaseReceipt struct {
	ReceiptID       string // PRIMARY KEY, deterministic hash
	Buyer           string // buyer account address
	Quantity        uint64 // tokens bought, base units
	Payment         uint64 // payment attached, native base units
	UnitPrice       uint64 // price in effect at purchase time
	TokensSoldAfter uint64 // cumulative tokens sold including this purchase
	PurchasedAt     int64  // Unix timestamp in milliseconds
	CreatedAt       int64  // record creation timestamp (ms)
}
