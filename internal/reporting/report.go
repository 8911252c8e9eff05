package reporting

import "time"

// Report represents the sale report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time

	// Token description
	Token TokenSection

	// Sale summary
	Sale SaleSection

	// Per-purchase rows (sorted by purchased_at, receipt_id)
	Purchases []PurchaseRow

	// Per-buyer aggregates (sorted by tokens bought DESC)
	Buyers []BuyerRow
}

// TokenSection describes the token being sold.
type TokenSection struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply uint64 // base units
}

// SaleSection summarizes the sale state and configuration.
type SaleSection struct {
	UnitPrice        uint64
	SaleCap          uint64
	TokensSold       uint64
	PaymentCollected uint64
	Finalized        bool
	FillRatePct      float64 // tokens_sold / sale_cap * 100, 0 if cap is 0
	OpeningTime      int64   // Unix ms
	ClosingTime      int64   // Unix ms
	PurchaseCount    int
	BuyerCount       int
}

// PurchaseRow represents one row in the purchase table.
type PurchaseRow struct {
	ReceiptID       string
	Buyer           string
	Quantity        uint64
	Payment         uint64
	UnitPrice       uint64
	TokensSoldAfter uint64
	PurchasedAt     int64
}

// BuyerRow aggregates purchases per buyer.
type BuyerRow struct {
	Buyer         string
	PurchaseCount int
	TokensBought  uint64
	PaymentSpent  uint64
}
