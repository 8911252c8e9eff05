package domain

// SaleSnapshot captures the mutable sale engine state at a point in time.
// Corresponds to sale_state table in PostgreSQL (singleton row).
type SaleSnapshot struct {
	UnitPrice        uint64 // payment base units per token base unit
	TokensSold       uint64 // cumulative tokens sold
	PaymentCollected uint64 // payment held in engine custody
	Finalized        bool   // terminal flag
	UpdatedAt        int64  // snapshot timestamp (ms)
}

// TokenInfo describes the ledger the sale engine sells from.
type TokenInfo struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply uint64 // base units
}
