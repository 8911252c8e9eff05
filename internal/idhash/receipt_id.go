package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeReceiptID computes a deterministic receipt_id using SHA256.
// Formula: SHA256(buyer|quantity|payment|tokens_sold_after|purchased_at)
// Returns hex-encoded hash (64 characters).
func ComputeReceiptID(
	buyer string,
	quantity uint64,
	payment uint64,
	tokensSoldAfter uint64,
	purchasedAt int64,
) string {
	data := fmt.Sprintf("%s|%d|%d|%d|%d",
		buyer,
		quantity,
		payment,
		tokensSoldAfter,
		purchasedAt,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
