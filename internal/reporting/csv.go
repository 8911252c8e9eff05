package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders purchase rows as CSV string.
func RenderCSV(purchases []PurchaseRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("receipt_id,buyer,quantity,payment,unit_price,tokens_sold_after,purchased_at_ms\n")

	// Rows
	for _, p := range purchases {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%d,%d,%d,%d\n",
			p.ReceiptID,
			p.Buyer,
			p.Quantity,
			p.Payment,
			p.UnitPrice,
			p.TokensSoldAfter,
			p.PurchasedAt,
		))
	}

	return sb.String()
}
