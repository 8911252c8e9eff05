package reporting

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# %s Sale Report\n\n", r.Token.Name))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Token
	sb.WriteString("## Token\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Name | %s |\n", r.Token.Name))
	sb.WriteString(fmt.Sprintf("| Symbol | %s |\n", r.Token.Symbol))
	sb.WriteString(fmt.Sprintf("| Decimals | %d |\n", r.Token.Decimals))
	sb.WriteString(fmt.Sprintf("| Total Supply | %s |\n", formatAmount(r.Token.TotalSupply, r.Token.Decimals)))
	sb.WriteString("\n")

	// Sale Summary
	sb.WriteString("## Sale Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Unit Price | %d |\n", r.Sale.UnitPrice))
	sb.WriteString(fmt.Sprintf("| Sale Cap | %s |\n", formatAmount(r.Sale.SaleCap, r.Token.Decimals)))
	sb.WriteString(fmt.Sprintf("| Tokens Sold | %s |\n", formatAmount(r.Sale.TokensSold, r.Token.Decimals)))
	sb.WriteString(fmt.Sprintf("| Payment Collected | %d |\n", r.Sale.PaymentCollected))
	sb.WriteString(fmt.Sprintf("| Fill Rate | %.2f%% |\n", r.Sale.FillRatePct))
	sb.WriteString(fmt.Sprintf("| Finalized | %t |\n", r.Sale.Finalized))
	sb.WriteString(fmt.Sprintf("| Window Start (ms) | %d |\n", r.Sale.OpeningTime))
	sb.WriteString(fmt.Sprintf("| Window End (ms) | %d |\n", r.Sale.ClosingTime))
	sb.WriteString(fmt.Sprintf("| Purchases | %d |\n", r.Sale.PurchaseCount))
	sb.WriteString(fmt.Sprintf("| Unique Buyers | %d |\n", r.Sale.BuyerCount))
	sb.WriteString("\n")

	// Buyers
	sb.WriteString("## Buyers\n\n")
	if len(r.Buyers) > 0 {
		sb.WriteString("| Buyer | Purchases | Tokens | Payment |\n")
		sb.WriteString("|-------|-----------|--------|--------|\n")
		for _, b := range r.Buyers {
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %d |\n",
				b.Buyer, b.PurchaseCount,
				formatAmount(b.TokensBought, r.Token.Decimals), b.PaymentSpent))
		}
	} else {
		sb.WriteString("No purchases recorded.\n")
	}
	sb.WriteString("\n")

	// Purchases
	sb.WriteString("## Purchases\n\n")
	if len(r.Purchases) > 0 {
		sb.WriteString("| Receipt | Buyer | Quantity | Payment | Price | Sold After | At (ms) |\n")
		sb.WriteString("|---------|-------|----------|---------|-------|------------|--------|\n")
		for _, p := range r.Purchases {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %d | %d |\n",
				shortID(p.ReceiptID), p.Buyer,
				p.Quantity, p.Payment, p.UnitPrice, p.TokensSoldAfter, p.PurchasedAt))
		}
	} else {
		sb.WriteString("No purchases recorded.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// formatAmount converts base units to a display amount using the token's
// decimal places.
func formatAmount(v uint64, decimals uint8) string {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0).Shift(-int32(decimals))
	return d.String()
}

// shortID truncates a receipt ID for table display.
func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
