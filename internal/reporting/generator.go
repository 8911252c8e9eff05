package reporting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"crowdsale/internal/domain"
	"crowdsale/internal/storage"
)

// SaleConfig carries the immutable sale parameters the stores do not hold.
type SaleConfig struct {
	SaleCap     uint64
	OpeningTime int64 // Unix ms
	ClosingTime int64 // Unix ms
}

// Generator produces reports from stored data.
type Generator struct {
	receiptStore storage.ReceiptStore
	stateStore   storage.SaleStateStore
	token        domain.TokenInfo
	cfg          SaleConfig
	now          func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	receiptStore storage.ReceiptStore,
	stateStore storage.SaleStateStore,
	token domain.TokenInfo,
	cfg SaleConfig,
) *Generator {
	return &Generator{
		receiptStore: receiptStore,
		stateStore:   stateStore,
		token:        token,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete sale report.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	receipts, err := g.receiptStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load receipts: %w", err)
	}

	snap, err := g.stateStore.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("load sale state: %w", err)
		}
		// No state saved yet; report an empty sale.
		snap = &domain.SaleSnapshot{}
	}

	purchases := g.generatePurchaseRows(receipts)
	buyers := g.generateBuyerRows(receipts)

	var fillRate float64
	if g.cfg.SaleCap > 0 {
		fillRate = float64(snap.TokensSold) / float64(g.cfg.SaleCap) * 100
	}

	return &Report{
		GeneratedAt: g.now(),
		Token: TokenSection{
			Name:        g.token.Name,
			Symbol:      g.token.Symbol,
			Decimals:    g.token.Decimals,
			TotalSupply: g.token.TotalSupply,
		},
		Sale: SaleSection{
			UnitPrice:        snap.UnitPrice,
			SaleCap:          g.cfg.SaleCap,
			TokensSold:       snap.TokensSold,
			PaymentCollected: snap.PaymentCollected,
			Finalized:        snap.Finalized,
			FillRatePct:      fillRate,
			OpeningTime:      g.cfg.OpeningTime,
			ClosingTime:      g.cfg.ClosingTime,
			PurchaseCount:    len(receipts),
			BuyerCount:       len(buyers),
		},
		Purchases: purchases,
		Buyers:    buyers,
	}, nil
}

// generatePurchaseRows builds sorted per-purchase rows.
func (g *Generator) generatePurchaseRows(receipts []*domain.PurchaseReceipt) []PurchaseRow {
	rows := make([]PurchaseRow, len(receipts))
	for i, r := range receipts {
		rows[i] = PurchaseRow{
			ReceiptID:       r.ReceiptID,
			Buyer:           r.Buyer,
			Quantity:        r.Quantity,
			Payment:         r.Payment,
			UnitPrice:       r.UnitPrice,
			TokensSoldAfter: r.TokensSoldAfter,
			PurchasedAt:     r.PurchasedAt,
		}
	}

	// Sort by (purchased_at, receipt_id)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PurchasedAt != rows[j].PurchasedAt {
			return rows[i].PurchasedAt < rows[j].PurchasedAt
		}
		return rows[i].ReceiptID < rows[j].ReceiptID
	})
	return rows
}

// generateBuyerRows aggregates receipts per buyer.
func (g *Generator) generateBuyerRows(receipts []*domain.PurchaseReceipt) []BuyerRow {
	byBuyer := make(map[string]*BuyerRow)
	for _, r := range receipts {
		row := byBuyer[r.Buyer]
		if row == nil {
			row = &BuyerRow{Buyer: r.Buyer}
			byBuyer[r.Buyer] = row
		}
		row.PurchaseCount++
		row.TokensBought += r.Quantity
		row.PaymentSpent += r.Payment
	}

	rows := make([]BuyerRow, 0, len(byBuyer))
	for _, row := range byBuyer {
		rows = append(rows, *row)
	}

	// Sort by tokens bought DESC, buyer ASC for ties
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TokensBought != rows[j].TokensBought {
			return rows[i].TokensBought > rows[j].TokensBought
		}
		return rows[i].Buyer < rows[j].Buyer
	})
	return rows
}
