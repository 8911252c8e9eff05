// Package main generates sale reports (Markdown summary + purchase CSV)
// from stored receipts and sale state.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"crowdsale/internal/domain"
	"crowdsale/internal/reporting"
	"crowdsale/internal/storage"
	"crowdsale/internal/storage/memory"
	pgstore "crowdsale/internal/storage/postgres"
)

func main() {
	// Parse flags
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	useFixtures := flag.Bool("use-fixtures", false, "Use in-memory fixtures instead of database")

	tokenName := flag.String("token-name", "Dapp Token", "Token name")
	tokenSymbol := flag.String("token-symbol", "DAPP", "Token symbol")
	tokenDecimals := flag.Uint("token-decimals", 0, "Token decimal places")
	tokenSupply := flag.Uint64("token-supply", 1_000_000, "Token total supply, base units")
	saleCap := flag.Uint64("sale-cap", 1_000_000, "Maximum cumulative tokens sellable")
	openingTime := flag.Int64("opening-time", 0, "Sale window start, Unix ms")
	closingTime := flag.Int64("closing-time", 0, "Sale window end, Unix ms")

	flag.Parse()

	ctx := context.Background()

	// Validate flags
	if !*useFixtures && *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required when not using fixtures")
		fmt.Fprintln(os.Stderr, "Use --use-fixtures to run with demo data instead")
		os.Exit(1)
	}

	// Create stores based on mode
	var (
		receiptStore storage.ReceiptStore
		stateStore   storage.SaleStateStore
	)

	if *useFixtures {
		receiptStore, stateStore = createMemoryStores(ctx)
	} else {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()

		receiptStore = pgstore.NewReceiptStore(pool)
		stateStore = pgstore.NewSaleStateStore(pool)
	}

	token := domain.TokenInfo{
		Name:        *tokenName,
		Symbol:      *tokenSymbol,
		Decimals:    uint8(*tokenDecimals),
		TotalSupply: *tokenSupply,
	}
	cfg := reporting.SaleConfig{
		SaleCap:     *saleCap,
		OpeningTime: *openingTime,
		ClosingTime: *closingTime,
	}

	generator := reporting.NewGenerator(receiptStore, stateStore, token, cfg)

	report, err := generator.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	// Ensure output directory exists
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	mdPath := filepath.Join(*outputDir, "SALE_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing markdown report: %v\n", err)
		os.Exit(1)
	}

	csvPath := filepath.Join(*outputDir, "PURCHASES.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Purchases)), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Sale report generated successfully:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
}

// createMemoryStores creates in-memory stores and loads fixture data.
func createMemoryStores(ctx context.Context) (storage.ReceiptStore, storage.SaleStateStore) {
	receiptStore := memory.NewReceiptStore()
	stateStore := memory.NewSaleStateStore()

	base := time.Now().Add(-2 * time.Hour).UnixMilli()
	receipts := []*domain.PurchaseReceipt{
		{ReceiptID: "fixture-1", Buyer: "alice", Quantity: 100, Payment: 200, UnitPrice: 2, TokensSoldAfter: 100, PurchasedAt: base},
		{ReceiptID: "fixture-2", Buyer: "bob", Quantity: 50, Payment: 100, UnitPrice: 2, TokensSoldAfter: 150, PurchasedAt: base + 60_000},
		{ReceiptID: "fixture-3", Buyer: "alice", Quantity: 25, Payment: 50, UnitPrice: 2, TokensSoldAfter: 175, PurchasedAt: base + 120_000},
	}
	for _, r := range receipts {
		if err := receiptStore.Insert(ctx, r); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
			os.Exit(1)
		}
	}

	snap := &domain.SaleSnapshot{
		UnitPrice:        2,
		TokensSold:       175,
		PaymentCollected: 350,
		Finalized:        false,
		UpdatedAt:        base + 120_000,
	}
	if err := stateStore.Save(ctx, snap); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
		os.Exit(1)
	}

	return receiptStore, stateStore
}
