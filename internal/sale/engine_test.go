package sale

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"testing"

	"crowdsale/internal/domain"
	"crowdsale/internal/events"
	"crowdsale/internal/storage/memory"
	"crowdsale/internal/token"
)

const (
	admin      = "admin"
	engineAcct = "crowdsale"
	buyer      = "buyer1"
	outsider   = "outsider"

	opening = int64(1_000)
	closing = int64(2_000)
	inside  = int64(1_500)
)

// fixture bundles an engine with its collaborators for inspection.
type fixture struct {
	engine   *Engine
	tokens   *token.Ledger
	payments *token.Ledger
	receipts *memory.ReceiptStore
	log      *events.Log
	clock    *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now int64
}

func (c *fakeClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// newFixture deploys a sale: 1,000,000 token supply seeded to the engine,
// buyer funded with native currency and allow-listed, price 1, cap 1000.
func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	tokens := token.NewLedger("Dapp University", "DAPP", 18, 1_000_000, admin)
	payments := token.NewLedger("Native", "ETH", 18, 1_000_000, buyer)
	receipts := memory.NewReceiptStore()
	eventLog := events.NewLog()
	clock := &fakeClock{now: inside}
	logger := log.New(os.Stderr, "", 0)

	engine, err := NewEngine(cfg, tokens, payments, receipts, eventLog, clock.Now, logger)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	// Seed engine inventory with the full supply
	if err := tokens.Transfer(admin, engineAcct, 1_000_000); err != nil {
		t.Fatalf("seed transfer failed: %v", err)
	}
	if err := engine.AddToAllowList(admin, buyer); err != nil {
		t.Fatalf("AddToAllowList failed: %v", err)
	}

	return &fixture{
		engine:   engine,
		tokens:   tokens,
		payments: payments,
		receipts: receipts,
		log:      eventLog,
		clock:    clock,
	}
}

func defaultConfig() Config {
	return Config{
		Administrator: admin,
		Account:       engineAcct,
		UnitPrice:     1,
		SaleCap:       1000,
		MinPurchase:   1,
		OpeningTime:   opening,
		ClosingTime:   closing,
	}
}

func TestNewEngine_Validation(t *testing.T) {
	tokens := token.NewLedger("T", "T", 0, 100, admin)
	payments := token.NewLedger("N", "N", 0, 100, buyer)

	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"missing administrator", func(c *Config) { c.Administrator = "" }},
		{"missing engine account", func(c *Config) { c.Account = "" }},
		{"zero price", func(c *Config) { c.UnitPrice = 0 }},
		{"inverted window", func(c *Config) { c.OpeningTime = c.ClosingTime }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mod(&cfg)
			if _, err := NewEngine(cfg, tokens, payments, nil, nil, nil, nil); err == nil {
				t.Error("Expected constructor error, got nil")
			}
		})
	}
}

func TestPurchase_Success(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	receipt, err := f.engine.Purchase(ctx, buyer, 10, 10)
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	if f.engine.TokensSold() != 10 {
		t.Errorf("TokensSold = %d, want 10", f.engine.TokensSold())
	}
	if got := f.tokens.BalanceOf(buyer); got != 10 {
		t.Errorf("buyer token balance = %d, want 10", got)
	}
	if got := f.tokens.BalanceOf(engineAcct); got != 999_990 {
		t.Errorf("engine inventory = %d, want 999990", got)
	}
	if got := f.payments.BalanceOf(engineAcct); got != 10 {
		t.Errorf("engine payment custody = %d, want 10", got)
	}
	if f.engine.PaymentCollected() != 10 {
		t.Errorf("PaymentCollected = %d, want 10", f.engine.PaymentCollected())
	}

	if receipt.Quantity != 10 || receipt.Payment != 10 || receipt.TokensSoldAfter != 10 {
		t.Errorf("unexpected receipt: %+v", receipt)
	}

	// Receipt persisted
	stored, err := f.receipts.GetByID(ctx, receipt.ReceiptID)
	if err != nil {
		t.Fatalf("receipt not persisted: %v", err)
	}
	if stored.Buyer != buyer {
		t.Errorf("stored buyer = %s, want %s", stored.Buyer, buyer)
	}

	// Purchase event emitted after commit
	evs := f.log.All()
	if len(evs) != 1 {
		t.Fatalf("event count = %d, want 1", len(evs))
	}
	ev := evs[0]
	if ev.Kind != domain.EventPurchase || ev.Buyer != buyer || ev.Quantity != 10 || ev.TokensSold != 10 {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestPurchase_PreconditionOrder(t *testing.T) {
	// Each case violates the named condition plus every later one; the
	// first violation in the documented order must win.
	ctx := context.Background()

	t.Run("window beats allow-list", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.clock.Set(closing + 1)
		_, err := f.engine.Purchase(ctx, outsider, 0, 1)
		if !errors.Is(err, ErrSaleClosed) {
			t.Errorf("Expected ErrSaleClosed, got %v", err)
		}
	})

	t.Run("allow-list beats payment", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		_, err := f.engine.Purchase(ctx, outsider, 10, 7)
		if !errors.Is(err, ErrNotAllowed) {
			t.Errorf("Expected ErrNotAllowed, got %v", err)
		}
	})

	t.Run("payment beats minimum", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.MinPurchase = 10
		f := newFixture(t, cfg)
		_, err := f.engine.Purchase(ctx, buyer, 5, 99)
		if !errors.Is(err, ErrPaymentMismatch) {
			t.Errorf("Expected ErrPaymentMismatch, got %v", err)
		}
	})

	t.Run("minimum beats cap", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.MinPurchase = 2000
		f := newFixture(t, cfg)
		_, err := f.engine.Purchase(ctx, buyer, 1500, 1500)
		if !errors.Is(err, ErrBelowMinimum) {
			t.Errorf("Expected ErrBelowMinimum, got %v", err)
		}
	})

	t.Run("maximum beats cap", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.MaxPurchase = 100
		f := newFixture(t, cfg)
		_, err := f.engine.Purchase(ctx, buyer, 1500, 1500)
		if !errors.Is(err, ErrAboveMaximum) {
			t.Errorf("Expected ErrAboveMaximum, got %v", err)
		}
	})
}

func TestPurchase_RejectsFinalizedSale(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	if err := f.engine.Finalize(ctx, admin); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	_, err := f.engine.Purchase(ctx, buyer, 10, 10)
	if !errors.Is(err, ErrSaleClosed) {
		t.Errorf("Expected ErrSaleClosed after finalize, got %v", err)
	}
}

func TestPurchase_WindowBounds(t *testing.T) {
	tests := []struct {
		name    string
		now     int64
		wantErr error
	}{
		{"before opening", opening - 1, ErrSaleClosed},
		{"at opening", opening, nil},
		{"at closing", closing, nil},
		{"after closing", closing + 1, ErrSaleClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, defaultConfig())
			f.clock.Set(tt.now)

			_, err := f.engine.Purchase(context.Background(), buyer, 10, 10)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Purchase failed: %v", err)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPurchase_PaymentMustMatchExactly(t *testing.T) {
	for _, payment := range []uint64{0, 9, 11, 20} {
		f := newFixture(t, defaultConfig())
		ctx := context.Background()

		_, err := f.engine.Purchase(ctx, buyer, 10, payment)
		if !errors.Is(err, ErrPaymentMismatch) {
			t.Errorf("payment %d: expected ErrPaymentMismatch, got %v", payment, err)
		}

		// Zero state change
		if f.engine.TokensSold() != 0 {
			t.Errorf("payment %d: TokensSold = %d, want 0", payment, f.engine.TokensSold())
		}
		if got := f.tokens.BalanceOf(buyer); got != 0 {
			t.Errorf("payment %d: buyer balance = %d, want 0", payment, got)
		}
		if got := f.payments.BalanceOf(engineAcct); got != 0 {
			t.Errorf("payment %d: engine custody = %d, want 0", payment, got)
		}
		if f.log.Len() != 0 {
			t.Errorf("payment %d: events emitted on failed purchase", payment)
		}
	}
}

func TestPurchase_BelowMinimum(t *testing.T) {
	cfg := defaultConfig()
	cfg.MinPurchase = 10
	f := newFixture(t, cfg)

	_, err := f.engine.Purchase(context.Background(), buyer, 9, 9)
	if !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("Expected ErrBelowMinimum, got %v", err)
	}
	if f.engine.TokensSold() != 0 {
		t.Errorf("TokensSold = %d, want 0", f.engine.TokensSold())
	}
}

func TestPurchase_AboveMaximum(t *testing.T) {
	cfg := defaultConfig()
	cfg.MaxPurchase = 50
	f := newFixture(t, cfg)
	ctx := context.Background()

	_, err := f.engine.Purchase(ctx, buyer, 51, 51)
	if !errors.Is(err, ErrAboveMaximum) {
		t.Fatalf("Expected ErrAboveMaximum, got %v", err)
	}

	// The per-call bound is independent of the cumulative cap: a quantity
	// at the bound still succeeds with plenty of cap room.
	if _, err := f.engine.Purchase(ctx, buyer, 50, 50); err != nil {
		t.Errorf("Purchase at maximum failed: %v", err)
	}
}

func TestPurchase_CapExceeded(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	// Reach 999 of the 1000 cap
	if _, err := f.engine.Purchase(ctx, buyer, 999, 999); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	_, err := f.engine.Purchase(ctx, buyer, 10, 10)
	if !errors.Is(err, ErrCapExceeded) {
		t.Fatalf("Expected ErrCapExceeded, got %v", err)
	}
	if f.engine.TokensSold() != 999 {
		t.Errorf("TokensSold = %d, want 999", f.engine.TokensSold())
	}

	// The last unit is still sellable
	if _, err := f.engine.Purchase(ctx, buyer, 1, 1); err != nil {
		t.Errorf("Purchase of final unit failed: %v", err)
	}
	if f.engine.TokensSold() != 1000 {
		t.Errorf("TokensSold = %d, want 1000", f.engine.TokensSold())
	}
}

func TestPurchase_InsufficientInventory(t *testing.T) {
	cfg := defaultConfig()
	cfg.SaleCap = 2_000_000 // cap above the seeded inventory
	f := newFixture(t, cfg)
	ctx := context.Background()

	// Drain the engine's inventory out-of-band
	if err := f.tokens.Transfer(engineAcct, admin, 999_995); err != nil {
		t.Fatalf("drain transfer failed: %v", err)
	}

	_, err := f.engine.Purchase(ctx, buyer, 10, 10)
	if !errors.Is(err, ErrInsufficientInventory) {
		t.Fatalf("Expected ErrInsufficientInventory, got %v", err)
	}

	// Attached payment was not retained
	if got := f.payments.BalanceOf(buyer); got != 1_000_000 {
		t.Errorf("buyer payment balance = %d, want 1000000", got)
	}
	if f.engine.TokensSold() != 0 {
		t.Errorf("TokensSold = %d, want 0", f.engine.TokensSold())
	}
}

func TestPurchase_BuyerCannotCoverPayment(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	// poor is allow-listed but holds no native currency
	if err := f.engine.AddToAllowList(admin, "poor"); err != nil {
		t.Fatalf("AddToAllowList failed: %v", err)
	}

	_, err := f.engine.Purchase(ctx, "poor", 10, 10)
	if err == nil {
		t.Fatal("Expected error for unfunded buyer")
	}
	if !errors.Is(err, token.ErrInsufficientBalance) {
		t.Errorf("Expected wrapped ErrInsufficientBalance, got %v", err)
	}
	if f.engine.TokensSold() != 0 {
		t.Errorf("TokensSold = %d, want 0", f.engine.TokensSold())
	}
}

func TestPurchaseDirect_FloorsQuantity(t *testing.T) {
	cfg := defaultConfig()
	cfg.UnitPrice = 3
	f := newFixture(t, cfg)
	ctx := context.Background()

	// 30 / 3 = 10 tokens exactly
	receipt, err := f.engine.PurchaseDirect(ctx, buyer, 30)
	if err != nil {
		t.Fatalf("PurchaseDirect failed: %v", err)
	}
	if receipt.Quantity != 10 {
		t.Errorf("Quantity = %d, want 10", receipt.Quantity)
	}

	// 31 leaves a remainder the engine cannot refund
	_, err = f.engine.PurchaseDirect(ctx, buyer, 31)
	if !errors.Is(err, ErrPaymentMismatch) {
		t.Errorf("Expected ErrPaymentMismatch for remainder, got %v", err)
	}
}

func TestPurchaseDirect_SamePreconditions(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	// Not allow-listed
	_, err := f.engine.PurchaseDirect(ctx, outsider, 10)
	if !errors.Is(err, ErrNotAllowed) {
		t.Errorf("Expected ErrNotAllowed, got %v", err)
	}

	// Payment below one unit floors to zero, below minimum
	_, err = f.engine.PurchaseDirect(ctx, buyer, 0)
	if !errors.Is(err, ErrBelowMinimum) {
		t.Errorf("Expected ErrBelowMinimum, got %v", err)
	}
}

func TestSetPrice(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	if err := f.engine.SetPrice(outsider, 2); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
	if f.engine.Price() != 1 {
		t.Errorf("Price changed by unauthorized caller: %d", f.engine.Price())
	}

	if err := f.engine.SetPrice(admin, 0); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("Expected ErrInvalidPrice, got %v", err)
	}

	if err := f.engine.SetPrice(admin, 5); err != nil {
		t.Fatalf("SetPrice failed: %v", err)
	}
	if f.engine.Price() != 5 {
		t.Errorf("Price = %d, want 5", f.engine.Price())
	}

	// Purchases settle at the new price
	if _, err := f.engine.Purchase(ctx, buyer, 10, 50); err != nil {
		t.Errorf("Purchase at new price failed: %v", err)
	}
	if _, err := f.engine.Purchase(ctx, buyer, 10, 10); !errors.Is(err, ErrPaymentMismatch) {
		t.Errorf("Expected ErrPaymentMismatch at old price, got %v", err)
	}
}

func TestAddToAllowList(t *testing.T) {
	f := newFixture(t, defaultConfig())

	if err := f.engine.AddToAllowList(outsider, outsider); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
	if f.engine.IsAllowed(outsider) {
		t.Error("unauthorized caller mutated the allow-list")
	}

	if err := f.engine.AddToAllowList(admin, outsider); err != nil {
		t.Fatalf("AddToAllowList failed: %v", err)
	}
	if !f.engine.IsAllowed(outsider) {
		t.Error("IsAllowed = false after add")
	}

	// Re-adding is a no-op success
	if err := f.engine.AddToAllowList(admin, outsider); err != nil {
		t.Errorf("idempotent re-add failed: %v", err)
	}
}

func TestFinalize(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	// Sell 10 units at price 1
	if _, err := f.engine.Purchase(ctx, buyer, 10, 10); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	adminTokensBefore := f.tokens.BalanceOf(admin)

	if err := f.engine.Finalize(ctx, admin); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if got := f.tokens.BalanceOf(engineAcct); got != 0 {
		t.Errorf("engine inventory after finalize = %d, want 0", got)
	}
	if got := f.tokens.BalanceOf(admin); got != adminTokensBefore+999_990 {
		t.Errorf("admin token balance = %d, want %d", got, adminTokensBefore+999_990)
	}
	if got := f.payments.BalanceOf(admin); got != 10 {
		t.Errorf("admin payment balance = %d, want 10", got)
	}
	if got := f.payments.BalanceOf(engineAcct); got != 0 {
		t.Errorf("engine payment custody after finalize = %d, want 0", got)
	}
	if !f.engine.Finalized() {
		t.Error("Finalized = false after finalize")
	}

	// Finalize(10, 10) emitted exactly once
	var finalizeEvents []domain.SaleEvent
	for _, ev := range f.log.All() {
		if ev.Kind == domain.EventFinalize {
			finalizeEvents = append(finalizeEvents, ev)
		}
	}
	if len(finalizeEvents) != 1 {
		t.Fatalf("finalize event count = %d, want 1", len(finalizeEvents))
	}
	if finalizeEvents[0].TokensSold != 10 || finalizeEvents[0].PaymentCollected != 10 {
		t.Errorf("unexpected finalize event: %+v", finalizeEvents[0])
	}
}

func TestFinalize_Unauthorized(t *testing.T) {
	f := newFixture(t, defaultConfig())

	err := f.engine.Finalize(context.Background(), buyer)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}
	if f.engine.Finalized() {
		t.Error("unauthorized caller finalized the sale")
	}
}

func TestFinalize_SecondCallFails(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	if _, err := f.engine.Purchase(ctx, buyer, 10, 10); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if err := f.engine.Finalize(ctx, admin); err != nil {
		t.Fatalf("first Finalize failed: %v", err)
	}

	adminTokens := f.tokens.BalanceOf(admin)
	adminPayments := f.payments.BalanceOf(admin)
	sold := f.engine.TokensSold()

	err := f.engine.Finalize(ctx, admin)
	if !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("Expected ErrAlreadyFinalized, got %v", err)
	}

	// State after the first call is a fixed point
	if f.tokens.BalanceOf(admin) != adminTokens {
		t.Error("admin token balance changed on second finalize")
	}
	if f.payments.BalanceOf(admin) != adminPayments {
		t.Error("admin payment balance changed on second finalize")
	}
	if f.engine.TokensSold() != sold {
		t.Error("TokensSold changed on second finalize")
	}
	if eventCount(f.log, domain.EventFinalize) != 1 {
		t.Error("second finalize emitted an event")
	}
}

func TestFinalize_AdminMutationsRejectedAfter(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	if err := f.engine.Finalize(ctx, admin); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if err := f.engine.SetPrice(admin, 2); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("Expected ErrAlreadyFinalized from SetPrice, got %v", err)
	}
	if err := f.engine.AddToAllowList(admin, outsider); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("Expected ErrAlreadyFinalized from AddToAllowList, got %v", err)
	}
}

func TestConcurrentPurchases_NeverOvershootCap(t *testing.T) {
	cfg := defaultConfig()
	cfg.SaleCap = 100
	f := newFixture(t, cfg)
	ctx := context.Background()

	// 50 goroutines each try to buy 10; only 10 can fit under the cap.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.engine.Purchase(ctx, buyer, 10, 10)
		}()
	}
	wg.Wait()

	if got := f.engine.TokensSold(); got != 100 {
		t.Errorf("TokensSold = %d, want exactly 100", got)
	}
	if got := f.tokens.BalanceOf(buyer); got != 100 {
		t.Errorf("buyer token balance = %d, want 100", got)
	}
	if got := f.payments.BalanceOf(engineAcct); got != 100 {
		t.Errorf("engine payment custody = %d, want 100", got)
	}
}

func TestConcurrentFinalizeAndPurchase(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.engine.Purchase(ctx, buyer, 1, 1)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = f.engine.Finalize(ctx, admin)
	}()
	wg.Wait()

	// Whatever interleaving occurred, custody fully moved to the
	// administrator and sold quantity matches the buyer's holdings.
	if got := f.payments.BalanceOf(engineAcct); got != 0 {
		t.Errorf("engine payment custody = %d, want 0", got)
	}
	if got := f.tokens.BalanceOf(engineAcct); got != 0 {
		t.Errorf("engine inventory = %d, want 0", got)
	}
	if f.tokens.BalanceOf(buyer) != f.engine.TokensSold() {
		t.Errorf("buyer holds %d tokens but TokensSold = %d",
			f.tokens.BalanceOf(buyer), f.engine.TokensSold())
	}
}

func TestSnapshotAndRestore(t *testing.T) {
	f := newFixture(t, defaultConfig())
	ctx := context.Background()

	if err := f.engine.SetPrice(admin, 2); err != nil {
		t.Fatalf("SetPrice failed: %v", err)
	}
	if _, err := f.engine.Purchase(ctx, buyer, 10, 20); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	snap := f.engine.Snapshot()
	if snap.UnitPrice != 2 || snap.TokensSold != 10 || snap.PaymentCollected != 20 || snap.Finalized {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	// Restore into a fresh engine
	g := newFixture(t, defaultConfig())
	g.engine.Restore(snap)
	g.engine.RestoreAllowList([]string{buyer, outsider})

	if g.engine.Price() != 2 {
		t.Errorf("restored Price = %d, want 2", g.engine.Price())
	}
	if g.engine.TokensSold() != 10 {
		t.Errorf("restored TokensSold = %d, want 10", g.engine.TokensSold())
	}
	if !g.engine.IsAllowed(outsider) {
		t.Error("restored allow-list missing account")
	}
}

func TestRestoreBeyondCapKeepsSaleClosed(t *testing.T) {
	f := newFixture(t, defaultConfig()) // cap 1000
	ctx := context.Background()

	// Snapshot taken under a larger cap records more sold than this
	// engine's cap allows.
	f.engine.Restore(&domain.SaleSnapshot{
		UnitPrice:        1,
		TokensSold:       1_500,
		PaymentCollected: 1_500,
	})

	if _, err := f.engine.Purchase(ctx, buyer, 10, 10); !errors.Is(err, ErrCapExceeded) {
		t.Fatalf("Purchase beyond cap: got err %v, want ErrCapExceeded", err)
	}
	if f.engine.TokensSold() != 1_500 {
		t.Errorf("TokensSold = %d, want unchanged 1500", f.engine.TokensSold())
	}
	if f.payments.BalanceOf(buyer) != 1_000_000 {
		t.Errorf("buyer payment balance changed on rejected purchase: %d", f.payments.BalanceOf(buyer))
	}
}

func TestQueries(t *testing.T) {
	f := newFixture(t, defaultConfig())

	if f.engine.Administrator() != admin {
		t.Errorf("Administrator() = %s", f.engine.Administrator())
	}
	if f.engine.Account() != engineAcct {
		t.Errorf("Account() = %s", f.engine.Account())
	}
	if f.engine.SaleCap() != 1000 {
		t.Errorf("SaleCap() = %d", f.engine.SaleCap())
	}
	if o, c := f.engine.Window(); o != opening || c != closing {
		t.Errorf("Window() = (%d, %d)", o, c)
	}
	if f.engine.Token() == nil {
		t.Error("Token() returned nil ledger reference")
	}
	if f.engine.Token().BalanceOf(engineAcct) != 1_000_000 {
		t.Error("Token() ledger does not hold the seeded inventory")
	}
}

func eventCount(l *events.Log, kind domain.EventKind) int {
	n := 0
	for _, ev := range l.All() {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
