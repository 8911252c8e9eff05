// Package sale implements the crowdsale engine: a state machine that sells
// a seeded token inventory for native-currency payment under price, window,
// allow-list, per-purchase and cumulative-cap constraints, and sweeps the
// remainder to the administrator at finalization.
package sale

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"crowdsale/internal/domain"
	"crowdsale/internal/events"
	"crowdsale/internal/idhash"
	"crowdsale/internal/storage"
)

// Ledger is the minimal balance-store contract the engine depends on.
// Transfer must be atomic: it either moves the full quantity or fails
// without state change.
type Ledger interface {
	BalanceOf(account string) uint64
	Transfer(from, to string, quantity uint64) error
}

// Config holds the parameters fixed at engine construction.
type Config struct {
	Administrator string // exclusive caller of restricted operations
	Account       string // engine's own account on both ledgers
	UnitPrice     uint64 // initial payment units per token unit
	SaleCap       uint64 // maximum cumulative tokens sellable
	MinPurchase   uint64 // per-purchase minimum quantity (0 normalizes to 1)
	MaxPurchase   uint64 // per-purchase maximum quantity (0 disables)
	OpeningTime   int64  // window start, Unix ms, inclusive
	ClosingTime   int64  // window end, Unix ms, inclusive
}

// Engine is the sale state machine. A single mutex serializes every
// state-mutating operation so cap checks and updates are indivisible.
type Engine struct {
	administrator string
	account       string
	saleCap       uint64
	minPurchase   uint64
	maxPurchase   uint64
	openingTime   int64
	closingTime   int64

	token    Ledger
	payment  Ledger
	receipts storage.ReceiptStore // optional; nil disables persistence
	sink     events.Sink
	now      func() int64
	logger   *log.Logger

	mu               sync.Mutex
	unitPrice        uint64
	tokensSold       uint64
	paymentCollected uint64
	allow            map[string]struct{}
	finalized        bool
}

// NewEngine validates cfg and creates an engine. The receipts store may be
// nil; sink, now and logger fall back to defaults when nil.
func NewEngine(cfg Config, tokenLedger, paymentLedger Ledger, receipts storage.ReceiptStore, sink events.Sink, now func() int64, logger *log.Logger) (*Engine, error) {
	if cfg.Administrator == "" {
		return nil, fmt.Errorf("config: administrator account required")
	}
	if cfg.Account == "" {
		return nil, fmt.Errorf("config: engine account required")
	}
	if cfg.UnitPrice == 0 {
		return nil, ErrInvalidPrice
	}
	if cfg.OpeningTime >= cfg.ClosingTime {
		return nil, fmt.Errorf("config: opening time %d must precede closing time %d", cfg.OpeningTime, cfg.ClosingTime)
	}
	if tokenLedger == nil || paymentLedger == nil {
		return nil, fmt.Errorf("config: token and payment ledgers required")
	}

	minPurchase := cfg.MinPurchase
	if minPurchase == 0 {
		minPurchase = 1
	}
	if sink == nil {
		sink = events.NewLog()
	}
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Engine{
		administrator: cfg.Administrator,
		account:       cfg.Account,
		saleCap:       cfg.SaleCap,
		minPurchase:   minPurchase,
		maxPurchase:   cfg.MaxPurchase,
		openingTime:   cfg.OpeningTime,
		closingTime:   cfg.ClosingTime,
		token:         tokenLedger,
		payment:       paymentLedger,
		receipts:      receipts,
		sink:          sink,
		now:           now,
		logger:        logger,
		unitPrice:     cfg.UnitPrice,
		allow:         make(map[string]struct{}),
	}, nil
}

// Purchase sells quantity tokens to buyer for an exactly matching payment.
// On success the payment moves into engine custody, the tokens move to the
// buyer, and a Purchase event is appended after the state commits.
func (e *Engine) Purchase(ctx context.Context, buyer string, quantity, payment uint64) (*domain.PurchaseReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	nowMs := e.now()
	if err := e.checkPurchase(buyer, quantity, payment, nowMs); err != nil {
		return nil, err
	}
	return e.execPurchase(ctx, buyer, quantity, payment, nowMs)
}

// PurchaseDirect handles an unsolicited payment: quantity is the floor of
// payment / unit price, and a payment that does not divide exactly is a
// mismatch since the engine has no refund path.
func (e *Engine) PurchaseDirect(ctx context.Context, buyer string, payment uint64) (*domain.PurchaseReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	nowMs := e.now()
	quantity := payment / e.unitPrice
	if err := e.checkPurchase(buyer, quantity, payment, nowMs); err != nil {
		return nil, err
	}
	return e.execPurchase(ctx, buyer, quantity, payment, nowMs)
}

// checkPurchase validates preconditions in fixed order; the first failing
// condition determines the reported error. Caller must hold e.mu.
func (e *Engine) checkPurchase(buyer string, quantity, payment uint64, nowMs int64) error {
	if e.finalized {
		return ErrSaleClosed
	}
	if nowMs < e.openingTime || nowMs > e.closingTime {
		return ErrSaleClosed
	}
	if _, ok := e.allow[buyer]; !ok {
		return ErrNotAllowed
	}
	if quantity > math.MaxUint64/e.unitPrice || payment != quantity*e.unitPrice {
		return ErrPaymentMismatch
	}
	if quantity < e.minPurchase {
		return ErrBelowMinimum
	}
	if e.maxPurchase > 0 && quantity > e.maxPurchase {
		return ErrAboveMaximum
	}
	// tokensSold can exceed saleCap after restoring a snapshot taken under
	// a larger cap; the subtraction must not underflow.
	if e.tokensSold >= e.saleCap || quantity > e.saleCap-e.tokensSold {
		return ErrCapExceeded
	}
	if e.token.BalanceOf(e.account) < quantity {
		return ErrInsufficientInventory
	}
	return nil
}

// execPurchase applies a validated purchase. Caller must hold e.mu.
// The two ledger transfers plus the receipt insert commit all-or-nothing:
// a failure at any step rolls back the earlier ones.
func (e *Engine) execPurchase(ctx context.Context, buyer string, quantity, payment uint64, nowMs int64) (*domain.PurchaseReceipt, error) {
	if err := e.payment.Transfer(buyer, e.account, payment); err != nil {
		return nil, fmt.Errorf("collect payment: %w", err)
	}

	if err := e.token.Transfer(e.account, buyer, quantity); err != nil {
		e.rollbackTransfer(e.payment, e.account, buyer, payment, "payment")
		return nil, fmt.Errorf("%w: %v", ErrInsufficientInventory, err)
	}

	receipt := &domain.PurchaseReceipt{
		Buyer:           buyer,
		Quantity:        quantity,
		Payment:         payment,
		UnitPrice:       e.unitPrice,
		TokensSoldAfter: e.tokensSold + quantity,
		PurchasedAt:     nowMs,
		CreatedAt:       nowMs,
	}
	receipt.ReceiptID = idhash.ComputeReceiptID(buyer, quantity, payment, receipt.TokensSoldAfter, nowMs)

	if e.receipts != nil {
		if err := e.receipts.Insert(ctx, receipt); err != nil {
			e.rollbackTransfer(e.token, buyer, e.account, quantity, "token")
			e.rollbackTransfer(e.payment, e.account, buyer, payment, "payment")
			return nil, fmt.Errorf("persist receipt: %w", err)
		}
	}

	e.tokensSold += quantity
	e.paymentCollected += payment

	e.emit(ctx, domain.SaleEvent{
		EventID:          uuid.New().String(),
		Kind:             domain.EventPurchase,
		Buyer:            buyer,
		Quantity:         quantity,
		TokensSold:       e.tokensSold,
		PaymentCollected: e.paymentCollected,
		Timestamp:        nowMs,
	})

	return receipt, nil
}

// Finalize sweeps the engine's remaining inventory and accumulated payment
// to the administrator and permanently closes the sale. Both sweeps and the
// flag update commit atomically; a partial failure is rolled back and the
// sale stays open.
func (e *Engine) Finalize(ctx context.Context, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.administrator {
		return ErrUnauthorized
	}
	if e.finalized {
		return ErrAlreadyFinalized
	}

	inventory := e.token.BalanceOf(e.account)
	if inventory > 0 {
		if err := e.token.Transfer(e.account, e.administrator, inventory); err != nil {
			return fmt.Errorf("sweep inventory: %w", err)
		}
	}

	proceeds := e.payment.BalanceOf(e.account)
	if proceeds > 0 {
		if err := e.payment.Transfer(e.account, e.administrator, proceeds); err != nil {
			if inventory > 0 {
				e.rollbackTransfer(e.token, e.administrator, e.account, inventory, "token")
			}
			return fmt.Errorf("sweep payment: %w", err)
		}
	}

	e.finalized = true

	e.emit(ctx, domain.SaleEvent{
		EventID:          uuid.New().String(),
		Kind:             domain.EventFinalize,
		TokensSold:       e.tokensSold,
		PaymentCollected: e.paymentCollected,
		Timestamp:        e.now(),
	})

	return nil
}

// SetPrice updates the unit price. Administrator only; rejected once the
// sale is finalized.
func (e *Engine) SetPrice(caller string, newPrice uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.administrator {
		return ErrUnauthorized
	}
	if e.finalized {
		return ErrAlreadyFinalized
	}
	if newPrice == 0 {
		return ErrInvalidPrice
	}

	e.unitPrice = newPrice
	return nil
}

// AddToAllowList grants account purchase eligibility. Administrator only;
// re-adding an existing account is a no-op success.
func (e *Engine) AddToAllowList(caller, account string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.administrator {
		return ErrUnauthorized
	}
	if e.finalized {
		return ErrAlreadyFinalized
	}
	if account == "" {
		return fmt.Errorf("invalid account: empty")
	}

	e.allow[account] = struct{}{}
	return nil
}

// IsAllowed reports whether account may purchase.
func (e *Engine) IsAllowed(account string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.allow[account]
	return ok
}

// Price returns the current unit price.
func (e *Engine) Price() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unitPrice
}

// TokensSold returns the cumulative quantity sold.
func (e *Engine) TokensSold() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tokensSold
}

// PaymentCollected returns the payment accumulated through purchases.
func (e *Engine) PaymentCollected() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paymentCollected
}

// Finalized reports whether the sale has been finalized.
func (e *Engine) Finalized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finalized
}

// Token returns the ledger the engine sells from.
func (e *Engine) Token() Ledger { return e.token }

// Administrator returns the administrator account.
func (e *Engine) Administrator() string { return e.administrator }

// Account returns the engine's own account on both ledgers.
func (e *Engine) Account() string { return e.account }

// SaleCap returns the lifetime cumulative cap.
func (e *Engine) SaleCap() uint64 { return e.saleCap }

// Window returns the sale window [opening, closing] in Unix ms.
func (e *Engine) Window() (int64, int64) { return e.openingTime, e.closingTime }

// Snapshot captures the mutable engine state for persistence and display.
func (e *Engine) Snapshot() *domain.SaleSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return &domain.SaleSnapshot{
		UnitPrice:        e.unitPrice,
		TokensSold:       e.tokensSold,
		PaymentCollected: e.paymentCollected,
		Finalized:        e.finalized,
		UpdatedAt:        e.now(),
	}
}

// Restore loads a previously persisted snapshot. Intended for boot-time
// recovery before the engine serves traffic.
func (e *Engine) Restore(s *domain.SaleSnapshot) {
	if s == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if s.UnitPrice > 0 {
		e.unitPrice = s.UnitPrice
	}
	e.tokensSold = s.TokensSold
	e.paymentCollected = s.PaymentCollected
	e.finalized = s.Finalized
}

// RestoreAllowList loads persisted allow-list entries. Intended for
// boot-time recovery before the engine serves traffic.
func (e *Engine) RestoreAllowList(accounts []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, a := range accounts {
		if a != "" {
			e.allow[a] = struct{}{}
		}
	}
}

// emit appends an event after the corresponding mutation committed. Sink
// failures are logged, never propagated: the state change already happened.
func (e *Engine) emit(ctx context.Context, ev domain.SaleEvent) {
	if err := e.sink.Append(ctx, ev); err != nil {
		e.logger.Printf("append %s event %s: %v", ev.Kind, ev.EventID, err)
	}
}

// rollbackTransfer reverses an already-applied transfer during a failed
// multi-step operation. A rollback failure leaves the ledgers inconsistent
// with engine state and is logged loudly.
func (e *Engine) rollbackTransfer(l Ledger, from, to string, quantity uint64, label string) {
	if err := l.Transfer(from, to, quantity); err != nil {
		e.logger.Printf("ROLLBACK FAILED: %s transfer of %d from %s to %s: %v", label, quantity, from, to, err)
	}
}
