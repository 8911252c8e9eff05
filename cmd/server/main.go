// Package main provides the crowdsale HTTP server: it hosts the sale
// engine, both ledgers, the event fan-out (log, WebSocket hub, optional
// Kafka and ClickHouse archive), and Prometheus metrics.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"crowdsale/internal/addr"
	"crowdsale/internal/domain"
	"crowdsale/internal/events"
	evkafka "crowdsale/internal/events/kafka"
	"crowdsale/internal/observability"
	"crowdsale/internal/sale"
	"crowdsale/internal/storage"
	chstore "crowdsale/internal/storage/clickhouse"
	"crowdsale/internal/storage/memory"
	"crowdsale/internal/storage/migrations"
	pgstore "crowdsale/internal/storage/postgres"
	"crowdsale/internal/token"
)

// Server holds all components of the crowdsale service.
type Server struct {
	engine   *sale.Engine
	tokenLed *token.Ledger
	payLed   *token.Ledger

	paymentTreasury string
	strictAddresses bool
	started         time.Time

	stateStore storage.SaleStateStore
	allowStore storage.AllowListStore
	eventLog   *events.Log
	hub        *events.Hub

	logger *log.Logger
}

// saleStores holds the persistence backends the engine is wired to.
type saleStores struct {
	receiptStore storage.ReceiptStore
	allowStore   storage.AllowListStore
	stateStore   storage.SaleStateStore
	archiveStore storage.EventArchiveStore // nil without ClickHouse
}

func main() {
	// Load .env file if exists; system env vars win.
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	addrFlag := flag.String("addr", envOr("SERVER_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional event archive)")
	kafkaBrokers := flag.String("kafka-brokers", os.Getenv("KAFKA_BROKERS"), "Comma-separated Kafka brokers (optional event publisher)")
	kafkaTopic := flag.String("kafka-topic", envOr("KAFKA_TOPIC", evkafka.DefaultTopic), "Kafka topic for sale events")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")

	admin := flag.String("admin", os.Getenv("SALE_ADMIN"), "Administrator account")
	engineAccount := flag.String("engine-account", envOr("SALE_ACCOUNT", "crowdsale"), "Engine account on both ledgers")
	unitPrice := flag.Uint64("unit-price", envUint("SALE_UNIT_PRICE", 1), "Payment units per token unit")
	saleCap := flag.Uint64("sale-cap", envUint("SALE_CAP", 1_000_000), "Maximum cumulative tokens sellable")
	minPurchase := flag.Uint64("min-purchase", envUint("SALE_MIN_PURCHASE", 1), "Per-purchase minimum quantity")
	maxPurchase := flag.Uint64("max-purchase", envUint("SALE_MAX_PURCHASE", 0), "Per-purchase maximum quantity (0 disables)")
	openingTime := flag.Int64("opening-time", 0, "Sale window start, Unix ms (default: now)")
	closingTime := flag.Int64("closing-time", 0, "Sale window end, Unix ms (default: now+24h)")

	tokenName := flag.String("token-name", envOr("TOKEN_NAME", "Dapp Token"), "Token name")
	tokenSymbol := flag.String("token-symbol", envOr("TOKEN_SYMBOL", "DAPP"), "Token symbol")
	tokenDecimals := flag.Uint("token-decimals", uint(envUint("TOKEN_DECIMALS", 0)), "Token decimal places")
	tokenSupply := flag.Uint64("token-supply", envUint("TOKEN_SUPPLY", 1_000_000), "Token total supply, base units")
	paymentSupply := flag.Uint64("payment-supply", envUint("PAYMENT_SUPPLY", 1_000_000_000), "Payment ledger total supply, base units")
	paymentTreasury := flag.String("payment-treasury", envOr("PAYMENT_TREASURY", "treasury"), "Payment ledger treasury account (faucet source)")

	strictAddresses := flag.Bool("strict-addresses", false, "Require base58 ed25519 account addresses")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if *admin == "" {
		logger.Fatal("--admin is required")
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	now := time.Now().UnixMilli()
	opening := *openingTime
	closing := *closingTime
	if opening == 0 {
		opening = now
	}
	if closing == 0 {
		closing = now + 24*time.Hour.Milliseconds()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create stores
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Create ledgers: the full token supply is seeded to the engine account,
	// the payment supply to the faucet treasury.
	tokenLed := token.NewLedger(*tokenName, *tokenSymbol, uint8(*tokenDecimals), *tokenSupply, *engineAccount)
	payLed := token.NewLedger("Native Coin", "COIN", uint8(*tokenDecimals), *paymentSupply, *paymentTreasury)

	// Create event sinks
	eventLog := events.NewLog()
	hub := events.NewHub(events.DefaultHubConfig(), logger)
	sinks := []events.Sink{eventLog, hub}

	if *kafkaBrokers != "" {
		pub := evkafka.NewPublisher(strings.Split(*kafkaBrokers, ","), *kafkaTopic)
		defer pub.Close()
		sinks = append(sinks, pub)
		logger.Printf("Publishing events to Kafka topic %q via %s", *kafkaTopic, *kafkaBrokers)
	}
	if stores.archiveStore != nil {
		sinks = append(sinks, events.NewArchiveSink(stores.archiveStore))
	}
	fanout := events.NewFanout(logger, sinks...)

	// Create engine
	engine, err := sale.NewEngine(sale.Config{
		Administrator: *admin,
		Account:       *engineAccount,
		UnitPrice:     *unitPrice,
		SaleCap:       *saleCap,
		MinPurchase:   *minPurchase,
		MaxPurchase:   *maxPurchase,
		OpeningTime:   opening,
		ClosingTime:   closing,
	}, tokenLed, payLed, stores.receiptStore, fanout, nil, logger)
	if err != nil {
		logger.Fatalf("Failed to create engine: %v", err)
	}

	// Restore persisted state before serving traffic
	if err := restoreState(ctx, engine, stores, logger); err != nil {
		logger.Fatalf("Failed to restore state: %v", err)
	}

	server := &Server{
		engine:          engine,
		tokenLed:        tokenLed,
		payLed:          payLed,
		paymentTreasury: *paymentTreasury,
		strictAddresses: *strictAddresses,
		started:         time.Now(),
		stateStore:      stores.stateStore,
		allowStore:      stores.allowStore,
		eventLog:        eventLog,
		hub:             hub,
		logger:          logger,
	}

	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: server.routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		hub.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Sale window [%d, %d] ms, cap %d, unit price %d", opening, closing, *saleCap, *unitPrice)
	logger.Printf("Starting HTTP server on %s", *addrFlag)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*saleStores, func(), error) {
	if useMemory {
		stores := &saleStores{
			receiptStore: memory.NewReceiptStore(),
			allowStore:   memory.NewAllowListStore(),
			stateStore:   memory.NewSaleStateStore(),
			archiveStore: memory.NewEventArchiveStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("apply postgres migrations: %w", err)
	}

	stores := &saleStores{
		receiptStore: pgstore.NewReceiptStore(pool),
		allowStore:   pgstore.NewAllowListStore(pool),
		stateStore:   pgstore.NewSaleStateStore(pool),
	}
	cleanup := func() { pool.Close() }

	// ClickHouse event archive is optional
	if clickhouseDSN != "" {
		chConn, err := chstore.NewConn(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		if err := migrations.RunClickhouseMigrations(ctx, chConn); err != nil {
			chConn.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("apply clickhouse migrations: %w", err)
		}
		stores.archiveStore = chstore.NewEventArchiveStore(chConn)
		cleanup = func() {
			chConn.Close()
			pool.Close()
		}
	}

	return stores, cleanup, nil
}

// restoreState loads the persisted snapshot and allow-list into the engine.
func restoreState(ctx context.Context, engine *sale.Engine, stores *saleStores, logger *log.Logger) error {
	snap, err := stores.stateStore.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("load snapshot: %w", err)
		}
	} else {
		engine.Restore(snap)
		logger.Printf("Restored snapshot: sold=%d collected=%d finalized=%t", snap.TokensSold, snap.PaymentCollected, snap.Finalized)
	}

	accounts, err := stores.allowStore.List(ctx)
	if err != nil {
		return fmt.Errorf("load allow list: %w", err)
	}
	engine.RestoreAllowList(accounts)
	if len(accounts) > 0 {
		logger.Printf("Restored %d allow-list entries", len(accounts))
	}
	return nil
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /purchase", s.instrument("/purchase", s.handlePurchase))
	mux.HandleFunc("POST /purchase/direct", s.instrument("/purchase/direct", s.handlePurchaseDirect))
	mux.HandleFunc("POST /admin/price", s.instrument("/admin/price", s.handleSetPrice))
	mux.HandleFunc("POST /admin/allowlist", s.instrument("/admin/allowlist", s.handleAddToAllowList))
	mux.HandleFunc("POST /admin/finalize", s.instrument("/admin/finalize", s.handleFinalize))
	mux.HandleFunc("POST /faucet", s.instrument("/faucet", s.handleFaucet))

	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /balance", s.handleBalance)
	mux.HandleFunc("GET /allowed", s.handleAllowed)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.Handle("GET /ws", s.hub)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())

	return mux
}

// instrument wraps a handler with request duration metrics.
func (s *Server) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		observability.RecordHTTPRequest(path, strconv.Itoa(sw.status), time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

type purchaseRequest struct {
	Buyer    string `json:"buyer"`
	Quantity uint64 `json:"quantity"`
	Payment  uint64 `json:"payment"`
}

// handlePurchase processes an explicit quantity purchase.
func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.checkAddress(req.Buyer); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	receipt, err := s.engine.Purchase(r.Context(), req.Buyer, req.Quantity, req.Payment)
	if err != nil {
		observability.RecordRejection(rejectionReason(err))
		writeSaleError(w, err)
		return
	}
	observability.RecordPurchase(s.engine.TokensSold(), s.engine.PaymentCollected(), time.Since(start).Seconds())
	observability.RecordEventEmitted(string(domain.EventPurchase))

	s.persistSnapshot(r.Context())
	writeJSON(w, http.StatusOK, receipt)
}

// handlePurchaseDirect processes an unsolicited payment; quantity is derived
// from the payment amount.
func (s *Server) handlePurchaseDirect(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.checkAddress(req.Buyer); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	receipt, err := s.engine.PurchaseDirect(r.Context(), req.Buyer, req.Payment)
	if err != nil {
		observability.RecordRejection(rejectionReason(err))
		writeSaleError(w, err)
		return
	}
	observability.RecordPurchase(s.engine.TokensSold(), s.engine.PaymentCollected(), time.Since(start).Seconds())
	observability.RecordEventEmitted(string(domain.EventPurchase))

	s.persistSnapshot(r.Context())
	writeJSON(w, http.StatusOK, receipt)
}

type adminRequest struct {
	Caller  string `json:"caller"`
	Price   uint64 `json:"price,omitempty"`
	Account string `json:"account,omitempty"`
}

// handleSetPrice updates the unit price.
func (s *Server) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.engine.SetPrice(req.Caller, req.Price); err != nil {
		writeSaleError(w, err)
		return
	}

	s.persistSnapshot(r.Context())
	writeJSON(w, http.StatusOK, map[string]uint64{"price": s.engine.Price()})
}

// handleAddToAllowList grants purchase eligibility to an account.
func (s *Server) handleAddToAllowList(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.checkAddress(req.Account); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.engine.AddToAllowList(req.Caller, req.Account); err != nil {
		writeSaleError(w, err)
		return
	}

	if err := s.allowStore.Add(r.Context(), req.Account, time.Now().UnixMilli()); err != nil {
		s.logger.Printf("persist allow-list entry %s: %v", req.Account, err)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"allowed": true})
}

// handleFinalize closes the sale and sweeps inventory and proceeds to the
// administrator.
func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.engine.Finalize(r.Context(), req.Caller); err != nil {
		writeSaleError(w, err)
		return
	}
	observability.RecordFinalize(s.engine.TokensSold(), s.engine.PaymentCollected())
	observability.RecordEventEmitted(string(domain.EventFinalize))

	s.persistSnapshot(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"finalized":         true,
		"tokens_sold":       s.engine.TokensSold(),
		"payment_collected": s.engine.PaymentCollected(),
	})
}

type faucetRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

// handleFaucet funds an account from the payment treasury so it can buy.
func (s *Server) handleFaucet(w http.ResponseWriter, r *http.Request) {
	var req faucetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.checkAddress(req.Account); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.payLed.Transfer(s.paymentTreasury, req.Account, req.Amount); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"balance": s.payLed.BalanceOf(req.Account)})
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	TokenName        string `json:"token_name"`
	TokenSymbol      string `json:"token_symbol"`
	UnitPrice        uint64 `json:"unit_price"`
	SaleCap          uint64 `json:"sale_cap"`
	TokensSold       uint64 `json:"tokens_sold"`
	PaymentCollected uint64 `json:"payment_collected"`
	Inventory        uint64 `json:"inventory"`
	Finalized        bool   `json:"finalized"`
	OpeningTime      int64  `json:"opening_time_ms"`
	ClosingTime      int64  `json:"closing_time_ms"`
	Subscribers      int    `json:"subscribers"`
	Events           int    `json:"events"`
}

// handleStatus returns sale status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	opening, closing := s.engine.Window()
	info := s.tokenLed.Info()

	observability.UpdateSubscribers(s.hub.SubscriberCount())

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:           "running",
		Uptime:           time.Since(s.started).String(),
		TokenName:        info.Name,
		TokenSymbol:      info.Symbol,
		UnitPrice:        s.engine.Price(),
		SaleCap:          s.engine.SaleCap(),
		TokensSold:       s.engine.TokensSold(),
		PaymentCollected: s.engine.PaymentCollected(),
		Inventory:        s.tokenLed.BalanceOf(s.engine.Account()),
		Finalized:        s.engine.Finalized(),
		OpeningTime:      opening,
		ClosingTime:      closing,
		Subscribers:      s.hub.SubscriberCount(),
		Events:           s.eventLog.Len(),
	})
}

// handleBalance returns token and payment balances for an account.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		writeError(w, http.StatusBadRequest, "account query parameter required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{
		"token":   s.tokenLed.BalanceOf(account),
		"payment": s.payLed.BalanceOf(account),
	})
}

// handleAllowed reports allow-list membership for an account.
func (s *Server) handleAllowed(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		writeError(w, http.StatusBadRequest, "account query parameter required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"allowed": s.engine.IsAllowed(account)})
}

// handleEvents returns the most recent sale events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	evs := s.eventLog.Recent(limit)
	if evs == nil {
		evs = []domain.SaleEvent{}
	}
	writeJSON(w, http.StatusOK, evs)
}

// persistSnapshot saves the current engine snapshot; failures are logged
// since the in-memory state is already committed.
func (s *Server) persistSnapshot(ctx context.Context) {
	if err := s.stateStore.Save(ctx, s.engine.Snapshot()); err != nil {
		s.logger.Printf("persist snapshot: %v", err)
	}
}

// checkAddress validates an account identifier when strict addressing is on.
func (s *Server) checkAddress(account string) error {
	if account == "" {
		return errors.New("account required")
	}
	if !s.strictAddresses {
		return nil
	}
	if err := addr.Validate(account); err != nil {
		return fmt.Errorf("account %q: %w", account, err)
	}
	return nil
}

// rejectionReason maps a purchase error to a metrics label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, sale.ErrSaleClosed):
		return "sale_closed"
	case errors.Is(err, sale.ErrNotAllowed):
		return "not_allowed"
	case errors.Is(err, sale.ErrPaymentMismatch):
		return "payment_mismatch"
	case errors.Is(err, sale.ErrBelowMinimum):
		return "below_minimum"
	case errors.Is(err, sale.ErrAboveMaximum):
		return "above_maximum"
	case errors.Is(err, sale.ErrCapExceeded):
		return "cap_exceeded"
	case errors.Is(err, sale.ErrInsufficientInventory):
		return "insufficient_inventory"
	case errors.Is(err, token.ErrInsufficientBalance):
		return "insufficient_funds"
	default:
		return "other"
	}
}

// writeSaleError maps engine errors to HTTP status codes plus a stable
// machine-readable kind.
func writeSaleError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.Is(err, sale.ErrUnauthorized):
		status, kind = http.StatusForbidden, "unauthorized"
	case errors.Is(err, sale.ErrNotAllowed):
		status, kind = http.StatusForbidden, "not_allowed"
	case errors.Is(err, sale.ErrPaymentMismatch):
		status, kind = http.StatusBadRequest, "payment_mismatch"
	case errors.Is(err, sale.ErrBelowMinimum):
		status, kind = http.StatusBadRequest, "below_minimum"
	case errors.Is(err, sale.ErrAboveMaximum):
		status, kind = http.StatusBadRequest, "above_maximum"
	case errors.Is(err, sale.ErrInvalidPrice):
		status, kind = http.StatusBadRequest, "invalid_price"
	case errors.Is(err, sale.ErrSaleClosed):
		status, kind = http.StatusConflict, "sale_closed"
	case errors.Is(err, sale.ErrAlreadyFinalized):
		status, kind = http.StatusConflict, "already_finalized"
	case errors.Is(err, sale.ErrCapExceeded):
		status, kind = http.StatusConflict, "cap_exceeded"
	case errors.Is(err, sale.ErrInsufficientInventory):
		status, kind = http.StatusConflict, "insufficient_inventory"
	case errors.Is(err, token.ErrInsufficientBalance):
		status, kind = http.StatusPaymentRequired, "insufficient_funds"
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// envOr returns the env var value or a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envUint returns the env var parsed as uint64 or a default.
func envUint(key string, def uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
