package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"blackjack-lite/apps/server/internal/config"
	"blackjack-lite/apps/server/internal/gateway"
	"blackjack-lite/apps/server/internal/httpapi"
	"blackjack-lite/apps/server/internal/ledger"
	"blackjack-lite/apps/server/internal/telemetry"
	"blackjack-lite/blackjack"
	"blackjack-lite/gesture"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "blackjack-lite", cfg.OTel.Endpoint, cfg.OTel.Enabled)
	if err != nil {
		log.Printf("[Server] Tracing disabled: %v", err)
	}

	ledgerService, ledgerMode, err := ledger.NewService(cfg.Ledger.Mode, cfg.Ledger.DatabasePath, cfg.Ledger.DatabaseDSN, cfg.Ledger.RecentLimit)
	if err != nil {
		log.Fatalf("[Server] Failed to init ledger service: %v", err)
	}

	engineCfg := blackjack.DefaultConfig()
	engineCfg.StartingBalance = cfg.StartingBalance
	store := blackjack.NewStore(engineCfg.StartingBalance)
	engine, err := blackjack.NewEngine(engineCfg, store)
	if err != nil {
		log.Fatalf("[Server] Failed to init engine: %v", err)
	}
	engine.OnRoundSettled(ledger.Recorder(ledgerService))

	detector, err := gesture.NewSimulator(gesture.DefaultConfig())
	if err != nil {
		log.Fatalf("[Server] Failed to init gesture detector: %v", err)
	}

	janitor := blackjack.NewJanitor(store, cfg.JanitorInterval, cfg.SessionMaxAge)
	janitorDone := make(chan struct{})
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	go func() {
		defer close(janitorDone)
		janitor.Run(janitorCtx)
	}()

	router := httpapi.NewRouter(httpapi.NewHandler(engine, detector, cfg.MaxBet), ledgerService, cfg.AllowedOrigins)
	gw := gateway.New(engine, detector, httpapi.SessionID, gateway.Options{
		MaxBet:         cfg.MaxBet,
		GesturePoll:    cfg.GesturePoll,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	router.HandleFunc("/ws", gw.HandleWebSocket)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[Server] Ledger mode: %s", ledgerMode)
	log.Printf("[Server] Tracing: %v", cfg.OTelActive())
	log.Printf("[Server] Starting HTTP/WebSocket server on %s", cfg.Addr)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Server] Failed to serve: %v", err)
		}
	case <-ctx.Done():
		log.Printf("[Server] Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] HTTP shutdown: %v", err)
	}
	gw.CloseAll()

	stopJanitor()
	<-janitorDone

	if err := engine.WaitHooks(shutdownCtx); err != nil {
		log.Printf("[Server] Round hooks still running: %v", err)
	}
	if err := ledgerService.Close(); err != nil {
		log.Printf("[Server] Ledger close: %v", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("[Server] Tracing shutdown: %v", err)
	}
}
