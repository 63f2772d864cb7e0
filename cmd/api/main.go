package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brace-api/internal/auth"
	"brace-api/internal/config"
	"brace-api/internal/db"
	"brace-api/internal/httpserver"
	"brace-api/internal/logger"
	"brace-api/internal/marketdata"
	"brace-api/internal/monitor"
	"brace-api/internal/orders"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	feed := marketdata.NewClient(cfg.PriceFeedURL, cfg.PriceQuoteSuffix, zlog.Named("pricefeed"))
	bus := marketdata.NewBus()
	quoteWS := marketdata.NewQuoteWS(bus, cfg.WebSocketOrigin)
	marketHandler := marketdata.NewHandler(feed, cfg.WatchSymbols, quoteWS)

	authSvc := auth.NewService(pool, cfg.JWTIssuer, []byte(cfg.JWTSecret), cfg.JWTTTL)
	authHandler := auth.NewHandler(authSvc)

	orderStore := orders.NewStore(pool)
	historyStore := orders.NewHistoryTable(pool)
	orderSvc := orders.NewService(orderStore, historyStore, feed, authSvc, zlog.Named("orders"))
	orderHandler := orders.NewHandler(orderSvc)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandler:   authHandler,
		OrderHandler:  orderHandler,
		MarketHandler: marketHandler,
		AuthService:   authSvc,
		Environment:   cfg.Environment,
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	marketdata.StartPublisher(ctx, bus, feed, cfg.WatchSymbols, 5*time.Second, zlog.Named("publisher"))

	if cfg.MonitorInterval > 0 {
		worker := monitor.NewWorker(orderStore, orderSvc, feed, cfg.MonitorInterval, zlog.Named("monitor"))
		go worker.Run(ctx)
	}

	zlog.Info("server listening", zap.String("addr", cfg.HTTPAddr), zap.String("environment", cfg.Environment))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
