package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwrk-planet/draw-service/config"
	"github.com/cwrk-planet/draw-service/internal/registry"
	"github.com/cwrk-planet/draw-service/internal/service"
	"github.com/cwrk-planet/draw-service/internal/store"
	grpcx "github.com/cwrk-planet/draw-service/internal/transport/grpc"
	httpx "github.com/cwrk-planet/draw-service/internal/transport/http"
	"github.com/cwrk-planet/draw-service/internal/transport/ws"
	"github.com/cwrk-planet/logger/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting draw-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version,
		"store", cfg.Store.Backend)

	// --- path store ---
	ctx := context.Background()
	var paths store.PathStore
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := store.NewPool(ctx, cfg.Store.DSN())
		if err != nil {
			log.Fatalf("store: %v", err)
		}
		defer pool.Close()

		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("store: %v", err)
		}
		paths = pg
	default:
		paths = store.NewMemory()
	}

	// --- relay core ---
	reg := registry.New()
	relaySvc := service.NewRelayService(paths, reg)

	// --- WS Hub & Server ---
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, relaySvc)

	// --- HTTP ---
	handler := httpx.NewHandler(relaySvc)
	router := httpx.NewRouter(handler, wsServer)
	httpSrv := &http.Server{
		Addr:        cfg.HTTP.Addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// --- gRPC (health only) ---
	grpcServer := grpcx.New()

	// --- run both servers ---
	errCh := make(chan error, 2)

	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	go func() {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			errCh <- err
			return
		}
		slog.Info("grpc listen", "addr", cfg.GRPC.Addr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grpcServer.GracefulStop()
	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
