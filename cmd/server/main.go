package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/eatnsplit/internal/config"
	"github.com/mmynk/eatnsplit/internal/events"
	"github.com/mmynk/eatnsplit/internal/ledger"
	"github.com/mmynk/eatnsplit/internal/metrics"
	"github.com/mmynk/eatnsplit/internal/middleware"
	"github.com/mmynk/eatnsplit/internal/service"
	"github.com/mmynk/eatnsplit/internal/storage"
	"github.com/mmynk/eatnsplit/internal/storage/memory"
	"github.com/mmynk/eatnsplit/internal/storage/sqlite"
	"github.com/mmynk/eatnsplit/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid config", "error", err)
		os.Exit(1)
	}

	logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level))

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}

func run(cfg config.Config) error {
	store, err := openStore(cfg.Store.Backend)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.Store.Backend)

	coord := ledger.New(store, ledger.UUIDGenerator)
	if cfg.Ledger.SeedDemo {
		if err := coord.Seed(context.Background(), ledger.DemoRoster(cfg.Ledger.DefaultImage)); err != nil {
			return fmt.Errorf("failed to seed demo friends: %w", err)
		}
		slog.Info("Demo friends seeded", "count", len(ledger.DemoFriends))
	}

	publisher, err := openPublisher(cfg.AMQP)
	if err != nil {
		return err
	}
	defer publisher.Close()

	m := metrics.New()
	svc := service.NewLedgerService(coord,
		service.WithPublisher(publisher),
		service.WithMetrics(m),
	)

	mux := http.NewServeMux()
	path, handler := service.NewLedgerServiceHandler(svc,
		connect.WithInterceptors(middleware.LoggingInterceptor()),
	)
	mux.Handle(path, handler)
	svc.RegisterREST(mux)
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h := middleware.RequestID(middleware.Logging(middleware.CORS(mux)))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h2c.NewHandler(h, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(backend string) (storage.Store, error) {
	switch backend {
	case "sqlite":
		store, err := sqlite.New()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		return store, nil
	default:
		return memory.New(), nil
	}
}

func openPublisher(cfg config.AMQPConfig) (events.Publisher, error) {
	if cfg.URL == "" {
		slog.Info("AMQP disabled - ledger events will not be published")
		return events.Nop{}, nil
	}
	client, err := events.NewClient(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}
	slog.Info("AMQP client initialized", "exchange", cfg.Exchange)
	return client, nil
}
