package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/jastip-settlement/pkg/api"
	"github.com/chris/jastip-settlement/pkg/bootstrap"
	"github.com/chris/jastip-settlement/pkg/config"
	"github.com/chris/jastip-settlement/pkg/handlers"
	"github.com/chris/jastip-settlement/pkg/idempotency"
	mw "github.com/chris/jastip-settlement/pkg/middleware"
	"github.com/chris/jastip-settlement/pkg/service"
	"github.com/chris/jastip-settlement/pkg/storage"
	"github.com/chris/jastip-settlement/pkg/storage/cache"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store storage.Storage
	store, closeStore, err := bootstrap.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher, err := bootstrap.OpenPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	rdb, closeRedis, err := bootstrap.OpenRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRedis()
	if rdb != nil {
		store = cache.New(store, rdb, cfg.OrderCacheTTL, logger)
	}

	schedule := cfg.Fees
	svc := service.New(store, service.Options{
		Schedule:          &schedule,
		PlatformAccountID: cfg.PlatformAccountID,
		Publisher:         publisher,
		Logger:            logger,
	})
	if err := svc.EnsurePlatformAccount(ctx); err != nil {
		return err
	}

	auth := mw.NewAuthenticator(cfg.JWTSecret)
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mw.NewStructuredLogger(logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)

		var opts api.ChiServerOptions
		if rdb != nil {
			if cfg.RateLimitPerMinute > 0 {
				r.Use(mw.RateLimit(rdb, cfg.RateLimitPerMinute, time.Minute, logger))
			}
			keys := idempotency.New(rdb, idempotency.DefaultTTL, logger)
			opts.Middlewares = []api.MiddlewareFunc{keys.Middleware}
		}
		opts.BaseRouter = r
		api.HandlerWithOptions(handlers.NewApiHandler(svc), opts)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.String("port", cfg.HTTPPort),
			slog.String("storage", cfg.StorageBackend),
			slog.String("events", cfg.EventsBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
