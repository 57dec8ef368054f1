package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/trmc/internal/config"
	"github.com/aretw0/trmc/pkg/adapters/file"
	httpAdapter "github.com/aretw0/trmc/pkg/adapters/http"
	loamAdapter "github.com/aretw0/trmc/pkg/adapters/loam"
	redisAdapter "github.com/aretw0/trmc/pkg/adapters/redis"
	"github.com/aretw0/trmc/pkg/observability"
	"github.com/aretw0/trmc/pkg/persistence/middleware"
	"github.com/aretw0/trmc/pkg/ports"
)

// ServeOptions contains the configuration for the serve command.
type ServeOptions struct {
	Port string
	// Dir is the file store directory used when no Redis address is configured.
	Dir string
	// Library is an optional markdown program library mirrored into the store.
	Library string
	Redis   config.RedisConfig
	// EncryptionKey seals stored programs with AES-GCM when set (base64, 32 bytes).
	EncryptionKey   string
	ShutdownTimeout time.Duration
	Engine          EngineOptions
	Logger          *slog.Logger
}

// openStore picks Redis when an address is configured and the file store otherwise,
// sealing it when an encryption key is set.
func openStore(ctx context.Context, opts ServeOptions) (ports.ProgramStore, func() error, error) {
	store, closeStore, err := openBackend(ctx, opts)
	if err != nil || opts.EncryptionKey == "" {
		return store, closeStore, err
	}

	key, err := middleware.ParseKey(opts.EncryptionKey)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	return middleware.Chain(store, seal), closeStore, nil
}

func openBackend(ctx context.Context, opts ServeOptions) (ports.ProgramStore, func() error, error) {
	if opts.Redis.Addr == "" {
		return file.New(opts.Dir), func() error { return nil }, nil
	}

	var redisOpts []redisAdapter.Option
	if opts.Redis.Prefix != "" {
		redisOpts = append(redisOpts, redisAdapter.WithPrefix(opts.Redis.Prefix))
	}
	if opts.Redis.TTL > 0 {
		redisOpts = append(redisOpts, redisAdapter.WithTTL(opts.Redis.TTL))
	}
	store := redisAdapter.New(opts.Redis.Addr, opts.Redis.Password, opts.Redis.DB, redisOpts...)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", opts.Redis.Addr, err)
	}
	return store, store.Close, nil
}

// Serve runs the HTTP API until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, opts ServeOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	store, closeStore, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	if opts.Library != "" {
		lib, err := loamAdapter.Open(opts.Library)
		if err != nil {
			return err
		}
		n, err := SyncLibrary(ctx, lib, store)
		if err != nil {
			return err
		}
		logger.Info("program library loaded", "path", opts.Library, "programs", n)
		if err := WatchLibrary(ctx, lib, store, logger); err != nil {
			logger.Warn("library watch disabled", "error", err)
		}
	}

	metrics := observability.NewMetrics()
	engineOpts := opts.Engine
	engineOpts.Hooks = append(engineOpts.Hooks, metrics.Hooks())
	engine := createEngine(engineOpts, logger)

	handler, err := httpAdapter.NewHandler(engine,
		httpAdapter.WithStore(store),
		httpAdapter.WithMetrics(metrics),
		httpAdapter.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("trmc server listening", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", opts.ShutdownTimeout, err)
		}
		logger.Info("trmc server stopped gracefully")
		return nil
	}
}
