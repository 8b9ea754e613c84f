package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"spacetraveling/framework/engine"
	"spacetraveling/framework/pagecache"
	"spacetraveling/internal/config"
	"spacetraveling/internal/gql"
	"spacetraveling/internal/logging"
	"spacetraveling/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "spacetraveling: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	graphqlClient, refs := gql.NewClient(cfg)
	appCtx, err := web.NewAppContext(cfg, graphqlClient)
	if err != nil {
		return err
	}

	pages, err := openPageStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := pages.Close(); err != nil {
			logger.Warn("close page store", zap.Error(err))
		}
	}()

	srv, err := web.NewServer(cfg, appCtx, pages, logger, refs.Invalidate)
	if err != nil {
		return fmt.Errorf("handler setup failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PrerenderOnStart {
		go prerender(ctx, logger, srv, cfg.PrerenderConcurrency)
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ListenAddr), zap.String("page_cache", cfg.PageCache))
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

type generator interface {
	Generate(ctx context.Context, opts engine.GenerateOptions) (engine.GenerateReport, error)
}

func prerender(ctx context.Context, logger *zap.Logger, gen generator, concurrency int) {
	started := time.Now()
	report, err := gen.Generate(ctx, engine.GenerateOptions{Concurrency: concurrency})
	if err != nil {
		logger.Error("prerender", zap.Error(err))
		return
	}
	logger.Info("prerendered pages", zap.Int("count", len(report.Paths)), zap.Duration("took", time.Since(started)))
}

func openPageStore(cfg config.Config, logger *zap.Logger) (pagecache.Store, error) {
	switch cfg.PageCache {
	case config.PageCacheBadger:
		return pagecache.OpenBadger(cfg.PageCacheDir, cfg.PageCacheTTL, logger)
	case config.PageCacheRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return pagecache.NewRedis(rdb, cfg.RedisKeyPrefix, cfg.PageCacheTTL), nil
	default:
		return pagecache.NewMemory(cfg.PageCacheTTL), nil
	}
}
