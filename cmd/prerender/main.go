package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"spacetraveling/framework/pagecache"
	"spacetraveling/framework/staticgen"
	"spacetraveling/internal/config"
	"spacetraveling/internal/gql"
	"spacetraveling/internal/logging"
	"spacetraveling/internal/web"
)

func main() {
	var outDir string
	var staticDir string
	var concurrency int

	flag.StringVar(&outDir, "out", "out", "directory that receives the generated site")
	flag.StringVar(&staticDir, "static", "", "static asset directory to copy (defaults to BLOG_STATIC_DIR)")
	flag.IntVar(&concurrency, "concurrency", 0, "pages rendered in parallel (defaults to BLOG_PRERENDER_CONCURRENCY)")
	flag.Parse()

	if err := run(outDir, staticDir, concurrency); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "prerender: %v\n", err)
		os.Exit(1)
	}
}

func run(outDir string, staticDir string, concurrency int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if staticDir == "" {
		staticDir = cfg.StaticDir
	}
	if concurrency < 1 {
		concurrency = cfg.PrerenderConcurrency
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	graphqlClient, _ := gql.NewClient(cfg)
	appCtx, err := web.NewAppContext(cfg, graphqlClient)
	if err != nil {
		return err
	}

	srv, err := web.NewServer(cfg, appCtx, pagecache.NewMemory(0), logger, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	started := time.Now()
	result, err := staticgen.Run(ctx, srv, staticgen.Config{
		OutDir:      outDir,
		StaticDir:   staticDir,
		Concurrency: concurrency,
	})
	if err != nil {
		return err
	}

	logger.Info("generated site",
		zap.String("out", outDir),
		zap.Int("pages", len(result.Pages)),
		zap.Int("assets", len(result.Assets)),
		zap.Duration("took", time.Since(started)),
	)
	return nil
}
