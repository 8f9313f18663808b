package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"NewsDigest/internal/app"
	"NewsDigest/internal/config"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/usecase"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "print the digest instead of sending it")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()
	if *dryRun {
		cfg.Digest.DryRun = true
	}
	logger := logging.New(cfg.Logging.Level)

	logger.Info("news digest run started", "at", time.Now().Format("2006-01-02 15:04:05"), "dry_run", cfg.Digest.DryRun)

	if !cfg.Digest.DryRun {
		if err := cfg.Validate(); err != nil {
			logger.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
	}

	application := app.New(cfg, logger)

	digest, err := application.Run(ctx)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoArticles):
			logger.Error("no headlines fetched, nothing to send")
		case errors.Is(err, usecase.ErrDeliveryFailed):
			logger.Error("digest was not delivered", "error", err)
		default:
			logger.Error("run failed", "error", err)
		}
		os.Exit(1)
	}

	if cfg.Digest.DryRun {
		fmt.Println(digest)
	}
	logger.Info("news digest run finished")
}
