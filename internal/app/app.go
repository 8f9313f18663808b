package app

import (
	"context"
	"log/slog"

	"NewsDigest/internal/config"
	"NewsDigest/internal/infrastructure/kakao"
	"NewsDigest/internal/infrastructure/parser"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/scanner"
	"NewsDigest/internal/usecase"
)

// Application wires configs to use cases.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	notifier *kakao.Notifier
	pipeline *usecase.Pipeline
}

// New builds a runnable single-shot application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewNaverScanner(nil, parser.NaverOptions{
		Origin:    cfg.Source.Origin,
		UserAgent: cfg.Source.UserAgent,
		Timeout:   cfg.Source.Timeout,
	}, baseLogger.With("component", "scanner.naver")))

	source := parser.NewStrategySource(registry, cfg.Source, baseLogger.With("component", "source"))

	notifier := kakao.NewNotifier(kakao.Config{
		ClientID:      cfg.Kakao.ClientID,
		ClientSecret:  cfg.Kakao.ClientSecret,
		RefreshToken:  cfg.Kakao.RefreshToken,
		TokenURL:      cfg.Kakao.TokenURL,
		MessageURL:    cfg.Kakao.MessageURL,
		LinkURL:       cfg.Kakao.LinkURL,
		ButtonTitle:   cfg.Kakao.ButtonTitle,
		Timeout:       cfg.Kakao.Timeout,
		RatePerSecond: cfg.Kakao.RatePerSec,
	}, baseLogger.With("component", "notifier.kakao"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:   source,
		Notifier: notifier,
		Limit:    cfg.Digest.Limit,
		DryRun:   cfg.Digest.DryRun,
		Logger:   baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		notifier: notifier,
		pipeline: pipeline,
	}
}

// Run performs one fetch-and-deliver pass and returns the digest it produced.
func (a *Application) Run(ctx context.Context) (string, error) {
	digest, err := a.pipeline.Run(ctx)

	// The in-memory rotation dies with the process; the operator has to persist it.
	if rotated := a.notifier.RefreshToken(); rotated != a.cfg.Kakao.RefreshToken {
		a.logger.Warn("kakao refresh token was rotated; update KAKAO_REFRESH_TOKEN before the next run")
	}

	return digest, err
}
