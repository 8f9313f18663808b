package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"NewsDigest/internal/ports"
)

var (
	// ErrNoArticles means the listing yielded nothing, so there is nothing to deliver.
	ErrNoArticles = errors.New("no articles fetched")
	// ErrDeliveryFailed wraps any notifier failure.
	ErrDeliveryFailed = errors.New("digest delivery failed")
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source   ports.ArticleSource
	Notifier ports.Notifier
	Limit    int
	DryRun   bool
	Logger   *slog.Logger
}

// Pipeline implements the fetch, format, deliver run.
type Pipeline struct {
	source   ports.ArticleSource
	notifier ports.Notifier
	limit    int
	dryRun   bool
	logger   *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	limit := deps.Limit
	if limit < 1 {
		limit = 10
	}
	return &Pipeline{
		source:   deps.Source,
		notifier: deps.Notifier,
		limit:    limit,
		dryRun:   deps.DryRun,
		logger:   deps.Logger,
	}
}

// Run fetches the headlines once and delivers them as a single digest.
// It returns the digest that was (or, in dry-run mode, would have been) sent.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	if p.source == nil {
		return "", fmt.Errorf("article source is not configured")
	}

	p.info("fetching headlines", "limit", p.limit)
	articles := p.source.Fetch(ctx, p.limit)
	if len(articles) == 0 {
		return "", ErrNoArticles
	}
	p.info("headlines fetched", "count", len(articles))

	digest := FormatDigest(articles)

	if p.dryRun {
		p.info("dry run, skipping delivery")
		return digest, nil
	}

	if p.notifier == nil {
		return digest, fmt.Errorf("%w: notifier is not configured", ErrDeliveryFailed)
	}

	p.info("delivering digest")
	if err := p.notifier.PublishDigest(ctx, digest); err != nil {
		return digest, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	return digest, nil
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
