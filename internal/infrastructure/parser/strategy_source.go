package parser

import (
	"context"
	"log/slog"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/scanner"
)

// StrategySource implements ArticleSource via a registered scanner strategy.
type StrategySource struct {
	registry *scanner.Registry
	site     config.SourceConfig
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with the config-defined site.
func NewStrategySource(reg *scanner.Registry, site config.SourceConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		site:     site,
		logger:   log,
	}
}

// Fetch runs the site's scanner and returns at most limit articles.
// Failures are logged and produce an empty slice so a broken listing only skips delivery.
func (s *StrategySource) Fetch(ctx context.Context, limit int) []domain.Article {
	if limit < 1 {
		limit = 1
	}
	if s.registry == nil {
		s.warn("scanner registry is not configured")
		return []domain.Article{}
	}

	strategy, err := s.registry.Resolve(s.site.Scanner)
	if err != nil {
		s.warn("resolve scanner failed", "site", s.site.Name, "error", err)
		return []domain.Article{}
	}

	s.debug("fetch listing", "site", s.site.Name, "scanner", s.site.Scanner, "limit", limit)

	results, err := strategy.Scan(ctx, scanner.Request{
		SiteName: s.site.Name,
		URL:      s.site.URL,
		Query:    s.site.Query,
		Limit:    limit,
	})
	if err != nil {
		s.warn("fetch listing failed", "site", s.site.Name, "error", err)
		return []domain.Article{}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []domain.Article{}
	}

	s.debug("site produced articles", "site", s.site.Name, "count", len(results))
	return results
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
