package ports

import (
	"context"

	"NewsDigest/internal/domain"
)

// ArticleSource pulls the current headlines from the news portal.
// Implementations never fail: problems degrade to an empty slice.
type ArticleSource interface {
	Fetch(ctx context.Context, limit int) []domain.Article
}

// Notifier delivers a formatted digest to the messaging provider.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}
