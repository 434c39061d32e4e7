package news

import (
	"context"
	"log/slog"

	"github.com/crucial707/district-digest/internal/metrics"
	"github.com/crucial707/district-digest/internal/models"
)

// MaxRelated caps related articles per classified article.
const MaxRelated = 3

// Resolver finds articles related to a classified article's category.
type Resolver struct {
	Provider Provider
	Keys     *KeyValidator
}

func NewResolver(p Provider, keys *KeyValidator) *Resolver {
	return &Resolver{Provider: p, Keys: keys}
}

// Related searches for category over [from, to]. When the primary fetch used mocks, the key is
// invalid, or the provider fails, it returns the related mock articles instead.
func (r *Resolver) Related(ctx context.Context, category models.Category, from, to, district string, usedMock bool) []models.Article {
	if usedMock {
		slog.Debug("using mock articles for related articles", "category", category)
		return limit(MockArticles(district, to, true))
	}
	if !r.Keys.Valid(ctx) {
		slog.Error("no valid API key for related articles", "provider", r.Provider.Name())
		metrics.RecordMockFallback("related_no_key")
		return limit(MockArticles(district, to, true))
	}

	res := r.Provider.Search(ctx, Query{Keywords: string(category), From: from, To: to, Language: "en"})
	metrics.RecordProviderCall(r.Provider.Name(), res.Outcome.String())

	switch res.Outcome {
	case Success:
		slog.Debug("fetched related articles", "category", category, "count", len(res.Articles))
		return limit(res.Articles)
	case Empty:
		return []models.Article{}
	}

	slog.Error("failed to fetch related articles", "category", category, "outcome", res.Outcome.String(), "error", res.Err)
	metrics.RecordMockFallback("related_" + res.Outcome.String())
	return limit(MockArticles(district, to, true))
}

func limit(articles []models.Article) []models.Article {
	if len(articles) > MaxRelated {
		return articles[:MaxRelated]
	}
	return articles
}
