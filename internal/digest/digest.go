// Package digest composes fetching, classification and related-article lookup into one result.
package digest

import (
	"context"
	"log/slog"
	"time"

	"github.com/crucial707/district-digest/internal/classify"
	"github.com/crucial707/district-digest/internal/models"
	"github.com/crucial707/district-digest/internal/news"
)

// Fetcher returns the raw articles for a district and date.
type Fetcher interface {
	Fetch(ctx context.Context, district, date string) (news.FetchResult, error)
}

// RelatedFinder returns up to news.MaxRelated articles for a category.
type RelatedFinder interface {
	Related(ctx context.Context, category models.Category, from, to, district string, usedMock bool) []models.Article
}

// DefaultRelatedBudget bounds all related lookups of one Build. With the fetch chain
// (key check, primary and broad query at 5s each) a digest stays well under the
// server's 60s write timeout.
const DefaultRelatedBudget = 20 * time.Second

type Service struct {
	Fetcher Fetcher
	Related RelatedFinder
	// RelatedBudget caps the time spent on related lookups; zero means no cap.
	// Articles left when it runs out get the related mock articles.
	RelatedBudget time.Duration
}

func NewService(f Fetcher, r RelatedFinder) *Service {
	return &Service{Fetcher: f, Related: r, RelatedBudget: DefaultRelatedBudget}
}

// ForProvider wires a gateway and resolver that share one key check against p.
func ForProvider(p news.Provider, state string) *Service {
	keys := news.NewKeyValidator(p)
	return NewService(news.NewGateway(p, keys, state), news.NewResolver(p, keys))
}

// Build runs fetch, classify and related lookup for one district/date.
// A *news.InputError is returned unchanged so callers can map it to 400.
func (s *Service) Build(ctx context.Context, district, date string) (*models.Digest, error) {
	res, err := s.Fetcher.Fetch(ctx, district, date)
	if err != nil {
		return nil, err
	}

	classified := classify.Classify(res.Articles, district)

	relCtx := ctx
	if s.RelatedBudget > 0 {
		var cancel context.CancelFunc
		relCtx, cancel = context.WithTimeout(ctx, s.RelatedBudget)
		defer cancel()
	}

	skipped := 0
	for i := range classified {
		var related []models.Article
		if relCtx.Err() != nil {
			related = news.MockArticles(district, res.To, true)
			skipped++
		} else {
			related = s.Related.Related(relCtx, classified[i].Category, res.From, res.To, district, res.UsedMock)
		}
		if len(related) > news.MaxRelated {
			related = related[:news.MaxRelated]
		}
		if related == nil {
			related = []models.Article{}
		}
		classified[i].RelatedArticles = related
	}

	if skipped > 0 {
		slog.Warn("related lookup budget spent, using related mock articles",
			"district", district, "budget", s.RelatedBudget, "articles", skipped)
	}
	slog.Info("built digest", "district", district, "date", date,
		"fetched", len(res.Articles), "classified", len(classified), "mock", res.UsedMock)
	return &models.Digest{Articles: classified, IsMock: res.UsedMock}, nil
}
