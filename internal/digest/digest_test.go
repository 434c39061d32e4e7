package digest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/crucial707/district-digest/internal/models"
	"github.com/crucial707/district-digest/internal/news"
	"github.com/go-playground/assert/v2"
)

type stubFetcher struct {
	res news.FetchResult
	err error
}

func (s stubFetcher) Fetch(context.Context, string, string) (news.FetchResult, error) {
	return s.res, s.err
}

type stubRelated struct {
	articles []models.Article
	calls    []models.Category
}

func (s *stubRelated) Related(_ context.Context, c models.Category, _, _, _ string, _ bool) []models.Article {
	s.calls = append(s.calls, c)
	return s.articles
}

// offlineProvider has no API key, so every fetch ends in mocks without a network call.
type offlineProvider struct{ searches int }

func (p *offlineProvider) Name() string                 { return "offline" }
func (p *offlineProvider) Configured() bool             { return false }
func (p *offlineProvider) Latest(context.Context) error { return errors.New("no key") }
func (p *offlineProvider) Search(context.Context, news.Query) news.Result {
	p.searches++
	return news.Result{Outcome: news.ProviderError}
}

func TestBuild_MocksWithoutKey(t *testing.T) {
	p := &offlineProvider{}
	svc := ForProvider(p, "")

	d, err := svc.Build(context.Background(), "Guntur", "2024-01-15")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	assert.Equal(t, true, d.IsMock)
	assert.Equal(t, 0, p.searches)
	assert.Equal(t, 2, len(d.Articles))

	mocks := news.MockArticles("Guntur", "2024-01-15", false)
	for i, a := range d.Articles {
		assert.Equal(t, mocks[i], a.Article)
		assert.Equal(t, "Guntur", a.District)
		assert.Equal(t, news.MockArticles("Guntur", "2024-01-15", true), a.RelatedArticles)
	}
	assert.Equal(t, models.CategoryTheft, d.Articles[0].Category)
	assert.Equal(t, models.CategoryPublicNoise, d.Articles[1].Category)
}

func TestBuild_InputErrorPassesThrough(t *testing.T) {
	p := &offlineProvider{}
	svc := ForProvider(p, "")

	_, err := svc.Build(context.Background(), "Guntur", "not-a-date")
	var inputErr *news.InputError
	assert.Equal(t, true, errors.As(err, &inputErr))
	assert.Equal(t, 0, p.searches)
}

func TestBuild_RelatedPerArticleCapped(t *testing.T) {
	fetched := news.FetchResult{
		Articles: []models.Article{
			{Title: "Police arrest burglars", Description: "theft ring broken"},
			{Title: "Sports", Description: "unrelated"},
			{Title: "Investigation opened", Description: ""},
		},
		From: "2023-12-16",
		To:   "2024-01-15",
	}
	rel := &stubRelated{articles: []models.Article{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}}}
	svc := NewService(stubFetcher{res: fetched}, rel)

	d, err := svc.Build(context.Background(), "Krishna", "2024-01-15")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	assert.Equal(t, false, d.IsMock)
	assert.Equal(t, 2, len(d.Articles))
	assert.Equal(t, []models.Category{models.CategoryTheft, models.CategoryCrime}, rel.calls)
	for _, a := range d.Articles {
		assert.Equal(t, news.MaxRelated, len(a.RelatedArticles))
	}
}

func TestBuild_NoRelatedIsEmptyList(t *testing.T) {
	fetched := news.FetchResult{Articles: []models.Article{{Title: "Crime report"}}}
	svc := NewService(stubFetcher{res: fetched}, &stubRelated{})

	d, err := svc.Build(context.Background(), "Krishna", "2024-01-15")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d.Articles[0].RelatedArticles == nil {
		t.Fatal("related_articles must encode as a list")
	}
}

// stallingRelated waits for the lookup context to end, like a provider that never answers.
type stallingRelated struct{ calls int }

func (s *stallingRelated) Related(ctx context.Context, _ models.Category, _, to, district string, _ bool) []models.Article {
	s.calls++
	<-ctx.Done()
	return news.MockArticles(district, to, true)
}

func TestBuild_RelatedBudget(t *testing.T) {
	var articles []models.Article
	for i := 0; i < 6; i++ {
		articles = append(articles, models.Article{Title: fmt.Sprintf("Police arrest suspect %d", i), Description: "theft in Guntur"})
	}
	related := &stallingRelated{}
	svc := NewService(stubFetcher{res: news.FetchResult{Articles: articles, From: "2023-12-16", To: "2024-01-15"}}, related)
	svc.RelatedBudget = 50 * time.Millisecond

	start := time.Now()
	d, err := svc.Build(context.Background(), "Guntur", "2024-01-15")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Build took %v; related lookups were not bounded", elapsed)
	}

	assert.Equal(t, 1, related.calls)
	assert.Equal(t, false, d.IsMock)
	assert.Equal(t, 6, len(d.Articles))
	want := news.MockArticles("Guntur", "2024-01-15", true)
	for _, a := range d.Articles {
		assert.Equal(t, want, a.RelatedArticles)
	}
}
