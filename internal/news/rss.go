package news

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crucial707/district-digest/internal/models"
	"github.com/mmcdole/gofeed"
)

// DefaultRSSURL is the Google News RSS search endpoint.
const DefaultRSSURL = "https://news.google.com/rss/search"

const dateLayout = "2006-01-02"

// RSS searches a news RSS endpoint that takes a q parameter. It needs no API key.
type RSS struct {
	baseURL string
	parser  *gofeed.Parser
}

func NewRSS(baseURL string, timeout time.Duration) *RSS {
	if baseURL == "" {
		baseURL = DefaultRSSURL
	}
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	return &RSS{baseURL: baseURL, parser: p}
}

func (r *RSS) Name() string {
	return "rss"
}

func (r *RSS) Configured() bool {
	return true
}

func (r *RSS) Latest(ctx context.Context) error {
	_, err := r.parser.ParseURLWithContext(r.feedURL("crime"), ctx)
	if err != nil {
		return fmt.Errorf("rss latest: %w", err)
	}
	return nil
}

func (r *RSS) Search(ctx context.Context, q Query) Result {
	terms := q.Keywords
	from, fromErr := time.Parse(dateLayout, q.From)
	to, toErr := time.Parse(dateLayout, q.To)
	if fromErr == nil && toErr == nil {
		terms += " after:" + q.From + " before:" + to.AddDate(0, 0, 1).Format(dateLayout)
	}

	feed, err := r.parser.ParseURLWithContext(r.feedURL(terms), ctx)
	if err != nil {
		return failure(fmt.Errorf("rss fetch: %w", err))
	}

	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.PublishedParsed != nil && fromErr == nil && toErr == nil {
			pub := *item.PublishedParsed
			if pub.Before(from) || !pub.Before(to.AddDate(0, 0, 1)) {
				continue
			}
		}
		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}
		articles = append(articles, normalizeArticle(item.Title, stripHTML(item.Description), author, feed.Title, item.Published, item.Link))
	}

	if len(articles) == 0 {
		return Result{Outcome: Empty}
	}
	return Result{Outcome: Success, Articles: articles}
}

func (r *RSS) feedURL(terms string) string {
	params := url.Values{}
	params.Set("q", terms)
	params.Set("hl", "en-IN")
	params.Set("gl", "IN")
	params.Set("ceid", "IN:en")
	return r.baseURL + "?" + params.Encode()
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}
