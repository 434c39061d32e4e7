// Package news fetches crime articles for a district from a news provider
// and falls back to deterministic mock articles whenever live data is unavailable.
package news

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/crucial707/district-digest/internal/models"
)

// Placeholders substituted for missing provider fields.
const (
	NoTitle       = "No Title"
	UnknownSource = "Unknown"
	UnknownDate   = "Unknown Date"
)

// Query is one provider search over a [From, To] window of YYYY-MM-DD dates.
type Query struct {
	Keywords string
	From     string
	To       string
	Language string
}

// Outcome classifies a provider call so callers can pick the next fallback stage.
type Outcome int

const (
	Success Outcome = iota
	Timeout
	ProviderError
	Empty
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Timeout:
		return "timeout"
	case ProviderError:
		return "provider_error"
	case Empty:
		return "empty"
	}
	return "unknown"
}

// Result is the outcome of one provider call. Articles are only set on Success.
type Result struct {
	Outcome  Outcome
	Articles []models.Article
	Err      error
}

// Provider is a news search backend.
type Provider interface {
	Name() string
	// Configured reports whether the provider has what it needs (e.g. an API key) to be called at all.
	Configured() bool
	// Latest checks that the provider accepts our credentials.
	Latest(ctx context.Context) error
	Search(ctx context.Context, q Query) Result
}

// NewProvider builds the provider named by kind ("currents" or "rss").
func NewProvider(kind, apiKey, apiURL, rssURL string, timeout time.Duration) (Provider, error) {
	switch kind {
	case "", "currents":
		return NewCurrents(apiKey, apiURL, timeout), nil
	case "rss":
		return NewRSS(rssURL, timeout), nil
	}
	return nil, fmt.Errorf("unknown news provider %q", kind)
}

// normalizeArticle maps provider fields onto the canonical Article, filling placeholders.
func normalizeArticle(title, description, author, publisher, published, link string) models.Article {
	source := strings.TrimSpace(author)
	if source == "" {
		source = strings.TrimSpace(publisher)
	}
	if source == "" {
		source = UnknownSource
	}
	if strings.TrimSpace(title) == "" {
		title = NoTitle
	}
	if strings.TrimSpace(published) == "" {
		published = UnknownDate
	}
	return models.Article{
		Title:       title,
		Description: description,
		Source:      models.Source{Name: source},
		PublishedAt: published,
		URL:         link,
	}
}

// failure turns a transport or decoding error into a Timeout or ProviderError result.
func failure(err error) Result {
	if isTimeout(err) {
		return Result{Outcome: Timeout, Err: err}
	}
	return Result{Outcome: ProviderError, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
