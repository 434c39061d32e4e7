package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/crucial707/district-digest/internal/models"
)

// DefaultCurrentsURL is the Currents API base URL.
const DefaultCurrentsURL = "https://api.currentsapi.services"

// Currents queries the Currents news search API.
type Currents struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewCurrents(apiKey, baseURL string, timeout time.Duration) *Currents {
	if baseURL == "" {
		baseURL = DefaultCurrentsURL
	}
	return &Currents{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Currents) Name() string {
	return "currents"
}

func (c *Currents) Configured() bool {
	return c.apiKey != ""
}

// Latest calls the latest-news endpoint; any non-ok answer means the key is unusable.
func (c *Currents) Latest(ctx context.Context) error {
	params := url.Values{}
	params.Set("language", "en")
	res := c.get(ctx, "/v1/latest-news", params)
	switch res.Outcome {
	case Success, Empty:
		return nil
	}
	return res.Err
}

func (c *Currents) Search(ctx context.Context, q Query) Result {
	lang := q.Language
	if lang == "" {
		lang = "en"
	}
	params := url.Values{}
	params.Set("keywords", q.Keywords)
	params.Set("start_date", q.From)
	params.Set("end_date", q.To)
	params.Set("language", lang)
	return c.get(ctx, "/v1/search", params)
}

func (c *Currents) get(ctx context.Context, path string, params url.Values) Result {
	// The key travels in the query string, so only the redacted form may be logged or returned.
	redacted := c.baseURL + path + "?" + params.Encode() + "&apiKey=REDACTED"
	slog.Debug("currents request", "url", redacted)
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return Result{Outcome: ProviderError, Err: fmt.Errorf("currents request: %w", redactURL(err, redacted))}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure(fmt.Errorf("currents fetch: %w", redactURL(err, redacted)))
	}
	defer resp.Body.Close()

	var raw currentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Result{Outcome: ProviderError, Err: fmt.Errorf("currents status %d", resp.StatusCode)}
		}
		return failure(fmt.Errorf("currents decode: %w", err))
	}

	if resp.StatusCode != http.StatusOK || raw.Status != "ok" {
		msg := raw.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return Result{Outcome: ProviderError, Err: fmt.Errorf("currents status %d: %w", resp.StatusCode, errors.New(msg))}
	}

	if len(raw.News) == 0 {
		return Result{Outcome: Empty}
	}

	articles := make([]models.Article, 0, len(raw.News))
	for _, item := range raw.News {
		articles = append(articles, normalizeArticle(item.Title, item.Description, item.Author, item.Publisher, item.Published, item.URL))
	}
	return Result{Outcome: Success, Articles: articles}
}

// redactURL replaces the URL carried by a *url.Error, which net/http fills with the full request URL.
func redactURL(err error, redacted string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = redacted
	}
	return err
}

type currentsResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	News    []currentsItem `json:"news"`
}

type currentsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	Published   string `json:"published"`
}
