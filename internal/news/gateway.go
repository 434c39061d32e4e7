package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/district-digest/internal/metrics"
	"github.com/crucial707/district-digest/internal/models"
)

// WindowDays is how far back from the selected date a fetch looks.
const WindowDays = 30

// DefaultState scopes every query to the state the districts belong to.
const DefaultState = "Andhra Pradesh"

var (
	ErrInvalidDate = errors.New("invalid date format")
	ErrFutureDate  = errors.New("date cannot be in the future")
)

// InputError is a caller mistake (bad or future date); it maps to 400.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

var dateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate accepts the date formats the dashboard and CLI send, in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// FetchResult is the article list for one district/date and whether it came from mocks.
type FetchResult struct {
	Articles []models.Article
	UsedMock bool
	// From and To are the YYYY-MM-DD bounds of the searched window.
	From string
	To   string
}

// Gateway fetches district articles through the provider fallback chain.
type Gateway struct {
	Provider Provider
	Keys     *KeyValidator
	State    string

	now func() time.Time
	loc *time.Location
}

func NewGateway(p Provider, keys *KeyValidator, state string) *Gateway {
	if state == "" {
		state = DefaultState
	}
	return &Gateway{Provider: p, Keys: keys, State: state, now: time.Now, loc: time.Local}
}

// Window validates date and returns the [from, to] strings for it.
func (g *Gateway) Window(date string) (from, to string, err error) {
	selected, err := ParseDate(date, g.loc)
	if err != nil {
		return "", "", &InputError{Err: err}
	}
	if selected.After(g.now()) {
		return "", "", &InputError{Err: ErrFutureDate}
	}
	return selected.AddDate(0, 0, -WindowDays).Format(dateLayout), selected.Format(dateLayout), nil
}

// Fetch returns articles about crime in district for the 30 days up to date.
// Only an *InputError is returned; provider failures end in mock articles.
func (g *Gateway) Fetch(ctx context.Context, district, date string) (FetchResult, error) {
	from, to, err := g.Window(date)
	if err != nil {
		return FetchResult{}, err
	}
	res := FetchResult{From: from, To: to}

	if !g.Keys.Valid(ctx) {
		slog.Debug("invalid or missing API key, using mock articles", "district", district)
		return g.mock(res, district, "no_key"), nil
	}

	primary := g.search(ctx, Query{Keywords: fmt.Sprintf("crime %s %q", district, g.State), From: from, To: to})
	switch primary.Outcome {
	case Success:
		slog.Debug("fetched articles", "district", district, "count", len(primary.Articles))
		res.Articles = primary.Articles
		return res, nil
	case Empty:
		slog.Debug("no articles found, using mock articles", "district", district)
		return g.mock(res, district, "primary_empty"), nil
	}

	slog.Error("primary news query failed, falling back to generic query",
		"district", district, "outcome", primary.Outcome.String(), "error", primary.Err)

	broad := g.search(ctx, Query{Keywords: fmt.Sprintf("crime %q", g.State), From: from, To: to})
	if broad.Outcome == Success {
		slog.Debug("fetched articles from generic query", "district", district, "count", len(broad.Articles))
		res.Articles = broad.Articles
		return res, nil
	}

	if broad.Outcome == Empty {
		slog.Debug("generic query returned no articles, using mock articles", "district", district)
	} else {
		slog.Error("generic news query failed", "district", district, "outcome", broad.Outcome.String(), "error", broad.Err)
	}
	return g.mock(res, district, "broad_"+broad.Outcome.String()), nil
}

func (g *Gateway) search(ctx context.Context, q Query) Result {
	if q.Language == "" {
		q.Language = "en"
	}
	res := g.Provider.Search(ctx, q)
	metrics.RecordProviderCall(g.Provider.Name(), res.Outcome.String())
	return res
}

func (g *Gateway) mock(res FetchResult, district, reason string) FetchResult {
	metrics.RecordMockFallback(reason)
	res.Articles = MockArticles(district, res.To, false)
	res.UsedMock = true
	return res
}
