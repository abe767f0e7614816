package feeds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/newsfeed/internal/otel"
	"github.com/abelbrown/newsfeed/internal/store"
)

const userAgent = "newsfeed/1.0 (+https://github.com/abelbrown/newsfeed)"

// Source is one feed to import.
type Source struct {
	Name     string // overrides the feed title when set
	URL      string
	Category store.Category
}

// Fetcher downloads and parses feeds, throttled to a fixed request rate.
// Safe for concurrent use.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	block   *Blocklist
	events  *otel.Logger
}

// NewFetcher allows rps requests per second with a burst of one.
func NewFetcher(timeout time.Duration, rps float64, events *otel.Logger) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		block:   DefaultBlocklist(),
		events:  events,
	}
}

// Fetch retrieves src and returns its articles. It waits for the rate
// limiter first and honors ctx throughout.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]store.Article, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	f.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindFeedFetch, Comp: "feeds", Source: src.URL})

	articles, err := f.fetch(ctx, src)
	if err != nil {
		f.events.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindFeedError, Comp: "feeds", Source: src.URL, Err: err.Error()})
		return nil, err
	}

	f.events.Emit(otel.Event{
		Level:  otel.LevelInfo,
		Kind:   otel.KindFeedComplete,
		Comp:   "feeds",
		Source: src.URL,
		Count:  len(articles),
		Dur:    time.Since(start),
	})
	return articles, nil
}

func (f *Fetcher) fetch(ctx context.Context, src Source) ([]store.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	return Parse(resp.Body, src.Name, src.Category, f.block)
}
