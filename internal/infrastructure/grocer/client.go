package grocer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/grocerycompare/backend/internal/domain"
)

// Client defaults
const (
	DefaultUserAgent         = "Mozilla/5.0"
	DefaultTimeout           = 5 * time.Second
	DefaultRequestsPerSecond = 2.0
	DefaultBurst             = 4
	DefaultMaxRetries        = 2
)

// ClientConfig holds storefront client configuration
type ClientConfig struct {
	// BaseURLs overrides the storefront origins, e.g. for tests. Missing stores use their public origin.
	BaseURLs          map[domain.Store]string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
}

// Client searches storefront product listings and parses the result pages
type Client struct {
	httpClient  *resty.Client
	storefronts map[domain.Store]storefront
	limiters    map[domain.Store]*rate.Limiter
	maxRetries  int
	debug       bool
}

// NewClient creates a storefront client covering every recognised store
func NewClient(config ClientConfig) *Client {
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	burst := config.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}
	maxRetries := config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	storefronts := defaultStorefronts()
	limiters := make(map[domain.Store]*rate.Limiter, len(storefronts))
	for store, sf := range storefronts {
		if base, ok := config.BaseURLs[store]; ok && base != "" {
			sf.baseURL = base
			storefronts[store] = sf
		}
		// one limiter per storefront
		limiters[store] = rate.NewLimiter(rate.Limit(rps), burst)
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html")

	return &Client{
		httpClient:  httpClient,
		storefronts: storefronts,
		limiters:    limiters,
		maxRetries:  maxRetries,
	}
}

// SetDebug enables verbose per-request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Search fetches the search results page of a store for query and parses its products.
// A 404 is an empty result; transport errors and 5xx/429 responses are retried.
func (c *Client) Search(ctx context.Context, store domain.Store, query string) ([]domain.CatalogEntry, error) {
	log := slog.With("op", "grocer.Client.Search", "store", store)

	sf, ok := c.storefronts[store]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrStoreUnknown, store)
	}
	reqURL := sf.searchURL(sf.baseURL, query)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, exponentialBackoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		// Wait for rate limiter
		if err := c.limiters[store].Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		if c.debug {
			log.Debug("requesting search page", "url", reqURL, "attempt", attempt)
		}

		resp, err := c.httpClient.R().
			SetContext(ctx).
			Get(reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrStoreFetchFailure, ctx.Err())
			}
			log.Warn("request error", "attempt", attempt, "err", err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrStoreFetchFailure, err)
			continue
		}

		status := resp.StatusCode()
		if status == http.StatusNotFound {
			return []domain.CatalogEntry{}, nil
		}
		if status != http.StatusOK {
			lastErr = fmt.Errorf("%w: status %d", domain.ErrStoreFetchFailure, status)
			if status >= 500 || status == http.StatusTooManyRequests {
				log.Warn("retryable status", "attempt", attempt, "status", status)
				continue
			}
			return nil, lastErr
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
		if err != nil {
			return nil, fmt.Errorf("failed to parse search page: %w", err)
		}

		entries := sf.parse(doc)
		if c.debug {
			log.Debug("parsed search page", "query", query, "products", len(entries))
		}
		return entries, nil
	}

	log.Warn("all attempts failed", "query", query, "attempts", c.maxRetries+1)
	return nil, lastErr
}

// exponentialBackoff returns the wait before retry number attempt (1-based): 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
