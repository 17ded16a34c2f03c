// Package fetcher retrieves raw product page content over HTTP.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBodyBytes limits the size of fetched page responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// PageFetcher fetches a single page with a browser-like identity. Product
// pages commonly reject unidentified automated clients, so the User-Agent
// header is not optional.
type PageFetcher struct {
	client    *http.Client
	userAgent string
}

// Config configures a PageFetcher.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// New creates a PageFetcher.
func New(cfg Config) *PageFetcher {
	return &PageFetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
	}
}

// Fetch issues a GET for url and returns the response body. Transport errors
// and non-2xx statuses are returned as errors; callers absorb them and treat
// the page as absent for this cycle. No retry.
func (f *PageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body for %s: %w", url, err)
	}

	return body, nil
}
