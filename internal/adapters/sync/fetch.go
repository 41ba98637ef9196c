package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Source is a single external ICS calendar subscription.
type Source struct {
	ID  string
	URL string
}

// FetchResult is the outcome of fetching one source.
type FetchResult struct {
	Source    Source
	Body      []byte
	FromCache bool
}

// cacheEntry holds the conditional-request state for one URL.
type cacheEntry struct {
	etag         string
	lastModified string
	body         []byte
}

// Fetcher downloads ICS feeds with conditional requests (ETag and
// Last-Modified) and falls back to the last good body on network failure, so
// a flaky feed degrades to stale data instead of an empty calendar.
type Fetcher struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string]*cacheEntry
}

// NewFetcher creates a Fetcher with a bounded request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 15 * time.Second},
		cache:  make(map[string]*cacheEntry),
	}
}

// FetchAll fetches every source. Sources that fail without a cached body are
// reported in the error slice; the result slice holds every source that
// produced a body.
// PRE: ctx is valid
// POST: len(results) + len(errs) >= len(sources)
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) ([]FetchResult, []error) {
	results := make([]FetchResult, 0, len(sources))
	var errs []error

	for _, src := range sources {
		res, err := f.FetchOne(ctx, src)
		if err != nil {
			errs = append(errs, err)
			slog.Error("ics fetch failed", "source", src.ID, "url", redactURL(src.URL), "error", err)
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// FetchOne fetches a single source, honoring cached validators.
// PRE: src.URL is non-empty
// POST: on success the cache holds the returned body
func (f *Fetcher) FetchOne(ctx context.Context, src Source) (FetchResult, error) {
	if src.URL == "" {
		return FetchResult{}, errors.New("source URL is empty")
	}

	f.mu.Lock()
	cached := f.cache[src.URL]
	f.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return FetchResult{}, err
	}
	if cached != nil {
		if cached.etag != "" {
			req.Header.Set("If-None-Match", cached.etag)
		}
		if cached.lastModified != "" {
			req.Header.Set("If-Modified-Since", cached.lastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if cached != nil && len(cached.body) > 0 {
			slog.Warn("ics fetch network error, using cached body", "source", src.ID, "url", redactURL(src.URL), "error", err)
			return FetchResult{Source: src, Body: cached.body, FromCache: true}, nil
		}
		return FetchResult{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return FetchResult{}, readErr
		}
		f.mu.Lock()
		f.cache[src.URL] = &cacheEntry{
			etag:         resp.Header.Get("ETag"),
			lastModified: resp.Header.Get("Last-Modified"),
			body:         body,
		}
		f.mu.Unlock()
		slog.Info("ics fetch success", "source", src.ID, "url", redactURL(src.URL), "bytes", len(body))
		return FetchResult{Source: src, Body: body}, nil

	case http.StatusNotModified:
		if cached == nil || len(cached.body) == 0 {
			return FetchResult{}, errors.New("received 304 Not Modified but no cached body available")
		}
		slog.Info("ics fetch not modified, using cache", "source", src.ID, "url", redactURL(src.URL))
		return FetchResult{Source: src, Body: cached.body, FromCache: true}, nil

	default:
		if cached != nil && len(cached.body) > 0 {
			slog.Warn("ics fetch non-OK status, using cached body", "source", src.ID, "url", redactURL(src.URL), "status", resp.StatusCode)
			return FetchResult{Source: src, Body: cached.body, FromCache: true}, nil
		}
		return FetchResult{}, errors.New(resp.Status)
	}
}

// redactURL strips everything after the host so feed tokens never reach logs.
func redactURL(u string) string {
	i := strings.Index(u, "://")
	if i == -1 {
		return "ics://...(redacted)"
	}
	rest := u[i+3:]
	j := strings.IndexByte(rest, '/')
	if j == -1 {
		return u
	}
	return u[:i+3+j] + "/...(redacted)"
}
