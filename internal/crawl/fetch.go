package crawl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/semaphore"
)

// FetchConfig configures a Fetcher.
type FetchConfig struct {
	HTTPClient           *http.Client
	RetryMax             int
	RetryWaitMin         time.Duration
	RetryWaitMax         time.Duration
	ConcurrencyPerDomain int // default: 3
	MaxRedirects         int // default: 10
}

// Fetcher retrieves page HTML over HTTP with retry support for 429s and a
// bounded redirect chain, limiting concurrent requests per domain so a
// crawl does not hammer a single host. It is the implementation of the
// external "HTML fetcher" contract: Fetch returns ok=false whenever the
// final response is not a 200 with a text/html content type.
type Fetcher struct {
	client               *retryablehttp.Client
	domainSemaphores     map[string]*semaphore.Weighted
	mu                   sync.RWMutex
	concurrencyPerDomain int64
}

// NewFetcher constructs a Fetcher with retry and per-domain concurrency
// limits applied.
func NewFetcher(cfg FetchConfig) *Fetcher {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.ConcurrencyPerDomain <= 0 {
		cfg.ConcurrencyPerDomain = 3
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = 10
	}

	maxRedirects := cfg.MaxRedirects
	cfg.HTTPClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = cfg.HTTPClient
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			return true, nil
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	retryClient.Backoff = func(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					d := time.Duration(seconds) * time.Second
					if d > max {
						return max
					}
					if d < min {
						return min
					}
					return d
				}
			}
			backoff := time.Duration(1<<uint(attemptNum)) * time.Second
			if backoff > max {
				backoff = max
			}
			if backoff < min {
				backoff = min
			}
			return backoff
		}
		return retryablehttp.DefaultBackoff(min, max, attemptNum, resp)
	}

	return &Fetcher{
		client:               retryClient,
		domainSemaphores:     make(map[string]*semaphore.Weighted),
		concurrencyPerDomain: int64(cfg.ConcurrencyPerDomain),
	}
}

func (f *Fetcher) getDomainSemaphore(domain string) *semaphore.Weighted {
	f.mu.RLock()
	sem, exists := f.domainSemaphores[domain]
	f.mu.RUnlock()
	if exists {
		return sem
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if sem, exists := f.domainSemaphores[domain]; exists {
		return sem
	}
	sem = semaphore.NewWeighted(f.concurrencyPerDomain)
	f.domainSemaphores[domain] = sem
	return sem
}

// Fetch retrieves urlStr's body and reports ok=true only when the final
// response (after following up to MaxRedirects redirects) is a 200 with a
// text/html content type. A non-nil error indicates a transport or request
// failure, distinct from a well-formed non-HTML response.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (body string, ok bool, err error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", false, fmt.Errorf("parse url: %w", err)
	}

	sem := f.getDomainSemaphore(parsed.Hostname())
	if err := sem.Acquire(ctx, 1); err != nil {
		return "", false, ctx.Err()
	}
	defer sem.Release(1)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, nil
	}
	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return "", false, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("read body: %w", err)
	}
	return string(data), true, nil
}

func isHTML(contentType string) bool {
	const prefix = "text/html"
	return len(contentType) >= len(prefix) && contentType[:len(prefix)] == prefix
}
