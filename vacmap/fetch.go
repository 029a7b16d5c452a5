package vacmap

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

const (
	// DefaultFetchTimeout is the default HTTP request timeout for blob fetches.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of fetch attempts.
	DefaultMaxRetries = 3

	// defaultBaseBackoff is the base delay for exponential backoff.
	defaultBaseBackoff = 500 * time.Millisecond

	// maxResponseBytes limits response bodies to 50 MB to prevent OOM.
	maxResponseBytes = 50 << 20
)

// BlobFetcher retrieves raw bytes from a URL. Implementations surface
// failures as FetchError rather than blocking indefinitely.
type BlobFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetchOption configures an HTTPFetcher.
type FetchOption func(*HTTPFetcher)

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) FetchOption {
	return func(f *HTTPFetcher) { f.timeout = d }
}

// WithMaxRetries sets the maximum number of fetch attempts.
func WithMaxRetries(n int) FetchOption {
	return func(f *HTTPFetcher) { f.maxRetries = n }
}

// WithBaseBackoff sets the base delay for exponential backoff between retries.
func WithBaseBackoff(d time.Duration) FetchOption {
	return func(f *HTTPFetcher) { f.baseBackoff = d }
}

// WithHTTPClient overrides the default HTTP client (useful for testing).
func WithHTTPClient(client *http.Client) FetchOption {
	return func(f *HTTPFetcher) { f.client = client }
}

// HTTPFetcher fetches blobs over HTTP with a fixed timeout and retries
// transient failures with exponential backoff.
type HTTPFetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxRetries  int
	baseBackoff time.Duration
}

// NewHTTPFetcher creates a fetcher with default settings.
func NewHTTPFetcher(opts ...FetchOption) *HTTPFetcher {
	f := &HTTPFetcher{
		timeout:     DefaultFetchTimeout,
		maxRetries:  DefaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	return f
}

// Fetch downloads a blob, retrying transient failures. Non-2xx statuses and
// transport errors both count as transient.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("URL is empty")}
	}

	var lastErr error
	for attempt := range f.maxRetries {
		if attempt > 0 {
			backoff := f.baseBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-ctx.Done():
				return nil, &FetchError{URL: url, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		body, err := f.doFetch(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		return body, nil
	}

	return nil, &FetchError{URL: url, Err: fmt.Errorf("all %d attempts failed: %w", f.maxRetries, lastErr)}
}

// doFetch performs a single HTTP GET and returns the response body bytes.
func (f *HTTPFetcher) doFetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP GET %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}

	return body, nil
}
