package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/mr1hm/go-water-safety/internal/metrics"
)

const (
	DefaultTimeout = 15 * time.Second
	DefaultRetries = 2
	maxBodyBytes   = 16 << 20
)

// NewClient returns an HTTP client with the given timeout, or DefaultTimeout when zero.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
	}
}

// StatusError is returned when an upstream answers with a non-200 status.
type StatusError struct {
	Source string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Source, e.Code)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Fetcher performs upstream requests with retry and metrics for one named source.
type Fetcher struct {
	Client  *http.Client
	Source  string
	Retries uint64
	// InitialInterval overrides the first backoff delay when non-zero.
	InitialInterval time.Duration
}

func NewFetcher(source string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		Client:  NewClient(timeout),
		Source:  source,
		Retries: DefaultRetries,
	}
}

// Get fetches rawURL and returns the response body.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	return f.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	})
}

// PostForm posts form-encoded values to rawURL and returns the response body.
func (f *Fetcher) PostForm(ctx context.Context, rawURL string, values url.Values) ([]byte, error) {
	encoded := values.Encode()
	return f.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}

// Do builds and sends a request, retrying network errors, 429 and 5xx.
// build is called once per attempt so request bodies are fresh.
func (f *Fetcher) Do(ctx context.Context, build func(context.Context) (*http.Request, error)) ([]byte, error) {
	start := time.Now()
	var body []byte

	operation := func() error {
		req, err := build(ctx)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("User-Agent", "aquasafe/1.0")

		resp, err := f.client().Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("request %s: %w", f.Source, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			serr := &StatusError{Source: f.Source, Code: resp.StatusCode}
			if serr.Retryable() {
				return serr
			}
			return backoff.Permanent(serr)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("read %s body: %w", f.Source, err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	if f.InitialInterval > 0 {
		bo.InitialInterval = f.InitialInterval
	}
	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, f.Retries), ctx))

	metrics.UpstreamLatency.WithLabelValues(f.Source).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues(f.Source, "error").Inc()
		return nil, err
	}
	metrics.UpstreamCallsTotal.WithLabelValues(f.Source, "ok").Inc()
	return body, nil
}

func (f *Fetcher) client() *http.Client {
	if f.Client == nil {
		return NewClient(0)
	}
	return f.Client
}

// IsStatus reports whether err carries an upstream status code equal to code.
func IsStatus(err error, code int) bool {
	var serr *StatusError
	return errors.As(err, &serr) && serr.Code == code
}
