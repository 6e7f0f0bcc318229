// Package fetch performs upstream GET requests with a bounded, linear-backoff retry policy.
//
// Only gateway-style statuses (502, 503, 504) and transport failures are retried. Every other
// non-2xx status is terminal. Once a request is built, callers get either a body or a
// *Failure, never a panic.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kissbridge/kissbridge/log"
	"github.com/kissbridge/kissbridge/util"
)

var (
	// ErrStatus marks a terminal non-2xx response.
	ErrStatus = errors.New("unexpected status")
	// ErrExhausted marks a request that stayed transient through every attempt.
	ErrExhausted = errors.New("retries exhausted")
)

var transient = map[int]bool{
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// IsTransient reports whether a response status is worth another attempt.
func IsTransient(status int) bool {
	return transient[status]
}

// Failure records the last thing observed before giving up on a URL.
type Failure struct {
	URL      string
	Attempts int
	// Status is the last HTTP status seen, 0 when no response arrived.
	Status int
	// Err is the last transport error, nil when the failure is status-only.
	Err       error
	exhausted bool
}

func (f *Failure) Error() string {
	switch {
	case f.Err != nil:
		return fmt.Sprintf("get %s: %d attempts: %v", f.URL, f.Attempts, f.Err)
	default:
		return fmt.Sprintf("get %s: %d attempts: status %d", f.URL, f.Attempts, f.Status)
	}
}

func (f *Failure) Unwrap() []error {
	kind := ErrStatus
	if f.exhausted {
		kind = ErrExhausted
	}
	if f.Err != nil {
		return []error{kind, f.Err}
	}
	return []error{kind}
}

// Fetcher issues GET requests under a fixed retry policy.
type Fetcher struct {
	client   *http.Client
	attempts int
	timeout  time.Duration
	backoff  time.Duration
	headers  http.Header
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithAttempts sets the maximum number of attempts per request. Values below 1 mean 1.
func WithAttempts(n int) Option {
	return func(f *Fetcher) {
		f.attempts = max(n, 1)
	}
}

// WithTimeout bounds each individual attempt.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithBackoff sets the default base delay between attempts.
func WithBackoff(d time.Duration) Option {
	return func(f *Fetcher) {
		f.backoff = d
	}
}

// WithSleep replaces the wait between attempts. It must return early with the context's
// error when ctx is done.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(f *Fetcher) {
		f.sleep = sleep
	}
}

// WithHeaders sets headers sent with every request.
func WithHeaders(h http.Header) Option {
	return func(f *Fetcher) {
		f.headers = h.Clone()
	}
}

// New returns a Fetcher with 3 attempts, a 20s attempt timeout and a 1s base backoff.
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   client,
		attempts: 3,
		timeout:  20 * time.Second,
		backoff:  time.Second,
		headers:  http.Header{},
		sleep:    sleepContext,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

type call struct {
	backoff time.Duration
	headers http.Header
}

// CallOption adjusts a single Get.
type CallOption func(*call)

// Backoff overrides the base delay for this call. The stream endpoint settles slower than
// the catalog API and uses a longer one.
func Backoff(d time.Duration) CallOption {
	return func(c *call) {
		c.backoff = d
	}
}

// Header adds a header for this call only.
func Header(key, value string) CallOption {
	return func(c *call) {
		c.headers.Set(key, value)
	}
}

// Get fetches url and returns the response body of the first 2xx attempt.
// The n-th retry waits n times the base delay.
func (f *Fetcher) Get(ctx context.Context, url string, opts ...CallOption) ([]byte, error) {
	c := &call{backoff: f.backoff, headers: f.headers.Clone()}
	for _, opt := range opts {
		opt(c)
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = c.headers

	failure := &Failure{URL: url}

	for attempt := 1; attempt <= f.attempts; attempt++ {
		failure.Attempts = attempt

		body, status, err := f.attempt(ctx, req)
		failure.Status, failure.Err = status, err

		if err == nil && status >= 200 && status < 300 {
			return body, nil
		}

		if err == nil && !IsTransient(status) {
			log.Warnf("request failed: %s - status %d", util.Shorten(url, 120), status)
			return nil, failure
		}

		if attempt == f.attempts || ctx.Err() != nil {
			break
		}

		delay := time.Duration(attempt) * c.backoff
		log.Warnf("request failed (%s), retrying in %s... (%d/%d)", describe(status, err), delay, attempt, f.attempts)
		if err := f.sleep(ctx, delay); err != nil {
			break
		}
	}

	failure.exhausted = true
	log.Errorf("request error: %s - %v", util.Shorten(url, 120), failure)
	return nil, failure
}

func (f *Fetcher) attempt(ctx context.Context, req *http.Request) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.client.Do(req.Clone(ctx))
	if err != nil {
		return nil, 0, err
	}
	defer util.Ignore(resp.Body.Close)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return body, resp.StatusCode, nil
}

func describe(status int, err error) string {
	if err != nil {
		return err.Error()
	}
	return fmt.Sprint(status)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
