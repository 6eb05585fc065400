// Package colly provides a harvest.Fetcher backed by a gocolly collector.
package colly

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/gocolly/colly/v2"
)

// Defaults mirror the net/http fetcher.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultMaxBodySize  = 32 << 20
	DefaultUserAgent    = "harvest/1.0"
)

var _ harvest.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves URLs through a colly collector. Each fetch runs on a
// clone of the base collector so callbacks never leak between requests.
type Fetcher struct {
	collector *colly.Collector
}

// Option configures a Fetcher.
type Option func(*options)

type options struct {
	timeout     time.Duration
	userAgent   string
	maxBodySize int
	client      *http.Client
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithMaxBodySize caps the body bytes read per response.
func WithMaxBodySize(n int) Option {
	return func(o *options) { o.maxBodySize = n }
}

// WithClient replaces the collector's HTTP client.
func WithClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// NewFetcher creates a new colly-backed Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	o := options{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := colly.NewCollector(
		colly.UserAgent(o.userAgent),
		colly.MaxBodySize(o.maxBodySize),
		colly.AllowURLRevisit(),
	)
	if o.client != nil {
		c.SetClient(o.client)
	}
	c.SetRequestTimeout(o.timeout)

	return &Fetcher{collector: c}
}

// Fetch visits url and returns the response. The request is bound to ctx,
// so cancellation aborts it in flight. 404 and 410 responses are reported
// as ENOTFOUND, other failures as EFETCH.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*harvest.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		result   *harvest.FetchResult
		fetchErr error
	)
	c := f.collector.Clone()
	c.Context = ctx
	c.OnResponse(func(r *colly.Response) {
		result = &harvest.FetchResult{
			URL:         r.Request.URL.String(),
			ContentType: r.Headers.Get("Content-Type"),
			Body:        r.Body,
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		code := harvest.EFETCH
		if r != nil && (r.StatusCode == http.StatusNotFound || r.StatusCode == http.StatusGone) {
			code = harvest.ENOTFOUND
		}
		if r != nil && r.StatusCode != 0 {
			fetchErr = harvest.Errorf(code, "HTTP %d for %s", r.StatusCode, url)
			return
		}
		fetchErr = harvest.Errorf(code, "request %s: %v", url, err)
	})

	visitErr := c.Visit(url)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if visitErr != nil {
		return nil, harvest.Errorf(harvest.EFETCH, "visit %s: %v", url, visitErr)
	}
	if result == nil {
		return nil, harvest.Errorf(harvest.EFETCH, "no response for %s", url)
	}
	return result, nil
}

// Close releases resources. Collectors hold nothing that needs releasing.
func (f *Fetcher) Close() error {
	return nil
}
