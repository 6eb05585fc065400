package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/harvest"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (*harvest.FetchResult, error)

// LogFunc is the signature for a retry logging function.
type LogFunc func(url string, attempt int, err error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays fetches url, retrying after each delay in delays.
// ENOTFOUND errors and context cancellation are not retried.
// The logger, if provided, is called before each retry attempt.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (*harvest.FetchResult, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err := fetch(ctx, url)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if logger != nil {
			logger(url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return harvest.ErrorCode(err) != harvest.ENOTFOUND
}
