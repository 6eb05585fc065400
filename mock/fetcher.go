package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of harvest.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*harvest.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*harvest.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ harvest.SeedDiscoverer = (*SeedDiscoverer)(nil)

// SeedDiscoverer is a mock implementation of harvest.SeedDiscoverer.
type SeedDiscoverer struct {
	DiscoverSeedsFn func(ctx context.Context, siteURL string) ([]string, error)
}

func (d *SeedDiscoverer) DiscoverSeeds(ctx context.Context, siteURL string) ([]string, error) {
	return d.DiscoverSeedsFn(ctx, siteURL)
}
