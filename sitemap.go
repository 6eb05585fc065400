package harvest

import "context"

// SeedDiscoverer finds additional crawl seeds for a site.
type SeedDiscoverer interface {
	// DiscoverSeeds returns the URLs a site publishes about itself.
	// A site that publishes none yields an empty slice and no error.
	DiscoverSeeds(ctx context.Context, siteURL string) ([]string, error)
}
