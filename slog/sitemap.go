package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

var _ harvest.SeedDiscoverer = (*LoggingSeedDiscoverer)(nil)

// LoggingSeedDiscoverer logs every seed discovery. A failed discovery is
// logged at warn level since the crawl continues with the configured
// seeds only.
type LoggingSeedDiscoverer struct {
	next   harvest.SeedDiscoverer
	logger *slog.Logger
}

func NewLoggingSeedDiscoverer(next harvest.SeedDiscoverer, logger *slog.Logger) *LoggingSeedDiscoverer {
	return &LoggingSeedDiscoverer{next: next, logger: logger}
}

func (d *LoggingSeedDiscoverer) DiscoverSeeds(ctx context.Context, siteURL string) (urls []string, err error) {
	begin := time.Now()
	urls, err = d.next.DiscoverSeeds(ctx, siteURL)

	attrs := []any{"site", siteURL, "duration", time.Since(begin)}
	if err != nil {
		d.logger.Warn("seed discovery failed", append(attrs, "err", err)...)
		return urls, err
	}
	d.logger.Info("seeds discovered", append(attrs, "seeds", len(urls))...)
	return urls, nil
}
