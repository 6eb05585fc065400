package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/charset"
	"github.com/fwojciec/harvest/colly"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/docx"
	"github.com/fwojciec/harvest/fs"
	"github.com/fwojciec/harvest/goquery"
	harvesthttp "github.com/fwojciec/harvest/http"
	"github.com/fwojciec/harvest/pdf"
	harvestslog "github.com/fwojciec/harvest/slog"
	"github.com/fwojciec/harvest/sqlite"
	"golang.org/x/sync/errgroup"
)

// CrawlCmd runs a crawl described by Config.
type CrawlCmd struct {
	Config  *harvest.Config
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// output is the record store a crawl writes into. abort discards whatever
// the store wrote so far; location describes where Close leaves the records.
type output struct {
	store    harvest.RecordStore
	abort    func() error
	location func() string
}

// Run executes the crawl.
func (c *CrawlCmd) Run(ctx context.Context) error {
	cfg := c.Config
	logger := c.logger()

	fetcher := harvestslog.NewLoggingFetcher(c.fetcher(), logger)

	seeds := cfg.Seeds
	if cfg.Sitemaps {
		seeds = c.discoverSeeds(ctx, logger)
	}

	out, err := c.output(ctx, seeds)
	if err != nil {
		_ = fetcher.Close()
		return err
	}
	store := harvestslog.NewLoggingStore(out.store, logger)

	crawler := &crawl.Crawler{
		Fetcher:        fetcher,
		Pages:          goquery.NewPageExtractor(),
		Extractors:     c.extractors(logger),
		Scope:          crawl.NewScope(cfg.AllowedDomains...),
		DenyExtensions: cfg.DenyExtensions,
		RateLimiter:    crawl.NewDomainLimiter(cfg.RequestsPerSecond),
		Logger:         logger,
		Concurrency:    cfg.Concurrency,
		MaxPages:       cfg.MaxPages,
		MaxDepth:       cfg.MaxDepth,
		FetchTimeout:   cfg.FetchTimeout,
	}

	fmt.Fprintf(c.Stdout, "Crawling %d seeds within %v\n", len(seeds), crawler.Scope.Domains())

	result, crawlErr := crawler.Crawl(ctx, seeds, store, c.progress)
	if crawlErr != nil && !interrupted(crawlErr) {
		_ = out.abort()
		_ = fetcher.Close()
		fmt.Fprintf(c.Stderr, "crawl stopped: %v\n", crawlErr)
		if result != nil {
			fmt.Fprintln(c.Stdout, result.Summary())
		}
		return crawlErr
	}

	// An interrupted crawl still commits the records written so far.
	var g errgroup.Group
	g.Go(fetcher.Close)
	g.Go(store.Close)
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to close: %w", err)
	}

	if result != nil {
		fmt.Fprintln(c.Stdout, result.Summary())
	}
	if crawlErr != nil {
		fmt.Fprintf(c.Stderr, "crawl interrupted: %v\n", crawlErr)
		fmt.Fprintf(c.Stdout, "Saved partial output to %s\n", out.location())
		return crawlErr
	}
	fmt.Fprintf(c.Stdout, "Saved to %s\n", out.location())
	return nil
}

// interrupted reports whether err ended the crawl because the context was
// canceled or timed out, as opposed to a sink failure.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *CrawlCmd) logger() *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(c.Stderr, &slog.HandlerOptions{Level: level}))
}

func (c *CrawlCmd) fetcher() harvest.Fetcher {
	cfg := c.Config
	if cfg.Fetcher == harvest.FetcherColly {
		return colly.NewFetcher(
			colly.WithTimeout(cfg.FetchTimeout),
			colly.WithUserAgent(cfg.UserAgent),
		)
	}
	return harvesthttp.NewFetcher(
		harvesthttp.WithTimeout(cfg.FetchTimeout),
		harvesthttp.WithUserAgent(cfg.UserAgent),
	)
}

func (c *CrawlCmd) extractors(logger *slog.Logger) map[harvest.LinkKind]harvest.DocumentExtractor {
	return map[harvest.LinkKind]harvest.DocumentExtractor{
		harvest.LinkPDF: harvestslog.NewLoggingExtractor(pdf.NewExtractor(), "pdf", logger),
		harvest.LinkDoc: harvestslog.NewLoggingExtractor(docx.NewExtractor(), "docx", logger),
		harvest.LinkTxt: harvestslog.NewLoggingExtractor(charset.NewTextExtractor(), "txt", logger),
	}
}

// discoverSeeds returns the configured seeds followed by the URLs listed in
// each seed site's sitemaps. Discovery failures only lose the extra seeds.
func (c *CrawlCmd) discoverSeeds(ctx context.Context, logger *slog.Logger) []string {
	cfg := c.Config
	client := &http.Client{Timeout: cfg.FetchTimeout}
	discoverer := harvestslog.NewLoggingSeedDiscoverer(
		harvesthttp.NewSitemapDiscoverer(client, cfg.UserAgent), logger)

	seeds := append([]string(nil), cfg.Seeds...)
	for _, seed := range cfg.Seeds {
		urls, err := discoverer.DiscoverSeeds(ctx, seed)
		if err != nil {
			continue
		}
		seeds = append(seeds, urls...)
	}
	return seeds
}

// output opens the configured record store. The JSON feed replaces the
// output file when the crawl finishes or is interrupted, never after a
// write failure.
func (c *CrawlCmd) output(ctx context.Context, seeds []string) (*output, error) {
	cfg := c.Config
	switch cfg.Format {
	case harvest.FormatSQLite:
		db := sqlite.NewDB(cfg.Output)
		if err := db.Open(); err != nil {
			return nil, err
		}
		store, err := sqlite.NewRecordStore(ctx, db, seeds)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &output{
			store:    store,
			abort:    store.Close,
			location: func() string { return fmt.Sprintf("%s (run %s)", cfg.Output, store.Run().ID) },
		}, nil
	default:
		feed, err := fs.NewFeedWriter(cfg.Output)
		if err != nil {
			return nil, err
		}
		return &output{
			store: feed,
			abort: feed.Abort,
			location: func() string {
				return fmt.Sprintf("%s (%d records)", feed.Path(), feed.Count())
			},
		}, nil
	}
}

func (c *CrawlCmd) progress(event crawl.ProgressEvent) {
	switch event.Type {
	case crawl.ProgressCompleted, crawl.ProgressFailed:
		if c.Verbose {
			return
		}
		fmt.Fprintf(c.Stdout, "\r[%d done, %d queued] %s", event.Completed, event.Queued, crawl.ShortURL(event.URL, 50))
	case crawl.ProgressFinished:
		if !c.Verbose {
			fmt.Fprintf(c.Stdout, "\r%80s\r", "")
		}
	}
}
