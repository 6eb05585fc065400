// Package crawl provides the traversal driver of a harvest crawl.
// It coordinates fetching, page and document extraction, link
// classification and record emission across a pool of workers.
package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/harvest"
	"golang.org/x/sync/errgroup"
)

// Frontier configuration.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 100000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.001
	// DefaultMaxPages bounds page fetches when Crawler.MaxPages is zero.
	DefaultMaxPages = 1000
	// DefaultConcurrency is the worker count when Crawler.Concurrency is zero.
	DefaultConcurrency = 10
)

// Crawler walks pages under an allowed set of domains, emitting a website
// record per HTML page and a document record per linked PDF, DOC/DOCX or
// TXT file.
type Crawler struct {
	Fetcher harvest.Fetcher
	Pages   harvest.PageExtractor

	// Extractors maps each document kind to its extractor. A document
	// whose kind has no extractor is emitted with empty content.
	Extractors map[harvest.LinkKind]harvest.DocumentExtractor

	// Frontier queues pending tasks. Nil selects a Bloom-filter backed
	// Frontier sized for a large site.
	Frontier harvest.TaskFrontier

	// Scope gates every URL before it is enqueued. Required.
	Scope *Scope

	// DenyExtensions are never followed as pages.
	DenyExtensions []string

	// RateLimiter is optional per-host throttling.
	RateLimiter harvest.DomainLimiter

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger

	Concurrency int

	// MaxPages bounds page fetches. Zero selects DefaultMaxPages; a
	// negative value disables the bound. Documents are not counted.
	MaxPages int

	// MaxDepth bounds page hops from a seed. Zero means unbounded.
	MaxDepth int

	// FetchTimeout bounds a single fetch attempt. Zero means no timeout
	// beyond the fetcher's own.
	FetchTimeout time.Duration

	RetryDelays []time.Duration
}

// Result holds the outcome of a crawl.
type Result struct {
	Pages     int
	Documents int
	Failed    int
	Skipped   int
	Bytes     int
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	URL       string
	Kind      harvest.LinkKind
	Completed int
	Queued    int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// taskResult holds the outcome of processing a single task.
type taskResult struct {
	task     harvest.Task
	url      string
	page     *harvest.Page
	links    harvest.LinkSet
	document *harvest.DocumentRecord
	bytes    int
	err      error
}

// Crawl fetches the seeds and everything reachable from them within Scope,
// writing records to sink as they complete. It returns when the frontier is
// exhausted, the page bound is reached, the context is canceled, or the sink
// fails. Fetch and extraction failures are counted, never returned.
func (c *Crawler) Crawl(ctx context.Context, seeds []string, sink harvest.RecordSink, progress ProgressFunc) (*Result, error) {
	if c.Scope == nil {
		return nil, harvest.Errorf(harvest.EINVALID, "crawl scope required")
	}
	if c.Fetcher == nil || c.Pages == nil {
		return nil, harvest.Errorf(harvest.EINVALID, "fetcher and page extractor required")
	}

	frontier := c.Frontier
	if frontier == nil {
		frontier = NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	}
	for _, seed := range seeds {
		if !c.Scope.Allows(seed) {
			c.logger().Warn("seed outside allowed domains", "url", seed)
			continue
		}
		frontier.Push(harvest.Task{URL: seed, Kind: harvest.LinkPage})
	}

	notify(progress, ProgressEvent{Type: ProgressStarted, Queued: frontier.Len()})

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workCh := make(chan harvest.Task, concurrency)
	resultCh := make(chan taskResult)

	var g errgroup.Group
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			for task := range workCh {
				res := c.processTask(wctx, task)
				select {
				case resultCh <- res:
				case <-wctx.Done():
					return nil
				}
			}
			return nil
		})
	}

	var (
		result    Result
		completed int
		pages     int
		pending   int
		next      *harvest.Task
		sinkErr   error
	)
	maxPages := c.maxPages()

	popNext := func() {
		for next == nil {
			task, ok := frontier.Pop()
			if !ok {
				return
			}
			if task.Kind == harvest.LinkPage && maxPages > 0 && pages >= maxPages {
				result.Skipped++
				continue
			}
			next = &task
		}
	}

coordinatorLoop:
	for {
		popNext()
		if next == nil && pending == 0 {
			break
		}

		var (
			work chan<- harvest.Task
			task harvest.Task
		)
		if next != nil {
			work, task = workCh, *next
		}

		select {
		case <-ctx.Done():
			break coordinatorLoop
		case work <- task:
			if task.Kind == harvest.LinkPage {
				pages++
			}
			pending++
			next = nil
		case res := <-resultCh:
			pending--
			completed++
			if err := c.handleResult(ctx, &res, frontier, sink, &result); err != nil {
				sinkErr = err
				break coordinatorLoop
			}
			event := ProgressEvent{
				Type:      ProgressCompleted,
				URL:       res.url,
				Kind:      res.task.Kind,
				Completed: completed,
				Queued:    frontier.Len(),
			}
			if res.err != nil {
				event.Type = ProgressFailed
				event.Error = res.err
			}
			notify(progress, event)
		}
	}

	// Stop workers and discard anything still in flight.
	close(workCh)
	cancel()
	go func() {
		_ = g.Wait()
		close(resultCh)
	}()
	for range resultCh {
	}

	notify(progress, ProgressEvent{Type: ProgressFinished, Completed: completed})

	if sinkErr != nil {
		return &result, sinkErr
	}
	if err := ctx.Err(); err != nil {
		return &result, err
	}
	return &result, nil
}

// processTask fetches a task's URL and extracts its content. It runs on a
// worker goroutine and touches no shared state.
func (c *Crawler) processTask(ctx context.Context, task harvest.Task) taskResult {
	result := taskResult{task: task, url: task.URL}

	fetched, err := c.fetch(ctx, task.URL)
	if err != nil {
		result.err = err
		return result
	}
	result.url = fetched.URL
	result.bytes = len(fetched.Body)

	if fetched.URL != task.URL && !c.Scope.Allows(fetched.URL) {
		c.logger().Info("redirected outside allowed domains", "url", task.URL, "location", fetched.URL)
		return result
	}

	if task.Kind.IsDocument() {
		result.document = c.extractDocument(ctx, task.Kind, fetched)
		return result
	}

	if !fetched.IsHTML() {
		c.logger().Debug("skipping non-HTML page", "url", fetched.URL, "contentType", fetched.ContentType)
		return result
	}

	page, err := c.Pages.ExtractPage(fetched)
	if err != nil {
		result.err = fmt.Errorf("extract page %s: %w", fetched.URL, err)
		return result
	}
	result.page = page
	result.links = harvest.ClassifyLinks(page.Links, harvest.NewExtensionSet(c.DenyExtensions...))
	return result
}

// handleResult emits the records of a finished task and enqueues the links
// it discovered. It runs on the coordinator goroutine only.
func (c *Crawler) handleResult(ctx context.Context, res *taskResult, frontier harvest.TaskFrontier, sink harvest.RecordSink, result *Result) error {
	result.Bytes += res.bytes

	switch {
	case res.err != nil:
		result.Failed++
		c.logger().Warn("task failed", "url", res.url, "kind", res.task.Kind, "err", res.err)

	case res.document != nil:
		if err := sink.WriteDocument(ctx, res.document); err != nil {
			return fmt.Errorf("write document %s: %w", res.document.URL, err)
		}
		result.Documents++

	case res.page != nil:
		depth := res.task.Depth + 1
		c.enqueue(frontier, res.links.PDF, harvest.LinkPDF, depth)
		c.enqueue(frontier, res.links.Doc, harvest.LinkDoc, depth)
		c.enqueue(frontier, res.links.Txt, harvest.LinkTxt, depth)

		if err := sink.WriteWebsite(ctx, res.page.Record()); err != nil {
			return fmt.Errorf("write website %s: %w", res.page.URL, err)
		}
		result.Pages++

		if c.MaxDepth <= 0 || res.task.Depth < c.MaxDepth {
			c.enqueue(frontier, res.links.Other, harvest.LinkPage, depth)
		}

	default:
		result.Skipped++
	}
	return nil
}

// enqueue pushes in-scope urls onto the frontier.
func (c *Crawler) enqueue(frontier harvest.TaskFrontier, urls []string, kind harvest.LinkKind, depth int) {
	for _, u := range urls {
		if !c.Scope.Allows(u) {
			continue
		}
		frontier.Push(harvest.Task{URL: u, Kind: kind, Depth: depth})
	}
}

// fetch applies rate limiting, the per-attempt timeout and retries.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (*harvest.FetchResult, error) {
	if c.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, harvest.Errorf(harvest.EINVALID, "invalid URL %q: %v", rawURL, err)
		}
		if err := c.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, err
		}
	}

	fetchFn := func(ctx context.Context, url string) (*harvest.FetchResult, error) {
		if c.FetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.FetchTimeout)
			defer cancel()
		}
		return c.Fetcher.Fetch(ctx, url)
	}
	logRetry := func(url string, attempt int, err error) {
		c.logger().Debug("retrying fetch", "url", url, "attempt", attempt, "err", err)
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	res, err := FetchWithRetryDelays(ctx, rawURL, fetchFn, logRetry, delays)
	if err != nil {
		return nil, err
	}
	if res.URL == "" {
		res.URL = rawURL
	}
	return res, nil
}

func (c *Crawler) maxPages() int {
	switch {
	case c.MaxPages < 0:
		return 0
	case c.MaxPages == 0:
		return DefaultMaxPages
	default:
		return c.MaxPages
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return discardLogger
	}
	return c.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}
