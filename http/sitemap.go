package http

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/harvest"
)

// maxSitemaps bounds the number of sitemap documents read per site,
// including nested sitemap indexes.
const maxSitemaps = 50

// Ensure SitemapDiscoverer implements harvest.SeedDiscoverer.
var _ harvest.SeedDiscoverer = (*SitemapDiscoverer)(nil)

// SitemapDiscoverer finds seeds in the sitemaps a site publishes, either
// through Sitemap: lines in robots.txt or at /sitemap.xml.
type SitemapDiscoverer struct {
	client    *http.Client
	userAgent string
}

// NewSitemapDiscoverer creates a new SitemapDiscoverer with the given HTTP
// client. If client is nil, http.DefaultClient is used.
func NewSitemapDiscoverer(client *http.Client, userAgent string) *SitemapDiscoverer {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapDiscoverer{client: client, userAgent: userAgent}
}

// DiscoverSeeds returns the page URLs listed in the sitemaps of siteURL's
// host, deduplicated, in the order they were found. A sitemap that cannot
// be fetched or parsed is skipped; its error is returned only when no
// sitemap yielded any URL.
func (d *SitemapDiscoverer) DiscoverSeeds(ctx context.Context, siteURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	site, err := url.Parse(siteURL)
	if err != nil || site.Host == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid site URL %q", siteURL)
	}
	root := &url.URL{Scheme: site.Scheme, Host: site.Host}

	queue, err := d.sitemapLocations(ctx, root)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	seenURLs := make(map[string]bool)
	seenSitemaps := make(map[string]bool)
	var firstErr error
	for len(queue) > 0 && len(seenSitemaps) < maxSitemaps {
		loc := queue[0]
		queue = queue[1:]
		if seenSitemaps[loc] {
			continue
		}
		seenSitemaps[loc] = true

		nested, pages, err := d.readSitemap(ctx, loc)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		queue = append(queue, nested...)
		for _, u := range pages {
			if !seenURLs[u] {
				seenURLs[u] = true
				urls = append(urls, u)
			}
		}
	}
	if len(urls) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return urls, nil
}

// sitemapLocations reads Sitemap: directives from robots.txt, falling back
// to /sitemap.xml when robots.txt lists none.
func (d *SitemapDiscoverer) sitemapLocations(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	body, err := d.get(ctx, robots)
	if err == nil {
		defer body.Close()

		var locs []string
		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if len(line) > 8 && strings.EqualFold(line[:8], "sitemap:") {
				if loc := strings.TrimSpace(line[8:]); loc != "" {
					locs = append(locs, loc)
				}
			}
		}
		if len(locs) > 0 {
			return locs, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return []string{root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}, nil
}

// readSitemap fetches one sitemap document. A <sitemapindex> yields nested
// sitemap locations, a <urlset> yields page URLs. A missing sitemap yields
// neither.
func (d *SitemapDiscoverer) readSitemap(ctx context.Context, loc string) (nested, pages []string, err error) {
	body, err := d.get(ctx, loc)
	if err != nil {
		if harvest.ErrorCode(err) == harvest.ENOTFOUND {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(io.LimitReader(body, DefaultMaxBodySize)); err != nil {
		return nil, nil, harvest.Errorf(harvest.EPARSE, "parsing sitemap %s: %v", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil, harvest.Errorf(harvest.EPARSE, "empty sitemap %s", loc)
	}

	switch root.Tag {
	case "sitemapindex":
		return locs(root, "sitemap"), nil, nil
	default:
		return nil, locs(root, "url"), nil
	}
}

// locs returns the trimmed <loc> text of each child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func (d *SitemapDiscoverer) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid request for %s: %v", target, err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, harvest.Errorf(harvest.EFETCH, "request %s: %v", target, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		code := harvest.EFETCH
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			code = harvest.ENOTFOUND
		}
		return nil, harvest.Errorf(code, "HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}
