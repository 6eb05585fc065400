// Package goquery extracts page content and hyperlinks from HTML using
// goquery.
package goquery

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

var _ harvest.PageExtractor = (*PageExtractor)(nil)

// PageExtractor extracts the title, visible body text and hyperlinks of an
// HTML response.
type PageExtractor struct{}

// NewPageExtractor creates a new PageExtractor.
func NewPageExtractor() *PageExtractor {
	return &PageExtractor{}
}

// ExtractPage parses res.Body, decoding it from the charset declared by the
// Content-Type header or the document itself.
func (e *PageExtractor) ExtractPage(res *harvest.FetchResult) (*harvest.Page, error) {
	base, err := url.Parse(res.URL)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid page URL: %v", err)
	}

	r, err := charset.NewReader(bytes.NewReader(res.Body), res.ContentType)
	if err != nil {
		// Unknown label; parse the raw bytes as UTF-8.
		r = bytes.NewReader(res.Body)
	}
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}

	return &harvest.Page{
		URL:       res.URL,
		Title:     harvest.Clean(doc.Find("title").First().Text()),
		Fragments: bodyText(doc),
		Links:     links(doc, base),
	}, nil
}

func parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, harvest.Errorf(harvest.EPARSE, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// bodyText returns the cleaned, non-empty text nodes under <body> in
// document order, skipping <script> and <style> content.
func bodyText(doc *goquery.Document) []string {
	var fragments []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if text := harvest.Clean(n.Data); text != "" {
				fragments = append(fragments, text)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Find("body").Nodes {
		walk(n)
	}
	return fragments
}

// links returns the absolute http(s) hyperlinks of doc in document order.
// Relative links resolve against base, or against the document's
// <base href> when present.
func links(doc *goquery.Document, base *url.URL) []string {
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	var out []string
	doc.Find("a[href], area[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if u := resolveURL(base, href); u != "" {
			out = append(out, u)
		}
	})
	return out
}

// resolveURL resolves href against base and strips the fragment. It returns
// the empty string for unparseable and non-http(s) references.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved.String()
}
