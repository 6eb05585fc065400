package harvest

import (
	"net/url"
	"path"
	"strings"
)

// LinkKind identifies how a discovered link is processed.
type LinkKind string

// Link kinds. Document kinds are fetched once and extracted; LinkPage links
// are fetched and crawled recursively.
const (
	LinkPDF  LinkKind = "pdf"
	LinkDoc  LinkKind = "doc"
	LinkTxt  LinkKind = "txt"
	LinkPage LinkKind = "page"
)

// IsDocument reports whether links of this kind point at a document rather
// than a page.
func (k LinkKind) IsDocument() bool {
	return k == LinkPDF || k == LinkDoc || k == LinkTxt
}

// downloadSegment marks repository-style download endpoints that serve PDFs
// without a file extension.
const downloadSegment = "article/download/"

// DefaultDenyExtensions lists the extensions never followed as pages.
var DefaultDenyExtensions = []string{
	"rar", "jpg", "jpeg", "gif", "png", "ppt", "pptx", "pdf", "doc", "docx",
	"txt", "xls", "db", "zip", "dpt", "exe", "mso", "wmz", "sav", "tmp",
}

// LinkSet holds the links of a page partitioned by kind.
type LinkSet struct {
	PDF   []string
	Doc   []string
	Txt   []string
	Other []string
}

// Len returns the total number of links in the set.
func (s LinkSet) Len() int {
	return len(s.PDF) + len(s.Doc) + len(s.Txt) + len(s.Other)
}

// ExtensionSet is a set of lowercase file extensions without the leading dot.
type ExtensionSet map[string]struct{}

// NewExtensionSet builds a set from extensions given with or without a
// leading dot, in any case.
func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, ext := range exts {
		ext = normalizeExt(ext)
		if ext == "" {
			continue
		}
		set[ext] = struct{}{}
	}
	return set
}

// Has reports whether ext is in the set. A nil set contains nothing.
func (s ExtensionSet) Has(ext string) bool {
	_, ok := s[normalizeExt(ext)]
	return ok
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Classify determines the kind of a single absolute URL.
//
// Extensions are matched case-insensitively against the URL path: .pdf is
// LinkPDF, .doc and .docx are LinkDoc, .txt is LinkTxt. A path containing
// "article/download/" is LinkPDF. Any other URL is LinkPage unless its
// extension is in deny, in which case ok is false.
func Classify(rawURL string, deny ExtensionSet) (kind LinkKind, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	ext := normalizeExt(path.Ext(u.Path))
	switch ext {
	case "pdf":
		return LinkPDF, true
	case "doc", "docx":
		return LinkDoc, true
	case "txt":
		return LinkTxt, true
	}

	if strings.Contains(u.Path, downloadSegment) {
		return LinkPDF, true
	}

	if deny.Has(ext) {
		return "", false
	}
	return LinkPage, true
}

// ClassifyLinks partitions links into document buckets and a page bucket.
// Each URL lands in at most one bucket and appears in it at most once.
// The page bucket is the deny-list filter over every link not already
// claimed by a document bucket.
func ClassifyLinks(links []string, deny ExtensionSet) LinkSet {
	var set LinkSet
	seen := make(map[string]bool, len(links))
	for _, link := range links {
		if seen[link] {
			continue
		}
		seen[link] = true

		kind, ok := Classify(link, deny)
		if !ok {
			continue
		}
		switch kind {
		case LinkPDF:
			set.PDF = append(set.PDF, link)
		case LinkDoc:
			set.Doc = append(set.Doc, link)
		case LinkTxt:
			set.Txt = append(set.Txt, link)
		case LinkPage:
			set.Other = append(set.Other, link)
		}
	}
	return set
}
