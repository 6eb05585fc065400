package harvest

// Page is the content extracted from a fetched HTML page.
type Page struct {
	URL string

	// Title is the cleaned text of the first <title> element, if any.
	Title string

	// Fragments are the cleaned visible text nodes of <body> in document
	// order, excluding <script> and <style> content.
	Fragments []string

	// Links are the absolute http(s) URLs of the page's hyperlinks, with
	// fragments removed, in document order.
	Links []string
}

// Record builds the website record for the page.
func (p *Page) Record() *WebsiteRecord {
	return &WebsiteRecord{
		URL:     p.URL,
		Title:   p.Title,
		Content: Join(p.Fragments),
	}
}

// PageExtractor extracts the title, body text and links of an HTML response.
type PageExtractor interface {
	ExtractPage(res *FetchResult) (*Page, error)
}
