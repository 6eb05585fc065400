package harvest

import (
	"net/url"
	"time"
)

// Output formats understood by the CLI.
const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Fetcher backends understood by the CLI.
const (
	FetcherHTTP  = "http"
	FetcherColly = "colly"
)

// Config describes a crawl.
type Config struct {
	// AllowedDomains are the hosts the crawl may fetch from. A domain also
	// allows its subdomains.
	AllowedDomains []string `yaml:"allowedDomains"`

	// Seeds are the URLs the crawl starts from.
	Seeds []string `yaml:"seeds"`

	// Sitemaps adds the URLs listed in each seed site's sitemaps to the
	// seeds.
	Sitemaps bool `yaml:"sitemaps"`

	// DenyExtensions are extensions never followed as pages.
	DenyExtensions []string `yaml:"denyExtensions"`

	Concurrency int `yaml:"concurrency"`

	// MaxPages bounds the number of page fetches. Zero selects the default
	// bound; a negative value disables the bound.
	MaxPages int `yaml:"maxPages"`

	// MaxDepth bounds the number of page hops from a seed. Zero means
	// unbounded.
	MaxDepth int `yaml:"maxDepth"`

	FetchTimeout time.Duration `yaml:"fetchTimeout"`

	// RequestsPerSecond throttles requests per host. Zero disables it.
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`

	UserAgent string `yaml:"userAgent"`
	Fetcher   string `yaml:"fetcher"`
	Output    string `yaml:"output"`
	Format    string `yaml:"format"`
}

// DefaultConfig returns the configuration for crawling the UPR sites.
func DefaultConfig() *Config {
	return &Config{
		AllowedDomains: []string{"upr.edu.cu"},
		Seeds: []string{
			"http://www.upr.edu.cu/",
			"https://blogcrai.upr.edu.cu/",
			"https://crai.upr.edu.cu/",
		},
		DenyExtensions: append([]string(nil), DefaultDenyExtensions...),
		Concurrency:    10,
		FetchTimeout:   30 * time.Second,
		UserAgent:      "harvest/1.0",
		Fetcher:        FetcherHTTP,
		Output:         "data.json",
		Format:         FormatJSON,
	}
}

// Validate returns an error if the configuration cannot drive a crawl.
func (c *Config) Validate() error {
	if len(c.AllowedDomains) == 0 {
		return Errorf(EINVALID, "at least one allowed domain required")
	}
	if len(c.Seeds) == 0 {
		return Errorf(EINVALID, "at least one seed URL required")
	}
	for _, seed := range c.Seeds {
		u, err := url.Parse(seed)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return Errorf(EINVALID, "invalid seed URL %q", seed)
		}
	}
	if c.Concurrency < 0 {
		return Errorf(EINVALID, "concurrency must not be negative")
	}
	if c.MaxDepth < 0 {
		return Errorf(EINVALID, "max depth must not be negative")
	}
	if c.RequestsPerSecond < 0 {
		return Errorf(EINVALID, "requests per second must not be negative")
	}
	switch c.Format {
	case FormatJSON, FormatSQLite:
	default:
		return Errorf(EINVALID, "unknown output format %q", c.Format)
	}
	switch c.Fetcher {
	case FetcherHTTP, FetcherColly:
	default:
		return Errorf(EINVALID, "unknown fetcher %q", c.Fetcher)
	}
	if c.Output == "" {
		return Errorf(EINVALID, "output path required")
	}
	return nil
}
