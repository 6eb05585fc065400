package crawl

import (
	"net/url"
	"strings"
)

// Scope is the allow-list of domains a crawl may fetch from.
// A domain admits itself and any of its subdomains.
type Scope struct {
	domains []string
}

// NewScope creates a Scope for the given domains.
func NewScope(domains ...string) *Scope {
	s := &Scope{}
	for _, d := range domains {
		d = strings.Trim(strings.ToLower(strings.TrimSpace(d)), ".")
		if d == "" {
			continue
		}
		s.domains = append(s.domains, d)
	}
	return s
}

// Allows reports whether rawURL is an http(s) URL on an allowed host.
func (s *Scope) Allows(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, d := range s.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Domains returns the normalized allowed domains.
func (s *Scope) Domains() []string {
	return append([]string(nil), s.domains...)
}
