// Package bloom provides the crawl's visited set using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter is a probabilistic set of visited URLs.
// It is not safe for concurrent use; callers serialize access.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Visit marks url as visited. It returns true if url was not visited
// before. A false positive makes Visit return false for a new URL.
func (f *Filter) Visit(url string) bool {
	return !f.f.TestAndAddString(url)
}
