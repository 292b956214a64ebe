package goquery

import (
	"strings"

	"github.com/fwojciec/pricetrack"
)

var _ pricetrack.ExtractorRegistry = (*Registry)(nil)

// Registry selects site extractors by hostname. Each extractor claims a
// list of hostname substrings; the first registered extractor with a
// substring contained in the URL's hostname wins. URLs that match no
// extractor get the fallback.
type Registry struct {
	fallback   pricetrack.ProductExtractor
	extractors []pricetrack.ProductExtractor
}

// NewRegistry creates a new Registry with the given fallback extractor.
func NewRegistry(fallback pricetrack.ProductExtractor) *Registry {
	return &Registry{fallback: fallback}
}

// NewDefaultRegistry creates a Registry with every known store and the
// generic fallback.
func NewDefaultRegistry() *Registry {
	r := NewRegistry(NewGenericExtractor())
	r.Register(NewAymStudioExtractor())
	r.Register(NewGianaWorldExtractor())
	r.Register(NewZaraExtractor())
	r.Register(NewHMExtractor())
	r.Register(NewFarfetchExtractor())
	r.Register(NewAmazonExtractor())
	r.Register(NewMytheresaExtractor())
	r.Register(NewYooxExtractor())
	return r
}

// Get returns the extractor for a specific site.
// Returns nil if no extractor is registered for the site.
func (r *Registry) Get(site pricetrack.Site) pricetrack.ProductExtractor {
	for _, e := range r.extractors {
		if e.Site() == site {
			return e
		}
	}
	if r.fallback != nil && r.fallback.Site() == site {
		return r.fallback
	}
	return nil
}

// Match returns the extractor whose host pattern the URL's hostname
// contains. Returns nil if none matches or the URL cannot be parsed.
func (r *Registry) Match(rawURL string) pricetrack.ProductExtractor {
	host := pricetrack.Hostname(rawURL)
	if host == "" {
		return nil
	}
	for _, e := range r.extractors {
		for _, pattern := range e.Hosts() {
			if strings.Contains(host, pattern) {
				return e
			}
		}
	}
	return nil
}

// GetForURL returns the matching extractor, or the fallback.
func (r *Registry) GetForURL(rawURL string) pricetrack.ProductExtractor {
	if e := r.Match(rawURL); e != nil {
		return e
	}
	return r.fallback
}

// Register adds an extractor. If an extractor is already registered for
// the same site, it is replaced in place.
func (r *Registry) Register(ext pricetrack.ProductExtractor) {
	for i, e := range r.extractors {
		if e.Site() == ext.Site() {
			r.extractors[i] = ext
			return
		}
	}
	r.extractors = append(r.extractors, ext)
}

// List returns registered sites in registration order.
func (r *Registry) List() []pricetrack.Site {
	sites := make([]pricetrack.Site, 0, len(r.extractors))
	for _, e := range r.extractors {
		sites = append(sites, e.Site())
	}
	return sites
}
