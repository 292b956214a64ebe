package mock

import (
	"github.com/fwojciec/pricetrack"
)

var (
	_ pricetrack.ProductExtractor  = (*ProductExtractor)(nil)
	_ pricetrack.ExtractorRegistry = (*ExtractorRegistry)(nil)
)

// ProductExtractor is a mock implementation of pricetrack.ProductExtractor.
type ProductExtractor struct {
	SiteFn      func() pricetrack.Site
	HostsFn     func() []string
	RenderingFn func() (pricetrack.RenderOptions, bool)
	ExtractFn   func(html, pageURL string) (*pricetrack.ScrapedProduct, error)
}

func (e *ProductExtractor) Site() pricetrack.Site {
	return e.SiteFn()
}

func (e *ProductExtractor) Hosts() []string {
	return e.HostsFn()
}

func (e *ProductExtractor) Rendering() (pricetrack.RenderOptions, bool) {
	return e.RenderingFn()
}

func (e *ProductExtractor) Extract(html, pageURL string) (*pricetrack.ScrapedProduct, error) {
	return e.ExtractFn(html, pageURL)
}

// ExtractorRegistry is a mock implementation of pricetrack.ExtractorRegistry.
type ExtractorRegistry struct {
	GetFn       func(site pricetrack.Site) pricetrack.ProductExtractor
	MatchFn     func(rawURL string) pricetrack.ProductExtractor
	GetForURLFn func(rawURL string) pricetrack.ProductExtractor
	RegisterFn  func(ext pricetrack.ProductExtractor)
	ListFn      func() []pricetrack.Site
}

func (r *ExtractorRegistry) Get(site pricetrack.Site) pricetrack.ProductExtractor {
	return r.GetFn(site)
}

func (r *ExtractorRegistry) Match(rawURL string) pricetrack.ProductExtractor {
	return r.MatchFn(rawURL)
}

func (r *ExtractorRegistry) GetForURL(rawURL string) pricetrack.ProductExtractor {
	return r.GetForURLFn(rawURL)
}

func (r *ExtractorRegistry) Register(ext pricetrack.ProductExtractor) {
	r.RegisterFn(ext)
}

func (r *ExtractorRegistry) List() []pricetrack.Site {
	return r.ListFn()
}
