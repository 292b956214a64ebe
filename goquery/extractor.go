package goquery

import (
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pricetrack"
)

// UntitledProduct is a placeholder title some stores render for unknown
// products. It is treated like a missing title.
const UntitledProduct = "Untitled Product"

const maxImages = 5

var _ pricetrack.ProductExtractor = (*SiteExtractor)(nil)

// Page is a parsed product page handed to capability functions.
type Page struct {
	Doc *goquery.Document
	URL string

	jsonLD     *jsonLDProduct
	jsonLDDone bool

	shopify     *shopifyProduct
	shopifyDone bool
}

func newPage(html, pageURL string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pricetrack.Errorf(pricetrack.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Page{Doc: doc, URL: pageURL}, nil
}

func (p *Page) product() *jsonLDProduct {
	if !p.jsonLDDone {
		p.jsonLD, _ = findJSONLDProduct(p.Doc)
		p.jsonLDDone = true
	}
	return p.jsonLD
}

func (p *Page) shopifyProduct() *shopifyProduct {
	if !p.shopifyDone {
		p.shopify = findShopifyProduct(p.Doc)
		p.shopifyDone = true
	}
	return p.shopify
}

// Capabilities are the per-field extraction functions of a site.
// A nil function, or one returning an empty value, defers that field to
// the generic fallback.
type Capabilities struct {
	Title   func(p *Page) string
	Price   func(p *Page) (price float64, currency string, ok bool)
	Images  func(p *Page) []string
	Brand   func(p *Page) string
	Colors  func(p *Page) []pricetrack.Color
	Sizes   func(p *Page) []pricetrack.Size
	InStock func(p *Page) (inStock bool, ok bool)
}

// SiteExtractor composes a site's capabilities with the generic fallback.
type SiteExtractor struct {
	site    pricetrack.Site
	hosts   []string
	caps    Capabilities
	render  pricetrack.RenderOptions
	dynamic bool
}

// SiteOption configures a SiteExtractor.
type SiteOption func(*SiteExtractor)

// WithRendering marks the site as populated by client-side script.
func WithRendering(opts pricetrack.RenderOptions) SiteOption {
	return func(e *SiteExtractor) {
		e.render = opts
		e.dynamic = true
	}
}

// NewSiteExtractor creates an extractor for site claiming the given host
// substrings.
func NewSiteExtractor(site pricetrack.Site, hosts []string, caps Capabilities, opts ...SiteOption) *SiteExtractor {
	e := &SiteExtractor{
		site:  site,
		hosts: hosts,
		caps:  caps,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewGenericExtractor creates the fallback extractor used for unknown hosts.
func NewGenericExtractor() *SiteExtractor {
	return NewSiteExtractor(pricetrack.SiteGeneric, nil, Capabilities{})
}

// Site returns the site this extractor handles.
func (e *SiteExtractor) Site() pricetrack.Site {
	return e.site
}

// Hosts returns the hostname substrings this extractor claims.
func (e *SiteExtractor) Hosts() []string {
	return e.hosts
}

// Rendering returns the browser configuration for dynamic sites.
func (e *SiteExtractor) Rendering() (pricetrack.RenderOptions, bool) {
	return e.render, e.dynamic
}

// Extract parses html and resolves every field through the site's
// capability first and the generic fallback second.
func (e *SiteExtractor) Extract(html, pageURL string) (*pricetrack.ScrapedProduct, error) {
	p, err := newPage(html, pageURL)
	if err != nil {
		return nil, err
	}

	product := &pricetrack.ScrapedProduct{URL: pageURL}

	if e.caps.Title != nil {
		product.Title = pricetrack.CleanText(e.caps.Title(p))
	}
	if product.Title == "" {
		product.Title = genericTitle(p)
	}
	if product.Title == "" || product.Title == UntitledProduct {
		return nil, pricetrack.Errorf(pricetrack.ENOTITLE, "no product title found at %s", pageURL)
	}

	product.Price, product.Currency = e.price(p)

	var images []string
	if e.caps.Images != nil {
		images = e.caps.Images(p)
	}
	product.Images = normalizeImages(images, pageURL)
	if len(product.Images) == 0 {
		product.Images = genericImages(p)
	}

	if e.caps.Brand != nil {
		product.Brand = pricetrack.CleanText(e.caps.Brand(p))
	}
	if product.Brand == "" {
		product.Brand = genericBrand(p)
	}

	if e.caps.Colors != nil {
		product.Colors = e.caps.Colors(p)
	}
	if len(product.Colors) == 0 {
		product.Colors = genericColors(p)
	}
	if e.caps.Sizes != nil {
		product.Sizes = e.caps.Sizes(p)
	}
	if len(product.Sizes) == 0 {
		product.Sizes = genericSizes(p)
	}

	inStock, ok := false, false
	if e.caps.InStock != nil {
		inStock, ok = e.caps.InStock(p)
	}
	if !ok {
		inStock = genericInStock(p)
	}
	product.InStock = inStock

	return product, nil
}

func (e *SiteExtractor) price(p *Page) (float64, string) {
	if e.caps.Price != nil {
		if price, currency, ok := e.caps.Price(p); ok && price > 0 {
			if currency == "" {
				currency = pricetrack.DetectCurrency("", p.URL)
			}
			return price, currency
		}
	}
	return genericPrice(p)
}

// imageSet collects unique absolute product image URLs up to maxImages.
type imageSet struct {
	base string
	seen map[string]bool
	urls []string
}

func newImageSet(base string) *imageSet {
	return &imageSet{base: base, seen: make(map[string]bool), urls: []string{}}
}

func (s *imageSet) full() bool {
	return len(s.urls) >= maxImages
}

func (s *imageSet) add(raw string) {
	if s.full() {
		return
	}
	u, ok := pricetrack.AbsoluteURL(raw, s.base)
	if !ok || s.seen[u] || isNonProductImage(u) {
		return
	}
	s.seen[u] = true
	s.urls = append(s.urls, u)
}

// addImg adds the best source of an img or source element.
func (s *imageSet) addImg(sel *goquery.Selection) {
	s.add(imageSource(sel))
}

func imageSource(sel *goquery.Selection) string {
	for _, attr := range []string{"srcset", "data-srcset"} {
		if v, ok := sel.Attr(attr); ok {
			if u := pricetrack.ParseSrcset(v); u != "" {
				return u
			}
		}
	}
	for _, attr := range []string{"data-src", "data-zoom-image", "src", "content", "href"} {
		if v, ok := sel.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func normalizeImages(raw []string, base string) []string {
	s := newImageSet(base)
	for _, u := range raw {
		s.add(u)
	}
	return s.urls
}

func isNonProductImage(u string) bool {
	name := strings.ToLower(path.Base(u))
	for _, marker := range []string{"placeholder", "icon", "sprite", "logo"} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// firstText returns the first non-empty cleaned text among matches.
func firstText(doc *goquery.Document, selector string) string {
	var text string
	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text = pricetrack.CleanText(sel.Text())
		return text == ""
	})
	return text
}

// firstAttr returns the first non-empty attribute value among matches.
func firstAttr(doc *goquery.Document, selector, attr string) string {
	var value string
	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		v, _ := sel.Attr(attr)
		value = pricetrack.CleanText(v)
		return value == ""
	})
	return value
}

// contentOrText returns the content attribute of sel, or its text.
func contentOrText(sel *goquery.Selection) string {
	if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
		return pricetrack.CleanText(v)
	}
	return pricetrack.CleanText(sel.Text())
}

// firstPrice returns the first positive price among matches, with the
// currency detected from the same text.
func firstPrice(p *Page, selector string) (float64, string, bool) {
	var price float64
	var currency string
	p.Doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := contentOrText(sel)
		if v := pricetrack.ParsePrice(text); v > 0 {
			price = v
			currency = pricetrack.DetectCurrency(text, p.URL)
			return false
		}
		return true
	})
	return price, currency, price > 0
}

func boolPtr(b bool) *bool {
	return &b
}
