package pricetrack

import "time"

// Site identifies a store with its own extraction rules.
type Site string

// Known sites. SiteGeneric is the fallback used for unknown hosts.
const (
	SiteGeneric    Site = "generic"
	SiteAymStudio  Site = "aymstudio"
	SiteGianaWorld Site = "gianaworld"
	SiteZara       Site = "zara"
	SiteHM         Site = "hm"
	SiteFarfetch   Site = "farfetch"
	SiteAmazon     Site = "amazon"
	SiteMytheresa  Site = "mytheresa"
	SiteYoox       Site = "yoox"
)

// RenderOptions configures page acquisition through a headless browser.
type RenderOptions struct {
	// ReadySelector appears only once price and variant data is present.
	ReadySelector string

	// Timeout bounds navigation and waiting for ReadySelector.
	Timeout time.Duration

	// SettleDelay is waited after ReadySelector appears.
	SettleDelay time.Duration
}

// ProductExtractor extracts product fields from a page's HTML.
// The same extractor serves statically fetched and browser-rendered HTML.
type ProductExtractor interface {
	// Site returns the site this extractor handles.
	Site() Site

	// Hosts returns hostname substrings this extractor claims.
	Hosts() []string

	// Rendering returns the browser rendering configuration and true
	// when the site's product data is injected by client-side script.
	Rendering() (RenderOptions, bool)

	// Extract parses html and returns the product.
	// pageURL resolves relative links and hints at the currency.
	// Returns ENOTITLE if no usable title exists.
	Extract(html, pageURL string) (*ScrapedProduct, error)
}

// ExtractorRegistry selects the extractor for a URL.
type ExtractorRegistry interface {
	// Get returns the extractor registered for site, or nil.
	Get(site Site) ProductExtractor

	// Match returns the first registered extractor whose host pattern is
	// contained in the URL's hostname, or nil if none matches.
	Match(rawURL string) ProductExtractor

	// GetForURL returns Match(rawURL), or the generic fallback.
	GetForURL(rawURL string) ProductExtractor

	// Register adds an extractor. Registration order decides matching.
	Register(ext ProductExtractor)

	// List returns registered sites in registration order.
	List() []Site
}
