package pricetrack

import "context"

// ScrapedProduct is the structured result of a single extraction call.
// It is created fresh on every call and owns no external resources.
type ScrapedProduct struct {
	Title    string   `json:"title"`
	Price    float64  `json:"price"`
	Currency string   `json:"currency"`
	Images   []string `json:"images"`
	Brand    string   `json:"brand,omitempty"`
	InStock  bool     `json:"inStock"`
	Colors   []Color  `json:"colors,omitempty"`
	Sizes    []Size   `json:"sizes,omitempty"`

	// URL is the absolute URL that was scraped, without fragment.
	URL string `json:"url"`
}

// Color is a color variant offered on a product page.
type Color struct {
	Name      string `json:"name"`
	SwatchURL string `json:"swatchUrl,omitempty"`

	// Available is nil when the page does not expose availability.
	Available *bool `json:"available,omitempty"`
}

// Size is a size variant offered on a product page.
type Size struct {
	Name      string `json:"name"`
	Available *bool  `json:"available,omitempty"`
}

// ColorNames flattens colors to their names, dropping empty ones.
func ColorNames(colors []Color) []string {
	names := make([]string, 0, len(colors))
	for _, c := range colors {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

// SizeNames flattens sizes to their names, dropping empty ones.
func SizeNames(sizes []Size) []string {
	names := make([]string, 0, len(sizes))
	for _, s := range sizes {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return names
}

// Scraper extracts a product from a page URL.
type Scraper interface {
	// Scrape acquires the page (statically or through a headless browser,
	// depending on the site) and extracts the product.
	// Returns ETIMEOUT, EBLOCKED, EGONE or EUNAVAILABLE for transport
	// failures, ENOTITLE when no usable title exists and ECONFIG when the
	// site needs rendering that is not available.
	Scrape(ctx context.Context, url string) (*ScrapedProduct, error)
}
