package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pricetrack"
)

// Generic selectors by tier. Within a field, tiers are tried in order:
// Open Graph and Twitter meta, schema.org (JSON-LD and itemprop),
// test-id and class conventions, then generic tags.
const (
	productTitleSelectors = `[data-testid="product-title"], [data-testid="product-name"], ` +
		`.product-title, .product-name, .product__title, .product-single__title, .pdp-title`
	productPriceSelectors = `[data-testid="product-price"], [data-testid="price"], ` +
		`.product-price, .product__price, .price-current, .current-price, .sale-price, .price`
	productImageSelectors = `[data-testid="product-image"] img, .product-image img, ` +
		`.product__media img, .product-gallery img, .product-images img`
	productBrandSelectors = `[data-testid="product-brand"], .product-brand, .product__vendor, .brand`
	outOfStockSelectors   = `.out-of-stock, .sold-out, .product--sold-out, .product-sold-out`
	addToCartSelectors    = `button[name="add"], #add-to-cart, .add-to-cart, ` +
		`[data-testid="add-to-cart"], .product-form__submit`
)

func genericTitle(p *Page) string {
	if t := metaContent(p.Doc, `meta[property="og:title"], meta[name="twitter:title"], meta[property="twitter:title"]`); t != "" {
		return t
	}
	if ld := p.product(); ld != nil && ld.Name != "" {
		return ld.Name
	}
	if t := firstText(p.Doc, `[itemtype*="schema.org/Product"] [itemprop="name"]`); t != "" {
		return t
	}
	if t := firstText(p.Doc, productTitleSelectors); t != "" {
		return t
	}
	if t := firstText(p.Doc, "h1"); t != "" {
		return t
	}
	title := pricetrack.CleanText(p.Doc.Find("title").First().Text())
	if i := strings.Index(title, "|"); i >= 0 {
		title = pricetrack.CleanText(title[:i])
	}
	return title
}

func genericPrice(p *Page) (float64, string) {
	if amount := metaContent(p.Doc, `meta[property="product:price:amount"], meta[property="og:price:amount"]`); amount != "" {
		if price := pricetrack.ParsePrice(amount); price > 0 {
			code := metaContent(p.Doc, `meta[property="product:price:currency"], meta[property="og:price:currency"]`)
			if code != "" {
				return price, pricetrack.CurrencySymbol(code)
			}
			return price, pricetrack.DetectCurrency(amount, p.URL)
		}
	}
	if ld := p.product(); ld != nil && ld.Price > 0 {
		if ld.Currency != "" {
			return ld.Price, ld.Currency
		}
		return ld.Price, pricetrack.DetectCurrency("", p.URL)
	}
	if price, currency, ok := firstPrice(p, `[itemprop="price"]`); ok {
		if code := firstAttr(p.Doc, `[itemprop="priceCurrency"]`, "content"); code != "" {
			currency = pricetrack.CurrencySymbol(code)
		}
		return price, currency
	}
	if price, currency, ok := firstPrice(p, productPriceSelectors); ok {
		return price, currency
	}
	return 0, pricetrack.DetectCurrency("", p.URL)
}

func genericImages(p *Page) []string {
	s := newImageSet(p.URL)
	p.Doc.Find(`meta[property="og:image"], meta[property="og:image:secure_url"], meta[name="twitter:image"]`).
		EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			s.add(sel.AttrOr("content", ""))
			return !s.full()
		})
	if ld := p.product(); ld != nil {
		for _, u := range ld.Images {
			s.add(u)
		}
	}
	for _, selector := range []string{`[itemprop="image"]`, productImageSelectors, "main img"} {
		if s.full() {
			break
		}
		p.Doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			s.addImg(sel)
			return !s.full()
		})
	}
	return s.urls
}

func genericBrand(p *Page) string {
	if b := metaContent(p.Doc, `meta[property="product:brand"], meta[property="og:brand"]`); b != "" {
		return b
	}
	if ld := p.product(); ld != nil && ld.Brand != "" {
		return ld.Brand
	}
	var brand string
	p.Doc.Find(`[itemprop="brand"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if name := sel.Find(`[itemprop="name"]`); name.Length() > 0 {
			brand = contentOrText(name.First())
		} else {
			brand = contentOrText(sel)
		}
		return brand == ""
	})
	if brand != "" {
		return brand
	}
	return firstText(p.Doc, productBrandSelectors)
}

func genericColors(p *Page) []pricetrack.Color {
	if sp := p.shopifyProduct(); sp != nil {
		return sp.colors()
	}
	return nil
}

func genericSizes(p *Page) []pricetrack.Size {
	if sp := p.shopifyProduct(); sp != nil {
		return sp.sizes()
	}
	return nil
}

// genericInStock defaults to in stock unless an explicit out-of-stock
// indicator is present.
func genericInStock(p *Page) bool {
	if v := metaContent(p.Doc, `meta[property="product:availability"], meta[property="og:availability"]`); v != "" {
		if inStock, ok := availabilityInStock(v); ok {
			return inStock
		}
	}
	if ld := p.product(); ld != nil {
		if inStock, ok := availabilityInStock(ld.Availability); ok {
			return inStock
		}
	}
	if sel := p.Doc.Find(`[itemprop="availability"]`).First(); sel.Length() > 0 {
		v := sel.AttrOr("href", sel.AttrOr("content", ""))
		if inStock, ok := availabilityInStock(v); ok {
			return inStock
		}
	}
	if p.Doc.Find(outOfStockSelectors).Length() > 0 {
		return false
	}
	outOfStock := false
	p.Doc.Find(addToCartSelectors).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(pricetrack.CleanText(sel.Text()))
		outOfStock = strings.Contains(text, "out of stock") || strings.Contains(text, "sold out")
		return !outOfStock
	})
	return !outOfStock
}

func metaContent(doc *goquery.Document, selector string) string {
	return firstAttr(doc, selector, "content")
}
