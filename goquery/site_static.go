package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pricetrack"
)

// NewFarfetchExtractor creates the extractor for Farfetch.
func NewFarfetchExtractor() *SiteExtractor {
	return NewSiteExtractor(pricetrack.SiteFarfetch, []string{"farfetch"}, Capabilities{
		Title: func(p *Page) string {
			return firstText(p.Doc, `[data-testid="product-short-description"], [data-tstid="productDesc"]`)
		},
		Price: func(p *Page) (float64, string, bool) {
			return firstPrice(p, `[data-component="PriceFinalLarge"], [data-component="PriceLarge"], `+
				`[data-testid="price-final"], [data-tstid="priceInfo-onsale"], [data-tstid="priceInfo-original"]`)
		},
		Images: func(p *Page) []string {
			return collectImages(p, `[data-testid="product-image"] img, [data-component="Img"], [data-tstid="slideshow"] img`)
		},
		Brand: func(p *Page) string {
			return firstText(p.Doc, `[data-testid="product-brand"], a[data-component="DesignerName"], [data-tstid="cardInfo-title"]`)
		},
		Sizes: func(p *Page) []pricetrack.Size {
			var sizes []pricetrack.Size
			p.Doc.Find(`[data-component="SizeSelectorOption"], [data-testid="sizeSelectorOption"]`).Each(func(_ int, sel *goquery.Selection) {
				name := pricetrack.CleanText(sel.Find(`[data-component="SizeSelectorLabel"]`).Text())
				if name == "" {
					name = pricetrack.CleanText(sel.Text())
				}
				if name == "" {
					return
				}
				_, disabled := sel.Attr("aria-disabled")
				sizes = append(sizes, pricetrack.Size{Name: name, Available: boolPtr(!disabled)})
			})
			return sizes
		},
	})
}

// NewYooxExtractor creates the extractor for Yoox.
func NewYooxExtractor() *SiteExtractor {
	return NewSiteExtractor(pricetrack.SiteYoox, []string{"yoox"}, Capabilities{
		Title: func(p *Page) string {
			return firstText(p.Doc, `[data-testid="item-description"], .item-description, #itemTitle .microcategory`)
		},
		Price: func(p *Page) (float64, string, bool) {
			return firstPrice(p, `[data-testid="item-price"] .final-price, .final-price, [data-testid="item-price"]`)
		},
		Images: func(p *Page) []string {
			return collectImages(p, `[data-testid="item-image"] img, #itemImage img, .item-image img`)
		},
		Brand: func(p *Page) string {
			return firstText(p.Doc, `[data-testid="brand-name"], .brand-name, #itemTitle .brand`)
		},
		Colors: func(p *Page) []pricetrack.Color {
			var colors []pricetrack.Color
			p.Doc.Find(`[data-testid="color-picker"] [data-color], .colors-list .color`).Each(func(_ int, sel *goquery.Selection) {
				name := pricetrack.CleanText(sel.AttrOr("data-color", sel.AttrOr("title", "")))
				if name != "" {
					colors = append(colors, pricetrack.Color{Name: name})
				}
			})
			return colors
		},
		Sizes: func(p *Page) []pricetrack.Size {
			return collectSizes(p, `[data-testid="size-picker"] li, .sizes-list .size`, "", "disabled", "sold-out")
		},
	})
}

// NewAymStudioExtractor creates the extractor for the AYM Studio Shopify store.
func NewAymStudioExtractor() *SiteExtractor {
	return NewSiteExtractor(pricetrack.SiteAymStudio, []string{"aymstudio", "aym-studio"},
		shopifyCapabilities(".product__title h1, .product__title", ".price__sale .price-item--sale, .price-item--regular"))
}

// NewGianaWorldExtractor creates the extractor for the Giana World Shopify store.
func NewGianaWorldExtractor() *SiteExtractor {
	return NewSiteExtractor(pricetrack.SiteGianaWorld, []string{"gianaworld", "giana-world"},
		shopifyCapabilities(".product-single__title, .product__title", ".product__price--sale, .product__price, [data-product-price]"))
}
