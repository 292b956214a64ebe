package goquery

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pricetrack"
)

// Rendering defaults shared by client-side rendered stores.
const (
	DefaultRenderTimeout     = 10 * time.Second
	DefaultRenderSettleDelay = 2 * time.Second
)

func renderOptions(readySelector string) pricetrack.RenderOptions {
	return pricetrack.RenderOptions{
		ReadySelector: readySelector,
		Timeout:       DefaultRenderTimeout,
		SettleDelay:   DefaultRenderSettleDelay,
	}
}

// NewZaraExtractor creates the extractor for Zara. Prices and variants
// are injected by client-side script.
func NewZaraExtractor() *SiteExtractor {
	return NewSiteExtractor(pricetrack.SiteZara, []string{"zara.com"}, Capabilities{
		Title: func(p *Page) string {
			return firstText(p.Doc, ".product-detail-info__header-name, .product-detail-header__name")
		},
		Price: func(p *Page) (float64, string, bool) {
			return firstPrice(p, ".price-current__amount .money-amount__main, .money-amount__main")
		},
		Images: func(p *Page) []string {
			return collectImages(p, ".media-image__image, .product-detail-images img, picture source")
		},
		Brand: func(*Page) string { return "Zara" },
		Colors: func(p *Page) []pricetrack.Color {
			var colors []pricetrack.Color
			p.Doc.Find(".product-detail-color-selector__color").Each(func(_ int, sel *goquery.Selection) {
				name := pricetrack.CleanText(sel.Find(".screen-reader-text").Text())
				if name == "" {
					name = pricetrack.CleanText(sel.Find("button").AttrOr("aria-label", ""))
				}
				if name != "" {
					colors = append(colors, pricetrack.Color{Name: name})
				}
			})
			if len(colors) == 0 {
				if name := firstText(p.Doc, ".product-color-extended-name"); name != "" {
					name, _, _ = strings.Cut(name, "|")
					colors = append(colors, pricetrack.Color{Name: pricetrack.CleanText(name)})
				}
			}
			return colors
		},
		Sizes: func(p *Page) []pricetrack.Size {
			return collectSizes(p, ".size-selector-list__item", ".product-size-info__main-label",
				"size-selector-list__item--out-of-stock", "size-selector-list__item--is-disabled")
		},
		InStock: sizesInStock(".size-selector-list__item",
			"size-selector-list__item--out-of-stock", "size-selector-list__item--is-disabled"),
	}, WithRendering(renderOptions(".money-amount__main")))
}

// NewHMExtractor creates the extractor for H&M.
func NewHMExtractor() *SiteExtractor {
	return NewSiteExtractor(pricetrack.SiteHM, []string{"hm.com"}, Capabilities{
		Title: func(p *Page) string {
			return firstText(p.Doc, `[data-testid="product-name"], h1.product-item-headline, #js-product-name h1`)
		},
		Price: func(p *Page) (float64, string, bool) {
			return firstPrice(p, `[data-testid="price-container"] [data-testid="red-price"], `+
				`[data-testid="price-container"] span, #product-price .price-value`)
		},
		Images: func(p *Page) []string {
			return collectImages(p, `[data-testid="grid-gallery"] img, .product-detail-main-image-container img`)
		},
		Brand: func(*Page) string { return "H&M" },
		Colors: func(p *Page) []pricetrack.Color {
			var colors []pricetrack.Color
			p.Doc.Find(`[data-testid="color-selector"] a, .product-colors .list-item a`).Each(func(_ int, sel *goquery.Selection) {
				name := pricetrack.CleanText(sel.AttrOr("title", sel.AttrOr("aria-label", "")))
				if name == "" {
					return
				}
				color := pricetrack.Color{Name: name}
				if src, ok := pricetrack.AbsoluteURL(imageSource(sel.Find("img").First()), p.URL); ok {
					color.SwatchURL = src
				}
				colors = append(colors, color)
			})
			return colors
		},
		Sizes: func(p *Page) []pricetrack.Size {
			return collectSizes(p, `[data-testid="size-selector"] li, .picker-option`, "", "is-disabled", "sold-out")
		},
		InStock: sizesInStock(`[data-testid="size-selector"] li, .picker-option`, "is-disabled", "sold-out"),
	}, WithRendering(renderOptions(`[data-testid="price-container"], #product-price`)))
}

// NewMytheresaExtractor creates the extractor for Mytheresa.
func NewMytheresaExtractor() *SiteExtractor {
	return NewSiteExtractor(pricetrack.SiteMytheresa, []string{"mytheresa"}, Capabilities{
		Title: func(p *Page) string {
			return firstText(p.Doc, ".product__area__branding__name")
		},
		Price: func(p *Page) (float64, string, bool) {
			return firstPrice(p, ".pricing__prices__value--discount .pricing__prices__price, .pricing__prices__price")
		},
		Images: func(p *Page) []string {
			return collectImages(p, ".product__gallery img, .photocarousel img, .swiper-slide img")
		},
		Brand: func(p *Page) string {
			return firstText(p.Doc, ".product__area__branding__designer__link, .product__area__branding__designer")
		},
		Sizes: func(p *Page) []pricetrack.Size {
			return collectSizes(p, ".sizeitem", ".sizeitem__label", "sizeitem--notavailable")
		},
		InStock: sizesInStock(".sizeitem", "sizeitem--notavailable"),
	}, WithRendering(renderOptions(".pricing__prices")))
}

// collectImages returns the best source of every element matching selector.
func collectImages(p *Page, selector string) []string {
	var urls []string
	p.Doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if src := imageSource(sel); src != "" {
			urls = append(urls, src)
		}
	})
	return urls
}

// collectSizes reads size options. The name comes from labelSelector
// within each item, or the item text when labelSelector is empty. An
// item carrying any of unavailableClasses is unavailable.
func collectSizes(p *Page, itemSelector, labelSelector string, unavailableClasses ...string) []pricetrack.Size {
	var sizes []pricetrack.Size
	p.Doc.Find(itemSelector).Each(func(_ int, sel *goquery.Selection) {
		label := sel
		if labelSelector != "" {
			label = sel.Find(labelSelector).First()
		}
		name := pricetrack.CleanText(label.Text())
		if name == "" {
			return
		}
		sizes = append(sizes, pricetrack.Size{
			Name:      name,
			Available: boolPtr(!hasAnyClass(sel, unavailableClasses)),
		})
	})
	return sizes
}

// sizesInStock derives stock from size availability: in stock when any
// size is available. Pages without size items defer to the fallback.
func sizesInStock(itemSelector string, unavailableClasses ...string) func(p *Page) (bool, bool) {
	return func(p *Page) (bool, bool) {
		items := p.Doc.Find(itemSelector)
		if items.Length() == 0 {
			return false, false
		}
		available := false
		items.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			available = !hasAnyClass(sel, unavailableClasses)
			return !available
		})
		return available, true
	}
}

func hasAnyClass(sel *goquery.Selection, classes []string) bool {
	for _, c := range classes {
		if sel.HasClass(c) {
			return true
		}
	}
	return false
}
