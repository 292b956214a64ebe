package goquery

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/fwojciec/pricetrack"
	"golang.org/x/net/html"
)

// Amazon price and availability blocks are addressed with XPath because
// the relevant spans are only distinguishable by their ancestry.
const (
	amazonPriceXPath = `(//div[@id="corePrice_feature_div" or @id="corePriceDisplay_desktop_feature_div" or @id="apex_desktop"]` +
		`//span[contains(concat(" ", normalize-space(@class), " "), " a-price ")])[1]`
	amazonAvailabilityXPath = `//div[@id="availability"]`
)

// NewAmazonExtractor creates the extractor for Amazon storefronts.
func NewAmazonExtractor() *SiteExtractor {
	return NewSiteExtractor(pricetrack.SiteAmazon, []string{"amazon"}, Capabilities{
		Title: func(p *Page) string {
			return firstText(p.Doc, "#productTitle, #title")
		},
		Price:   amazonPrice,
		Images:  amazonImages,
		Brand:   amazonBrand,
		Colors:  amazonColors,
		Sizes:   amazonSizes,
		InStock: amazonInStock,
	})
}

func amazonRoot(p *Page) *html.Node {
	if len(p.Doc.Nodes) == 0 {
		return nil
	}
	return p.Doc.Nodes[0]
}

// amazonPrice composes the price from the whole and fraction spans, then
// falls back to the screen reader copy and legacy price blocks.
func amazonPrice(p *Page) (float64, string, bool) {
	root := amazonRoot(p)
	if root != nil {
		if block, err := htmlquery.Query(root, amazonPriceXPath); err == nil && block != nil {
			whole := xpathText(block, `.//span[contains(@class, "a-price-whole")]`)
			fraction := xpathText(block, `.//span[contains(@class, "a-price-fraction")]`)
			symbol := xpathText(block, `.//span[contains(@class, "a-price-symbol")]`)
			if whole != "" {
				// Whole part may carry thousands separators of either kind.
				text := digitsOnly(whole)
				if f := digitsOnly(fraction); f != "" {
					text += "." + f
				}
				if price := pricetrack.ParsePrice(text); price > 0 {
					return price, pricetrack.DetectCurrency(symbol, p.URL), true
				}
			}
			if offscreen := xpathText(block, `.//span[contains(@class, "a-offscreen")]`); offscreen != "" {
				if price := pricetrack.ParsePrice(offscreen); price > 0 {
					return price, pricetrack.DetectCurrency(offscreen, p.URL), true
				}
			}
		}
	}
	return firstPrice(p, "#priceblock_dealprice, #priceblock_ourprice, #price_inside_buybox, .a-price .a-offscreen")
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func xpathText(n *html.Node, expr string) string {
	found, err := htmlquery.Query(n, expr)
	if err != nil || found == nil {
		return ""
	}
	return pricetrack.CleanText(htmlquery.InnerText(found))
}

func amazonImages(p *Page) []string {
	img := p.Doc.Find("#landingImage, #imgBlkFront, #imgTagWrapperId img").First()
	if img.Length() == 0 {
		return nil
	}
	var urls []string
	if hires := img.AttrOr("data-old-hires", ""); hires != "" {
		urls = append(urls, hires)
	}
	// data-a-dynamic-image maps URLs to [width, height].
	if dyn := img.AttrOr("data-a-dynamic-image", ""); dyn != "" {
		var sizes map[string][]int
		if err := json.Unmarshal([]byte(dyn), &sizes); err == nil {
			type candidate struct {
				url  string
				area int
			}
			var cands []candidate
			for u, wh := range sizes {
				area := 0
				if len(wh) == 2 {
					area = wh[0] * wh[1]
				}
				cands = append(cands, candidate{u, area})
			}
			sort.Slice(cands, func(i, j int) bool {
				if cands[i].area != cands[j].area {
					return cands[i].area > cands[j].area
				}
				return cands[i].url < cands[j].url
			})
			for _, c := range cands {
				urls = append(urls, c.url)
			}
		}
	}
	if src := img.AttrOr("src", ""); src != "" {
		urls = append(urls, src)
	}
	return urls
}

func amazonBrand(p *Page) string {
	brand := firstText(p.Doc, "#bylineInfo")
	brand = strings.TrimPrefix(brand, "Visit the ")
	brand = strings.TrimSuffix(brand, " Store")
	brand = strings.TrimPrefix(brand, "Brand: ")
	return pricetrack.CleanText(brand)
}

func amazonColors(p *Page) []pricetrack.Color {
	var colors []pricetrack.Color
	p.Doc.Find("#variation_color_name li").Each(func(_ int, sel *goquery.Selection) {
		name := strings.TrimPrefix(sel.AttrOr("title", ""), "Click to select ")
		if name == "" {
			name = sel.Find("img").AttrOr("alt", "")
		}
		name = pricetrack.CleanText(name)
		if name == "" {
			return
		}
		color := pricetrack.Color{
			Name:      name,
			Available: boolPtr(!sel.HasClass("swatchUnavailable")),
		}
		if src, ok := pricetrack.AbsoluteURL(sel.Find("img").AttrOr("src", ""), p.URL); ok {
			color.SwatchURL = src
		}
		colors = append(colors, color)
	})
	return colors
}

func amazonSizes(p *Page) []pricetrack.Size {
	var sizes []pricetrack.Size
	p.Doc.Find("#native_dropdown_selected_size_name option").Each(func(_ int, sel *goquery.Selection) {
		if sel.AttrOr("value", "") == "-1" {
			return
		}
		name := pricetrack.CleanText(sel.Text())
		if name == "" || strings.EqualFold(name, "Select") {
			return
		}
		sizes = append(sizes, pricetrack.Size{
			Name:      name,
			Available: boolPtr(!sel.HasClass("dropdownUnavailable")),
		})
	})
	return sizes
}

func amazonInStock(p *Page) (bool, bool) {
	root := amazonRoot(p)
	if root == nil {
		return false, false
	}
	text := strings.ToLower(xpathText(root, amazonAvailabilityXPath))
	switch {
	case text == "":
		return false, false
	case strings.Contains(text, "currently unavailable"), strings.Contains(text, "out of stock"):
		return false, true
	case strings.Contains(text, "in stock"), strings.Contains(text, "left in stock"),
		strings.Contains(text, "usually ships"):
		return true, true
	}
	return false, false
}
