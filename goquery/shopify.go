package goquery

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pricetrack"
)

// Script elements where Shopify themes embed the product object.
const shopifyProductScripts = `script[data-product-json], script[id^="ProductJson"], ` +
	`script[type="application/json"][data-product]`

var (
	colorOptionNames = []string{"color", "colour", "couleur", "farbe", "colore"}
	sizeOptionNames  = []string{"size", "taglia", "taille", "größe", "talla"}
)

type shopifyProduct struct {
	Title     string           `json:"title"`
	Vendor    string           `json:"vendor"`
	Price     json.Number      `json:"price"`
	Available bool             `json:"available"`
	Images    []any            `json:"images"`
	Options   []any            `json:"options"`
	Variants  []shopifyVariant `json:"variants"`
}

type shopifyVariant struct {
	Option1   string `json:"option1"`
	Option2   string `json:"option2"`
	Option3   string `json:"option3"`
	Available bool   `json:"available"`
}

func findShopifyProduct(doc *goquery.Document) *shopifyProduct {
	var found *shopifyProduct
	doc.Find(shopifyProductScripts).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var sp shopifyProduct
		if err := json.Unmarshal([]byte(strings.TrimSpace(sel.Text())), &sp); err != nil {
			return true
		}
		if sp.Title == "" && len(sp.Variants) == 0 {
			return true
		}
		found = &sp
		return false
	})
	return found
}

// price returns the product price. Integer prices are in cents.
func (sp *shopifyProduct) price() (float64, bool) {
	s := sp.Price.String()
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ".") {
		v := pricetrack.ParsePrice(s)
		return v, v > 0
	}
	cents, err := sp.Price.Int64()
	if err != nil || cents <= 0 {
		return 0, false
	}
	return float64(cents) / 100, true
}

func (sp *shopifyProduct) images() []string {
	var urls []string
	for _, img := range sp.Images {
		if obj, ok := img.(map[string]any); ok {
			if src := jsonString(obj["src"]); src != "" {
				urls = append(urls, src)
				continue
			}
		}
		urls = append(urls, jsonURLs(img)...)
	}
	return urls
}

// optionIndex returns the position of the first option whose name is one
// of names, or -1.
func (sp *shopifyProduct) optionIndex(names []string) int {
	for i, opt := range sp.Options {
		name := jsonName(opt)
		for _, n := range names {
			if strings.EqualFold(name, n) {
				return i
			}
		}
	}
	return -1
}

type optionValue struct {
	name      string
	available bool
}

// optionValues lists distinct values of option idx in variant order.
// A value is available when any variant carrying it is available.
func (sp *shopifyProduct) optionValues(idx int) []optionValue {
	var values []optionValue
	pos := make(map[string]int)
	for _, v := range sp.Variants {
		var name string
		switch idx {
		case 0:
			name = v.Option1
		case 1:
			name = v.Option2
		case 2:
			name = v.Option3
		}
		name = pricetrack.CleanText(name)
		if name == "" {
			continue
		}
		if i, ok := pos[name]; ok {
			values[i].available = values[i].available || v.Available
			continue
		}
		pos[name] = len(values)
		values = append(values, optionValue{name: name, available: v.Available})
	}
	return values
}

func (sp *shopifyProduct) colors() []pricetrack.Color {
	idx := sp.optionIndex(colorOptionNames)
	if idx < 0 {
		return nil
	}
	var colors []pricetrack.Color
	for _, v := range sp.optionValues(idx) {
		colors = append(colors, pricetrack.Color{Name: v.name, Available: boolPtr(v.available)})
	}
	return colors
}

func (sp *shopifyProduct) sizes() []pricetrack.Size {
	idx := sp.optionIndex(sizeOptionNames)
	if idx < 0 {
		return nil
	}
	var sizes []pricetrack.Size
	for _, v := range sp.optionValues(idx) {
		sizes = append(sizes, pricetrack.Size{Name: v.name, Available: boolPtr(v.available)})
	}
	return sizes
}

// shopifyCapabilities reads the embedded product object first and falls
// back to theme markup matched by titleSelector and priceSelector.
func shopifyCapabilities(titleSelector, priceSelector string) Capabilities {
	return Capabilities{
		Title: func(p *Page) string {
			if sp := p.shopifyProduct(); sp != nil && sp.Title != "" {
				return sp.Title
			}
			return firstText(p.Doc, titleSelector)
		},
		Price: func(p *Page) (float64, string, bool) {
			if sp := p.shopifyProduct(); sp != nil {
				if price, ok := sp.price(); ok {
					currency := metaContent(p.Doc, `meta[property="og:price:currency"]`)
					if currency != "" {
						currency = pricetrack.CurrencySymbol(currency)
					}
					return price, currency, true
				}
			}
			return firstPrice(p, priceSelector)
		},
		Images: func(p *Page) []string {
			if sp := p.shopifyProduct(); sp != nil {
				return sp.images()
			}
			return nil
		},
		Brand: func(p *Page) string {
			if sp := p.shopifyProduct(); sp != nil {
				return sp.Vendor
			}
			return ""
		},
		Colors: func(p *Page) []pricetrack.Color {
			if sp := p.shopifyProduct(); sp != nil {
				return sp.colors()
			}
			return nil
		},
		Sizes: func(p *Page) []pricetrack.Size {
			if sp := p.shopifyProduct(); sp != nil {
				return sp.sizes()
			}
			return nil
		},
		InStock: func(p *Page) (bool, bool) {
			if sp := p.shopifyProduct(); sp != nil {
				return sp.Available, true
			}
			return false, false
		},
	}
}
