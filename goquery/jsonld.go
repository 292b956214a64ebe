package goquery

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pricetrack"
)

// jsonLDProduct holds the schema.org Product fields used for extraction.
type jsonLDProduct struct {
	Name         string
	Brand        string
	Images       []string
	Price        float64
	Currency     string
	Availability string
}

// findJSONLDProduct returns the first schema.org Product described in the
// document's JSON-LD blocks. Arrays and @graph containers are searched.
func findJSONLDProduct(doc *goquery.Document) (*jsonLDProduct, bool) {
	var found *jsonLDProduct
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return true
		}
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return true
		}
		if obj := findProductNode(data); obj != nil {
			found = parseJSONLDProduct(obj)
			return false
		}
		return true
	})
	return found, found != nil
}

func findProductNode(v any) map[string]any {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if obj := findProductNode(item); obj != nil {
				return obj
			}
		}
	case map[string]any:
		if isProductType(t["@type"]) {
			return t
		}
		if graph, ok := t["@graph"]; ok {
			return findProductNode(graph)
		}
	}
	return nil
}

func isProductType(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "Product" || t == "ProductGroup"
	case []any:
		for _, item := range t {
			if isProductType(item) {
				return true
			}
		}
	}
	return false
}

func parseJSONLDProduct(obj map[string]any) *jsonLDProduct {
	p := &jsonLDProduct{
		Name:   pricetrack.CleanText(jsonString(obj["name"])),
		Brand:  pricetrack.CleanText(jsonName(obj["brand"])),
		Images: jsonURLs(obj["image"]),
	}

	offers := obj["offers"]
	if list, ok := offers.([]any); ok && len(list) > 0 {
		offers = list[0]
	}
	if offer, ok := offers.(map[string]any); ok {
		price := jsonString(offer["price"])
		if price == "" {
			price = jsonString(offer["lowPrice"])
		}
		p.Price = pricetrack.ParsePrice(price)
		if code := jsonString(offer["priceCurrency"]); code != "" {
			p.Currency = pricetrack.CurrencySymbol(code)
		}
		p.Availability = jsonString(offer["availability"])
	}
	return p
}

// jsonString renders a scalar JSON value as a string.
func jsonString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// jsonName reads a string or an object with a name property.
func jsonName(v any) string {
	if obj, ok := v.(map[string]any); ok {
		return jsonString(obj["name"])
	}
	return jsonString(v)
}

// jsonURLs reads a string, an ImageObject, or a list of either.
func jsonURLs(v any) []string {
	switch t := v.(type) {
	case string:
		if t != "" {
			return []string{t}
		}
	case map[string]any:
		if u := jsonString(t["url"]); u != "" {
			return []string{u}
		}
		if u := jsonString(t["contentUrl"]); u != "" {
			return []string{u}
		}
	case []any:
		var urls []string
		for _, item := range t {
			urls = append(urls, jsonURLs(item)...)
		}
		return urls
	}
	return nil
}

// availabilityInStock interprets schema.org availability values such as
// "https://schema.org/OutOfStock" or "in stock".
func availabilityInStock(v string) (bool, bool) {
	s := strings.ToLower(v)
	s = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
	switch {
	case s == "":
		return false, false
	case strings.Contains(s, "outofstock"), strings.Contains(s, "soldout"),
		strings.Contains(s, "discontinued"), strings.HasSuffix(s, "oos"):
		return false, true
	case strings.Contains(s, "instock"), strings.Contains(s, "limitedavailability"),
		strings.Contains(s, "preorder"), strings.Contains(s, "onlineonly"):
		return true, true
	}
	return false, false
}
