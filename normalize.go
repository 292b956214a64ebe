package pricetrack

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// CleanText collapses whitespace runs to single spaces and trims.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var (
	priceCharsRe      = regexp.MustCompile(`[^\d.,]`)
	europeanDecimalRe = regexp.MustCompile(`,\d{2}$`)
	priceNumberRe     = regexp.MustCompile(`\d*\.?\d+`)
)

// ParsePrice extracts a number from a formatted price string.
// Both "1,234.56" and "1.234,56" yield 1234.56. Returns 0 when the text
// holds no number.
func ParsePrice(text string) float64 {
	cleaned := priceCharsRe.ReplaceAllString(text, "")
	if europeanDecimalRe.MatchString(cleaned) {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	m := priceNumberRe.FindString(cleaned)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// DefaultCurrency is used when neither the text nor the URL hints at one.
const DefaultCurrency = "$"

// Multi-character symbols come before the ones they contain.
var currencySymbols = []string{"C$", "A$", "€", "£", "¥", "₹", "$"}

var currencyCodes = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"CAD": "C$",
	"AUD": "A$",
}

var currencyCodeRe = regexp.MustCompile(`\b(USD|EUR|GBP|JPY|CNY|INR|CAD|AUD)\b`)

var tldCurrencies = []struct {
	suffix string
	symbol string
}{
	{".uk", "£"},
	{".eu", "€"},
	{".de", "€"},
	{".fr", "€"},
	{".es", "€"},
	{".it", "€"},
	{".jp", "¥"},
	{".in", "₹"},
	{".au", "A$"},
	{".ca", "C$"},
	{".cn", "¥"},
}

// Locale path segments such as /en-gb/ on .com storefronts.
var pathCurrencies = map[string]string{
	"uk":    "£",
	"gb":    "£",
	"en-gb": "£",
	"de":    "€",
	"de-de": "€",
	"fr":    "€",
	"fr-fr": "€",
	"es":    "€",
	"es-es": "€",
	"it":    "€",
	"it-it": "€",
	"jp":    "¥",
	"ja-jp": "¥",
	"in":    "₹",
	"en-in": "₹",
	"au":    "A$",
	"en-au": "A$",
	"ca":    "C$",
	"en-ca": "C$",
	"cn":    "¥",
	"zh-cn": "¥",
}

// DetectCurrency returns the currency symbol for a price text.
// A symbol or ISO code in text wins over TLD and path hints in pageURL,
// which win over DefaultCurrency.
func DetectCurrency(text, pageURL string) string {
	for _, sym := range currencySymbols {
		if strings.Contains(text, sym) {
			return sym
		}
	}
	if m := currencyCodeRe.FindString(strings.ToUpper(text)); m != "" {
		return currencyCodes[m]
	}
	if sym, ok := currencyFromURL(pageURL); ok {
		return sym
	}
	return DefaultCurrency
}

func currencyFromURL(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	for _, tc := range tldCurrencies {
		if strings.HasSuffix(host, tc.suffix) {
			return tc.symbol, true
		}
	}
	for _, seg := range strings.Split(strings.ToLower(u.Path), "/") {
		if sym, ok := pathCurrencies[seg]; ok {
			return sym, true
		}
	}
	return "", false
}

// CurrencySymbol maps an ISO currency code to its symbol.
// Unknown codes are returned unchanged.
func CurrencySymbol(code string) string {
	if sym, ok := currencyCodes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return sym
	}
	return code
}

var srcsetDescriptorRe = regexp.MustCompile(`^\d+(?:\.\d+)?[wxh](?:,(.*))?$`)

// ParseSrcset returns the URL of the last candidate in a srcset value.
func ParseSrcset(value string) string {
	var last string
	for _, tok := range strings.Fields(value) {
		if m := srcsetDescriptorRe.FindStringSubmatch(tok); m != nil {
			// "1x,next.jpg" when candidates are not separated by spaces.
			if m[1] != "" {
				last = m[1]
			}
			continue
		}
		if u := strings.TrimSuffix(tok, ","); u != "" {
			last = u
		}
	}
	return last
}

// AbsoluteURL resolves raw against base. Protocol-relative and
// root-relative URLs are supported. Returns false on malformed input or
// when the result is not an http(s) URL.
func AbsoluteURL(raw, base string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if !ref.IsAbs() {
		b, err := url.Parse(base)
		if err != nil || !b.IsAbs() {
			return "", false
		}
		ref = b.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	if ref.Host == "" {
		return "", false
	}
	return ref.String(), true
}

// NormalizeURL validates a product URL and returns it without fragment.
// Returns EINVALID if the URL is not an absolute http(s) URL.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "URL must use http or https: %q", raw)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "URL must be absolute: %q", raw)
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// Hostname returns the lowercased host of rawURL, or "" if it cannot be parsed.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
