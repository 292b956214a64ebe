// Package http provides an HTTP-based implementation of pricetrack.Fetcher
// for product pages that don't require JavaScript rendering.
package http

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/fwojciec/pricetrack"
	"golang.org/x/net/html/charset"
)

// Defaults for static page acquisition.
const (
	DefaultFetchTimeout = 15 * time.Second
	DefaultMaxRedirects = 5
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 10 << 20

var errTooManyRedirects = errors.New("too many redirects")

// Ensure Fetcher implements pricetrack.Fetcher at compile time.
var _ pricetrack.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests that look
// like a desktop browser. It does not execute JavaScript.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	maxRedirects int
	userAgent    string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (15s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxRedirects sets how many redirects are followed.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.maxRedirects = n
	}
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		maxRedirects: DefaultMaxRedirects,
		userAgent:    DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	// A nil public suffix list never fails.
	jar, _ := cookiejar.New(nil)

	f.client = &http.Client{
		Timeout: f.timeout,
		Jar:     jar,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			TLSHandshakeTimeout: 10 * time.Second,
			IdleConnTimeout:     90 * time.Second,
			// Decompression is handled here to support brotli.
			DisableCompression: true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > f.maxRedirects {
				return fmt.Errorf("%w: stopped after %d", errTooManyRedirects, f.maxRedirects)
			}
			return nil
		},
	}

	return f
}

// Fetch retrieves the HTML content from the given URL, decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", pricetrack.Errorf(pricetrack.EINVALID, "invalid URL %q: %v", url, err)
	}
	setBrowserHeaders(req, f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", f.transportError(ctx, url, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode, url); err != nil {
		return "", err
	}

	body, err := decompressReader(resp)
	if err != nil {
		return "", pricetrack.Errorf(pricetrack.EUNAVAILABLE, "failed to decode response from %s: %v", url, err)
	}

	raw, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		return "", f.transportError(ctx, url, err)
	}
	// An empty page is left for extraction to reject.
	if len(raw) == 0 {
		return "", nil
	}

	decoded, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", pricetrack.Errorf(pricetrack.EUNAVAILABLE, "unsupported charset from %s: %v", url, err)
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", pricetrack.Errorf(pricetrack.EUNAVAILABLE, "failed to decode response from %s: %v", url, err)
	}

	return string(data), nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

func setBrowserHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")
}

// statusError maps non-success HTTP status codes to application errors.
func statusError(code int, url string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return pricetrack.Errorf(pricetrack.EBLOCKED, "access denied (HTTP %d) for %s", code, url)
	case code == http.StatusNotFound || code == http.StatusGone:
		return pricetrack.Errorf(pricetrack.EGONE, "page not found (HTTP %d) for %s", code, url)
	case code == http.StatusTooManyRequests || code >= 500:
		return pricetrack.Errorf(pricetrack.EUNAVAILABLE, "server unavailable (HTTP %d) for %s", code, url)
	}
	return pricetrack.Errorf(pricetrack.EUNAVAILABLE, "unexpected HTTP %d for %s", code, url)
}

// transportError maps client errors to application errors. Cancellation
// by the caller is returned as is.
func (f *Fetcher) transportError(ctx context.Context, url string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	if errors.Is(err, errTooManyRedirects) {
		return pricetrack.Errorf(pricetrack.EUNAVAILABLE, "too many redirects for %s", url)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return pricetrack.Errorf(pricetrack.ETIMEOUT, "request to %s timed out", url)
	}
	return pricetrack.Errorf(pricetrack.EUNAVAILABLE, "request to %s failed: %v", url, err)
}

// decompressReader wraps the body with the decoder for its Content-Encoding.
func decompressReader(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "deflate":
		return flate.NewReader(resp.Body), nil
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}
