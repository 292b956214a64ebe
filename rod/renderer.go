// Package rod renders product pages in a headless Chrome browser for
// stores that inject price and variant data with client-side script.
package rod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/pricetrack"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Defaults for browser rendering.
const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080

	// defaultTimeout applies when RenderOptions carry no timeout.
	defaultTimeout = 10 * time.Second

	// requestIdleWindow is how long the network must be quiet to count as idle.
	requestIdleWindow = 500 * time.Millisecond
)

// Ensure Renderer implements pricetrack.Renderer at compile time.
var _ pricetrack.Renderer = (*Renderer)(nil)

// Renderer launches an isolated browser for every Render call and tears
// it down before returning. Renderer is safe for concurrent use.
type Renderer struct {
	userAgent string
	width     int
	height    int
	stealth   bool
	bin       string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(r *Renderer) {
		r.userAgent = ua
	}
}

// WithViewport sets the browser viewport size.
func WithViewport(width, height int) Option {
	return func(r *Renderer) {
		r.width = width
		r.height = height
	}
}

// WithStealth toggles bot-detection evasion patches on new pages.
// Enabled by default.
func WithStealth(enabled bool) Option {
	return func(r *Renderer) {
		r.stealth = enabled
	}
}

// WithBrowserBin sets the Chrome binary. When empty, rod finds or
// downloads one.
func WithBrowserBin(path string) Option {
	return func(r *Renderer) {
		r.bin = path
	}
}

// NewRenderer creates a new Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		userAgent: DefaultUserAgent,
		width:     DefaultViewportWidth,
		height:    DefaultViewportHeight,
		stealth:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render navigates to the URL, waits for the network to go mostly idle,
// waits for opts.ReadySelector and opts.SettleDelay, and returns the
// rendered HTML. The browser process is closed on every exit path.
func (r *Renderer) Render(ctx context.Context, url string, opts pricetrack.RenderOptions) (html string, err error) {
	if opts.ReadySelector == "" {
		return "", pricetrack.Errorf(pricetrack.ECONFIG, "no readiness selector configured for %s", url)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l := launcher.New().
		Context(ctx).
		Headless(true).
		Leakless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-first-run")
	if r.bin != "" {
		l = l.Bin(r.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return "", pricetrack.Errorf(pricetrack.EUNAVAILABLE, "launching browser: %v", err)
	}
	// Cleanup blocks until the process exits, so it is only safe after
	// a successful launch.
	defer func() {
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", r.renderError(ctx, url, fmt.Errorf("connecting to browser: %w", err))
	}
	defer browser.Close()

	page, err := r.newPage(browser)
	if err != nil {
		return "", r.renderError(ctx, url, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	nav := page.Timeout(timeout)
	waitIdle := nav.WaitRequestIdle(requestIdleWindow, nil, nil, nil)
	if err := nav.Navigate(url); err != nil {
		return "", r.renderError(ctx, url, err)
	}
	// The idle wait gives up at the navigation timeout; the readiness
	// selector decides whether the page is usable.
	waitIdle()

	if _, err := page.Timeout(timeout).Element(opts.ReadySelector); err != nil {
		return "", r.renderError(ctx, url, fmt.Errorf("waiting for %q: %w", opts.ReadySelector, err))
	}

	if opts.SettleDelay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(opts.SettleDelay):
		}
	}

	html, err = page.HTML()
	if err != nil {
		return "", r.renderError(ctx, url, err)
	}
	return html, nil
}

func (r *Renderer) newPage(browser *rod.Browser) (*rod.Page, error) {
	var page *rod.Page
	var err error
	if r.stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      r.userAgent,
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		return nil, fmt.Errorf("setting user agent: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             r.width,
		Height:            r.height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("setting viewport: %w", err)
	}
	return page, nil
}

// renderError maps browser failures to application errors. Cancellation
// by the caller is returned as is.
func (r *Renderer) renderError(ctx context.Context, url string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pricetrack.Errorf(pricetrack.ETIMEOUT, "rendering %s timed out: %v", url, err)
	}
	return pricetrack.Errorf(pricetrack.EUNAVAILABLE, "rendering %s failed: %v", url, err)
}
