package slog_test

import (
	"bytes"
	"testing"

	"github.com/fwojciec/pricetrack"
	"github.com/fwojciec/pricetrack/mock"
	ptslog "github.com/fwojciec/pricetrack/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingRegistry_GetForURL(t *testing.T) {
	t.Parallel()

	t.Run("logs selected site", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		ext := &mock.ProductExtractor{
			SiteFn: func() pricetrack.Site { return pricetrack.SiteAmazon },
		}
		inner := &mock.ExtractorRegistry{
			GetForURLFn: func(string) pricetrack.ProductExtractor { return ext },
		}

		registry := ptslog.NewLoggingRegistry(inner, debugLogger(&buf))
		got := registry.GetForURL("https://www.amazon.com/dp/B000")

		assert.Equal(t, ext, got)
		output := buf.String()
		assert.Contains(t, output, "extractor selection")
		assert.Contains(t, output, "site=amazon")
	})

	t.Run("logs missing extractor", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ExtractorRegistry{
			GetForURLFn: func(string) pricetrack.ProductExtractor { return nil },
		}

		registry := ptslog.NewLoggingRegistry(inner, debugLogger(&buf))
		registry.GetForURL("https://shop.example.com/p")

		assert.Contains(t, buf.String(), "site=(none)")
	})
}

func TestLoggingRegistry_Delegates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ext := &mock.ProductExtractor{}
	var registered pricetrack.ProductExtractor
	inner := &mock.ExtractorRegistry{
		GetFn:      func(pricetrack.Site) pricetrack.ProductExtractor { return ext },
		MatchFn:    func(string) pricetrack.ProductExtractor { return ext },
		RegisterFn: func(e pricetrack.ProductExtractor) { registered = e },
		ListFn:     func() []pricetrack.Site { return []pricetrack.Site{pricetrack.SiteZara} },
	}

	registry := ptslog.NewLoggingRegistry(inner, debugLogger(&buf))

	assert.Equal(t, ext, registry.Get(pricetrack.SiteZara))
	assert.Equal(t, ext, registry.Match("https://www.zara.com/p1.html"))
	registry.Register(ext)
	assert.Equal(t, ext, registered)
	assert.Equal(t, []pricetrack.Site{pricetrack.SiteZara}, registry.List())
	assert.Empty(t, buf.String())
}
