package slog

import (
	"log/slog"

	"github.com/fwojciec/pricetrack"
)

// Ensure LoggingRegistry implements pricetrack.ExtractorRegistry.
var _ pricetrack.ExtractorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps an ExtractorRegistry with debug logging of the
// extractor chosen for each URL.
type LoggingRegistry struct {
	next   pricetrack.ExtractorRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next pricetrack.ExtractorRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Get delegates to the wrapped registry.
func (r *LoggingRegistry) Get(site pricetrack.Site) pricetrack.ProductExtractor {
	return r.next.Get(site)
}

// Match delegates to the wrapped registry.
func (r *LoggingRegistry) Match(rawURL string) pricetrack.ProductExtractor {
	return r.next.Match(rawURL)
}

// GetForURL logs the selected site and returns the wrapped registry's choice.
func (r *LoggingRegistry) GetForURL(rawURL string) pricetrack.ProductExtractor {
	ext := r.next.GetForURL(rawURL)
	site := "(none)"
	if ext != nil {
		site = string(ext.Site())
	}
	r.logger.Debug("extractor selection",
		"url", rawURL,
		"site", site,
	)
	return ext
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(ext pricetrack.ProductExtractor) {
	r.next.Register(ext)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []pricetrack.Site {
	return r.next.List()
}
