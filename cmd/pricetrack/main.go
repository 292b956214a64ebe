package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pricetrack"
	"github.com/fwojciec/pricetrack/gemini"
	"github.com/fwojciec/pricetrack/goquery"
	pthttp "github.com/fwojciec/pricetrack/http"
	"github.com/fwojciec/pricetrack/rod"
	"github.com/fwojciec/pricetrack/scrape"
	ptslog "github.com/fwojciec/pricetrack/slog"
	"github.com/fwojciec/pricetrack/smtp"
	"github.com/fwojciec/pricetrack/sqlite"
	"github.com/fwojciec/pricetrack/track"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config overrides configuration loading when set before calling Run().
	Config *Config

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ItemService pricetrack.ItemService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pricetrack"),
		kong.Description("Track product prices across online stores."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pricetrack --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg := m.Config
	if cfg == nil {
		if cfg, err = LoadConfig(cli.Config); err != nil {
			return err
		}
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	if err := ensureDBDir(cfg.DB); err != nil {
		return err
	}
	m.DB = sqlite.NewDB(cfg.DB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PRICETRACK_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cfg.DB, err)
	}
	defer m.Close()

	m.ItemService = sqlite.NewItemService(m.DB)
	deps.Items = m.ItemService

	switch cmd {
	case "list", "history", "delete":
		return kongCtx.Run(deps)
	}

	fetcher := ptslog.NewLoggingFetcher(pthttp.NewFetcher(
		pthttp.WithTimeout(cfg.Fetch.Timeout),
		pthttp.WithMaxRedirects(cfg.Fetch.MaxRedirects),
	), logger)
	defer fetcher.Close()

	var renderer pricetrack.Renderer
	if cfg.Browser.Enabled {
		renderer = ptslog.NewLoggingRenderer(rod.NewRenderer(
			rod.WithStealth(cfg.Browser.Stealth),
			rod.WithBrowserBin(cfg.Browser.Bin),
		), logger)
	}

	newScraper := func(retryDelays []time.Duration) pricetrack.Scraper {
		return ptslog.NewLoggingScraper(&scrape.Scraper{
			Extractors:  ptslog.NewLoggingRegistry(goquery.NewDefaultRegistry(), logger),
			Fetcher:     fetcher,
			Renderer:    renderer,
			RateLimiter: scrape.NewDomainLimiter(cfg.Fetch.RequestsPerSecond),
			RetryDelays: retryDelays,
			Logger:      logger,
		}, logger)
	}

	// Interactive commands retry transient failures; sweeps leave that
	// to the next sweep.
	deps.Scraper = newScraper(scrape.DefaultRetryDelays())

	switch cmd {
	case "add":
		categorizer, err := m.categorizer(ctx, cfg, stderr)
		if err != nil {
			return err
		}
		deps.Tracker = &track.Tracker{
			Items:       m.ItemService,
			Scraper:     deps.Scraper,
			Categorizer: categorizer,
			Logger:      logger,
		}
	case "check":
		deps.Checker = &track.Checker{
			Items:   m.ItemService,
			Scraper: deps.Scraper,
			Logger:  logger,
		}
	case "check-all", "watch":
		notifier, err := newNotifier(cfg, logger)
		if err != nil {
			return err
		}
		deps.Scheduler = &track.Scheduler{
			Items: m.ItemService,
			Checker: &track.Checker{
				Items:   m.ItemService,
				Scraper: newScraper(nil),
				Logger:  logger,
			},
			Notifier:    notifier,
			Logger:      logger,
			Interval:    cfg.Scheduler.Interval,
			ItemDelay:   cfg.Scheduler.ItemDelay,
			Concurrency: cfg.Scheduler.Concurrency,
			RunOnStart:  cfg.Scheduler.RunOnStart,
		}
	}

	return kongCtx.Run(deps)
}

// categorizer returns a Gemini categorizer, or nil when no API key is
// configured so new items get the default category.
func (m *Main) categorizer(ctx context.Context, cfg *Config, stderr io.Writer) (pricetrack.Categorizer, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your PRICETRACK_GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return gemini.NewCategorizer(client, cfg.Gemini.Model), nil
}

// newNotifier returns the email notifier wrapped in logging. Without an SMTP
// host notifications are only logged.
func newNotifier(cfg *Config, logger *slog.Logger) (pricetrack.Notifier, error) {
	var next pricetrack.Notifier
	if cfg.SMTP.Host != "" {
		opts := []smtp.Option{smtp.WithPort(cfg.SMTP.Port), smtp.WithTimeout(cfg.SMTP.Timeout)}
		if cfg.SMTP.Username != "" {
			opts = append(opts, smtp.WithAuth(cfg.SMTP.Username, cfg.SMTP.Password))
		}
		n, err := smtp.NewNotifier(cfg.SMTP.Host, cfg.SMTP.From, cfg.SMTP.To, opts...)
		if err != nil {
			return nil, err
		}
		next = n
	}
	return ptslog.NewLoggingNotifier(next, logger), nil
}
