// Package browser implements interfaces.BrowserRenderer over a small pool
// of chromedp browser contexts (spec.md §6 OPTIONS "webView"/"js": a URL
// template option that routes the fetch through a headless browser instead
// of the plain HTTP collaborator). Adapted from the teacher's
// internal/services/crawler/chromedp_pool.go, trimmed to the one operation
// this domain needs: render a URL, optionally run an injected script, and
// return the final HTML.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
)

// Config controls pool size and the Chrome flags each instance launches
// with.
type Config struct {
	MaxInstances int
	UserAgent    string
	Headless     bool
	DisableGPU   bool
	NoSandbox    bool

	// NavigationTimeout bounds each Render call beyond whatever deadline
	// the caller's ctx already carries.
	NavigationTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxInstances <= 0 {
		c.MaxInstances = 4
	}
	if c.UserAgent == "" {
		c.UserAgent = "bookscraper/1.0"
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 30 * time.Second
	}
	return c
}

// Pool manages a round-robin set of chromedp browser contexts and
// implements interfaces.BrowserRenderer.
type Pool struct {
	mu               sync.Mutex
	browsers         []context.Context
	browserCancels   []context.CancelFunc
	allocatorCancels []context.CancelFunc
	currentIndex     int
	cfg              Config
	logger           arbor.ILogger
}

// NewPool launches cfg.MaxInstances browser instances. At least one
// instance must start successfully or NewPool fails.
func NewPool(cfg Config, logger arbor.ILogger) (*Pool, error) {
	cfg = cfg.withDefaults()
	p := &Pool{cfg: cfg, logger: logger}

	var lastErr error
	for i := 0; i < cfg.MaxInstances; i++ {
		if err := p.addInstance(); err != nil {
			lastErr = err
			logger.Warn().Err(err).Int("index", i).Msg("failed to start browser instance")
			continue
		}
	}
	if len(p.browsers) == 0 {
		return nil, fmt.Errorf("start browser pool: %w", lastErr)
	}

	logger.Info().Int("instances", len(p.browsers)).Msg("browser pool started")
	return p, nil
}

func (p *Pool) addInstance() error {
	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", p.cfg.Headless),
		chromedp.Flag("disable-gpu", p.cfg.DisableGPU),
		chromedp.Flag("no-sandbox", p.cfg.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(p.cfg.UserAgent),
	)

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), allocatorOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)

	testCtx, testCancel := context.WithTimeout(browserCtx, p.cfg.NavigationTimeout)
	defer testCancel()
	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocatorCancel()
		return fmt.Errorf("browser startup test: %w", err)
	}

	p.browsers = append(p.browsers, browserCtx)
	p.browserCancels = append(p.browserCancels, browserCancel)
	p.allocatorCancels = append(p.allocatorCancels, allocatorCancel)
	return nil
}

// next returns the round-robin browser context.
func (p *Pool) next() context.Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	ctx := p.browsers[p.currentIndex%len(p.browsers)]
	p.currentIndex++
	return ctx
}

// Render implements interfaces.BrowserRenderer: navigate to url, optionally
// evaluate script, and return the document's outer HTML.
func (p *Pool) Render(ctx context.Context, url string, script string) (string, error) {
	p.mu.Lock()
	if len(p.browsers) == 0 {
		p.mu.Unlock()
		return "", fmt.Errorf("browser pool has no running instances")
	}
	p.mu.Unlock()

	browserCtx, cancel := context.WithTimeout(p.next(), p.cfg.NavigationTimeout)
	defer cancel()

	tasks := chromedp.Tasks{chromedp.Navigate(url)}
	if script != "" {
		tasks = append(tasks, chromedp.Evaluate(script, nil))
	}

	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return "", fmt.Errorf("render %q: %w", url, err)
	}
	return html, nil
}

// Close shuts down every browser instance in the pool.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, cancel := range p.browserCancels {
		cancel()
	}
	for _, cancel := range p.allocatorCancels {
		cancel()
	}
	p.browsers = nil
	p.browserCancels = nil
	p.allocatorCancels = nil
}
