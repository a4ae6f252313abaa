package main

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/browser"
	"github.com/ternarybob/bookscraper/internal/cfbypass"
	"github.com/ternarybob/bookscraper/internal/common"
	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/engine/ruleanalyzer"
	"github.com/ternarybob/bookscraper/internal/engine/script"
	"github.com/ternarybob/bookscraper/internal/engine/scriptanalyzer"
	"github.com/ternarybob/bookscraper/internal/engine/sourceengine"
	"github.com/ternarybob/bookscraper/internal/events"
	"github.com/ternarybob/bookscraper/internal/httpclient"
	"github.com/ternarybob/bookscraper/internal/interfaces"
	"github.com/ternarybob/bookscraper/internal/scheduler"
	"github.com/ternarybob/bookscraper/internal/services/sources"
	"github.com/ternarybob/bookscraper/internal/storage/badger"
	"github.com/ternarybob/bookscraper/internal/worker"
)

// app wires every collaborator named in SPEC_FULL.md into one running
// process: Badger-backed storage, the HTTP/browser/Cloudflare transport
// seams, the rule-analysis engine, source persistence, the worker pool,
// and (optionally) the cron check sweep.
type app struct {
	Config  *common.Config
	Logger  arbor.ILogger
	Badger  *badger.Manager
	Engine  *sourceengine.Engine
	Sources *sources.Service
	Pool    *worker.Pool
	Events  interfaces.EventService
	Browser *browser.Pool
	Sched   *scheduler.Service
}

// newApp runs the full startup sequence: two-phase config load (so the
// Badger path can be discovered before the KV store it depends on for
// {key-name} substitution exists), opens storage, seeds keys, and wires
// the engine stack on top.
func newApp(ctx context.Context, configPaths []string, port int, host string, logger arbor.ILogger) (*app, error) {
	cfg, err := common.LoadFromFiles(nil, configPaths...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	mgr, err := badger.NewManager(logger, badger.Config{
		Path:           cfg.Storage.Badger.Path,
		ResetOnStartup: cfg.Storage.Badger.ResetOnStartup,
	})
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}

	if err := common.LoadKeysFromDir(ctx, mgr.KeyValueStore(), cfg.Keys.Dir, logger); err != nil {
		logger.Warn().Err(err).Str("dir", cfg.Keys.Dir).Msg("failed to load keys directory")
	}

	// Reload with the now-open KV store so {key-name} substitution in the
	// config files themselves takes effect, then reapply CLI overrides.
	cfg, err = common.LoadFromFiles(mgr.KeyValueStore(), configPaths...)
	if err != nil {
		mgr.Close()
		return nil, fmt.Errorf("reload config with key substitution: %w", err)
	}
	common.ApplyFlagOverrides(cfg, port, host)

	if err := seedDefaults(ctx, mgr.KeyValueStore(), logger); err != nil {
		logger.Warn().Err(err).Msg("failed to seed default key/value entries")
	}

	httpClient, err := httpclient.New(httpclient.Config{
		Timeout:   cfg.HTTP.RequestTimeout,
		UserAgent: cfg.HTTP.UserAgent,
		Retry: &httpclient.RetryPolicy{
			MaxAttempts:       cfg.HTTP.RetryMax,
			InitialBackoff:    cfg.HTTP.RetryBackoff,
			MaxBackoff:        30 * cfg.HTTP.RetryBackoff,
			BackoffMultiplier: 2.0,
		},
	}, logger)
	if err != nil {
		mgr.Close()
		return nil, fmt.Errorf("build http client: %w", err)
	}

	provider := nativeapi.New(logger)
	provider.HTTP = httpClient
	provider.Cookies = mgr.CookieStore()
	provider.KV = mgr.KeyValueStore()
	provider.Cache = mgr.CacheStore()

	var browserPool *browser.Pool
	if cfg.Engine.EnableBrowser {
		browserPool, err = browser.NewPool(browser.Config{UserAgent: cfg.HTTP.UserAgent}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("headless browser pool unavailable, webView sources will fail")
		} else {
			provider.Browser = browserPool
		}
	}

	if cfg.CFBypass.Enabled && cfg.CFBypass.Endpoint != "" {
		provider.CFBypass = cfbypass.New(cfg.CFBypass.Endpoint, cfg.CFBypass.Timeout, logger)
	}

	scriptCache := scriptanalyzer.NewCache(cfg.Engine.AnalysisCacheCapacity)
	scriptAn := scriptanalyzer.New(scriptCache)
	runnerPool := script.NewRunnerPool(provider, logger)
	analyzer := ruleanalyzer.New(provider, scriptAn, runnerPool, logger)

	engine := sourceengine.New(analyzer, provider, httpClient, logger)
	engine.MaxTocPages = cfg.Engine.MaxTocPages
	engine.MaxContentPages = cfg.Engine.MaxContentPages
	engine.CFBypass = provider.CFBypass

	sourceStore := sources.NewFileStore(cfg.Sources.Dir)
	sourceSvc := sources.NewService(sourceStore, logger)

	eventSvc := events.NewService()
	if err := events.SubscribeLoggerToAllEvents(eventSvc, logger); err != nil {
		logger.Warn().Err(err).Msg("failed to subscribe logger to events")
	}

	pool := worker.New(logger)

	a := &app{
		Config:  cfg,
		Logger:  logger,
		Badger:  mgr,
		Engine:  engine,
		Sources: sourceSvc,
		Pool:    pool,
		Events:  eventSvc,
		Browser: browserPool,
	}

	if cfg.Scheduler.Enabled {
		a.Sched = scheduler.New(engine, sourceSvc, eventSvc, logger)
		if err := a.Sched.Schedule(cfg.Scheduler.CronSpec); err != nil {
			logger.Warn().Err(err).Msg("failed to schedule source check sweep")
		}
	}

	return a, nil
}

// seedDefaults writes common.GetDefaultKVValues into the KV store for any
// key not already present, so {default_user_agent}-style references in
// source specs resolve even on a brand-new database.
func seedDefaults(ctx context.Context, kv interfaces.KeyValueStore, logger arbor.ILogger) error {
	for _, d := range common.GetDefaultKVValues() {
		if _, err := kv.Get(ctx, d.Key); err == nil {
			continue
		}
		if err := kv.Set(ctx, d.Key, d.Value); err != nil {
			return fmt.Errorf("seed default key %q: %w", d.Key, err)
		}
		logger.Debug().Str("key", d.Key).Msg("seeded default key/value entry")
	}
	return nil
}

// Close releases every collaborator that owns a resource.
func (a *app) Close() {
	if a.Sched != nil {
		a.Sched.Stop()
	}
	if a.Browser != nil {
		a.Browser.Close()
	}
	if a.Badger != nil {
		if err := a.Badger.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("failed to close badger store")
		}
	}
}
