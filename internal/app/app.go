// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/law-makers/reviews/internal/config"
	"github.com/law-makers/reviews/internal/engine"
	"github.com/law-makers/reviews/internal/engine/dynamic"
	"github.com/law-makers/reviews/internal/engine/static"
	"github.com/law-makers/reviews/internal/observability"
	"github.com/law-makers/reviews/internal/proxy"
	"github.com/law-makers/reviews/internal/ratelimit"
	"github.com/law-makers/reviews/internal/retry"
	"github.com/law-makers/reviews/internal/utils/headers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per run. Use Close() to release the metrics endpoint and
// idle connections on shutdown.
type Application struct {
	Config         *config.Config
	Logger         *zerolog.Logger
	RateLimiter    ratelimit.RateLimiter
	Proxies        *proxy.Pool
	HTTPClient     *http.Client
	StaticScraper  *static.Scraper
	DynamicScraper *dynamic.Scraper
	Fetcher        *engine.HybridFetcher
	Browser        dynamic.Capability
	Metrics        *prometheus.Registry
	metricsServer  *http.Server
	startTime      time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures the global logger
//   - Creates the per-host rate limiter and the proxy pool
//   - Creates the static scraper with retry and browser headers
//   - Probes for a browser and creates the dynamic scraper
//   - Registers metrics and optionally serves them
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := SetupLogger(cfg.LogLevel, cfg.JSONLog, os.Stderr)

	proxies, err := proxy.NewPool(cfg.Proxies, cfg.ProxyCooldown)
	if err != nil {
		return nil, err
	}
	extra, err := headers.Parse(cfg.Headers)
	if err != nil {
		return nil, err
	}

	rateLimiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Int("proxies", proxies.Len()).
		Msg("Rate limiter initialized")

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.RetryAttempts
	retryCfg.InitialBackoff = cfg.RetryBackoff

	staticScraper := static.New(rateLimiter, httpClient, proxies, static.Options{
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
		Headers:   extra,
		Retry:     retryCfg,
	})

	browser := dynamic.Probe(cfg.ChromePath, cfg.StaticOnly)
	if browser.Available {
		logger.Debug().Str("chrome", browser.ExecPath).Msg("Browser found, pages will be rendered")
	} else {
		logger.Info().Str("reason", browser.Reason).Msg("Browser rendering unavailable, using static fetches")
	}

	dynOpts := dynamic.DefaultOptions()
	dynOpts.Headless = cfg.BrowserHeadless
	dynOpts.UserAgent = cfg.UserAgent
	dynOpts.Timeout = cfg.DynamicTimeout
	dynOpts.SettleWait = cfg.SettleWait
	dynOpts.ChallengeWait = cfg.ChallengeWait
	dynOpts.ChallengeStep = cfg.ChallengeStep
	dynOpts.Attempts = cfg.DynamicAttempts
	dynOpts.Proxies = proxies
	dynamicScraper := dynamic.New(browser, rateLimiter, dynOpts)

	registry := observability.InitRegistry()

	app := &Application{
		Config:         cfg,
		Logger:         &logger,
		RateLimiter:    rateLimiter,
		Proxies:        proxies,
		HTTPClient:     httpClient,
		StaticScraper:  staticScraper,
		DynamicScraper: dynamicScraper,
		Fetcher:        engine.NewHybridFetcher(staticScraper, dynamicScraper),
		Browser:        browser,
		Metrics:        registry,
		metricsServer:  observability.Serve(cfg.MetricsAddr, registry),
		startTime:      time.Now(),
	}

	logger.Debug().Msg("Application initialized successfully")
	return app, nil
}

// SetupLogger configures the global zerolog logger and returns it. JSON
// output goes to w as is, otherwise a console writer formats it.
func SetupLogger(level string, jsonLog bool, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if !jsonLog {
		w = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
			cw.Out = w
			cw.TimeFormat = time.TimeOnly
		})
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	log.Debug().
		Str("level", lvl.String()).
		Bool("json", jsonLog).
		Msg("Logger initialized")
	return log.Logger
}

// Close gracefully shuts down the application and all its resources.
//
// Any errors during shutdown are logged but do not prevent other shutdown steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	if err := observability.Shutdown(ctx, a.metricsServer); err != nil {
		a.Logger.Warn().Err(err).Msg("Error stopping metrics server")
	}

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
