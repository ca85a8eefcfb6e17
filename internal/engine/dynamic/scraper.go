// internal/engine/dynamic/scraper.go
package dynamic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/reviews/internal/proxy"
	"github.com/law-makers/reviews/internal/ratelimit"
	"github.com/law-makers/reviews/internal/retry"
	"github.com/rs/zerolog/log"
)

// Options configures browser-rendered fetching
type Options struct {
	Headless      bool
	UserAgent     string
	Timeout       time.Duration // whole fetch, including waits
	SettleWait    time.Duration // after navigation
	ChallengeWait time.Duration // total budget for an interstitial to clear
	ChallengeStep time.Duration // pause between challenge rechecks
	ScrollPause   time.Duration // unit pause between scroll steps
	Attempts      int
	Proxies       *proxy.Pool
}

// DefaultOptions returns the waits used against live review sites
func DefaultOptions() Options {
	return Options{
		Headless:      true,
		Timeout:       3 * time.Minute,
		SettleWait:    5 * time.Second,
		ChallengeWait: 60 * time.Second,
		ChallengeStep: 10 * time.Second,
		ScrollPause:   1 * time.Second,
		Attempts:      2,
	}
}

// Scraper renders pages in a real browser. Each fetch launches its own
// session and tears it down before returning.
type Scraper struct {
	capability Capability
	limiter    ratelimit.RateLimiter
	opts       Options
	launch     launcher
	sleep      func(context.Context, time.Duration) error
}

// New creates a dynamic Scraper from the startup capability probe
func New(capability Capability, lim ratelimit.RateLimiter, opts Options) *Scraper {
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	s := &Scraper{
		capability: capability,
		limiter:    lim,
		opts:       opts,
		sleep:      retry.Sleep,
	}
	if capability.Available {
		s.launch = chromeLauncher(allocatorOptions(capability.ExecPath, opts))
	}
	return s
}

// Name returns the name of this scraper
func (d *Scraper) Name() string {
	return "DynamicScraper"
}

// Available reports whether a browser was found at startup
func (d *Scraper) Available() bool {
	return d != nil && d.launch != nil
}

// Fetch renders urlStr and returns the final markup as a document
func (d *Scraper) Fetch(ctx context.Context, urlStr string) (*goquery.Document, error) {
	if !d.Available() {
		return nil, fmt.Errorf("%w: %s", ErrBrowserUnavailable, d.capability.Reason)
	}

	cfg := retry.Config{
		MaxAttempts:    d.opts.Attempts,
		InitialBackoff: time.Second,
		Strategy:       retry.BackoffLinear,
	}

	var doc *goquery.Document
	err := retry.WithRetry(ctx, cfg, func(attempt int) error {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx, urlStr); err != nil {
				return retry.Permanent(err)
			}
		}
		html, err := d.render(ctx, urlStr)
		if err != nil {
			log.Warn().
				Err(err).
				Str("url", urlStr).
				Int("attempt", attempt).
				Msg("Browser render failed")
			return err
		}
		parsed, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return fmt.Errorf("failed to parse rendered HTML: %w", err)
		}
		doc = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// render runs one browser session. The session is released on every path.
func (d *Scraper) render(ctx context.Context, urlStr string) (string, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	proxyAddr := ""
	proxyURL, viaProxy := d.opts.Proxies.Next()
	if viaProxy {
		proxyAddr = proxyURL.String()
	}

	page, release, err := d.launch(ctx, proxyAddr)
	if err != nil {
		d.opts.Proxies.MarkFailed(proxyURL)
		return "", err
	}
	defer release()

	log.Debug().
		Str("url", urlStr).
		Str("scraper", d.Name()).
		Msg("Starting fetch")

	if err := page.Navigate(ctx, urlStr); err != nil {
		d.opts.Proxies.MarkFailed(proxyURL)
		return "", fmt.Errorf("navigate: %w", err)
	}
	d.opts.Proxies.MarkHealthy(proxyURL)

	if err := d.sleep(ctx, d.opts.SettleWait); err != nil {
		return "", err
	}

	markup, err := page.Markup(ctx)
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	if term, found := DetectChallenge(markup, DefaultChallengeTerms); found {
		log.Warn().
			Str("url", urlStr).
			Str("indicator", term).
			Msg("Challenge page detected, waiting for it to clear")
		if err := d.waitOutChallenge(ctx, page); err != nil {
			return "", err
		}
	}

	if err := d.scrollThrough(ctx, page); err != nil {
		return "", err
	}

	markup, err = page.Markup(ctx)
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	log.Debug().
		Str("url", urlStr).
		Int("bytes", len(markup)).
		Int64("response_time_ms", time.Since(start).Milliseconds()).
		Msg("Fetch completed")

	return markup, nil
}

// waitOutChallenge pauses in steps, nudging the page with scrolls, until the
// challenge markers disappear or the budget runs out. It proceeds either way;
// only cancellation is returned.
func (d *Scraper) waitOutChallenge(ctx context.Context, page browserPage) error {
	step := d.opts.ChallengeStep
	if step <= 0 {
		step = 10 * time.Second
	}

	for waited := time.Duration(0); waited < d.opts.ChallengeWait; waited += step {
		if err := d.sleep(ctx, step); err != nil {
			return err
		}
		for _, fraction := range []float64{1.0 / 3, 0.5} {
			if err := page.ScrollTo(ctx, fraction); err != nil {
				log.Debug().Err(err).Msg("Scroll during challenge wait failed")
			}
			if err := d.sleep(ctx, d.opts.ScrollPause); err != nil {
				return err
			}
		}

		markup, err := page.Markup(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Debug().Err(err).Msg("Could not recheck challenge state")
			return nil
		}
		if _, still := DetectChallenge(markup, DefaultClearedTerms); !still {
			log.Info().Dur("waited", waited+step).Msg("Challenge cleared")
			return nil
		}
	}

	log.Warn().Dur("waited", d.opts.ChallengeWait).Msg("Challenge still present, continuing anyway")
	return nil
}

// scrollSteps is the staged scroll sequence: page-height fraction and the
// pause after it in units of ScrollPause.
var scrollSteps = []struct {
	fraction float64
	pauses   int
}{
	{0.25, 1}, {0.5, 1}, {0.75, 1}, {1.0, 1},
	{0, 2},
	{1.0, 3},
}

// scrollThrough triggers lazy-loaded content. Scroll errors are not fatal.
func (d *Scraper) scrollThrough(ctx context.Context, page browserPage) error {
	for _, step := range scrollSteps {
		if err := page.ScrollTo(ctx, step.fraction); err != nil {
			log.Debug().Err(err).Float64("fraction", step.fraction).Msg("Scroll failed")
		}
		if err := d.sleep(ctx, time.Duration(step.pauses)*d.opts.ScrollPause); err != nil {
			return err
		}
	}
	return nil
}

// allocatorOptions builds the Chrome flags. Automation switches are left out
// and the AutomationControlled blink feature is disabled.
func allocatorOptions(execPath string, opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-client-side-phishing-detection", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("password-store", "basic"),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.Flag("lang", "en-US"),
	}

	if execPath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(execPath)}, allocOpts...)
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	return allocOpts
}
