// internal/engine/static/scraper.go
package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/reviews/internal/proxy"
	"github.com/law-makers/reviews/internal/ratelimit"
	"github.com/law-makers/reviews/internal/retry"
	"github.com/law-makers/reviews/internal/utils/headers"
	"github.com/rs/zerolog/log"
)

// Options configures the static scraper
type Options struct {
	Timeout   time.Duration // per attempt
	UserAgent string
	Headers   http.Header // extra headers, override the browser set
	Retry     retry.Config
}

// Scraper fetches pages with plain HTTP GET requests and parses them with
// goquery. It is fast but sees only server-rendered markup.
type Scraper struct {
	limiter ratelimit.RateLimiter
	client  *http.Client
	proxies *proxy.Pool
	opts    Options

	mu      sync.Mutex
	clients map[string]*http.Client // per proxy
}

// New creates a static Scraper. limiter and proxies may be nil.
func New(lim ratelimit.RateLimiter, client *http.Client, proxies *proxy.Pool, opts Options) *Scraper {
	if client == nil {
		client = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = retry.DefaultConfig()
	}
	return &Scraper{
		limiter: lim,
		client:  client,
		proxies: proxies,
		opts:    opts,
		clients: make(map[string]*http.Client),
	}
}

// Name returns the name of this scraper
func (s *Scraper) Name() string {
	return "StaticScraper"
}

// Fetch retrieves and parses urlStr, retrying with linear backoff
func (s *Scraper) Fetch(ctx context.Context, urlStr string) (*goquery.Document, error) {
	start := time.Now()

	log.Debug().
		Str("url", urlStr).
		Str("scraper", s.Name()).
		Msg("Starting fetch")

	var doc *goquery.Document
	err := retry.WithRetry(ctx, s.opts.Retry, func(attempt int) error {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx, urlStr); err != nil {
				return retry.Permanent(err)
			}
		}
		d, err := s.attempt(ctx, urlStr)
		if err != nil {
			log.Warn().
				Err(err).
				Str("url", urlStr).
				Int("attempt", attempt).
				Msg("Static fetch attempt failed")
			return err
		}
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("url", urlStr).
		Int64("response_time_ms", time.Since(start).Milliseconds()).
		Msg("Fetch completed")

	return doc, nil
}

func (s *Scraper) attempt(ctx context.Context, urlStr string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header = headers.Merge(headers.Browser(s.opts.UserAgent), s.opts.Headers)

	client, via := s.clientFor()
	resp, err := client.Do(req)
	if err != nil {
		s.proxies.MarkFailed(via)
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()
	s.proxies.MarkHealthy(via)

	if resp.StatusCode >= http.StatusBadRequest {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, retry.NewHTTPError(resp.StatusCode, resp.Status, "")
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// clientFor returns the client for the next proxy, or the direct client
func (s *Scraper) clientFor() (*http.Client, *url.URL) {
	p, ok := s.proxies.Next()
	if !ok {
		return s.client, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := p.String()
	if c, ok := s.clients[key]; ok {
		return c, p
	}

	var transport *http.Transport
	if base, ok := s.client.Transport.(*http.Transport); ok && base != nil {
		transport = base.Clone()
	} else {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	transport.Proxy = http.ProxyURL(p)

	c := &http.Client{
		Transport:     transport,
		Timeout:       s.client.Timeout,
		Jar:           s.client.Jar,
		CheckRedirect: s.client.CheckRedirect,
	}
	s.clients[key] = c
	return c, p
}
