package proxy

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultCooldown is how long a failed proxy is skipped
const DefaultCooldown = 5 * time.Minute

// Pool rotates through configured proxies, skipping ones that failed recently.
// A nil or empty Pool means direct connections.
type Pool struct {
	proxies  []*url.URL
	index    int
	cooldown time.Duration
	failed   map[string]time.Time
	now      func() time.Time
	mu       sync.Mutex
}

// NewPool validates the proxy URLs (http, https or socks5) and builds a Pool
func NewPool(raw []string, cooldown time.Duration) (*Pool, error) {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	p := &Pool{
		cooldown: cooldown,
		failed:   make(map[string]time.Time),
		now:      time.Now,
	}
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		u, err := url.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", r, err)
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return nil, fmt.Errorf("invalid proxy %q: scheme must be http, https or socks5", r)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q: missing host", r)
		}
		p.proxies = append(p.proxies, u)
	}
	return p, nil
}

// Len returns the number of configured proxies
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// Next returns the next healthy proxy. When every proxy is cooling down the
// next one in rotation is returned anyway. ok is false for an empty pool.
func (p *Pool) Next() (proxy *url.URL, ok bool) {
	if p.Len() == 0 {
		return nil, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	first := p.proxies[p.index]
	for range p.proxies {
		candidate := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		key := candidate.String()
		if failedAt, bad := p.failed[key]; bad {
			if p.now().Sub(failedAt) < p.cooldown {
				continue
			}
			delete(p.failed, key)
		}
		return candidate, true
	}

	p.index = (p.index + 1) % len(p.proxies)
	return first, true
}

// MarkFailed puts proxy on cooldown
func (p *Pool) MarkFailed(proxy *url.URL) {
	if p == nil || proxy == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy.String()] = p.now()
}

// MarkHealthy clears the failure status of proxy
func (p *Pool) MarkHealthy(proxy *url.URL) {
	if p == nil || proxy == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy.String())
}
