package dynamic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakePage struct {
	mu          sync.Mutex
	markups     []string // returned in order, last one repeats
	markupCalls int
	scrolls     []float64
	navErr      error
}

func (p *fakePage) Navigate(context.Context, string) error { return p.navErr }

func (p *fakePage) Markup(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.markupCalls
	if i >= len(p.markups) {
		i = len(p.markups) - 1
	}
	p.markupCalls++
	return p.markups[i], nil
}

func (p *fakePage) ScrollTo(_ context.Context, f float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrolls = append(p.scrolls, f)
	return nil
}

func newFakeScraper(page *fakePage, releases *int, launches *int) *Scraper {
	opts := DefaultOptions()
	opts.Attempts = 2
	s := New(Capability{}, nil, opts)
	s.launch = func(context.Context, string) (browserPage, func(), error) {
		*launches++
		return page, func() { *releases++ }, nil
	}
	s.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return s
}

func TestFetch_Unavailable(t *testing.T) {
	s := New(Capability{Reason: "no Chrome"}, nil, DefaultOptions())
	if s.Available() {
		t.Fatal("Expected scraper to be unavailable")
	}
	_, err := s.Fetch(context.Background(), "https://example.com")
	if !errors.Is(err, ErrBrowserUnavailable) {
		t.Fatalf("Expected ErrBrowserUnavailable, got %v", err)
	}
}

func TestFetch_StagedScrollAndRelease(t *testing.T) {
	page := &fakePage{markups: []string{`<html><body><div class="review">Great tool</div></body></html>`}}
	var releases, launches int
	s := newFakeScraper(page, &releases, &launches)

	doc, err := s.Fetch(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if doc.Find(".review").Text() != "Great tool" {
		t.Error("Unexpected document content")
	}

	want := []float64{0.25, 0.5, 0.75, 1.0, 0, 1.0}
	if len(page.scrolls) != len(want) {
		t.Fatalf("Expected %d scrolls, got %v", len(want), page.scrolls)
	}
	for i := range want {
		if page.scrolls[i] != want[i] {
			t.Errorf("Scroll %d: expected %v, got %v", i, want[i], page.scrolls[i])
		}
	}
	if releases != 1 || launches != 1 {
		t.Errorf("Expected 1 launch and 1 release, got %d and %d", launches, releases)
	}
}

func TestFetch_WaitsOutChallenge(t *testing.T) {
	page := &fakePage{markups: []string{
		`<html><body>Please complete the CAPTCHA</body></html>`, // initial check
		`<html><body>Please complete the CAPTCHA</body></html>`, // first recheck
		`<html><body><article class="review">ok</article></body></html>`,
	}}
	var releases, launches int
	s := newFakeScraper(page, &releases, &launches)

	if _, err := s.Fetch(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	// two challenge rounds of (1/3, 1/2) then the six staged scrolls
	if len(page.scrolls) != 4+6 {
		t.Errorf("Expected 10 scrolls, got %d: %v", len(page.scrolls), page.scrolls)
	}
	if releases != 1 {
		t.Errorf("Expected session release, got %d", releases)
	}
}

func TestFetch_ChallengeNeverClears(t *testing.T) {
	page := &fakePage{markups: []string{`<html><body>datadome captcha</body></html>`}}
	var releases, launches int
	s := newFakeScraper(page, &releases, &launches)
	s.opts.ChallengeWait = 30 * time.Second
	s.opts.ChallengeStep = 10 * time.Second

	doc, err := s.Fetch(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Expected fetch to proceed regardless of challenge, got %v", err)
	}
	if doc == nil {
		t.Fatal("Expected a document")
	}
	// three rounds of two scrolls then the staged scrolls
	if len(page.scrolls) != 6+6 {
		t.Errorf("Expected 12 scrolls, got %d", len(page.scrolls))
	}
}

func TestFetch_ReleasesOnNavigateError(t *testing.T) {
	page := &fakePage{markups: []string{""}, navErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	var releases, launches int
	s := newFakeScraper(page, &releases, &launches)

	if _, err := s.Fetch(context.Background(), "https://example.invalid"); err == nil {
		t.Fatal("Expected error")
	}
	if launches != 2 {
		t.Errorf("Expected 2 attempts, got %d", launches)
	}
	if releases != launches {
		t.Errorf("Every launched session must be released: %d launches, %d releases", launches, releases)
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	page := &fakePage{markups: []string{"<html></html>"}}
	var releases, launches int
	s := newFakeScraper(page, &releases, &launches)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Fetch(ctx, "https://example.com"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if releases != launches {
		t.Errorf("Expected every session released, got %d/%d", releases, launches)
	}
}

func TestDetectChallenge(t *testing.T) {
	if term, ok := DetectChallenge("<div>Checking your browser - Cloudflare</div>", DefaultChallengeTerms); !ok || term != "cloudflare" {
		t.Errorf("Expected cloudflare, got %q %v", term, ok)
	}
	if _, ok := DetectChallenge("<div>Checking your browser - Cloudflare</div>", DefaultClearedTerms); ok {
		t.Error("CDN name alone must not count as an active challenge on recheck")
	}
	if _, ok := DetectChallenge("<h1>Reviews</h1>", DefaultChallengeTerms); ok {
		t.Error("Unexpected challenge detection")
	}
}

func TestProbe(t *testing.T) {
	if c := Probe("", true); c.Available {
		t.Error("Disabled probe must report unavailable")
	}
	if c := Probe("/definitely/not/chrome", true); c.Available || c.Reason == "" {
		t.Error("Expected unavailable with a reason")
	}
}

// TestFetch_RealBrowser renders a local page when Chrome is installed.
func TestFetch_RealBrowser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	capability := Probe("", false)
	if !capability.Available {
		t.Skip("Chrome not installed")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div id="app"></div>
<script>document.getElementById('app').innerHTML = '<div class="review-card">' + (navigator.webdriver ? 'bot' : 'human') + '</div>';</script>
</body></html>`))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.SettleWait = 200 * time.Millisecond
	opts.ScrollPause = 10 * time.Millisecond
	opts.Timeout = 30 * time.Second
	s := New(capability, nil, opts)

	doc, err := s.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := doc.Find(".review-card").Text(); got != "human" {
		t.Errorf("Expected rendered content 'human', got %q", got)
	}
}
