package engine

import (
	"context"
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/reviews/internal/observability"
	"github.com/law-makers/reviews/pkg/models"
	"github.com/rs/zerolog/log"
)

// BrowserScraper is a PageScraper that may be unavailable on this machine
type BrowserScraper interface {
	PageScraper
	Available() bool
}

// HybridFetcher prefers browser rendering and falls back to plain HTTP when
// the browser is missing or rendering fails.
type HybridFetcher struct {
	static  PageScraper
	dynamic BrowserScraper
}

// NewHybridFetcher creates a HybridFetcher. dynamicScraper may be nil.
func NewHybridFetcher(staticScraper PageScraper, dynamicScraper BrowserScraper) *HybridFetcher {
	return &HybridFetcher{
		static:  staticScraper,
		dynamic: dynamicScraper,
	}
}

// DynamicAvailable reports whether dynamic fetches can use a browser
func (h *HybridFetcher) DynamicAvailable() bool {
	return h.dynamic != nil && h.dynamic.Available()
}

// Fetch implements Fetcher
func (h *HybridFetcher) Fetch(ctx context.Context, url string, dynamic bool) (*goquery.Document, error) {
	if dynamic && h.DynamicAvailable() {
		doc, err := h.fetchWith(ctx, models.ModeDynamic, h.dynamic, url)
		if err == nil {
			return doc, nil
		}
		if errors.Is(err, context.Canceled) {
			return nil, Classify(string(models.ModeDynamic), url, err)
		}
		log.Warn().
			Err(err).
			Str("url", url).
			Msg("Dynamic fetch failed, falling back to static")
	} else if dynamic {
		observability.ObserveFetch(string(models.ModeDynamic), "unavailable", 0)
		log.Debug().Str("url", url).Msg("Browser unavailable, using static fetch")
	}

	doc, err := h.fetchWith(ctx, models.ModeStatic, h.static, url)
	if err != nil {
		return nil, Classify(string(models.ModeStatic), url, err)
	}
	return doc, nil
}

func (h *HybridFetcher) fetchWith(ctx context.Context, mode models.FetchMode, s PageScraper, url string) (*goquery.Document, error) {
	start := time.Now()
	doc, err := s.Fetch(ctx, url)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	observability.ObserveFetch(string(mode), outcome, time.Since(start))
	return doc, err
}
