// Package engine retrieves review listing pages as parsed documents.
package engine

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher is the only view of page retrieval the scrape loop depends on.
// dynamic asks for browser rendering when available. A non-nil error means
// no document could be produced.
type Fetcher interface {
	Fetch(ctx context.Context, url string, dynamic bool) (*goquery.Document, error)
}

// PageScraper retrieves a page in one specific mode
type PageScraper interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
	Name() string
}
