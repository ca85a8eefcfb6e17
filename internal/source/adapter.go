// Package source knows where each review site lists a company's reviews and
// how to pull review records out of its markup.
package source

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/reviews/pkg/models"
)

// ErrUnknownSource is returned by New for an unsupported source
var ErrUnknownSource = errors.New("unknown source")

// Adapter is implemented once per review site
type Adapter interface {
	// Name returns the source this adapter scrapes
	Name() models.Source
	// CompanyURL returns the first review listing page for the company
	CompanyURL() string
	// ReviewElements returns one selection per review found in doc
	ReviewElements(doc *goquery.Document) []*goquery.Selection
	// ParseReview extracts a record; ok is false when neither title nor
	// text could be found.
	ParseReview(el *goquery.Selection) (review models.Review, ok bool)
	// NextPageURL returns the absolute URL of the next listing page
	NextPageURL(doc *goquery.Document, currentURL string) (string, bool)
	// ParseJSONReview maps one embedded JSON object to a record
	ParseJSONReview(obj map[string]any) (review models.Review, ok bool)
}

// New returns the adapter for src scraping company
func New(src models.Source, company string) (Adapter, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, fmt.Errorf("company name is required")
	}
	switch src {
	case models.SourceG2:
		return NewG2(company), nil
	case models.SourceCapterra:
		return NewCapterra(company), nil
	case models.SourceTrustpilot:
		return NewTrustpilot(company), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, src)
	}
}

// Slug turns a company name into the URL path segment review sites use:
// lowercase, spaces to hyphens, "&" to "and", periods dropped, anything
// else that is not a letter, digit or hyphen removed.
func Slug(company string) string {
	s := strings.ToLower(strings.TrimSpace(company))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.ReplaceAll(s, ".", "")
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return -1
	}, s)
}
