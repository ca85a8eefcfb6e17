// Package scrape drives the fetch, extract, filter and paginate loop shared
// by every review source.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/law-makers/reviews/internal/dateutil"
	"github.com/law-makers/reviews/internal/engine"
	"github.com/law-makers/reviews/internal/extract"
	"github.com/law-makers/reviews/internal/observability"
	"github.com/law-makers/reviews/internal/source"
	"github.com/law-makers/reviews/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultMaxPages caps pagination against listings that never end
	DefaultMaxPages    = 100
	DefaultSampleCount = 10
)

// StopReason tells why the loop ended
type StopReason string

const (
	StopDate     StopReason = "date"      // a record older than the window start
	StopEmpty    StopReason = "empty"     // fetch failed or the page had nothing
	StopLimit    StopReason = "limit"     // max pages reached
	StopLastPage StopReason = "last_page" // no next page link
	StopCanceled StopReason = "canceled"
)

// Record outcomes, also used as metric labels
const (
	outcomeAccepted   = "accepted"
	outcomeOutOfRange = "out_of_range"
	outcomeUndated    = "undated"
	outcomeInvalid    = "invalid"
)

// SampleSource fabricates records for a scrape that found none
type SampleSource interface {
	Generate(company string, start, end time.Time, src models.Source, count int) []models.Review
}

// Dumper persists the markup of a page nothing could be extracted from
type Dumper interface {
	Dump(company string, page int, url string, doc *goquery.Document)
}

// PageStats is reported to the observer after each processed page
type PageStats struct {
	Page        int
	URL         string
	Elements    int
	JSONReviews int
	Accepted    int // accepted on this page
	Total       int // accepted so far
}

// Options configures one scrape
type Options struct {
	Company string
	Start   time.Time
	End     time.Time

	// Dynamic asks the fetcher for browser rendering
	Dynamic     bool
	MaxPages    int
	SampleCount int
	Extract     extract.Options

	Samples  SampleSource
	Dumper   Dumper
	Observer func(PageStats)
}

// Stats counts record outcomes over the whole scrape
type Stats struct {
	JSON       int
	Elements   int
	Accepted   int
	OutOfRange int
	Undated    int
	Invalid    int
}

// Result is the outcome of Scrape
type Result struct {
	SessionID string
	Source    models.Source
	Reviews   []models.Review
	Pages     int
	Stop      StopReason
	// Sample is set when Reviews were fabricated because nothing real was found
	Sample bool
	Stats  Stats
}

// fallbackRule finds review-like containers when the adapter finds none
var fallbackRule = source.StructuralRule{
	Tags:        []string{"div", "article", "li", "section"},
	Scan:        100,
	Keywords:    []string{"review", "rating", "star", "reviewed", "feedback"},
	MinText:     100,
	ChildTags:   []string{"p", "div", "span"},
	MinChildren: 2,
	Max:         20,
}

// Scraper runs one scrape session. It is not safe for concurrent use.
type Scraper struct {
	adapter source.Adapter
	fetcher engine.Fetcher
	opts    Options
	logger  zerolog.Logger
}

// New creates a Scraper for adapter fetching through fetcher
func New(adapter source.Adapter, fetcher engine.Fetcher, opts Options) *Scraper {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	opts.Start, opts.End = dateutil.Day(opts.Start), dateutil.Day(opts.End)
	return &Scraper{
		adapter: adapter,
		fetcher: fetcher,
		opts:    opts,
	}
}

// session is the mutable state of one Scrape call
type session struct {
	result *Result
	url    string
	page   int
}

// Scrape paginates from the adapter's listing URL until a stop condition.
// The only error returned is the context's, together with what was
// collected before cancellation.
func (s *Scraper) Scrape(ctx context.Context) (*Result, error) {
	src := s.adapter.Name()
	sess := &session{
		result: &Result{SessionID: uuid.NewString(), Source: src},
		url:    s.adapter.CompanyURL(),
	}
	s.logger = log.With().
		Str("session", sess.result.SessionID).
		Str("source", string(src)).
		Logger()

	s.logger.Info().
		Str("company", s.opts.Company).
		Str("url", sess.url).
		Str("start", dateutil.Format(s.opts.Start)).
		Str("end", dateutil.Format(s.opts.End)).
		Msg("Starting scrape")

	stop, err := s.run(ctx, sess)
	res := sess.result
	res.Stop = stop
	observability.ObserveStop(string(src), string(stop))

	if err != nil {
		s.logger.Warn().Err(err).Int("reviews", len(res.Reviews)).Msg("Scrape interrupted")
		return res, err
	}

	s.logger.Info().
		Str("stop", string(stop)).
		Int("pages", res.Pages).
		Int("reviews", len(res.Reviews)).
		Msg("Scrape complete")

	if len(res.Reviews) == 0 && s.opts.Samples != nil {
		count := s.opts.SampleCount
		if count <= 0 {
			count = DefaultSampleCount
		}
		res.Reviews = s.opts.Samples.Generate(s.opts.Company, s.opts.Start, s.opts.End, src, count)
		res.Sample = len(res.Reviews) > 0
		s.logger.Warn().
			Int("count", len(res.Reviews)).
			Msg("No reviews found, likely due to bot protection; substituting sample data")
	}
	return res, nil
}

func (s *Scraper) run(ctx context.Context, sess *session) (StopReason, error) {
	src := string(s.adapter.Name())

	for sess.page = 1; ; sess.page++ {
		if sess.page > s.opts.MaxPages {
			s.logger.Warn().Int("max_pages", s.opts.MaxPages).Msg("Reached maximum page limit")
			return StopLimit, nil
		}
		if err := ctx.Err(); err != nil {
			return StopCanceled, err
		}

		logger := s.logger.With().Int("page", sess.page).Str("url", sess.url).Logger()
		logger.Info().Msg("Scraping page")

		doc, err := s.fetcher.Fetch(ctx, sess.url, s.opts.Dynamic)
		if err == nil && doc == nil {
			err = engine.ErrNoDocument
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return StopCanceled, ctxErr
			}
			logger.Warn().Err(err).Msg("Failed to fetch page")
			return StopEmpty, nil
		}
		sess.result.Pages = sess.page
		observability.ObservePage(src)

		stats := PageStats{Page: sess.page, URL: sess.url}
		before := len(sess.result.Reviews)

		// Embedded JSON first. Its records are filtered on their own and may
		// end the scrape before any element is looked at.
		found := extract.Extract(doc, sess.url, s.adapter, s.opts.Extract)
		stats.JSONReviews = len(found.Reviews)
		sess.result.Stats.JSON += len(found.Reviews)
		if found.Status == extract.StatusFound {
			logger.Info().Int("count", len(found.Reviews)).Msg("Found reviews in embedded JSON")
		}
		dated := 0
		for _, review := range found.Reviews {
			if _, ok := dateutil.Parse(review.ReviewDate); ok {
				dated++
			}
			if s.judge(sess, review) {
				logger.Info().Str("date", review.ReviewDate).Msg("Reached reviews older than start date")
				s.report(sess, stats, before)
				return StopDate, nil
			}
		}
		// Undated objects with a text field are as likely page config as
		// reviews, so only dated JSON records count as page content.
		jsonEmpty := dated == 0

		elements := s.elements(logger, doc)
		if len(elements) == 0 && jsonEmpty {
			logger.Debug().Msg("No review elements found, trying fallback extraction")
			elements = fallbackRule.Find(doc.Selection)
		}
		stats.Elements = len(elements)
		sess.result.Stats.Elements += len(elements)

		if len(elements) == 0 && jsonEmpty {
			diag := engine.Diagnose(doc)
			logger.Warn().
				Str("framework", diag.Framework).
				Int("scripts", diag.Scripts).
				Bool("needs_js", diag.NeedsJS).
				Str("challenge", diag.Challenge).
				Msg("No reviews found on page, the site may render them with JavaScript")
			if sess.page == 1 && s.opts.Dumper != nil {
				s.opts.Dumper.Dump(s.opts.Company, sess.page, sess.url, doc)
			}
			s.report(sess, stats, before)
			return StopEmpty, nil
		}

		for i, el := range elements {
			review, ok := s.parse(logger, i, el)
			if !ok {
				sess.result.Stats.Invalid++
				observability.ObserveRecord(src, outcomeInvalid)
				continue
			}
			if s.judge(sess, review) {
				logger.Info().Str("date", review.ReviewDate).Msg("Reached reviews older than start date")
				s.report(sess, stats, before)
				return StopDate, nil
			}
		}
		s.report(sess, stats, before)

		next, ok := s.adapter.NextPageURL(doc, sess.url)
		if !ok {
			logger.Info().Msg("No next page")
			return StopLastPage, nil
		}
		sess.url = next
	}
}

// judge files review under an outcome and reports whether the scrape must
// stop because the review is older than the window.
func (s *Scraper) judge(sess *session, review models.Review) bool {
	src := string(s.adapter.Name())
	d, ok := dateutil.Parse(review.ReviewDate)
	switch {
	case dateutil.ShouldStop(d, ok, s.opts.Start):
		return true
	case !ok:
		sess.result.Stats.Undated++
		observability.ObserveRecord(src, outcomeUndated)
	case dateutil.InRange(d, s.opts.Start, s.opts.End):
		sess.result.Reviews = append(sess.result.Reviews, review)
		sess.result.Stats.Accepted++
		observability.ObserveRecord(src, outcomeAccepted)
	default:
		sess.result.Stats.OutOfRange++
		observability.ObserveRecord(src, outcomeOutOfRange)
	}
	return false
}

// elements asks the adapter for review elements, containing any panic from
// its selector code.
func (s *Scraper) elements(logger zerolog.Logger, doc *goquery.Document) (els []*goquery.Selection) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Review element discovery failed")
			els = nil
		}
	}()
	return s.adapter.ReviewElements(doc)
}

// parse extracts one record; a panicking element is skipped like an
// unparseable one.
func (s *Scraper) parse(logger zerolog.Logger, i int, el *goquery.Selection) (review models.Review, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug().Err(fmt.Errorf("%v", r)).Int("element", i).Msg("Skipping malformed review element")
			review, ok = models.Review{}, false
		}
	}()
	return s.adapter.ParseReview(el)
}

func (s *Scraper) report(sess *session, stats PageStats, before int) {
	stats.Total = len(sess.result.Reviews)
	stats.Accepted = stats.Total - before
	if s.opts.Observer != nil {
		s.opts.Observer(stats)
	}
}

// IsCanceled reports whether err ended a scrape through cancellation
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
