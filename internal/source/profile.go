package source

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/law-makers/reviews/internal/utils/url"
	"github.com/law-makers/reviews/pkg/models"
	"github.com/rs/zerolog/log"
)

// Profile is the per-site configuration driving the shared extraction code
type Profile struct {
	Source      models.Source
	URLTemplate string // %s is replaced by the company slug

	// Elements is the selector cascade. With Accumulate == 0 the first
	// non-empty strategy wins, otherwise strategies are combined until at
	// least Accumulate elements were found.
	Elements   []Matcher
	Accumulate int
	// Structural runs when the cascade found fewer than StructuralBelow elements
	Structural      *StructuralRule
	StructuralBelow int

	Title    []Matcher
	Text     TextRule
	Date     DateRule
	Reviewer []Matcher
	Rating   RatingRule
	JSON     JSONFields
}

// TextRule picks the review body
type TextRule struct {
	Matchers  []Matcher
	Longest   bool // longest passing candidate across all matchers
	MinLength int  // candidate text must be strictly longer
	// SkipMetadata rejects candidates that read like a date or a rating
	SkipMetadata bool
	// LineFallback joins the first substantial text lines of the element
	// when no candidate passes.
	LineFallback bool
}

// DateRule locates the review date
type DateRule struct {
	Labeled  []Matcher // text of date-labeled elements, after <time>
	ScanText bool      // regex scan of the full element text
}

// RatingRule locates the rating
type RatingRule struct {
	Labeled []Matcher
	Stars   []Matcher // star icons inside the rating element, tried in order
	Filled  []string  // markup keywords flagging a filled star
}

var (
	excludeDateLike   = regexp.MustCompile(`^\d+[/-]\d+`)
	excludeRatingLike = regexp.MustCompile(`^\d+\.?\d*\s*(star|out of)`)
	ratingNumber      = regexp.MustCompile(`\d+\.?\d*`)
	datePatterns      = []*regexp.Regexp{
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
		regexp.MustCompile(`[A-Z][a-z]+ \d{1,2}, \d{4}`),
	}
	nextKeyword = []string{"next"}
)

// base implements Adapter from a Profile
type base struct {
	profile Profile
	company string
}

func (b *base) Name() models.Source {
	return b.profile.Source
}

func (b *base) CompanyURL() string {
	return fmt.Sprintf(b.profile.URLTemplate, Slug(b.company))
}

func (b *base) ReviewElements(doc *goquery.Document) []*goquery.Selection {
	p := b.profile
	var found []*goquery.Selection

	for i, m := range p.Elements {
		matches := each(m.FindAll(doc.Selection))
		if len(matches) == 0 {
			continue
		}
		log.Debug().
			Str("source", string(p.Source)).
			Int("strategy", i).
			Int("count", len(matches)).
			Msg("Review elements matched")
		found = append(found, matches...)
		if p.Accumulate <= 0 {
			break
		}
		found = dedupe(found)
		if len(found) >= p.Accumulate {
			break
		}
	}

	if p.Structural != nil && len(found) < p.StructuralBelow {
		extra := p.Structural.Find(doc.Selection)
		if len(extra) > 0 {
			log.Debug().
				Str("source", string(p.Source)).
				Int("count", len(extra)).
				Msg("Structural scan found review candidates")
		}
		found = append(found, extra...)
	}

	return dedupe(found)
}

func (b *base) ParseReview(el *goquery.Selection) (models.Review, bool) {
	p := b.profile
	review := models.Review{Source: p.Source}

	review.Title, _ = firstText(el, p.Title)
	review.ReviewText = b.reviewText(el)
	review.ReviewDate = b.reviewDate(el)
	review.Reviewer, _ = firstText(el, p.Reviewer)
	review.Rating = b.rating(el)

	if !review.HasContent() {
		return models.Review{}, false
	}
	return review, true
}

func (b *base) reviewText(el *goquery.Selection) string {
	rule := b.profile.Text
	plausible := func(text string) bool {
		if len(text) <= rule.MinLength {
			return false
		}
		if !rule.SkipMetadata {
			return true
		}
		return !excludeDateLike.MatchString(text) && !excludeRatingLike.MatchString(strings.ToLower(text))
	}

	if rule.Longest {
		longest := ""
		for _, m := range rule.Matchers {
			m.FindAll(el).Each(func(_ int, s *goquery.Selection) {
				if text := cleanText(s); len(text) > len(longest) && plausible(text) {
					longest = text
				}
			})
		}
		if longest != "" {
			return longest
		}
	} else {
		for _, m := range rule.Matchers {
			first := m.First(el)
			if first.Length() == 0 {
				continue
			}
			if text := cleanText(first); plausible(text) {
				return text
			}
		}
	}

	if rule.LineFallback {
		var lines []string
		for _, line := range textLines(el) {
			if len(line) > rule.MinLength {
				lines = append(lines, line)
			}
			if len(lines) == 3 {
				break
			}
		}
		return strings.Join(lines, " ")
	}
	return ""
}

func (b *base) reviewDate(el *goquery.Selection) string {
	if t := el.Find("time").First(); t.Length() > 0 {
		if dt, ok := t.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			return strings.TrimSpace(dt)
		}
		if text := cleanText(t); text != "" {
			return text
		}
	}

	if text, _ := firstText(el, b.profile.Date.Labeled); text != "" {
		return text
	}

	if b.profile.Date.ScanText {
		full := el.Text()
		for _, re := range datePatterns {
			if m := re.FindString(full); m != "" {
				return m
			}
		}
	}
	return ""
}

func (b *base) rating(el *goquery.Selection) string {
	rule := b.profile.Rating
	var ratingEl *goquery.Selection
	for _, m := range rule.Labeled {
		if first := m.First(el); first.Length() > 0 {
			ratingEl = first
			break
		}
	}
	if ratingEl == nil {
		return ""
	}

	if n := ratingNumber.FindString(cleanText(ratingEl)); n != "" {
		return n
	}

	// Rating is drawn with icons: count the filled ones
	for _, m := range rule.Stars {
		stars := m.FindAll(ratingEl)
		if stars.Length() == 0 {
			continue
		}
		filled := 0
		stars.Each(func(_ int, s *goquery.Selection) {
			markup, err := goquery.OuterHtml(s)
			if err == nil && containsAny(markup, rule.Filled) {
				filled++
			}
		})
		return strconv.Itoa(filled)
	}
	return ""
}

// NextPageURL finds a "next" link by aria-label, then class, then link text
func (b *base) NextPageURL(doc *goquery.Document, currentURL string) (string, bool) {
	strategies := []func(*goquery.Selection) bool{
		func(a *goquery.Selection) bool {
			label, ok := a.Attr("aria-label")
			return ok && containsAny(label, nextKeyword)
		},
		func(a *goquery.Selection) bool {
			class, ok := a.Attr("class")
			return ok && containsAny(class, nextKeyword)
		},
		func(a *goquery.Selection) bool {
			return containsAny(cleanText(a), nextKeyword)
		},
	}

	links := doc.Find("a[href]")
	for _, match := range strategies {
		link := links.FilterFunction(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			href = strings.TrimSpace(href)
			return href != "" && !strings.HasPrefix(href, "#") && !strings.HasPrefix(strings.ToLower(href), "javascript:") && match(a)
		}).First()
		if link.Length() == 0 {
			continue
		}
		href, _ := link.Attr("href")
		next, err := urlutil.ResolveAgainstHost(currentURL, href)
		if err != nil {
			log.Debug().Err(err).Str("href", href).Msg("Could not resolve next page link")
			return "", false
		}
		return next, true
	}
	return "", false
}

func (b *base) ParseJSONReview(obj map[string]any) (models.Review, bool) {
	return b.profile.JSON.Map(obj, b.profile.Source)
}
