package source

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/reviews/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return d
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Notion":           "notion",
		"Procter & Gamble": "procter-and-gamble",
		"Monday.com":       "mondaycom",
		"  Slack  ":        "slack",
		"Acme, Inc!":       "acme-inc",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestNew(t *testing.T) {
	a, err := New(models.SourceG2, "Notion")
	require.NoError(t, err)
	assert.Equal(t, models.SourceG2, a.Name())
	assert.Equal(t, "https://www.g2.com/products/notion/reviews", a.CompanyURL())

	a, err = New(models.SourceCapterra, "Monday.com")
	require.NoError(t, err)
	assert.Equal(t, "https://www.capterra.com/p/mondaycom/reviews", a.CompanyURL())

	a, err = New(models.SourceTrustpilot, "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "https://www.trustpilot.com/review/acme-corp.com", a.CompanyURL())

	_, err = New("yelp", "Notion")
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, err = New(models.SourceG2, "   ")
	assert.Error(t, err)
}

func TestG2_ReviewElementsAccumulates(t *testing.T) {
	d := doc(t, `<html><body>
		<div class="review-card">a</div>
		<div class="review-card">b</div>
		<article class="paper review">c</article>
		<div data-review-id="7">d</div>
		<div data-review-id="8">e</div>
		<li class="review">never reached</li>
	</body></html>`)

	els := NewG2("x").ReviewElements(d)
	require.Len(t, els, 5)
	assert.Equal(t, "a", els[0].Text())
	assert.Equal(t, "e", els[4].Text())
}

func TestG2_StructuralFallback(t *testing.T) {
	d := doc(t, `<html><body>
		<div id="main">
			<p>Reviewed by a verified user on G2, five star rating given overall.</p>
			<span>Pros</span><span>Cons</span>
		</div>
	</body></html>`)

	els := NewG2("x").ReviewElements(d)
	require.NotEmpty(t, els)
	assert.Contains(t, els[0].Text(), "verified user")
}

func TestCapterra_FirstStrategyWins(t *testing.T) {
	d := doc(t, `<html><body>
		<div class="review">one</div>
		<article class="review">two</article>
	</body></html>`)

	els := NewCapterra("x").ReviewElements(d)
	require.Len(t, els, 1)
	assert.Equal(t, "one", els[0].Text())
}

func TestTrustpilot_ReviewElementsOrder(t *testing.T) {
	d := doc(t, `<html><body>
		<section class="reviews-section">s</section>
		<div class="review-wrap">d</div>
	</body></html>`)

	els := NewTrustpilot("x").ReviewElements(d)
	require.Len(t, els, 1)
	assert.Equal(t, "d", els[0].Text())
}

func TestG2_ParseReview(t *testing.T) {
	d := doc(t, `<div class="review-card">
		<h3>Great for docs</h3>
		<div class="review-body">
			<p class="review-text">Notion replaced three tools for our team and the wiki is finally used.</p>
		</div>
		<time datetime="2024-03-05">March 5, 2024</time>
		<a class="user-link">Jane D.</a>
		<div class="star-rating">4.5 out of 5</div>
	</div>`)

	a := NewG2("Notion")
	els := a.ReviewElements(d)
	require.Len(t, els, 1)

	r, ok := a.ParseReview(els[0])
	require.True(t, ok)
	assert.Equal(t, "Great for docs", r.Title)
	assert.Equal(t, "Notion replaced three tools for our team and the wiki is finally used.", r.ReviewText)
	assert.Equal(t, "2024-03-05", r.ReviewDate)
	assert.Equal(t, "Jane D.", r.Reviewer)
	assert.Equal(t, "4.5", r.Rating)
	assert.Equal(t, models.SourceG2, r.Source)
}

func TestG2_ParseReviewCountsStars(t *testing.T) {
	d := doc(t, `<div class="review-card">
		<h3>Solid</h3>
		<div class="rating">
			<i class="star filled"></i><i class="star filled"></i><i class="star filled"></i>
			<i class="star empty"></i>
		</div>
	</div>`)

	r, ok := NewG2("x").ParseReview(d.Find(".review-card"))
	require.True(t, ok)
	assert.Equal(t, "3", r.Rating)
}

func TestG2_ParseReviewDateFromText(t *testing.T) {
	d := doc(t, `<div class="review-card">
		<h3>Fine</h3>
		<p>Posted on January 12, 2024 by a user</p>
	</div>`)

	r, ok := NewG2("x").ParseReview(d.Find(".review-card"))
	require.True(t, ok)
	assert.Equal(t, "January 12, 2024", r.ReviewDate)
}

func TestG2_TextSkipsMetadata(t *testing.T) {
	d := doc(t, `<div class="review-card">
		<h3>Title</h3>
		<p class="review-meta">2024-01-01 reviewed on the website of the vendor</p>
		<p class="review-text">Short but real text about the product here.</p>
	</div>`)

	r, ok := NewG2("x").ParseReview(d.Find(".review-card"))
	require.True(t, ok)
	assert.Equal(t, "Short but real text about the product here.", r.ReviewText)
}

func TestCapterra_ParseReview(t *testing.T) {
	d := doc(t, `<div class="review">
		<h2>Easy onboarding</h2>
		<p class="review-content">Setup took an afternoon and support answered fast.</p>
		<span class="review-date">2024-02-10</span>
		<span class="reviewer-name">Sam</span>
	</div>`)

	r, ok := NewCapterra("x").ParseReview(d.Find("div.review"))
	require.True(t, ok)
	assert.Equal(t, "Easy onboarding", r.Title)
	assert.Equal(t, "Setup took an afternoon and support answered fast.", r.ReviewText)
	assert.Equal(t, "2024-02-10", r.ReviewDate)
	assert.Equal(t, "Sam", r.Reviewer)
	assert.Equal(t, models.SourceCapterra, r.Source)
}

func TestTrustpilot_ParseReview(t *testing.T) {
	d := doc(t, `<article class="review">
		<h2>Fast delivery</h2>
		<p class="typography_body review-text">Arrived in two days.</p>
		<time datetime="2024-04-01T10:00:00.000Z">Apr 1</time>
		<span class="consumer-name">Alex</span>
		<div class="star-rating"><svg class="full"></svg><svg class="full"></svg><svg class="empty"></svg></div>
	</article>`)

	r, ok := NewTrustpilot("x").ParseReview(d.Find("article"))
	require.True(t, ok)
	assert.Equal(t, "Fast delivery", r.Title)
	assert.Equal(t, "Arrived in two days.", r.ReviewText)
	assert.Equal(t, "2024-04-01T10:00:00.000Z", r.ReviewDate)
	assert.Equal(t, "Alex", r.Reviewer)
	assert.Equal(t, "2", r.Rating)
}

func TestParseReview_RejectsWithoutTitleOrText(t *testing.T) {
	d := doc(t, `<article class="review">
		<span class="date">2024-01-01</span>
		<div class="rating">5</div>
	</article>`)

	for _, a := range []Adapter{NewG2("x"), NewCapterra("x"), NewTrustpilot("x")} {
		_, ok := a.ParseReview(d.Find("article"))
		assert.False(t, ok, a.Name())
	}
}

func TestNextPageURL(t *testing.T) {
	a := NewG2("x")
	current := "https://www.g2.com/products/x/reviews?page=1"

	cases := []struct {
		name   string
		markup string
		want   string
		ok     bool
	}{
		{"aria label", `<a href="#">Next</a><a aria-label="Next page" href="/products/x/reviews?page=2">›</a>`, "https://www.g2.com/products/x/reviews?page=2", true},
		{"class", `<a class="pagination__next" href="?page=3">›</a>`, "https://www.g2.com?page=3", true},
		{"text", `<a href="https://www.g2.com/products/x/reviews?page=4">Next ›</a>`, "https://www.g2.com/products/x/reviews?page=4", true},
		{"javascript only", `<a href="javascript:void(0)">Next</a>`, "", false},
		{"none", `<a href="/about">About</a>`, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := a.NextPageURL(doc(t, c.markup), current)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseJSONReview(t *testing.T) {
	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"@type": "Review",
		"name": "Love it",
		"reviewBody": "Works well for the whole team.",
		"datePublished": "2024-05-01",
		"author": {"@type": "Person", "name": "Kim"},
		"reviewRating": {"ratingValue": 5}
	}`), &obj))

	r, ok := NewG2("x").ParseJSONReview(obj)
	require.True(t, ok)
	assert.Equal(t, models.Review{
		Title:      "Love it",
		ReviewText: "Works well for the whole team.",
		ReviewDate: "2024-05-01",
		Reviewer:   "Kim",
		Rating:     "5",
		Source:     models.SourceG2,
	}, r)
}

func TestParseJSONReview_TrustpilotShape(t *testing.T) {
	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "Good service",
		"text": "Refund came quickly.",
		"rating": 4,
		"dates": {"publishedDate": "2024-06-02T08:00:00.000Z"},
		"consumer": {"displayName": "Lee"}
	}`), &obj))

	r, ok := NewTrustpilot("x").ParseJSONReview(obj)
	require.True(t, ok)
	assert.Equal(t, "2024-06-02T08:00:00.000Z", r.ReviewDate)
	assert.Equal(t, "Lee", r.Reviewer)
	assert.Equal(t, "4", r.Rating)
	assert.Equal(t, models.SourceTrustpilot, r.Source)
}

func TestParseJSONReview_RejectsNonReviews(t *testing.T) {
	objs := []map[string]any{
		{"title": "Pricing"},
		{"id": 3, "slug": "notion"},
		{"name": "Notion", "rating": 4.7},
	}
	for _, obj := range objs {
		_, ok := NewG2("x").ParseJSONReview(obj)
		assert.False(t, ok, obj)
	}

	_, ok := NewG2("x").ParseJSONReview(map[string]any{"title": "Nice", "rating": "5"})
	assert.True(t, ok)
}
