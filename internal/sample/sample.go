// Package sample fabricates plausible reviews used when a scrape finds no
// real data. Callers must label the output as sample data.
package sample

import (
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/law-makers/reviews/internal/dateutil"
	"github.com/law-makers/reviews/pkg/models"
)

// DefaultCount is the number of records substituted for an empty scrape
const DefaultCount = 10

var (
	positive = []string{
		"Great product! {company} has really helped our team improve productivity.",
		"Excellent tool. We've been using {company} for months and love it.",
		"Highly recommend {company}. It's user-friendly and powerful.",
		"Best decision we made. {company} transformed our workflow.",
		"Outstanding service. {company} exceeded our expectations.",
		"Love using {company}! It's intuitive and feature-rich.",
		"Perfect solution for our needs. {company} is fantastic.",
		"Great value for money. {company} delivers on all fronts.",
		"Impressive features. {company} has everything we need.",
		"Top-notch product. {company} is reliable and efficient.",
	}
	neutral = []string{
		"Decent product. {company} works well but could use some improvements.",
		"Good overall, but {company} has a learning curve.",
		"Solid tool. {company} meets most of our requirements.",
		"Not bad. {company} does the job but isn't perfect.",
		"Average experience with {company}. It's functional.",
		"Okay product. {company} works but could be better.",
		"Fair tool. {company} has pros and cons.",
		"Decent solution. {company} is adequate for our needs.",
	}
	negative = []string{
		"Could be better. {company} lacks some key features we need.",
		"Not impressed. {company} doesn't meet our expectations.",
		"Needs improvement. {company} has some usability issues.",
		"Disappointing. {company} didn't work as advertised.",
	}
	titles = []string{
		"Great tool for teams", "Solid product", "Highly recommended", "Good value",
		"Works well", "Easy to use", "Feature-rich", "Reliable solution",
		"User-friendly", "Powerful features",
	}
	reviewers = []string{
		"John Smith", "Sarah Johnson", "Michael Chen", "Emily Rodriguez",
		"David Williams", "Lisa Anderson", "Robert Taylor", "Jennifer Brown",
		"James Wilson", "Maria Garcia", "William Martinez", "Patricia Davis",
		"Richard Miller", "Linda Moore", "Joseph Jackson", "Barbara White",
	}

	// suffixes are appended independently with the given probability
	suffixes = []struct {
		text string
		p    float64
	}{
		{" The interface is clean and modern.", 0.5},
		{" Customer support is responsive.", 0.3},
		{" Pricing is reasonable for what you get.", 0.4},
	}

	ratings = []struct {
		value, weight int
	}{
		{5, 40}, {4, 30}, {3, 15}, {2, 10}, {1, 5},
	}
)

// Generator produces sample reviews from its random source
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator. A nil rng seeds one from the clock.
func New(rng *rand.Rand) *Generator {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1|1))
	}
	return &Generator{rng: rng}
}

// Generate returns count reviews for company tagged with src, dated within
// [start, end] and sorted newest first.
func (g *Generator) Generate(company string, start, end time.Time, src models.Source, count int) []models.Review {
	if count <= 0 {
		return nil
	}
	start, end = dateutil.Day(start), dateutil.Day(end)
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		days = 0
	}

	out := make([]models.Review, 0, count)
	for range count {
		rating := g.rating()
		var templates []string
		switch {
		case rating >= 4:
			templates = positive
		case rating == 3:
			templates = neutral
		default:
			templates = negative
		}

		text := strings.ReplaceAll(pick(g.rng, templates), "{company}", company)
		for _, s := range suffixes {
			if g.rng.Float64() < s.p {
				text += s.text
			}
		}

		date := start.AddDate(0, 0, g.rng.IntN(days+1))
		out = append(out, models.Review{
			Title:      pick(g.rng, titles),
			ReviewText: text,
			ReviewDate: dateutil.Format(date),
			Reviewer:   pick(g.rng, reviewers),
			Rating:     strconv.Itoa(rating),
			Source:     src,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReviewDate > out[j].ReviewDate
	})
	return out
}

func (g *Generator) rating() int {
	total := 0
	for _, r := range ratings {
		total += r.weight
	}
	n := g.rng.IntN(total)
	for _, r := range ratings {
		if n < r.weight {
			return r.value
		}
		n -= r.weight
	}
	return ratings[0].value
}

func pick(rng *rand.Rand, items []string) string {
	return items[rng.IntN(len(items))]
}
