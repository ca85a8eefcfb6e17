package sample

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/reviews/internal/dateutil"
	"github.com/law-makers/reviews/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed+1)))
}

func TestGenerate_WithinWindowNewestFirst(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for seed := uint64(0); seed < 20; seed++ {
		reviews := seeded(seed).Generate("Notion", start, end, models.SourceG2, DefaultCount)
		require.Len(t, reviews, DefaultCount)

		prev := ""
		for _, r := range reviews {
			d, ok := dateutil.Parse(r.ReviewDate)
			require.True(t, ok, r.ReviewDate)
			assert.True(t, dateutil.InRange(d, start, end), r.ReviewDate)
			assert.Equal(t, models.SourceG2, r.Source)
			assert.Contains(t, r.ReviewText, "Notion")
			assert.NotEmpty(t, r.Title)
			assert.NotEmpty(t, r.Reviewer)
			if prev != "" {
				assert.LessOrEqual(t, r.ReviewDate, prev)
			}
			prev = r.ReviewDate
		}
	}
}

func TestGenerate_SingleDayWindow(t *testing.T) {
	day := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	for _, r := range seeded(7).Generate("Acme", day, day, models.SourceTrustpilot, 5) {
		assert.Equal(t, "2024-03-03", r.ReviewDate)
	}
}

func TestGenerate_TemplateMatchesRating(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reviews := seeded(42).Generate("Acme", start, start.AddDate(0, 1, 0), models.SourceCapterra, 200)

	seen := map[int]bool{}
	for _, r := range reviews {
		rating, err := strconv.Atoi(r.Rating)
		require.NoError(t, err)
		require.True(t, rating >= 1 && rating <= 5)
		seen[rating] = true

		var pool []string
		switch {
		case rating >= 4:
			pool = positive
		case rating == 3:
			pool = neutral
		default:
			pool = negative
		}
		matched := false
		for _, tmpl := range pool {
			if strings.HasPrefix(r.ReviewText, strings.ReplaceAll(tmpl, "{company}", "Acme")) {
				matched = true
				break
			}
		}
		assert.True(t, matched, "rating %d text %q", rating, r.ReviewText)
	}
	assert.True(t, seen[5] && seen[4], "expected the common ratings to appear")
}

func TestGenerate_Deterministic(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)
	a := seeded(3).Generate("Acme", start, end, models.SourceG2, 10)
	b := seeded(3).Generate("Acme", start, end, models.SourceG2, 10)
	assert.Equal(t, a, b)
}
