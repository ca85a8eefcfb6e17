package source

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/law-makers/reviews/pkg/models"
)

// JSONFields lists, per record field, the keys tried in order when mapping
// an embedded JSON object. Dotted keys walk nested objects.
type JSONFields struct {
	Title    []string
	Text     []string
	Date     []string
	Reviewer []string
	Rating   []string
}

// DefaultJSONFields covers schema.org Review objects and the state payloads
// review sites ship with their pages.
var DefaultJSONFields = JSONFields{
	Title: []string{"title", "headline", "reviewTitle", "review_title", "summary"},
	Text: []string{
		"reviewBody", "review_text", "reviewText", "body", "text", "content",
		"comment", "description",
	},
	Date: []string{
		"datePublished", "publishedDate", "dates.publishedDate", "date", "reviewDate",
		"review_date", "createdAt", "created_at", "submittedAt", "submitted_at",
		"publishedAt", "dateCreated",
	},
	Reviewer: []string{
		"author.name", "author.displayName", "author", "reviewer.name", "reviewer",
		"user.name", "user.displayName", "consumer.displayName", "consumer.name",
		"authorName", "reviewerName", "userName",
	},
	Rating: []string{
		"reviewRating.ratingValue", "rating.ratingValue", "rating.value", "rating",
		"ratingValue", "stars", "starRating", "score",
	},
}

// Map converts obj into a review. Objects need a body, or a title backed by
// a date or rating, so that arbitrary "items" arrays are not taken for reviews.
func (f JSONFields) Map(obj map[string]any, src models.Source) (models.Review, bool) {
	review := models.Review{
		Title:      lookupString(obj, f.Title),
		ReviewText: lookupString(obj, f.Text),
		ReviewDate: lookupString(obj, f.Date),
		Reviewer:   lookupString(obj, f.Reviewer),
		Rating:     lookupString(obj, f.Rating),
		Source:     src,
	}

	// schema.org puts the review headline in "name"
	if review.Title == "" && IsReviewType(obj) {
		review.Title = stringify(obj["name"])
	}

	if review.ReviewText == "" && (review.Title == "" || (review.ReviewDate == "" && review.Rating == "")) {
		return models.Review{}, false
	}
	return review, review.HasContent()
}

// IsReviewType reports whether obj declares "@type": "Review"
func IsReviewType(obj map[string]any) bool {
	switch t := obj["@type"].(type) {
	case string:
		return strings.EqualFold(t, "Review")
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && strings.EqualFold(s, "Review") {
				return true
			}
		}
	}
	return false
}

func lookupString(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := lookup(obj, key); ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func lookup(obj map[string]any, path string) (any, bool) {
	var cur any = obj
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case map[string]any:
		for _, key := range []string{"name", "displayName", "ratingValue", "value"} {
			if s := stringify(t[key]); s != "" {
				return s
			}
		}
	}
	return ""
}
