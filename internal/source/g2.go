package source

import "github.com/law-makers/reviews/pkg/models"

// G2 scrapes https://www.g2.com product reviews
type G2 struct {
	base
}

var (
	reviewerMatchers = []Matcher{
		Class([]string{"a"}, "user", "author", "reviewer"),
		Class([]string{"span"}, "user", "author", "reviewer"),
		Class([]string{"div"}, "user", "author"),
	}
	ratingRule = RatingRule{
		Labeled: []Matcher{Class([]string{"div", "span"}, "rating")},
		Stars:   []Matcher{Class([]string{"svg", "i", "span"}, "star")},
		Filled:  []string{"filled", "full", "active"},
	}
	dateLabeled = []Matcher{Class([]string{"span", "div"}, "date")}
)

var g2Profile = Profile{
	Source:      models.SourceG2,
	URLTemplate: "https://www.g2.com/products/%s/reviews",
	Elements: []Matcher{
		Class([]string{"div"}, "review-card", "reviewitem", "review-item"),
		Class([]string{"article"}, "review"),
		{Tags: []string{"div"}, Attr: "data-testid", Keywords: []string{"review"}},
		{Tags: []string{"div"}, Attr: "data-review-id"},
		{Tags: []string{"div"}, Attr: "id", Keywords: []string{"review"}},
		Class([]string{"li"}, "review"),
	},
	Accumulate: 5,
	Structural: &StructuralRule{
		Tags:        []string{"div"},
		Scan:        200,
		Keywords:    []string{"star", "rating", "review", "reviewed"},
		MinText:     50,
		ChildTags:   []string{"p", "span", "div"},
		MinChildren: 3,
		Max:         10,
	},
	StructuralBelow: 3,
	Title: []Matcher{
		Tag("h2"), Tag("h3"), Tag("h4"), Tag("h5"),
		Class([]string{"div"}, "title"),
		Class([]string{"span"}, "title"),
	},
	Text: TextRule{
		Matchers: []Matcher{
			Class([]string{"p"}, "review", "text", "content", "body", "description"),
			Class([]string{"div"}, "review", "text", "content", "body", "description"),
			Class([]string{"span"}, "review", "text", "content", "description"),
			Tag("p"),
			Tag("div"),
		},
		Longest:      true,
		MinLength:    30,
		SkipMetadata: true,
		LineFallback: true,
	},
	Date:     DateRule{Labeled: dateLabeled, ScanText: true},
	Reviewer: reviewerMatchers,
	Rating:   ratingRule,
	JSON:     DefaultJSONFields,
}

// NewG2 creates the G2 adapter for company
func NewG2(company string) *G2 {
	return &G2{base{profile: g2Profile, company: company}}
}
