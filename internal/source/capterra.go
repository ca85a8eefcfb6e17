package source

import "github.com/law-makers/reviews/pkg/models"

// Capterra scrapes https://www.capterra.com product reviews
type Capterra struct {
	base
}

var capterraProfile = Profile{
	Source:      models.SourceCapterra,
	URLTemplate: "https://www.capterra.com/p/%s/reviews",
	Elements: []Matcher{
		Class([]string{"div"}, "review"),
		Class([]string{"article"}, "review"),
		{Tags: []string{"div"}, Attr: "data-review-id"},
		Class([]string{"section"}, "review"),
		Class([]string{"li"}, "review"),
	},
	Title: []Matcher{
		Tag("h2"), Tag("h3"), Tag("h4"),
		Class([]string{"div"}, "title"),
		Class([]string{"span"}, "title"),
	},
	Text: TextRule{
		Matchers: []Matcher{
			Class([]string{"p"}, "review", "text", "content", "body"),
			Class([]string{"div"}, "review", "text", "content", "body"),
			Class([]string{"span"}, "review", "text", "content"),
			Tag("p"),
		},
		MinLength: 20,
	},
	Date:     DateRule{Labeled: dateLabeled, ScanText: true},
	Reviewer: reviewerMatchers,
	Rating:   ratingRule,
	JSON:     DefaultJSONFields,
}

// NewCapterra creates the Capterra adapter for company
func NewCapterra(company string) *Capterra {
	return &Capterra{base{profile: capterraProfile, company: company}}
}
