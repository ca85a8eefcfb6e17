package source

import "github.com/law-makers/reviews/pkg/models"

// Trustpilot scrapes https://www.trustpilot.com company reviews. The company
// page is addressed by domain, assumed to be <slug>.com.
type Trustpilot struct {
	base
}

var trustpilotProfile = Profile{
	Source:      models.SourceTrustpilot,
	URLTemplate: "https://www.trustpilot.com/review/%s.com",
	Elements: []Matcher{
		Class([]string{"article"}, "review"),
		Class([]string{"div"}, "review"),
		Class([]string{"section"}, "review"),
	},
	Title: []Matcher{Tag("h2"), Tag("h3")},
	Text: TextRule{
		Matchers: []Matcher{
			Class([]string{"p"}, "review", "text", "content"),
			Class([]string{"div"}, "review", "text", "content"),
		},
	},
	Date: DateRule{Labeled: []Matcher{Class([]string{"span"}, "date")}},
	Reviewer: []Matcher{
		Class([]string{"a"}, "user"),
		Class([]string{"span"}, "user", "author", "name"),
	},
	Rating: RatingRule{
		Labeled: []Matcher{
			Class([]string{"div"}, "rating"),
			Class([]string{"span"}, "rating"),
		},
		Stars:  []Matcher{Tag("svg"), Class([]string{"i"}, "star")},
		Filled: []string{"filled", "full"},
	},
	JSON: DefaultJSONFields,
}

// NewTrustpilot creates the Trustpilot adapter for company
func NewTrustpilot(company string) *Trustpilot {
	return &Trustpilot{base{profile: trustpilotProfile, company: company}}
}
