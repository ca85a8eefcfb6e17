package dynamic

import "strings"

// DefaultChallengeTerms mark bot-verification and CDN interstitial pages
var DefaultChallengeTerms = []string{"captcha", "challenge", "datadome", "cloudflare"}

// DefaultClearedTerms are rechecked while waiting out a challenge. The CDN
// name is dropped because it stays in the markup of pages served through it.
var DefaultClearedTerms = []string{"captcha", "challenge", "datadome"}

// DetectChallenge returns the first term found in markup, case-insensitively
func DetectChallenge(markup string, terms []string) (string, bool) {
	lower := strings.ToLower(markup)
	for _, term := range terms {
		if term != "" && strings.Contains(lower, strings.ToLower(term)) {
			return term, true
		}
	}
	return "", false
}
