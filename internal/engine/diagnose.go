package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/reviews/internal/engine/dynamic"
)

// Diagnosis describes a page that yielded no reviews
type Diagnosis struct {
	Framework string // client-side framework, empty when none was detected
	Scripts   int
	// NeedsJS is set when the markup looks like an unrendered app shell
	NeedsJS   bool
	Challenge string // bot-protection term found in the page text
}

var frameworkMarkers = []struct {
	name    string
	markers []string
}{
	{"Next.js", []string{"__next_data__", "/_next/"}},
	{"Nuxt", []string{"__nuxt__", "/_nuxt/"}},
	{"React", []string{"data-reactroot", "react-dom", "__react"}},
	{"Vue", []string{"data-v-app", "__vue__", "vue.runtime"}},
	{"Angular", []string{"ng-version", "ng-app"}},
	{"Svelte", []string{"svelte-"}},
}

// DetectFramework returns the first client-side framework whose markers
// appear in markup, or "".
func DetectFramework(markup string) string {
	lower := strings.ToLower(markup)
	for _, fw := range frameworkMarkers {
		for _, m := range fw.markers {
			if strings.Contains(lower, m) {
				return fw.name
			}
		}
	}
	return ""
}

// Diagnose inspects doc for the usual reasons a listing comes back empty:
// content rendered client side, or a bot challenge served instead.
func Diagnose(doc *goquery.Document) Diagnosis {
	var d Diagnosis
	if doc == nil {
		return d
	}
	markup, _ := doc.Html()
	d.Scripts = doc.Find("script").Length()
	d.Framework = DetectFramework(markup)

	switch {
	case d.Framework != "":
		d.NeedsJS = true
	case d.Scripts > 5:
		d.NeedsJS = true
	case doc.Find("div").Length() < 3 && d.Scripts > 0:
		d.NeedsJS = true
	}

	if term, ok := dynamic.DetectChallenge(doc.Find("body").Text(), dynamic.DefaultChallengeTerms); ok {
		d.Challenge = term
	}
	return d
}
