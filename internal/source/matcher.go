package source

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Matcher selects elements by tag and a case-insensitive keyword match on one
// attribute. With Attr set and no Keywords the attribute only has to exist.
// With no Attr every element with a listed tag matches.
type Matcher struct {
	Tags     []string
	Attr     string
	Keywords []string
}

// Class is shorthand for a class-attribute Matcher
func Class(tags []string, keywords ...string) Matcher {
	return Matcher{Tags: tags, Attr: "class", Keywords: keywords}
}

// Tag is shorthand for a tag-only Matcher
func Tag(tags ...string) Matcher {
	return Matcher{Tags: tags}
}

func (m Matcher) selector() string {
	if len(m.Tags) == 0 {
		return "*"
	}
	return strings.Join(m.Tags, ", ")
}

// Matches reports whether the first node of sel satisfies the attribute rule
func (m Matcher) Matches(sel *goquery.Selection) bool {
	if m.Attr == "" {
		return true
	}
	val, ok := sel.Attr(m.Attr)
	if !ok {
		return false
	}
	if len(m.Keywords) == 0 {
		return true
	}
	return containsAny(val, m.Keywords)
}

// FindAll returns matching descendants of root in document order
func (m Matcher) FindAll(root *goquery.Selection) *goquery.Selection {
	return root.Find(m.selector()).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return m.Matches(s)
	})
}

// First returns the first matching descendant of root, or an empty selection
func (m Matcher) First(root *goquery.Selection) *goquery.Selection {
	return m.FindAll(root).First()
}

// firstText returns the text of the first element, trying matchers in order,
// whose text is non-empty.
func firstText(root *goquery.Selection, matchers []Matcher) (string, *goquery.Selection) {
	for _, m := range matchers {
		el := m.First(root)
		if el.Length() == 0 {
			continue
		}
		if text := cleanText(el); text != "" {
			return text, el
		}
	}
	return "", nil
}

// cleanText returns the element text with whitespace runs collapsed
func cleanText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// textLines returns the trimmed, non-empty text nodes under sel in order
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if line := strings.Join(strings.Fields(n.Data), " "); line != "" {
				lines = append(lines, line)
			}
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}

func containsAny(s string, keywords []string) bool {
	s = strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// dedupe removes repeated nodes, keeping the first occurrence
func dedupe(els []*goquery.Selection) []*goquery.Selection {
	seen := make(map[*html.Node]bool, len(els))
	out := els[:0]
	for _, el := range els {
		if el.Length() == 0 || seen[el.Nodes[0]] {
			continue
		}
		seen[el.Nodes[0]] = true
		out = append(out, el)
	}
	return out
}

// each splits a selection into single-node selections
func each(sel *goquery.Selection) []*goquery.Selection {
	out := make([]*goquery.Selection, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out
}

// StructuralRule finds review-like containers by content shape when no
// selector strategy matched.
type StructuralRule struct {
	Tags        []string // container tags
	Scan        int      // only the first Scan containers are inspected
	Keywords    []string // at least one must appear in the text
	MinText     int      // text must be strictly longer
	ChildTags   []string
	MinChildren int // descendants among ChildTags, counted up to MinChildren
	Max         int // stop after this many candidates
}

// Find applies the rule to root
func (r StructuralRule) Find(root *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	containers := root.Find(strings.Join(r.Tags, ", "))
	childSel := strings.Join(r.ChildTags, ", ")

	containers.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if r.Scan > 0 && i >= r.Scan {
			return false
		}
		text := cleanText(s)
		if len(text) <= r.MinText || !containsAny(text, r.Keywords) {
			return true
		}
		if s.Find(childSel).Length() < r.MinChildren {
			return true
		}
		out = append(out, s)
		return r.Max <= 0 || len(out) < r.Max
	})
	return out
}
