package output

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// CleanHTML strips scripts, styles and form controls and drops every
// attribute that review selectors never look at, leaving markup that is easy
// to read when tuning extraction.
func CleanHTML(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, link, meta, noscript, iframe, form, input, button, select, textarea, canvas").Remove()

	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		node := s.Nodes[0]
		var kept []html.Attribute
		for _, attr := range node.Attr {
			if keepAttr(node.Data, attr.Key) {
				kept = append(kept, attr)
			}
		}
		node.Attr = kept
	})

	htmlStr, err := doc.Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(htmlStr), nil
}

func keepAttr(tag, key string) bool {
	switch key {
	case "class", "id", "datetime", "aria-label", "title":
		return true
	case "href":
		return tag == "a"
	}
	return strings.HasPrefix(key, "data-review") || key == "data-testid"
}

// PrettyPrint returns an indented human-readable representation of an HTML node tree.
func PrettyPrint(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node, int)
	f = func(n *html.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		switch n.Type {
		case html.DocumentNode:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				f(c, depth)
			}
		case html.ElementNode:
			fmt.Fprintf(&sb, "%s<%s", indent, n.Data)
			for _, a := range n.Attr {
				fmt.Fprintf(&sb, " %s=\"%s\"", a.Key, html.EscapeString(a.Val))
			}
			sb.WriteString(">\n")
			if isVoidElement(n.Data) {
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				f(c, depth+1)
			}
			fmt.Fprintf(&sb, "%s</%s>\n", indent, n.Data)
		case html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				fmt.Fprintf(&sb, "%s%s\n", indent, text)
			}
		case html.DoctypeNode:
			fmt.Fprintf(&sb, "<!DOCTYPE %s>\n", n.Data)
		}
	}
	f(n, 0)
	return sb.String()
}

func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input", "link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}
