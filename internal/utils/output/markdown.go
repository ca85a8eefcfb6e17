package output

import (
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/law-makers/reviews/internal/utils/url"
)

// Markdown renders cleaned page markup as GitHub flavored Markdown, with
// links resolved against pageURL. It is the readable half of a debug dump.
func Markdown(markup, pageURL string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}
			str := fmt.Sprintf("[%s](%s)", content, urlutil.ResolveURL(pageURL, href))
			return &str
		},
	})

	cleaned, err := CleanHTML(markup)
	if err != nil {
		return "", err
	}
	return converter.ConvertString(cleaned)
}
