package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// DefaultDebugDir receives markup of pages nothing could be extracted from
const DefaultDebugDir = "debug_html"

// Dumper saves the markup of a failed page as <company>_page<N>.html plus a
// cleaned tree and a Markdown rendition. Failures are logged and otherwise
// ignored.
type Dumper struct {
	Dir string
}

// NewDumper creates a Dumper writing into dir (DefaultDebugDir when empty)
func NewDumper(dir string) *Dumper {
	if dir == "" {
		dir = DefaultDebugDir
	}
	return &Dumper{Dir: dir}
}

// Dump implements scrape.Dumper
func (d *Dumper) Dump(company string, page int, url string, doc *goquery.Document) {
	if err := d.dump(company, page, url, doc); err != nil {
		log.Warn().Err(err).Str("dir", d.Dir).Msg("Could not save debug HTML")
	}
}

func (d *Dumper) dump(company string, page int, url string, doc *goquery.Document) error {
	if doc == nil {
		return fmt.Errorf("no document")
	}
	markup, err := doc.Html()
	if err != nil {
		return fmt.Errorf("render markup: %w", err)
	}
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return err
	}

	base := filepath.Join(d.Dir, fmt.Sprintf("%s_page%d", safeName(company), page))
	if err := os.WriteFile(base+".html", []byte(markup), 0644); err != nil {
		return err
	}

	if cleaned, err := CleanHTML(markup); err == nil {
		if tree, err := goquery.NewDocumentFromReader(strings.NewReader(cleaned)); err == nil && len(tree.Nodes) > 0 {
			if err := os.WriteFile(base+".tree.txt", []byte(PrettyPrint(tree.Nodes[0])), 0644); err != nil {
				return err
			}
		}
	}

	if text, err := Markdown(markup, url); err == nil {
		if err := os.WriteFile(base+".md", []byte(text), 0644); err != nil {
			return err
		}
	} else {
		log.Debug().Err(err).Msg("Markdown conversion failed")
	}

	log.Info().Str("path", base+".html").Msg("Saved HTML for inspection")
	return nil
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		case ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
}
