package cli

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/law-makers/reviews/internal/scrape"
	"github.com/law-makers/reviews/pkg/models"
)

// progress shows a spinner advanced once per scraped page. A zero progress
// is silent.
type progress struct {
	bar *progressbar.ProgressBar
}

func newProgress(w io.Writer, enabled bool, src models.Source) *progress {
	if !enabled {
		return &progress{}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(fmt.Sprintf("Scraping %s", src)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &progress{bar: bar}
}

func (p *progress) observe(stats scrape.PageStats) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("Page %d, %d reviews", stats.Page, stats.Total))
	_ = p.bar.Add(1)
}

func (p *progress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
