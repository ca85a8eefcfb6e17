package dynamic

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// browserPage is the subset of browser control the fetch flow needs
type browserPage interface {
	Navigate(ctx context.Context, url string) error
	Markup(ctx context.Context) (string, error)
	ScrollTo(ctx context.Context, fraction float64) error
}

// launcher starts a browser session and returns its page plus a release
// function that must be called exactly once.
type launcher func(ctx context.Context, proxy string) (browserPage, func(), error)

// session is one browser process with a single tab
type session struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// chromeLauncher returns a launcher that starts Chrome with allocOpts
func chromeLauncher(allocOpts []chromedp.ExecAllocatorOption) launcher {
	return func(ctx context.Context, proxy string) (browserPage, func(), error) {
		opts := allocOpts
		if proxy != "" {
			opts = append(append([]chromedp.ExecAllocatorOption{}, allocOpts...), chromedp.ProxyServer(proxy))
		}

		allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
		browserCtx, browserCancel := chromedp.NewContext(allocCtx)
		s := &session{ctx: browserCtx, cancelBrowser: browserCancel, cancelAlloc: allocCancel}

		// Run with no actions starts the browser and opens the tab
		if err := chromedp.Run(browserCtx,
			chromedp.ActionFunc(func(ctx context.Context) error {
				_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
				return err
			}),
		); err != nil {
			s.release()
			return nil, nil, fmt.Errorf("failed to launch browser: %w", err)
		}

		log.Debug().Msg("Browser session started")
		return s, s.release, nil
	}
}

func (s *session) Navigate(_ context.Context, url string) error {
	return chromedp.Run(s.ctx, chromedp.Navigate(url))
}

func (s *session) Markup(_ context.Context) (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (s *session) ScrollTo(_ context.Context, fraction float64) error {
	js := fmt.Sprintf("window.scrollTo(0, document.body ? document.body.scrollHeight * %g : 0)", fraction)
	return chromedp.Run(s.ctx, chromedp.Evaluate(js, nil))
}

// release closes the browser. Errors are logged and never returned.
func (s *session) release() {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Interface("panic", r).Msg("Recovered while releasing browser session")
		}
	}()
	if err := chromedp.Cancel(s.ctx); err != nil {
		log.Debug().Err(err).Msg("Browser did not close cleanly")
	}
	s.cancelBrowser()
	s.cancelAlloc()
	log.Debug().Msg("Browser session released")
}
