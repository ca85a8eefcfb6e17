package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/reviews/internal/config"
	"github.com/law-makers/reviews/internal/dateutil"
	"github.com/law-makers/reviews/internal/extract"
	"github.com/law-makers/reviews/internal/sample"
	"github.com/law-makers/reviews/internal/scrape"
	"github.com/law-makers/reviews/internal/source"
	"github.com/law-makers/reviews/internal/ui"
	"github.com/law-makers/reviews/internal/utils/output"
	"github.com/law-makers/reviews/pkg/models"
)

// ErrInterrupted is returned when a signal stopped the scrape. Nothing is
// written in that case.
var ErrInterrupted = errors.New("scraping interrupted by user")

// options holds the required flags of the root command
type options struct {
	company   string
	startDate string
	endDate   string
	source    string
}

func runScrape(cmd *cobra.Command, opts *options) error {
	company := strings.TrimSpace(opts.company)
	if company == "" {
		return fmt.Errorf("company name is required")
	}
	start, end, err := dateutil.ValidateWindow(opts.startDate, opts.endDate)
	if err != nil {
		return err
	}
	src, err := models.ParseSource(opts.source)
	if err != nil {
		return err
	}
	adapter, err := source.New(src, company)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rt, err := openRuntime(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer rt.close()

	stderr := cmd.ErrOrStderr()
	bar := newProgress(stderr, !cfg.Quiet && !cfg.JSONLog && ui.IsTerminal(stderr), src)

	scrapeOpts := scrape.Options{
		Company:     company,
		Start:       start,
		End:         end,
		Dynamic:     rt.dynamic,
		MaxPages:    cfg.MaxPages,
		SampleCount: cfg.SampleCount,
		Extract:     extract.Options{ScriptBudget: cfg.ScriptBudget},
		Observer:    bar.observe,
	}
	if !cfg.NoSample {
		scrapeOpts.Samples = sample.New(nil)
	}
	if !cfg.NoDebugHTML {
		scrapeOpts.Dumper = output.NewDumper(cfg.DebugDir)
	}

	res, err := scrape.New(adapter, rt.fetcher, scrapeOpts).Scrape(ctx)
	bar.finish()
	if err != nil {
		if scrape.IsCanceled(err) {
			return ErrInterrupted
		}
		return err
	}

	report := output.NewReport(company, src, opts.startDate, opts.endDate, res.Reviews, res.Sample)
	path, err := output.WriteReport(cfg.OutputDir, report)
	if err != nil {
		return err
	}
	var csvPath string
	if cfg.CSV {
		if csvPath, err = output.WriteCSV(cfg.OutputDir, report); err != nil {
			return err
		}
	}

	log.Info().
		Str("session", res.SessionID).
		Str("file", path).
		Int("reviews", report.TotalReviews).
		Bool("sample", report.SampleData).
		Msg("Report written")

	if report.SampleData {
		ui.Fprintln(stderr, ui.Warning, "Warning: "+output.SampleNotice)
	}
	if !cfg.Quiet && !cfg.JSONLog {
		printSummary(cmd.OutOrStdout(), report, res, path, csvPath)
	}
	return nil
}

func printSummary(w io.Writer, report *models.Report, res *scrape.Result, path, csvPath string) {
	fmt.Fprintln(w)
	ui.Fprintln(w, ui.Bold, fmt.Sprintf("%s reviews on %s, %s to %s",
		report.Company, report.Source, report.StartDate, report.EndDate))

	switch {
	case report.SampleData:
		ui.Fprintln(w, ui.Warning, fmt.Sprintf("  %d sample reviews (no real reviews found)", report.TotalReviews))
	case report.TotalReviews == 0:
		ui.Fprintln(w, ui.Info, "  No reviews found")
	default:
		ui.Fprintln(w, ui.Success, fmt.Sprintf("  %d reviews", report.TotalReviews))
	}
	ui.Fprintln(w, ui.Dim, fmt.Sprintf("  %d pages, stopped: %s", res.Pages, res.Stop))

	ui.Fprintln(w, ui.Success, "✓ Saved to "+path)
	if csvPath != "" {
		ui.Fprintln(w, ui.Success, "✓ Saved to "+csvPath)
	}
}
