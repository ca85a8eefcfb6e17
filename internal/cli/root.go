// Package cli provides the command-line interface for the reviews scraper.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/reviews/internal/config"
	"github.com/law-makers/reviews/internal/ui"
)

const version = "0.1.0"

// NewRootCmd builds the reviews command with its flags
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Scrape a company's reviews from G2, Capterra or Trustpilot",
		Long: `Reviews collects the reviews a company received between two dates on one
review site and writes them to output_<company>_<source>.json.

Pages are rendered in a browser when Chrome is installed and fetched over
plain HTTP otherwise. When nothing can be found, usually because of bot
protection, the file is filled with clearly labeled sample data.`,
		Example: `  # Trustpilot reviews for January
  reviews --company "Acme" --start-date 2024-01-01 --end-date 2024-01-31 --source trustpilot

  # Plain HTTP only, with CSV output
  reviews --company Notion --start-date 2024-01-01 --end-date 2024-06-30 --source g2 --static-only --csv`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.company, "company", "", "Company name as it appears on the review site")
	f.StringVar(&opts.startDate, "start-date", "", "First day of the window (YYYY-MM-DD)")
	f.StringVar(&opts.endDate, "end-date", "", "Last day of the window (YYYY-MM-DD)")
	f.StringVar(&opts.source, "source", "", "Review site: g2, capterra or trustpilot")
	for _, name := range []string{"company", "start-date", "end-date", "source"} {
		_ = cmd.MarkFlagRequired(name)
	}

	config.RegisterFlags(cmd)
	cmd.Flags().BoolP("help", "h", false, "Help for reviews")
	cmd.Flags().Bool("version", false, "Version for reviews")

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetHelpFunc(helpFunc)
	cmd.SetUsageFunc(usageFunc)
	return cmd
}

// Execute runs the root command. ctx is canceled on interrupt.
func Execute(ctx context.Context, args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func helpFunc(cmd *cobra.Command, _ []string) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "\n%s\n", ui.Style(w, func(s string) string { return ui.Bold(ui.Accent(s)) }, strings.ToUpper(cmd.Name())))
	if cmd.Short != "" {
		fmt.Fprintln(w, cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "\n%s\n", cmd.Long)
	}

	fmt.Fprintf(w, "\n%s\n", ui.Style(w, ui.Bold, "Usage"))
	fmt.Fprintf(w, "  %s\n", ui.Style(w, ui.Accent, cmd.UseLine()))

	if cmd.HasExample() {
		fmt.Fprintf(w, "\n%s\n", ui.Style(w, ui.Bold, "Examples"))
		lastWasCommand := false
		for _, example := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(example)
			switch {
			case trimmed == "":
				continue
			case strings.HasPrefix(trimmed, "#"):
				if lastWasCommand {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "  %s\n", ui.Style(w, ui.Dim, trimmed))
				lastWasCommand = false
			default:
				fmt.Fprintf(w, "  %s\n", ui.Style(w, ui.Success, "$ "+trimmed))
				lastWasCommand = true
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", ui.Style(w, ui.Bold, "Flags"))
	printFlags(w, cmd.Flags().FlagUsages())
	fmt.Fprintln(w)
}

func usageFunc(cmd *cobra.Command) error {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "\n%s\n", ui.Style(w, ui.Bold, "Usage"))
	fmt.Fprintf(w, "  %s\n", ui.Style(w, ui.Accent, cmd.UseLine()))
	fmt.Fprintf(w, "\nUse %q for more information.\n", cmd.CommandPath()+" --help")
	return nil
}

// printFlags prints flag usages aligned in two columns
func printFlags(w io.Writer, flagUsages string) {
	lines := strings.Split(flagUsages, "\n")

	width := 28
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "-") {
			flagPart, _, _ := strings.Cut(trimmed, "  ")
			width = max(width, len(strings.TrimSpace(flagPart)))
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "-") {
			// continuation of the previous description
			fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", width+4), ui.Style(w, ui.Dim, trimmed))
			continue
		}
		flagPart, descPart, ok := strings.Cut(trimmed, "  ")
		flagPart = strings.TrimSpace(flagPart)
		if !ok {
			fmt.Fprintf(w, "  %s\n", ui.Style(w, ui.Success, flagPart))
			continue
		}
		fmt.Fprintf(w, "  %s%s%s\n",
			ui.Style(w, ui.Success, flagPart),
			strings.Repeat(" ", width-len(flagPart)+2),
			ui.Style(w, ui.Dim, strings.TrimSpace(descPart)))
	}
}
