package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Suppress all output except errors")
	pf.Bool("json", false, "Log in JSON format")
	pf.String("config", "", "Path to YAML configuration file (optional)")

	pf.Duration("timeout", DefaultHTTPTimeout, "Timeout for each HTTP request")
	pf.String("user-agent", "", "Custom user agent string")
	pf.StringSlice("proxy", nil, "HTTP/SOCKS5 proxy, repeat or comma separate to rotate")
	pf.StringArray("header", nil, "Extra request header as 'Name: value' (repeatable)")
	pf.Float64("rate", DefaultRateLimitRPS, "Maximum requests per second per host (0 disables)")

	pf.Bool("static-only", false, "Never launch a browser")
	pf.Bool("headless", DefaultBrowserHeadless, "Run the browser headless")
	pf.String("chrome-path", "", "Path to the Chrome/Chromium executable")

	pf.Int("max-pages", DefaultMaxPages, "Maximum listing pages to visit")
	pf.Bool("no-sample", false, "Do not substitute sample data when nothing is found")
	pf.String("output-dir", DefaultOutputDir, "Directory for the output file")
	pf.String("debug-dir", DefaultDebugDir, "Directory for debug HTML dumps")
	pf.Bool("no-debug-html", false, "Do not dump fetched pages")
	pf.Bool("csv", false, "Also write the reviews as CSV")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address during the run")
}
