package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string `yaml:"log_level"`
	JSONLog  bool   `yaml:"json_log"`
	Quiet    bool   `yaml:"quiet"`

	// HTTP
	HTTPTimeout   time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	Headers       []string      `yaml:"headers"`
	Proxies       []string      `yaml:"proxies"`
	ProxyCooldown time.Duration `yaml:"proxy_cooldown"`
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`

	// Rate limiting, per host
	RateLimitRPS   float64 `yaml:"rate"`
	RateLimitBurst int     `yaml:"burst"`

	// Browser
	StaticOnly      bool          `yaml:"static_only"`
	BrowserHeadless bool          `yaml:"headless"`
	ChromePath      string        `yaml:"chrome_path"`
	DynamicTimeout  time.Duration `yaml:"dynamic_timeout"`
	SettleWait      time.Duration `yaml:"settle_wait"`
	ChallengeWait   time.Duration `yaml:"challenge_wait"`
	ChallengeStep   time.Duration `yaml:"challenge_step"`
	DynamicAttempts int           `yaml:"dynamic_attempts"`

	// Scrape
	MaxPages     int           `yaml:"max_pages"`
	SampleCount  int           `yaml:"sample_count"`
	NoSample     bool          `yaml:"no_sample"`
	ScriptBudget time.Duration `yaml:"script_budget"`

	// Output
	OutputDir   string `yaml:"output_dir"`
	DebugDir    string `yaml:"debug_dir"`
	NoDebugHTML bool   `yaml:"no_debug_html"`
	CSV         bool   `yaml:"csv"`

	// Metrics
	MetricsAddr string `yaml:"metrics_addr"`
}

// Defaults returns a Config holding every default value
func Defaults() *Config {
	return &Config{
		LogLevel:        DefaultLogLevel,
		JSONLog:         DefaultJSONLog,
		HTTPTimeout:     DefaultHTTPTimeout,
		UserAgent:       DefaultUserAgent,
		ProxyCooldown:   DefaultProxyCooldown,
		RetryAttempts:   DefaultRetryAttempts,
		RetryBackoff:    DefaultRetryBackoff,
		RateLimitRPS:    DefaultRateLimitRPS,
		RateLimitBurst:  DefaultRateLimitBurst,
		BrowserHeadless: DefaultBrowserHeadless,
		DynamicTimeout:  DefaultDynamicTimeout,
		SettleWait:      DefaultSettleWait,
		ChallengeWait:   DefaultChallengeWait,
		ChallengeStep:   DefaultChallengeStep,
		DynamicAttempts: DefaultDynamicAttempts,
		MaxPages:        DefaultMaxPages,
		SampleCount:     DefaultSampleCount,
		ScriptBudget:    DefaultScriptBudget,
		OutputDir:       DefaultOutputDir,
		DebugDir:        DefaultDebugDir,
	}
}

// Load builds a Config by combining defaults, an optional YAML config file,
// REVIEWS_* environment variables and CLI flags, in that order.
// Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Defaults()

	path := os.Getenv(EnvPrefix + "CONFIG")
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
			path = f.Value.String()
		}
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if cmd != nil {
		if err := cfg.loadFlags(cmd); err != nil {
			return nil, err
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(content, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := get("USER_AGENT"); ok {
		c.UserAgent = v
	}
	if v, ok := get("PROXY"); ok {
		c.Proxies = splitList(v)
	}
	if v, ok := get("CHROME_PATH"); ok {
		c.ChromePath = v
	}
	if v, ok := get("OUTPUT_DIR"); ok {
		c.OutputDir = v
	}
	if v, ok := get("DEBUG_DIR"); ok {
		c.DebugDir = v
	}
	if v, ok := get("METRICS_ADDR"); ok {
		c.MetricsAddr = v
	}

	var err error
	if v, ok := get("TIMEOUT"); ok {
		if c.HTTPTimeout, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err)
		}
	}
	if v, ok := get("RATE"); ok {
		if c.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("%sRATE: %w", EnvPrefix, err)
		}
	}
	if v, ok := get("MAX_PAGES"); ok {
		if c.MaxPages, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("%sMAX_PAGES: %w", EnvPrefix, err)
		}
	}
	if v, ok := get("HEADLESS"); ok {
		if c.BrowserHeadless, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("%sHEADLESS: %w", EnvPrefix, err)
		}
	}
	if v, ok := get("STATIC_ONLY"); ok {
		if c.StaticOnly, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("%sSTATIC_ONLY: %w", EnvPrefix, err)
		}
	}
	return nil
}

func (c *Config) loadFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	var err error
	if changed("verbose") {
		if v, _ := flags.GetBool("verbose"); v {
			c.LogLevel = "debug"
		}
	}
	if changed("quiet") {
		if c.Quiet, err = flags.GetBool("quiet"); err != nil {
			return err
		}
		if c.Quiet {
			c.LogLevel = "error"
		}
	}
	if changed("json") {
		if c.JSONLog, err = flags.GetBool("json"); err != nil {
			return err
		}
	}
	if changed("timeout") {
		if c.HTTPTimeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if changed("user-agent") {
		if c.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}
	if changed("proxy") {
		if c.Proxies, err = flags.GetStringSlice("proxy"); err != nil {
			return err
		}
	}
	if changed("header") {
		if c.Headers, err = flags.GetStringArray("header"); err != nil {
			return err
		}
	}
	if changed("rate") {
		if c.RateLimitRPS, err = flags.GetFloat64("rate"); err != nil {
			return err
		}
	}
	if changed("static-only") {
		if c.StaticOnly, err = flags.GetBool("static-only"); err != nil {
			return err
		}
	}
	if changed("headless") {
		if c.BrowserHeadless, err = flags.GetBool("headless"); err != nil {
			return err
		}
	}
	if changed("chrome-path") {
		if c.ChromePath, err = flags.GetString("chrome-path"); err != nil {
			return err
		}
	}
	if changed("max-pages") {
		if c.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return err
		}
	}
	if changed("no-sample") {
		if c.NoSample, err = flags.GetBool("no-sample"); err != nil {
			return err
		}
	}
	if changed("output-dir") {
		if c.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return err
		}
	}
	if changed("debug-dir") {
		if c.DebugDir, err = flags.GetString("debug-dir"); err != nil {
			return err
		}
	}
	if changed("no-debug-html") {
		if c.NoDebugHTML, err = flags.GetBool("no-debug-html"); err != nil {
			return err
		}
	}
	if changed("csv") {
		if c.CSV, err = flags.GetBool("csv"); err != nil {
			return err
		}
	}
	if changed("metrics-addr") {
		if c.MetricsAddr, err = flags.GetString("metrics-addr"); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
