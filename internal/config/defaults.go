package config

import (
	"time"

	"github.com/law-makers/reviews/internal/utils/headers"
)

// Default constants for application configuration
const (
	DefaultLogLevel        = "warn"
	DefaultJSONLog         = false
	DefaultUserAgent       = headers.DefaultBrowserUserAgent
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultRetryAttempts   = 3
	DefaultRetryBackoff    = 1 * time.Second
	DefaultRateLimitRPS    = 1.0
	DefaultRateLimitBurst  = 2
	DefaultProxyCooldown   = 30 * time.Second
	DefaultBrowserHeadless = true
	DefaultDynamicTimeout  = 3 * time.Minute
	DefaultSettleWait      = 5 * time.Second
	DefaultChallengeWait   = 60 * time.Second
	DefaultChallengeStep   = 10 * time.Second
	DefaultDynamicAttempts = 2
	DefaultMaxPages        = 100
	MaxAllowedPages        = 1000
	DefaultSampleCount     = 10
	DefaultOutputDir       = "."
	DefaultDebugDir        = "debug_html"
	DefaultScriptBudget    = 250 * time.Millisecond

	// EnvPrefix prefixes every environment override
	EnvPrefix = "REVIEWS_"
)
