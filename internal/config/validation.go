package config

import (
	"fmt"

	"github.com/law-makers/reviews/internal/utils/headers"
	"github.com/rs/zerolog"
)

func validate(c *Config) error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be >= 1")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate must be >= 0")
	}
	if c.MaxPages < 1 || c.MaxPages > MaxAllowedPages {
		return fmt.Errorf("max pages must be between 1 and %d", MaxAllowedPages)
	}
	if c.SampleCount < 0 {
		return fmt.Errorf("sample count must be >= 0")
	}
	if c.DynamicAttempts < 1 {
		return fmt.Errorf("dynamic attempts must be >= 1")
	}
	if c.ChallengeStep <= 0 || c.ChallengeWait < 0 {
		return fmt.Errorf("challenge wait and step must be positive")
	}
	if _, err := headers.Parse(c.Headers); err != nil {
		return err
	}
	return nil
}
