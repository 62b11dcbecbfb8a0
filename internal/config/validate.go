package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWriter(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateCredits(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWriter() error {
	if c.Writer.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/claw/config.toml"
		}
		return fmt.Errorf("writer.base_url is required. Set CLAW_WRITER_BASE_URL env var or edit %s (create with 'claw config init')", defaultPath)
	}
	if !strings.HasPrefix(c.Writer.BaseURL, "http://") && !strings.HasPrefix(c.Writer.BaseURL, "https://") {
		return fmt.Errorf("writer.base_url must start with http:// or https://, got %q", c.Writer.BaseURL)
	}
	if c.Writer.TimeoutSeconds <= 0 {
		return errors.New("writer.timeout_seconds must be positive")
	}
	if c.Writer.RetryMaxAttempts <= 0 {
		return errors.New("writer.retry_max_attempts must be positive")
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.ProcessDelaySeconds < 0 {
		return errors.New("engine.process_delay_seconds must be >= 0")
	}
	if c.Engine.StaleAfterMinutes <= 0 {
		return errors.New("engine.stale_after_minutes must be positive")
	}
	if c.Engine.ShutdownGraceSeconds <= 0 {
		return errors.New("engine.shutdown_grace_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCredits() error {
	switch c.Credits.DefaultTier {
	case TierStandard, TierExempt:
	default:
		return fmt.Errorf("credits.default_tier must be %q or %q, got %q", TierStandard, TierExempt, c.Credits.DefaultTier)
	}
	if c.Credits.DefaultIncluded < 0 {
		return errors.New("credits.default_included must be >= 0")
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.TokenTTLHours <= 0 {
		return errors.New("auth.token_ttl_hours must be positive")
	}
	if c.Auth.DefaultOwner == "" {
		return errors.New("auth.default_owner must be set")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.RateLimitPerMinute <= 0 {
		return errors.New("server.rate_limit_per_minute must be positive")
	}
	return nil
}
