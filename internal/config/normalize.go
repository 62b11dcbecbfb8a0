package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEngine()
	c.normalizeWriter()
	c.normalizeCredits()
	c.normalizeAuth()
	c.normalizeServer()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if value, ok := os.LookupEnv("CLAW_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if value, ok := os.LookupEnv("CLAW_API_BIND"); ok && strings.TrimSpace(value) != "" {
		c.Paths.APIBind = strings.TrimSpace(value)
	}
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeEngine() {
	if c.Engine.ProcessDelaySeconds < 0 {
		c.Engine.ProcessDelaySeconds = defaultProcessDelaySeconds
	}
	if c.Engine.StaleAfterMinutes <= 0 {
		c.Engine.StaleAfterMinutes = defaultStaleAfterMinutes
	}
	if c.Engine.ShutdownGraceSeconds <= 0 {
		c.Engine.ShutdownGraceSeconds = defaultShutdownGraceSeconds
	}
}

func (c *Config) normalizeWriter() {
	c.Writer.BaseURL = strings.TrimSpace(c.Writer.BaseURL)
	if value, ok := os.LookupEnv("CLAW_WRITER_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Writer.BaseURL = strings.TrimSpace(value)
	}
	c.Writer.BaseURL = strings.TrimRight(c.Writer.BaseURL, "/")
	c.Writer.APIKey = strings.TrimSpace(c.Writer.APIKey)
	if c.Writer.APIKey == "" {
		if value, ok := os.LookupEnv("CLAW_WRITER_API_KEY"); ok {
			c.Writer.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Writer.TimeoutSeconds <= 0 {
		c.Writer.TimeoutSeconds = defaultWriterTimeoutSeconds
	}
	if c.Writer.RetryMaxAttempts <= 0 {
		c.Writer.RetryMaxAttempts = defaultWriterRetryAttempts
	}
}

func (c *Config) normalizeCredits() {
	c.Credits.DefaultTier = strings.ToLower(strings.TrimSpace(c.Credits.DefaultTier))
	if c.Credits.DefaultTier == "" {
		c.Credits.DefaultTier = defaultCreditTier
	}
	if c.Credits.DefaultIncluded < 0 {
		c.Credits.DefaultIncluded = defaultCreditIncluded
	}
}

func (c *Config) normalizeAuth() {
	c.Auth.JWTSecret = strings.TrimSpace(c.Auth.JWTSecret)
	if c.Auth.JWTSecret == "" {
		if value, ok := os.LookupEnv("CLAW_JWT_SECRET"); ok {
			c.Auth.JWTSecret = strings.TrimSpace(value)
		}
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = defaultTokenTTLHours
	}
	c.Auth.DefaultOwner = strings.TrimSpace(c.Auth.DefaultOwner)
	if c.Auth.DefaultOwner == "" {
		c.Auth.DefaultOwner = defaultOwner
	}
}

func (c *Config) normalizeServer() {
	if c.Server.RateLimitPerMinute <= 0 {
		c.Server.RateLimitPerMinute = defaultRateLimitPerMinute
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("CLAW_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "":
		c.Logging.Format = defaultLogFormat
	case "auto", "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
