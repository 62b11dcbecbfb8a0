package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
}

// Engine contains configuration for the background processing engine.
type Engine struct {
	ProcessDelaySeconds  int `toml:"process_delay_seconds"`
	StaleAfterMinutes    int `toml:"stale_after_minutes"`
	ShutdownGraceSeconds int `toml:"shutdown_grace_seconds"`
}

// Writer contains connection settings for the article generation service.
type Writer struct {
	BaseURL          string `toml:"base_url"`
	APIKey           string `toml:"api_key"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
	RetryMaxAttempts int    `toml:"retry_max_attempts"`
}

// Credits contains defaults applied when an owner's account is first touched.
type Credits struct {
	DefaultTier     string `toml:"default_tier"`
	DefaultIncluded int    `toml:"default_included"`
}

// Auth contains bearer-token authentication settings for the HTTP API.
type Auth struct {
	JWTSecret     string `toml:"jwt_secret"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
	DefaultOwner  string `toml:"default_owner"`
}

// Server contains HTTP server tuning.
type Server struct {
	RateLimitPerMinute int `toml:"rate_limit_per_minute"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the daemon and CLI.
//
// Configuration sections by subsystem:
//   - Paths: data directory (database, lock file), log directory, API bind
//   - Engine: pacing and reconciliation timing for background processing
//   - Writer: article generation service connection settings
//   - Credits: account defaults for newly seen owners
//   - Auth: JWT secret and token settings for the HTTP API
//   - Server: HTTP rate limiting
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Engine        Engine        `toml:"engine"`
	Writer        Writer        `toml:"writer"`
	Credits       Credits       `toml:"credits"`
	Auth          Auth          `toml:"auth"`
	Server        Server        `toml:"server"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/claw/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized, with environment
// variables (optionally from a .env file) overriding file values for secrets.
func Load(path string) (*Config, string, bool, error) {
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/claw/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("claw.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite database location inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "claw.db")
}

// LockPath returns the daemon single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "clawd.lock")
}

// ProcessDelay returns the pacing delay inserted between batch items.
func (c *Config) ProcessDelay() time.Duration {
	return time.Duration(c.Engine.ProcessDelaySeconds) * time.Second
}

// StaleAfter returns the age beyond which a processing row is considered
// abandoned by a previous daemon run.
func (c *Config) StaleAfter() time.Duration {
	return time.Duration(c.Engine.StaleAfterMinutes) * time.Minute
}

// ShutdownGrace returns how long Stop waits for in-flight background tasks.
func (c *Config) ShutdownGrace() time.Duration {
	return time.Duration(c.Engine.ShutdownGraceSeconds) * time.Second
}

// WriterTimeout returns the per-call timeout for generation service requests.
func (c *Config) WriterTimeout() time.Duration {
	return time.Duration(c.Writer.TimeoutSeconds) * time.Second
}

// TokenTTL returns the lifetime applied to minted API tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
