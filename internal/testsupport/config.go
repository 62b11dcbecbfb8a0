package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Writer.BaseURL = "http://writer.test"
	cfgVal.Writer.APIKey = "test"
	cfgVal.Engine.ProcessDelaySeconds = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWriterBaseURL points the writer client at a test server.
func WithWriterBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Writer.BaseURL = url
	}
}

// WithJWTSecret enables token auth on the test config.
func WithJWTSecret(secret string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Auth.JWTSecret = secret
	}
}

// WithCreditDefaults overrides the tier and allotment granted to accounts
// provisioned during the test.
func WithCreditDefaults(tier string, included int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Credits.DefaultTier = tier
		b.cfg.Credits.DefaultIncluded = included
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
