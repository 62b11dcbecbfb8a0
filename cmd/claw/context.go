package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/apiclient"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/config"
)

// tokenEnvVar supplies the bearer token when the --token flag is not set.
const tokenEnvVar = "CLAW_API_TOKEN"

type commandContext struct {
	serverFlag *string
	tokenFlag  *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(serverFlag, tokenFlag, configFlag *string) *commandContext {
	return &commandContext{
		serverFlag: serverFlag,
		tokenFlag:  tokenFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) serverBind() string {
	if c.serverFlag != nil && strings.TrimSpace(*c.serverFlag) != "" {
		return strings.TrimSpace(*c.serverFlag)
	}
	if cfg := c.configValue(); cfg != nil {
		return cfg.Paths.APIBind
	}
	return config.Default().Paths.APIBind
}

func (c *commandContext) token() string {
	if c.tokenFlag != nil && strings.TrimSpace(*c.tokenFlag) != "" {
		return strings.TrimSpace(*c.tokenFlag)
	}
	return strings.TrimSpace(os.Getenv(tokenEnvVar))
}

// withClient runs fn with an API client for the configured daemon address,
// translating connection failures into actionable errors.
func (c *commandContext) withClient(fn func(*apiclient.Client) error) error {
	bind := c.serverBind()
	client, err := apiclient.New(bind, c.token())
	if err != nil {
		return err
	}
	if err := fn(client); err != nil {
		return wrapRequestError(err, bind)
	}
	return nil
}

func wrapRequestError(err error, bind string) error {
	if apiclient.IsUnavailable(err) {
		return fmt.Errorf("connect to daemon at %s: %w; start it with `clawd` or `claw daemon run`", bind, err)
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
