package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/server"
)

func newTokenCommand(ctx *commandContext) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API bearer tokens",
	}

	tokenCmd.AddCommand(newTokenNewCommand(ctx))

	return tokenCmd
}

func newTokenNewCommand(ctx *commandContext) *cobra.Command {
	var owner string
	var ttlHours int

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Mint a bearer token signed with the configured JWT secret",
		Long: `Mint a bearer token signed with the configured JWT secret.

The token is printed bare so it can be captured directly:

  export CLAW_API_TOKEN=$(claw token new --owner alice)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			secret := strings.TrimSpace(cfg.Auth.JWTSecret)
			if secret == "" {
				return errors.New("auth.jwt_secret is not configured; set it before minting tokens")
			}

			subject := strings.TrimSpace(owner)
			if subject == "" {
				subject = cfg.Auth.DefaultOwner
			}
			hours := ttlHours
			if hours <= 0 {
				hours = cfg.Auth.TokenTTLHours
			}

			token, err := server.MintToken(secret, subject, time.Duration(hours)*time.Hour)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner the token authenticates (defaults to auth.default_owner)")
	cmd.Flags().IntVar(&ttlHours, "ttl", 0, "Token lifetime in hours (defaults to auth.token_ttl_hours)")
	return cmd
}
