package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/apiclient"
)

func newCreditsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Show the credit balance for the current billing period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				balance, err := client.Credits(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, balance)
				}

				out := cmd.OutOrStdout()
				if balance.Unlimited {
					fmt.Fprintf(out, "Tier %s: unlimited processing\n", formatStatusLabel(balance.Tier))
					return nil
				}
				rows := [][]string{
					{"Tier", formatStatusLabel(balance.Tier)},
					{"Included", fmt.Sprintf("%d", balance.Included)},
					{"Used", fmt.Sprintf("%d", balance.Used)},
					{"Available", fmt.Sprintf("%d", balance.Available)},
				}
				table := renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprint(out, table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")
	return cmd
}

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect and change the optional pipeline steps",
	}

	profileCmd.AddCommand(newProfileShowCommand(ctx))
	profileCmd.AddCommand(newProfileSetCommand(ctx))

	return profileCmd
}

func newProfileShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show which optional pipeline steps are enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				prof, err := client.Profile(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, prof)
				}

				rows := [][]string{
					{"Auto feature image", yesNo(prof.AutoFeatureImage)},
					{"Auto publish", yesNo(prof.AutoPublish)},
				}
				table := renderTable([]string{"Setting", "Enabled"}, rows, []columnAlignment{alignLeft, alignLeft})
				fmt.Fprint(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")
	return cmd
}

func newProfileSetCommand(ctx *commandContext) *cobra.Command {
	var autoFeatureImage bool
	var autoPublish bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Enable or disable optional pipeline steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			imageChanged := cmd.Flags().Changed("auto-feature-image")
			publishChanged := cmd.Flags().Changed("auto-publish")
			if !imageChanged && !publishChanged {
				return errors.New("specify at least one of --auto-feature-image or --auto-publish")
			}

			return ctx.withClient(func(client *apiclient.Client) error {
				prof, err := client.Profile(cmd.Context())
				if err != nil {
					return err
				}
				if imageChanged {
					prof.AutoFeatureImage = autoFeatureImage
				}
				if publishChanged {
					prof.AutoPublish = autoPublish
				}

				stored, err := client.PutProfile(cmd.Context(), prof)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Auto feature image: %s\n", yesNo(stored.AutoFeatureImage))
				fmt.Fprintf(out, "Auto publish: %s\n", yesNo(stored.AutoPublish))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&autoFeatureImage, "auto-feature-image", false, "Generate a featured image during processing")
	cmd.Flags().BoolVar(&autoPublish, "auto-publish", false, "Publish finished articles to WordPress")
	return cmd
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and queue status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				status, err := client.Status(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, status)
				}

				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderHealthLine("Daemon", healthOK, fmt.Sprintf("pid %d", status.PID), colorize))
				fmt.Fprintln(stdout, renderHealthLine("Queue database", healthInfo, status.QueueDBPath, colorize))
				writerKind, writerDetail := writerHealth(status)
				fmt.Fprintln(stdout, renderHealthLine("Writer service", writerKind, writerDetail, colorize))
				fmt.Fprintln(stdout, renderHealthLine("Active tasks", healthInfo, fmt.Sprintf("%d", status.Engine.ActiveTasks), colorize))
				if strings.TrimSpace(status.Engine.LastError) != "" {
					fmt.Fprintln(stdout, renderHealthLine("Last error", healthWarn, status.Engine.LastError, colorize))
				}
				if item := status.Engine.LastItem; item != nil {
					detail := fmt.Sprintf("#%d %s (%s)", item.ID, item.MainKeyword, item.Status)
					fmt.Fprintln(stdout, renderHealthLine("Last item", healthInfo, detail, colorize))
				}
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Queue Status", colorize) {
					fmt.Fprintln(stdout, line)
				}
				rows := buildStatusCountRows(status.Engine.QueueStats)
				if len(rows) == 0 {
					fmt.Fprintln(stdout, "Queue is empty")
					return nil
				}
				table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprint(stdout, table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")
	return cmd
}

func writerHealth(status api.DaemonStatus) (healthKind, string) {
	detail := strings.TrimSpace(status.WriterDetail)
	if status.WriterReachable {
		if detail == "" {
			detail = "reachable"
		}
		return healthOK, detail
	}
	if detail == "" {
		detail = "unreachable"
	}
	return healthWarn, detail
}
