package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/apiclient"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process <itemID>",
		Short: "Run the pipeline for one pending item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *apiclient.Client) error {
				if _, err := client.ProcessItem(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Processing item %d\n", id)
				return nil
			})
		},
	}
}

func newProcessAllCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process-all",
		Short: "Run the pipeline for every pending item",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				receipt, err := client.ProcessAll(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if receipt.Admitted == 0 {
					fmt.Fprintln(out, "No pending items to process")
					return nil
				}
				fmt.Fprintf(out, "Processing %d items\n", receipt.Admitted)
				return nil
			})
		},
	}
}
