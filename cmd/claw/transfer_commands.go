package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/apiclient"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-enqueue items from a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer file.Close()

			return ctx.withClient(func(client *apiclient.Client) error {
				report, err := client.Import(cmd.Context(), path, file)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d items\n", report.Created)
				for _, rowErr := range report.Errors {
					fmt.Fprintf(out, "  skipped: %s\n", rowErr)
				}
				return nil
			})
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the queue to a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(output)
			if path == "" {
				path = defaultExportName(format)
			}

			return ctx.withClient(func(client *apiclient.Client) error {
				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				if err := client.Export(cmd.Context(), format, file); err != nil {
					file.Close()
					os.Remove(path)
					return err
				}
				if err := file.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported queue to %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Export format, csv or xlsx (daemon default when empty)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (defaults to claw-items.<format>)")
	return cmd
}

func defaultExportName(format string) string {
	format = strings.TrimSpace(strings.ToLower(format))
	if format == "" {
		format = "csv"
	}
	return "claw-items." + format
}
