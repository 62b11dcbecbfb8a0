package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/apiclient"
)

func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var serviceURL string
	var clusterKeywords string

	cmd := &cobra.Command{
		Use:   "add <keyword>",
		Short: "Queue a keyword for article generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.TrimSpace(args[0])
			if keyword == "" {
				return errors.New("keyword must not be empty")
			}
			return ctx.withClient(func(client *apiclient.Client) error {
				item, err := client.CreateItem(cmd.Context(), api.CreateItemRequest{
					MainKeyword:     keyword,
					ServiceURL:      strings.TrimSpace(serviceURL),
					ClusterKeywords: strings.TrimSpace(clusterKeywords),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added item %d (%s)\n", item.ID, item.MainKeyword)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&serviceURL, "url", "", "Service URL the article should link to")
	cmd.Flags().StringVar(&clusterKeywords, "cluster", "", "Comma-separated supporting keywords")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var listStatus string
	var listLimit int
	var listOffset int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiclient.Client) error {
				resp, err := client.ListItems(cmd.Context(), apiclient.ListQuery{
					Status: listStatus,
					Limit:  listLimit,
					Offset: listOffset,
				})
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}

				out := cmd.OutOrStdout()
				if len(resp.Items) == 0 {
					if strings.TrimSpace(listStatus) != "" {
						fmt.Fprintf(out, "No items with status %s\n", listStatus)
					} else {
						fmt.Fprintln(out, "Queue is empty")
					}
					return nil
				}

				table := renderTable(
					[]string{"ID", "Keyword", "Status", "Created", "Post URL"},
					buildItemListRows(resp.Items),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprint(out, table)
				fmt.Fprintf(out, "\nShowing %d of %d items\n", len(resp.Items), resp.Total)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by item status")
	cmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum items per page (daemon default when 0)")
	cmd.Flags().IntVar(&listOffset, "offset", 0, "Items to skip before the page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <itemID>",
		Short: "Show one queue item in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *apiclient.Client) error {
				item, err := client.Item(cmd.Context(), id)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, api.ItemResponse{Item: item})
				}

				rows := [][]string{
					{"ID", fmt.Sprintf("%d", item.ID)},
					{"Keyword", item.MainKeyword},
					{"Service URL", orDash(item.ServiceURL)},
					{"Cluster keywords", orDash(item.ClusterKeywords)},
					{"Status", formatStatusLabel(item.Status)},
					{"Post URL", orDash(item.WPPostURL)},
					{"Feature image", orDash(item.FeatureImage)},
					{"Created", formatDisplayTime(item.CreatedAt)},
					{"Updated", formatDisplayTime(item.UpdatedAt)},
				}
				table := renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
				fmt.Fprint(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")
	return cmd
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var keyword string
	var serviceURL string
	var clusterKeywords string

	cmd := &cobra.Command{
		Use:   "edit <itemID>",
		Short: "Edit a queue item's request fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}

			var req api.UpdateItemRequest
			if cmd.Flags().Changed("keyword") {
				value := strings.TrimSpace(keyword)
				req.MainKeyword = &value
			}
			if cmd.Flags().Changed("url") {
				value := strings.TrimSpace(serviceURL)
				req.ServiceURL = &value
			}
			if cmd.Flags().Changed("cluster") {
				value := strings.TrimSpace(clusterKeywords)
				req.ClusterKeywords = &value
			}
			if req.MainKeyword == nil && req.ServiceURL == nil && req.ClusterKeywords == nil {
				return errors.New("specify at least one of --keyword, --url, or --cluster")
			}

			return ctx.withClient(func(client *apiclient.Client) error {
				item, err := client.UpdateItem(cmd.Context(), id, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated item %d (%s)\n", item.ID, item.MainKeyword)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&keyword, "keyword", "", "Replace the main keyword")
	cmd.Flags().StringVar(&serviceURL, "url", "", "Replace the service URL (empty clears it)")
	cmd.Flags().StringVar(&clusterKeywords, "cluster", "", "Replace the cluster keywords (empty clears them)")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <itemID>",
		Aliases: []string{"remove"},
		Short:   "Remove a queue item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *apiclient.Client) error {
				if err := client.DeleteItem(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d\n", id)
				return nil
			})
		},
	}
}
