/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cristianoliveira/orderdesk/cmd"
	"github.com/cristianoliveira/orderdesk/internal/cache"
	"github.com/cristianoliveira/orderdesk/internal/formatter"
	"github.com/spf13/cobra"
)

// NewSummaryCmd creates the summary command with explicit dependencies.
func NewSummaryCmd(client listClient) *cobra.Command {
	if client == nil {
		panic("NewSummaryCmd: client dependency cannot be nil")
	}

	var formatFlag, filter string
	var refresh bool

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a one-line order summary",
		Long: fmt.Sprintf(`Print a one-line order summary for status bars and scripts.

USAGE:
    orderdesk summary [OPTIONS]

OPTIONS:
    --format=<format>   Preset name or custom template (default: compact)
    --filter <status>   Order status filter (default: all)
    --refresh           Ignore the local cache

PRESETS:
%s
VARIABLES:
    %s

The ORDERDESK_SUMMARY_FORMAT environment variable sets the default format.

EXAMPLES:
    orderdesk summary --format=detailed
    orderdesk summary --format='{{pending-count}} new / {{revenue}}'`, presetHelp(), strings.Join(formatter.Variables(), "\n    ")),
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			format := formatFlag
			if !c.Flags().Changed("format") {
				if env := os.Getenv("ORDERDESK_SUMMARY_FORMAT"); env != "" {
					format = env
				}
			}
			res, err := client.ListOrders(c.Context(), listRequest{
				Namespace: cache.NamespaceOrders,
				Filter:    filter,
				Page:      1,
				Force:     refresh,
			})
			if err != nil {
				return err
			}
			line, err := formatter.Render(format, formatter.NewVariableContext(res.All, res.Page.Filter, res.Currency))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), line)
			return nil
		},
	}

	summaryCmd.Flags().StringVar(&formatFlag, "format", "compact", "Preset name or custom template")
	summaryCmd.Flags().StringVar(&filter, "filter", "all", "Order status filter")
	summaryCmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore the local cache")
	return summaryCmd
}

func presetHelp() string {
	var b strings.Builder
	for _, p := range formatter.NewPresetRegistry().List() {
		fmt.Fprintf(&b, "    %-12s %s\n", p.Name, p.Template)
	}
	return b.String()
}

// summaryCmd represents the summary command
var summaryCmd = NewSummaryCmd(deps)

func init() {
	cmd.RootCmd.AddCommand(summaryCmd)
}
