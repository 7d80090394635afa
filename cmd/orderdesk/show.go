/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/cristianoliveira/orderdesk/cmd"
	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/format"
	"github.com/spf13/cobra"
)

type showClient interface {
	OrderDetail(ctx context.Context, id string) (domain.Order, error)
}

// NewShowCmd creates the show command with explicit dependencies.
func NewShowCmd(client showClient) *cobra.Command {
	if client == nil {
		panic("NewShowCmd: client dependency cannot be nil")
	}

	var showFormat string
	showCmd := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show the full detail of an order",
		Long: `Show the full detail of an order.

USAGE:
    orderdesk show <order-id> [OPTIONS]

The id may be the backend id or the human order number. Local status changes
that the backend has not confirmed yet are shown in place of the fetched ones.

OPTIONS:
    --format=<format>   Output format: text (default), json
    -h, --help          Show this help`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if showFormat != "text" && showFormat != "json" {
				return fmt.Errorf("invalid --format %q (expected text or json)", showFormat)
			}
			order, err := client.OrderDetail(c.Context(), args[0])
			if err != nil {
				return err
			}
			return writeOrder(c.OutOrStdout(), order, showFormat)
		},
	}
	showCmd.Flags().StringVar(&showFormat, "format", "text", "Output format: text, json")
	return showCmd
}

func writeOrder(w io.Writer, order domain.Order, kind string) error {
	if kind == "json" {
		return format.WriteJSON(w, order)
	}
	return format.OrderDetail(w, order, config.Get("currency_symbol", "₹"))
}

// showCmd represents the show command
var showCmd = NewShowCmd(deps)

func init() {
	cmd.RootCmd.AddCommand(showCmd)
}
