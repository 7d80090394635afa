/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/orderdesk/cmd"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/spf13/cobra"
)

type statusClient interface {
	OrderDetail(ctx context.Context, id string) (domain.Order, error)
	SetStatus(ctx context.Context, id string, status, previous domain.OrderStatus) (domain.Order, error)
	CompleteOrder(ctx context.Context, id string, previous domain.OrderStatus) (domain.Order, error)
}

// NewSetStatusCmd creates the set-status command with explicit dependencies.
func NewSetStatusCmd(client statusClient) *cobra.Command {
	if client == nil {
		panic("NewSetStatusCmd: client dependency cannot be nil")
	}

	var force bool
	setStatusCmd := &cobra.Command{
		Use:   "set-status <order-id> <status>",
		Short: "Change the status of an order",
		Long: `Change the status of an order.

USAGE:
    orderdesk set-status <order-id> <status> [OPTIONS]

STATUS:
    PLACED, CONFIRMED, SHIPPED, DELIVERED, COMPLETED, CANCELLED

Orders move forward through the lifecycle; CANCELLED is reachable from any
open status. The local list shows the new status at once and is restored if
the backend refuses the change.

OPTIONS:
    --force         Send the change even if it skips the lifecycle rules
    -h, --help      Show this help`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			target, err := domain.ParseOrderStatus(args[1])
			if err != nil {
				return err
			}
			return runStatusChange(c, client, args[0], target, force, func(ctx context.Context, previous domain.OrderStatus) (domain.Order, error) {
				return client.SetStatus(ctx, args[0], target, previous)
			})
		},
	}
	setStatusCmd.Flags().BoolVar(&force, "force", false, "Skip lifecycle validation")
	return setStatusCmd
}

// NewCompleteCmd creates the complete command with explicit dependencies.
func NewCompleteCmd(client statusClient) *cobra.Command {
	if client == nil {
		panic("NewCompleteCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "complete <order-id>",
		Short: "Mark an order completed",
		Long: `Mark an order completed through the dedicated completion endpoint.

USAGE:
    orderdesk complete <order-id>`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runStatusChange(c, client, args[0], domain.StatusCompleted, false, func(ctx context.Context, previous domain.OrderStatus) (domain.Order, error) {
				return client.CompleteOrder(ctx, args[0], previous)
			})
		},
	}
}

func runStatusChange(c *cobra.Command, client statusClient, id string, target domain.OrderStatus, force bool, send func(context.Context, domain.OrderStatus) (domain.Order, error)) error {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	current, err := client.OrderDetail(ctx, id)
	if err != nil {
		return err
	}
	previous := current.OrderStatus
	if previous == target {
		colors.Info(fmt.Sprintf("Order %s is already %s", id, target))
		return nil
	}
	if !force {
		if err := domain.ValidateTransition(previous, target); err != nil {
			return err
		}
	}

	updated, err := send(ctx, previous)
	if err != nil {
		return fmt.Errorf("could not change order %s to %s: %w", id, target, err)
	}
	colors.StructuredInfo("cli", "set_status", "success", nil, updated.Key(), map[string]interface{}{
		"from": string(previous),
		"to":   string(target),
	})
	fmt.Fprintf(c.OutOrStdout(), "Order %s: %s -> %s\n", displayID(updated, id), previous, updated.OrderStatus)
	return nil
}

func displayID(o domain.Order, fallback string) string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	if o.ID != "" {
		return o.ID
	}
	return fallback
}

var (
	// setStatusCmd represents the set-status command
	setStatusCmd = NewSetStatusCmd(deps)
	// completeCmd represents the complete command
	completeCmd = NewCompleteCmd(deps)
)

func init() {
	cmd.RootCmd.AddCommand(setStatusCmd)
	cmd.RootCmd.AddCommand(completeCmd)
}
