/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/orderdesk/cmd"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/orders"
	"github.com/cristianoliveira/orderdesk/internal/tui/state"
	"github.com/spf13/cobra"
)

type tuiClient interface {
	TUIDeps(ctx context.Context) (state.Deps, *orders.Poller, error)
	CreateModel(deps state.Deps) (tea.Model, error)
	RunProgram(model tea.Model) error
}

// NewTUICmd creates the tui command with explicit dependencies.
func NewTUICmd(client tuiClient) *cobra.Command {
	if client == nil {
		panic("NewTUICmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive order console",
		Long: `Interactive order console.

USAGE:
    orderdesk tui

KEY BINDINGS:
    tab         Switch between orders and transactions
    j/k         Move down/up in the list
    n/p         Next/previous page
    f           Cycle the filter
    s           Cycle the page size (10, 20, 50)
    r           Refresh from the backend
    /           Search the current page
    Enter       Open the selected order
    h/l         Pick a status in the detail view
    Enter       Apply the picked status
    c           Complete the order
    ESC         Back to the list, or clear the search
    d           Dismiss the newest toast
    ?           Toggle help
    q           Quit`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runTUI(c.Context(), client)
		},
	}
}

// runTUI starts the poller next to the console and stops it on exit.
func runTUI(parent context.Context, client tuiClient) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	deps, poller, err := client.TUIDeps(ctx)
	if err != nil {
		return err
	}
	model, err := client.CreateModel(deps)
	if err != nil {
		return fmt.Errorf("failed to create TUI model: %w", err)
	}

	done := make(chan struct{})
	if poller != nil {
		go func() {
			defer close(done)
			if err := poller.Run(ctx); err != nil {
				colors.StructuredWarn("tui", "poller", "stopped", err, "", nil)
			}
		}()
	} else {
		close(done)
	}

	err = client.RunProgram(model)
	cancel()
	<-done
	return err
}

// tuiCmd represents the tui command
var tuiCmd = NewTUICmd(deps)

func init() {
	cmd.RootCmd.AddCommand(tuiCmd)
}
