/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cristianoliveira/orderdesk/cmd"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/format"
	"github.com/cristianoliveira/orderdesk/internal/settings"
	"github.com/spf13/cobra"
)

type settingsClient interface {
	CurrentSettings() (settings.Settings, error)
	UpdateSettings(fn func(*settings.Settings)) error
}

const (
	settingsCommandLong = `Manage console preferences.

USAGE:
    orderdesk settings <subcommand>

SUBCOMMANDS:
    show     Display current settings
    set      Change one setting
    reset    Reset settings to defaults

KEYS:
    ordersPerPage, transactionsPerPage   10, 20 or 50
    orderFilter                          all or an order status
    transactionFilter                    all, Success, Pending or Failed
    columns                              comma separated order columns
    activeTab                            orders or transactions

EXAMPLES:
    orderdesk settings set ordersPerPage 50
    orderdesk settings set columns order,customer,amount,status
    orderdesk settings reset --force`
)

// NewSettingsCmd creates the settings command with explicit dependencies.
func NewSettingsCmd(client settingsClient) *cobra.Command {
	if client == nil {
		panic("NewSettingsCmd: client dependency cannot be nil")
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage console preferences",
		Long:  settingsCommandLong,
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display current settings",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			current, err := client.CurrentSettings()
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			return format.WriteJSON(c.OutOrStdout(), current)
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			apply, err := settingSetter(args[0], args[1])
			if err != nil {
				return err
			}
			if err := client.UpdateSettings(apply); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
			colors.Success(fmt.Sprintf("%s set to %s", args[0], args[1]))
			return nil
		},
	})

	var force bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset settings to defaults",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if !force && os.Getenv("CI") == "" && !confirmReset(c.InOrStdin(), c.OutOrStdout()) {
				colors.Info("Operation cancelled")
				return nil
			}
			err := client.UpdateSettings(func(s *settings.Settings) {
				*s = *settings.DefaultSettings()
			})
			if err != nil {
				return fmt.Errorf("failed to reset settings: %w", err)
			}
			colors.Success("Settings reset to defaults")
			return nil
		},
	}
	resetCmd.Flags().BoolVar(&force, "force", false, "Reset without confirmation")
	settingsCmd.AddCommand(resetCmd)

	return settingsCmd
}

// settingSetter parses value for key. The manager validates the result
// before it is written.
func settingSetter(key, value string) (func(*settings.Settings), error) {
	switch key {
	case "ordersPerPage", "transactionsPerPage":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number: %w", key, err)
		}
		if key == "ordersPerPage" {
			return func(s *settings.Settings) { s.OrdersPerPage = n }, nil
		}
		return func(s *settings.Settings) { s.TransactionsPerPage = n }, nil
	case "orderFilter":
		f, err := domain.OrderFilters.Normalize(value)
		if err != nil {
			return nil, err
		}
		return func(s *settings.Settings) { s.OrderFilter = f }, nil
	case "transactionFilter":
		f, err := domain.TransactionFilters.Normalize(value)
		if err != nil {
			return nil, err
		}
		return func(s *settings.Settings) { s.TransactionFilter = f }, nil
	case "columns":
		var cols []string
		for _, col := range strings.Split(value, ",") {
			if col = strings.TrimSpace(col); col != "" {
				cols = append(cols, col)
			}
		}
		return func(s *settings.Settings) { s.Columns = cols }, nil
	case "activeTab":
		tab := settings.Tab(strings.ToLower(value))
		if !tab.IsValid() {
			return nil, fmt.Errorf("invalid activeTab %q (expected orders or transactions)", value)
		}
		return func(s *settings.Settings) { s.ActiveTab = tab }, nil
	default:
		return nil, fmt.Errorf("unknown setting %q", key)
	}
}

// confirmReset asks the user for confirmation before resetting settings.
func confirmReset(in io.Reader, out io.Writer) bool {
	reader := bufio.NewReader(in)
	fmt.Fprint(out, "Are you sure you want to reset all settings to defaults? (y/N): ")
	answer, err := reader.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

// settingsCmd represents the settings command
var settingsCmd = NewSettingsCmd(deps)

func init() {
	cmd.RootCmd.AddCommand(settingsCmd)
}
