/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cristianoliveira/orderdesk/internal/api"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/cristianoliveira/orderdesk/internal/errors"
	"github.com/cristianoliveira/orderdesk/internal/version"
	"github.com/spf13/cobra"
)

const description = "Terminal admin console for marketplace orders."

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "orderdesk",
	Short:         description,
	Long:          description,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyOutputFlags(cmd)
	},
}

// outputWriter overrides where help is printed. Nil means stdout.
var outputWriter io.Writer

// Execute runs the root command.
func Execute() error {
	err := RootCmd.Execute()
	errors.NewDefaultCLIHandler().WithDescriber(api.Describe).Report(err)
	return err
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true
	RootCmd.PersistentFlags().Bool("debug", false, "Print debug output and structured logs")
	RootCmd.PersistentFlags().Bool("quiet", false, "Only print errors")

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != cmd.Root() {
			fmt.Fprintln(cmd.OutOrStdout(), cmd.Long)
			return
		}
		PrintHelp(cmd)
	})
}

// applyOutputFlags lets --debug and --quiet override the loaded configuration.
func applyOutputFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("debug"); f != nil && f.Changed {
		config.Set("debug", f.Value.String())
	}
	if f := cmd.Flags().Lookup("quiet"); f != nil && f.Changed {
		config.Set("quiet", f.Value.String())
	}
	colors.SetDebug(config.GetBool("debug", false))
	colors.SetQuiet(config.GetBool("quiet", false))
}

// PrintHelp prints the top level help with commands in a fixed order.
func PrintHelp(cmd *cobra.Command) {
	commandOrder := []string{
		"list",
		"transactions",
		"show",
		"set-status",
		"complete",
		"summary",
		"follow",
		"tui",
		"cache",
		"settings",
		"help",
		"version",
	}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Use, found.Short))
	}

	helpText := fmt.Sprintf(`orderdesk v%s

%s

USAGE:
    orderdesk [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --debug         Print debug output
    --quiet         Only print errors
    -h, --help      Show help message
`, cmd.Version, description, strings.Join(cmdLines, "\n"))

	w := outputWriter
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprint(w, helpText)
}
