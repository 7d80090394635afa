/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"github.com/cristianoliveira/orderdesk/cmd"
	"github.com/cristianoliveira/orderdesk/internal/cache"
	"github.com/spf13/cobra"
)

const transactionsCommandLong = `List the payment projection of orders.

USAGE:
    orderdesk transactions [OPTIONS]

OPTIONS:
    --filter <value>        Payment filter: all, Success, Pending, Failed
    --page <n>              Page to show (default: 1)
    --per-page <n>          Rows per page: 10, 20 or 50 (default: stored preference)
    --refresh               Ignore the local cache and fetch from the backend
    --search <text>         Search the shown page
    --search-mode <mode>    Search mode: substring (default), token, regex
    --save                  Store --filter and --per-page as the new defaults
    --format=<format>       Output format: table (default), simple, compact, json
    -h, --help              Show this help`

// NewTransactionsCmd creates the transactions command with explicit dependencies.
func NewTransactionsCmd(client listClient) *cobra.Command {
	if client == nil {
		panic("NewTransactionsCmd: client dependency cannot be nil")
	}
	return newListingCmd(client, cache.NamespaceTransactions, "transactions", "List payments derived from orders", transactionsCommandLong)
}

// transactionsCmd represents the transactions command
var transactionsCmd = NewTransactionsCmd(deps)

func init() {
	cmd.RootCmd.AddCommand(transactionsCmd)
}
