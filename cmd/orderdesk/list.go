/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/orderdesk/cmd"
	"github.com/cristianoliveira/orderdesk/internal/cache"
	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/format"
	"github.com/cristianoliveira/orderdesk/internal/orders"
	"github.com/cristianoliveira/orderdesk/internal/search"
	"github.com/cristianoliveira/orderdesk/internal/settings"
	"github.com/spf13/cobra"
)

type listClient interface {
	ListOrders(ctx context.Context, req listRequest) (listResult, error)
	SaveListPreferences(namespace, filter string, pageSize int) error
}

// listRequest selects one page of a listing. Zero values fall back to the
// stored preferences.
type listRequest struct {
	Namespace  string
	Filter     string
	Page       int
	PageSize   int
	Force      bool
	Search     string
	SearchMode string
}

// listResult is a loaded page plus what the output needs around it.
type listResult struct {
	Page     orders.Page
	Rows     []domain.Order
	All      []domain.Order
	Columns  []string
	Currency string
}

const listCommandLong = `List orders with filters and formats.

USAGE:
    orderdesk list [OPTIONS]

OPTIONS:
    --filter <status>       Order status: all, PLACED, CONFIRMED, SHIPPED, DELIVERED, COMPLETED, CANCELLED
    --page <n>              Page to show (default: 1)
    --per-page <n>          Rows per page: 10, 20 or 50 (default: stored preference)
    --refresh               Ignore the local cache and fetch from the backend
    --search <text>         Search the shown page by id, order number, customer, email or phone
    --search-mode <mode>    Search mode: substring (default), token, regex
    --save                  Store --filter and --per-page as the new defaults
    --format=<format>       Output format: table (default), simple, compact, json
    -h, --help              Show this help

The full order set of a filter is cached for cache_ttl_seconds; pages are
sliced from it without further requests.`

// ListOptions holds all parameters for one listing.
type ListOptions struct {
	Client  listClient
	Request listRequest
	Format  string
	Save    bool
	Output  io.Writer
}

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(client listClient) *cobra.Command {
	if client == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}
	return newListingCmd(client, cache.NamespaceOrders, "list", "List orders with filters and formats", listCommandLong)
}

func newListingCmd(client listClient, namespace, use, short, long string) *cobra.Command {
	var req listRequest
	var listFormat string
	var save bool

	listCmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if err := validateListOptions(req, listFormat); err != nil {
				return err
			}
			req.Namespace = namespace
			return PrintList(c.Context(), ListOptions{
				Client:  client,
				Request: req,
				Format:  listFormat,
				Save:    save,
				Output:  c.OutOrStdout(),
			})
		},
	}

	listCmd.Flags().StringVar(&req.Filter, "filter", "", "Filter value (default: stored preference)")
	listCmd.Flags().IntVar(&req.Page, "page", 1, "Page to show")
	listCmd.Flags().IntVar(&req.PageSize, "per-page", 0, "Rows per page: 10, 20 or 50")
	listCmd.Flags().BoolVar(&req.Force, "refresh", false, "Ignore the local cache")
	listCmd.Flags().StringVar(&req.Search, "search", "", "Search the shown page")
	listCmd.Flags().StringVar(&req.SearchMode, "search-mode", search.ProviderSubstring, "Search mode: substring, token, regex")
	listCmd.Flags().BoolVar(&save, "save", false, "Store --filter and --per-page as defaults")
	listCmd.Flags().StringVar(&listFormat, "format", string(format.FormatterTypeTable), "Output format: table, simple, compact, json")
	return listCmd
}

func validateListOptions(req listRequest, listFormat string) error {
	if req.Page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", req.Page)
	}
	if req.PageSize != 0 {
		if err := settings.ValidatePageSize(req.PageSize); err != nil {
			return err
		}
	}
	switch req.SearchMode {
	case "", search.ProviderSubstring, search.ProviderToken, search.ProviderRegex:
	default:
		return fmt.Errorf("invalid --search-mode %q (expected substring, token or regex)", req.SearchMode)
	}
	switch format.FormatterType(listFormat) {
	case format.FormatterTypeTable, format.FormatterTypeSimple, format.FormatterTypeCompact, format.FormatterTypeJSON:
		return nil
	default:
		return fmt.Errorf("invalid --format %q (expected table, simple, compact or json)", listFormat)
	}
}

// PrintList loads one page and writes it with the stats and pagination lines.
// JSON output carries the rows only.
func PrintList(ctx context.Context, opts ListOptions) error {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := opts.Client.ListOrders(ctx, opts.Request)
	if err != nil {
		return fmt.Errorf("list %s: %w", opts.Request.Namespace, err)
	}
	if opts.Save {
		size := opts.Request.PageSize
		if size == 0 {
			size = res.Page.PageSize
		}
		if err := opts.Client.SaveListPreferences(opts.Request.Namespace, res.Page.Filter, size); err != nil {
			return err
		}
	}

	kind := format.FormatterType(opts.Format)
	formatter := format.NewFormatter(kind, format.Options{
		Columns:  res.Columns,
		Currency: res.Currency,
		Color:    config.Get("table_format", "default") != "minimal",
	})
	decorated := kind == format.FormatterTypeTable || kind == format.FormatterTypeSimple
	w := opts.Output
	transactions := opts.Request.Namespace == cache.NamespaceTransactions

	if decorated {
		if transactions {
			fmt.Fprintln(w, format.TransactionStats(domain.TransactionStats(domain.Transactions(res.All)), res.Currency))
		} else {
			fmt.Fprintln(w, format.OrderStats(domain.Stats(res.All), res.Currency))
		}
	}

	if transactions {
		err = formatter.FormatTransactions(domain.Transactions(res.Rows), w)
	} else {
		err = formatter.FormatOrders(res.Rows, w)
	}
	if err != nil {
		return err
	}

	if decorated {
		fmt.Fprintln(w, format.PageFooter(max(res.Page.Page, 1), max(res.Page.TotalPages, 1), len(res.Rows), res.Page.TotalCount))
		if res.Page.FromCache {
			fmt.Fprintln(w, "(served from local cache, use --refresh to refetch)")
		}
		if len(res.Page.FailedPages) > 0 {
			fmt.Fprintf(w, "warning: pages %v failed to load; results are partial\n", res.Page.FailedPages)
		}
	}
	return nil
}

// listCmd represents the list command
var listCmd = NewListCmd(deps)

func init() {
	cmd.RootCmd.AddCommand(listCmd)
}
