/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/cristianoliveira/orderdesk/cmd"
	"github.com/cristianoliveira/orderdesk/internal/cache"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/spf13/cobra"
)

type cacheClient interface {
	ListCache(prefix string) ([]cache.Info, error)
	ClearCache(prefix string) (int, error)
	EvictCache(prefix string, maxAge time.Duration) (int, error)
}

// NewCacheCmd creates the cache command with explicit dependencies.
func NewCacheCmd(client cacheClient) *cobra.Command {
	if client == nil {
		panic("NewCacheCmd: client dependency cannot be nil")
	}

	var namespace string
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the local list cache",
		Long: `Inspect and clear the local list cache.

USAGE:
    orderdesk cache <subcommand> [OPTIONS]

SUBCOMMANDS:
    list     Show cached entries with their age
    clear    Remove cached entries
    evict    Remove entries older than --max-age

OPTIONS:
    --namespace <name>   Limit to orders or transactions (default: both)`,
	}
	cacheCmd.PersistentFlags().StringVar(&namespace, "namespace", "", "Limit to orders or transactions")

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show cached entries",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			prefixes, err := cachePrefixes(namespace)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tSIZE\tAGE")
			total := 0
			for _, prefix := range prefixes {
				infos, err := client.ListCache(prefix)
				if err != nil {
					return err
				}
				for _, info := range infos {
					age := "corrupt"
					if info.Valid {
						age = info.Age.Round(time.Second).String()
					}
					fmt.Fprintf(w, "%s\t%d\t%s\n", info.Key, info.Bytes, age)
					total++
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			colors.Debug(fmt.Sprintf("%d cache entries", total))
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove cached entries",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			removed, err := eachPrefix(namespace, client.ClearCache)
			if err != nil {
				return err
			}
			colors.Success(fmt.Sprintf("Removed %d cache entries", removed))
			return nil
		},
	})

	var maxAge float64
	evictCmd := &cobra.Command{
		Use:   "evict",
		Short: "Remove entries older than --max-age",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			age := config.GetSeconds("cache_ttl_seconds", 5*time.Minute)
			if c.Flags().Changed("max-age") {
				age = time.Duration(maxAge * float64(time.Second))
			}
			if age <= 0 {
				return fmt.Errorf("--max-age must be positive")
			}
			removed, err := eachPrefix(namespace, func(prefix string) (int, error) {
				return client.EvictCache(prefix, age)
			})
			if err != nil {
				return err
			}
			colors.Success(fmt.Sprintf("Evicted %d cache entries older than %s", removed, age))
			return nil
		},
	}
	evictCmd.Flags().Float64Var(&maxAge, "max-age", 0, "Maximum age in seconds (default: cache_ttl_seconds)")
	cacheCmd.AddCommand(evictCmd)

	return cacheCmd
}

func cachePrefixes(namespace string) ([]string, error) {
	switch namespace {
	case "":
		return cache.Families, nil
	case cache.NamespaceOrders, cache.NamespaceTransactions:
		return []string{cache.FamilyPrefix(namespace)}, nil
	default:
		return nil, fmt.Errorf("invalid --namespace %q (expected orders or transactions)", namespace)
	}
}

func eachPrefix(namespace string, fn func(prefix string) (int, error)) (int, error) {
	prefixes, err := cachePrefixes(namespace)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, prefix := range prefixes {
		n, err := fn(prefix)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// cacheCmd represents the cache command
var cacheCmd = NewCacheCmd(deps)

func init() {
	cmd.RootCmd.AddCommand(cacheCmd)
}
