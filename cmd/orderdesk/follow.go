/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cristianoliveira/orderdesk/cmd"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/orders"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type followClient interface {
	Poller() (*orders.Poller, error)
	NewOrderHook() orders.Sink
}

var notificationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "orderdesk",
	Name:      "new_order_notifications_total",
	Help:      "New-order notifications emitted by follow.",
})

// NewFollowCmd creates the follow command with explicit dependencies.
func NewFollowCmd(client followClient) *cobra.Command {
	if client == nil {
		panic("NewFollowCmd: client dependency cannot be nil")
	}

	var interval float64
	var metricsAddr string

	followCmd := &cobra.Command{
		Use:   "follow",
		Short: "Watch for new orders in real-time",
		Long: `Watch for new orders in real-time.

USAGE:
    orderdesk follow [OPTIONS]

The order count is recorded first and every new order placed afterwards is
printed once. The on-new-order hooks run for each of them.

OPTIONS:
    --interval <secs>       Poll interval (default: poll_interval_seconds)
    --metrics-addr <addr>   Serve Prometheus metrics on addr, e.g. :9090
    -h, --help              Show this help`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if c.Flags().Changed("interval") {
				if interval <= 0 {
					return fmt.Errorf("--interval must be positive, got %v", interval)
				}
				config.Set("poll_interval_seconds", strconv.FormatFloat(interval, 'f', -1, 64))
			}
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return Follow(ctx, FollowOptions{
				Client:      client,
				MetricsAddr: metricsAddr,
				Output:      c.OutOrStdout(),
			})
		},
	}

	followCmd.Flags().Float64Var(&interval, "interval", 10, "Poll interval in seconds")
	followCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	return followCmd
}

// FollowOptions holds all parameters for following new orders.
type FollowOptions struct {
	Client      followClient
	MetricsAddr string    // empty disables the metrics endpoint
	Output      io.Writer // default os.Stdout
}

// printNotification prints a single notification to the writer with formatting.
func printNotification(n domain.Notification, o domain.Order, w io.Writer) {
	_, _ = fmt.Fprintf(w, "%s[%s]%s %s\n", colors.Green, n.CreatedAt.Format("15:04:05"), colors.Reset, n.Message)
	if o.OrderNumber != "" {
		_, _ = fmt.Fprintf(w, "  └─ Order: %s\n", o.OrderNumber)
	}
}

// Follow runs the new-order poller until interrupted (Ctrl+C) or the context
// is cancelled.
func Follow(ctx context.Context, opts FollowOptions) error {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	poller, err := opts.Client.Poller()
	if err != nil {
		return err
	}
	if hook := opts.Client.NewOrderHook(); hook != nil {
		poller.AddSink(hook)
	}
	poller.AddSink(orders.SinkFunc(func(_ context.Context, n domain.Notification, o domain.Order) {
		notificationsTotal.Inc()
		printNotification(n, o, opts.Output)
	}))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	colors.Info("Watching for new orders (Ctrl+C to stop)...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return poller.Run(gctx)
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case sig := <-sigChan:
			_, _ = fmt.Fprintf(opts.Output, "\nReceived signal %v, stopping...\n", sig)
			cancel()
		}
		return nil
	})
	if opts.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              opts.MetricsAddr,
			Handler:           metricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			colors.StructuredInfo("follow", "metrics", "listening", nil, "", map[string]interface{}{"addr": opts.MetricsAddr})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}

func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// followCmd represents the follow command
var followCmd = NewFollowCmd(deps)

func init() {
	prometheus.MustRegister(notificationsTotal)
	cmd.RootCmd.AddCommand(followCmd)
}
