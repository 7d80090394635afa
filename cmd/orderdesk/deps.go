/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/orderdesk/internal/api"
	"github.com/cristianoliveira/orderdesk/internal/cache"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/hooks"
	"github.com/cristianoliveira/orderdesk/internal/orders"
	"github.com/cristianoliveira/orderdesk/internal/search"
	"github.com/cristianoliveira/orderdesk/internal/settings"
	"github.com/cristianoliveira/orderdesk/internal/storage"
	tuiapp "github.com/cristianoliveira/orderdesk/internal/tui/app"
	"github.com/cristianoliveira/orderdesk/internal/tui/state"
	"github.com/cristianoliveira/orderdesk/internal/version"
)

// app builds the shared collaborators on first use so that commands which
// never touch the backend start without opening the cache or settings.
type app struct {
	once sync.Once
	err  error

	store        cache.Store
	cache        *cache.LocalCache
	client       *api.Client
	settings     *settings.Manager
	hooks        *hooks.Runner
	orders       *orders.ListController
	transactions *orders.ListController
	details      *orders.DetailController
	tui          *tuiapp.DefaultClient
}

var deps = &app{}

func (a *app) init() error {
	a.once.Do(func() {
		store, err := storage.NewFromConfig()
		if err != nil {
			a.err = fmt.Errorf("open cache: %w", err)
			return
		}
		mgr, err := settings.NewManager(settings.Path())
		if err != nil {
			_ = store.Close()
			a.err = fmt.Errorf("load settings: %w", err)
			return
		}

		a.store = store
		a.settings = mgr
		a.cache = cache.NewLocalCache(store,
			cache.WithEvictGrace(config.GetSeconds("cache_evict_grace_seconds", cache.DefaultEvictGrace)))
		a.client = api.New(api.ConfigFromGlobal())
		a.hooks = hooks.NewRunner(hooks.OptionsFromConfig())

		opts := orders.ListOptions{
			TTL:       config.GetSeconds("cache_ttl_seconds", 5*time.Minute),
			PageLimit: config.GetInt("fetch_page_limit", 100),
			MaxPages:  config.GetInt("fetch_max_pages", 10),
		}
		provider := search.NewSubstringProvider(search.WithCaseInsensitive(true))

		opts.PageSize = mgr.PageSize(cache.NamespaceOrders)
		a.orders = orders.NewListController(a.client, a.cache, domain.OrderFilters, cache.NamespaceOrders, provider, opts).
			WithPageSizeStore(mgr)
		opts.PageSize = mgr.PageSize(cache.NamespaceTransactions)
		a.transactions = orders.NewListController(a.client, a.cache, domain.TransactionFilters, cache.NamespaceTransactions, provider, opts).
			WithPageSizeStore(mgr)

		a.details = orders.NewDetailController(a.client, a.orders, orders.DetailOptions{
			Timeout: config.GetSeconds("detail_timeout_seconds", 15*time.Second),
		})
		a.orders.AddMutationListener(a.details)
		a.tui = tuiapp.NewDefaultClient(nil)
	})
	return a.err
}

// Close releases the cache store and waits for background hooks.
func (a *app) Close() error {
	if a.hooks != nil {
		a.hooks.Wait()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (a *app) list(namespace string) *orders.ListController {
	if namespace == cache.NamespaceTransactions {
		return a.transactions
	}
	return a.orders
}

func (a *app) currency() string {
	return config.Get("currency_symbol", "₹")
}

// ListOrders loads a page, falling back to the stored filter and page size.
func (a *app) ListOrders(ctx context.Context, req listRequest) (listResult, error) {
	if err := a.init(); err != nil {
		return listResult{}, err
	}
	ctrl := a.list(req.Namespace)
	if req.Filter == "" {
		req.Filter = a.settings.Filter(req.Namespace)
	}
	if req.PageSize <= 0 {
		req.PageSize = a.settings.PageSize(req.Namespace)
	}
	page, err := ctrl.Load(ctx, req.Filter, req.Page, req.PageSize, req.Force)
	if err != nil {
		return listResult{}, err
	}
	rows := page.Orders
	switch {
	case req.Search == "":
	case req.SearchMode == "" || req.SearchMode == search.ProviderSubstring:
		rows = ctrl.Search(req.Search)
	default:
		rows = search.Filter(search.New(req.SearchMode, search.WithCaseInsensitive(true)), page.Orders, req.Search)
	}
	s := a.settings.Settings()
	return listResult{
		Page:     page,
		Rows:     rows,
		All:      ctrl.All(),
		Columns:  s.Columns,
		Currency: a.currency(),
	}, nil
}

// SaveListPreferences stores the filter and page size used by a listing.
func (a *app) SaveListPreferences(namespace, filter string, pageSize int) error {
	if err := a.init(); err != nil {
		return err
	}
	return a.settings.Update(func(s *settings.Settings) {
		if namespace == cache.NamespaceTransactions {
			s.TransactionFilter = filter
			s.TransactionsPerPage = pageSize
			return
		}
		s.OrderFilter = filter
		s.OrdersPerPage = pageSize
	})
}

// OrderDetail returns the reconciled detail of id.
func (a *app) OrderDetail(ctx context.Context, id string) (domain.Order, error) {
	if err := a.init(); err != nil {
		return domain.Order{}, err
	}
	a.warmOrders(ctx)
	return a.details.GetDetails(ctx, id)
}

// SetStatus changes the status of id through the status endpoint.
func (a *app) SetStatus(ctx context.Context, id string, status, previous domain.OrderStatus) (domain.Order, error) {
	if err := a.init(); err != nil {
		return domain.Order{}, err
	}
	return a.mutate(ctx, id, status, previous, func() (domain.Order, error) {
		return a.orders.UpdateStatus(ctx, id, status)
	})
}

// CompleteOrder marks id completed through the complete endpoint.
func (a *app) CompleteOrder(ctx context.Context, id string, previous domain.OrderStatus) (domain.Order, error) {
	if err := a.init(); err != nil {
		return domain.Order{}, err
	}
	return a.mutate(ctx, id, domain.StatusCompleted, previous, func() (domain.Order, error) {
		return a.orders.Complete(ctx, id)
	})
}

// mutate runs send, reverting the local copy when the backend refuses, and
// runs the status hooks on success.
func (a *app) mutate(ctx context.Context, id string, status, previous domain.OrderStatus, send func() (domain.Order, error)) (domain.Order, error) {
	a.warmOrders(ctx)
	patch := domain.Patch{OrderStatus: status}
	prev, err := send()
	if err != nil {
		a.orders.Revert(id, prev, patch)
		return domain.Order{}, err
	}
	// the transaction projection of the same order is now stale
	if _, err := a.cache.Clear(cache.FamilyPrefix(cache.NamespaceTransactions)); err != nil {
		colors.Warning(fmt.Sprintf("failed to clear transaction cache: %v", err))
	}

	updated, err := a.details.GetDetails(ctx, id)
	if err != nil {
		updated = prev
		patch.Apply(&updated)
	}
	if err := a.hooks.StatusChanged(ctx, updated, previous); err != nil {
		return updated, err
	}
	return updated, nil
}

// warmOrders serves the order list from a fresh cache so local patches land
// in it. It never calls the backend.
func (a *app) warmOrders(ctx context.Context) {
	ttl := config.GetSeconds("cache_ttl_seconds", 5*time.Minute)
	var cached []domain.Order
	if !a.cache.Read(cache.AllKey(cache.NamespaceOrders, domain.FilterAll), ttl, &cached) {
		return
	}
	_, _ = a.orders.Load(ctx, domain.FilterAll, 1, a.settings.PageSize(cache.NamespaceOrders), false)
}

// Poller builds a new-order poller from the poll_* settings.
func (a *app) Poller() (*orders.Poller, error) {
	if err := a.init(); err != nil {
		return nil, err
	}
	return orders.NewPoller(a.client, a.pollerOptions()), nil
}

func (a *app) pollerOptions() orders.PollerOptions {
	opts := orders.DefaultPollerOptions()
	opts.Interval = config.GetSeconds("poll_interval_seconds", opts.Interval)
	opts.BaselineDelay = config.GetSeconds("poll_baseline_delay_seconds", opts.BaselineDelay)
	opts.LatestLimit = config.GetInt("poll_latest_limit", opts.LatestLimit)
	opts.TTL = config.GetSeconds("notification_ttl_seconds", opts.TTL)
	opts.Currency = a.currency()
	return opts
}

// NewOrderHook is the poller sink that runs the on-new-order scripts.
func (a *app) NewOrderHook() orders.Sink {
	if err := a.init(); err != nil {
		return nil
	}
	return orders.SinkFunc(a.hooks.NewOrder)
}

// ListCache describes the cached entries under prefix.
func (a *app) ListCache(prefix string) ([]cache.Info, error) {
	if err := a.init(); err != nil {
		return nil, err
	}
	return a.cache.List(prefix)
}

// ClearCache removes the cached entries under prefix.
func (a *app) ClearCache(prefix string) (int, error) {
	if err := a.init(); err != nil {
		return 0, err
	}
	return a.cache.Clear(prefix)
}

// EvictCache removes the entries under prefix older than maxAge.
func (a *app) EvictCache(prefix string, maxAge time.Duration) (int, error) {
	if err := a.init(); err != nil {
		return 0, err
	}
	return a.cache.EvictStale(prefix, maxAge)
}

// CurrentSettings returns the stored console preferences.
func (a *app) CurrentSettings() (settings.Settings, error) {
	if err := a.init(); err != nil {
		return settings.Settings{}, err
	}
	return a.settings.Settings(), nil
}

// UpdateSettings applies fn and saves the result.
func (a *app) UpdateSettings(fn func(*settings.Settings)) error {
	if err := a.init(); err != nil {
		return err
	}
	return a.settings.Update(fn)
}

// TUIDeps wires the console to the shared controllers. The returned poller
// is started by the caller.
func (a *app) TUIDeps(ctx context.Context) (state.Deps, *orders.Poller, error) {
	if err := a.init(); err != nil {
		return state.Deps{}, nil, err
	}
	poller := orders.NewPoller(a.client, a.pollerOptions())
	poller.AddSink(orders.SinkFunc(a.hooks.NewOrder))
	return state.Deps{
		Orders:       a.orders,
		Transactions: a.transactions,
		Details:      a.details,
		Status:       a.client,
		Poller:       poller,
		Settings:     a.settings,
		OnStatusSent: a.hooks.StatusChanged,
		Currency:     a.currency(),
		Context:      ctx,
	}, poller, nil
}

// CreateModel builds the console model.
func (a *app) CreateModel(d state.Deps) (tea.Model, error) {
	if err := a.init(); err != nil {
		return nil, err
	}
	return a.tui.CreateModel(d)
}

// RunProgram runs the console until the user quits.
func (a *app) RunProgram(model tea.Model) error {
	if err := a.init(); err != nil {
		return err
	}
	return a.tui.RunProgram(model)
}

// Version returns the version text.
func (a *app) Version() string {
	return version.Long()
}
