package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/api"
	"github.com/cristianoliveira/orderdesk/internal/cache"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/logging"
	"github.com/cristianoliveira/orderdesk/internal/search"
	"golang.org/x/sync/errgroup"
)

// State is the lifecycle of the list for its current filter.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// ListOptions tunes the list controller.
type ListOptions struct {
	// TTL bounds the age of a cached full set served without a network call.
	TTL time.Duration
	// PageLimit is the number of records requested per backend page.
	PageLimit int
	// MaxPages caps the pages fetched for one full set.
	MaxPages int
	// PageSize is the initial visible page size.
	PageSize int
}

// DefaultListOptions returns a 5 minute TTL, 100 records per backend page,
// at most 10 backend pages and 10 visible rows.
func DefaultListOptions() ListOptions {
	return ListOptions{TTL: 5 * time.Minute, PageLimit: 100, MaxPages: 10, PageSize: 10}
}

// Page is the visible slice of the full set.
type Page struct {
	Filter     string
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
	Orders     []domain.Order
	FromCache  bool
	// FailedPages lists backend pages that failed during the fan-out.
	FailedPages []int
}

// ListController owns the full order set of one filter context and the page shown from it.
type ListController struct {
	source    Backend
	cache     *cache.LocalCache
	vocab     domain.FilterVocabulary
	namespace string
	search    search.Provider
	prefs     PageSizeStore
	opts      ListOptions
	log       logging.Logger

	mu         sync.Mutex
	generation uint64
	state      State
	lastErr    error
	filter     string
	all        []domain.Order
	pagination domain.PaginationState
	fromCache  bool
	failed     []int
	listeners  []MutationListener
}

// NewListController builds a controller for one namespace and filter vocabulary.
func NewListController(source Backend, c *cache.LocalCache, vocab domain.FilterVocabulary, namespace string, provider search.Provider, opts ListOptions) *ListController {
	def := DefaultListOptions()
	if opts.TTL <= 0 {
		opts.TTL = def.TTL
	}
	if opts.PageLimit <= 0 {
		opts.PageLimit = def.PageLimit
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = def.MaxPages
	}
	if opts.PageSize <= 0 {
		opts.PageSize = def.PageSize
	}
	if provider == nil {
		provider = search.NewSubstringProvider()
	}
	return &ListController{
		source:     source,
		cache:      c,
		vocab:      vocab,
		namespace:  namespace,
		search:     provider,
		opts:       opts,
		log:        logging.With("component", "orders", "namespace", namespace),
		filter:     domain.FilterAll,
		pagination: domain.NewPaginationState(opts.PageSize),
	}
}

// WithPageSizeStore persists page size changes.
func (c *ListController) WithPageSizeStore(s PageSizeStore) *ListController {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs = s
	return c
}

// AddMutationListener registers l for local patches.
func (c *ListController) AddMutationListener(l MutationListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Namespace returns the cache namespace of the controller.
func (c *ListController) Namespace() string {
	return c.namespace
}

// Vocabulary returns the filter vocabulary of the controller.
func (c *ListController) Vocabulary() domain.FilterVocabulary {
	return c.vocab
}

// State returns the lifecycle state and the error of the last failed load.
func (c *ListController) State() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.lastErr
}

// Load shows page of filter with pageSize rows (0 keeps the current size).
//
// A fresh cached full set that covers the page is served without a network
// call unless forceRefresh is set. Otherwise the full set is rebuilt from the
// backend. A load overtaken by a newer one returns ErrSuperseded and changes
// nothing. A failed load keeps the previously shown data.
func (c *ListController) Load(ctx context.Context, filter string, page, pageSize int, forceRefresh bool) (Page, error) {
	filter, err := c.vocab.Normalize(filter)
	if err != nil {
		return Page{}, err
	}
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state = StateLoading
	if pageSize <= 0 {
		pageSize = c.pagination.PageSize
	}
	c.mu.Unlock()

	if !forceRefresh {
		var cached []domain.Order
		if c.cache.Read(cache.AllKey(c.namespace, filter), c.opts.TTL, &cached) && covers(cached, page, pageSize) {
			// entries written elsewhere may not be ordered
			domain.SortByCreatedDesc(cached)
			return c.commit(gen, filter, page, pageSize, cached, true, nil)
		}
	}

	all, failed, err := c.fetchAll(ctx, filter)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			return Page{}, ErrSuperseded
		}
		c.state = StateError
		c.lastErr = err
		return Page{}, fmt.Errorf("load %s orders: %w", filter, err)
	}
	p, err := c.commit(gen, filter, page, pageSize, all, false, failed)
	if err != nil {
		return p, err
	}
	c.persist(filter, all, p)
	return p, nil
}

// covers reports whether a full set can serve page.
func covers(all []domain.Order, page, pageSize int) bool {
	if len(all) == 0 {
		return page == 1
	}
	return (page-1)*pageSize < len(all)
}

func (c *ListController) commit(gen uint64, filter string, page, pageSize int, all []domain.Order, fromCache bool, failed []int) (Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return Page{}, ErrSuperseded
	}
	c.filter = filter
	c.all = all
	c.pagination.PageSize = pageSize
	c.pagination.CurrentPage = page
	c.pagination.TotalCount = len(all)
	c.fromCache = fromCache
	c.failed = failed
	c.state = StateReady
	c.lastErr = nil
	return c.currentLocked(), nil
}

// fetchAll rebuilds the full set: page 1, then pages 2..min(totalPages, MaxPages)
// concurrently. A failed extra page contributes no records.
func (c *ListController) fetchAll(ctx context.Context, filter string) ([]domain.Order, []int, error) {
	status, _ := c.vocab.ToStatus(filter)
	first, err := c.source.ListOrders(ctx, api.ListParams{Page: 1, Limit: c.opts.PageLimit, Status: status})
	if err != nil {
		return nil, nil, err
	}
	totalPages := first.TotalPages
	if totalPages == 0 && first.Total > 0 {
		totalPages = (first.Total + c.opts.PageLimit - 1) / c.opts.PageLimit
	}

	records := append([]domain.Order(nil), first.Data...)
	var failed []int
	if first.Total > len(first.Data) && totalPages > 1 {
		last := min(totalPages, c.opts.MaxPages)
		pages := make([][]domain.Order, last+1)
		errs := make([]error, last+1)

		// all-settled: a failed page is recorded, never cancels its siblings
		var g errgroup.Group
		for p := 2; p <= last; p++ {
			g.Go(func() error {
				resp, err := c.source.ListOrders(ctx, api.ListParams{Page: p, Limit: c.opts.PageLimit, Status: status})
				if err != nil {
					errs[p] = err
					return nil
				}
				pages[p] = resp.Data
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		for p := 2; p <= last; p++ {
			if errs[p] != nil {
				failed = append(failed, p)
				c.log.Warn("page fetch failed", "filter", filter, "page", p, "error", errs[p].Error())
				colors.StructuredWarn("orders", "fetch_page", "failed", errs[p], c.namespace,
					map[string]interface{}{"filter": filter, "page": p})
				continue
			}
			records = append(records, pages[p]...)
		}
		if totalPages > last {
			c.log.Info("full set truncated", "filter", filter, "total_pages", totalPages, "fetched_pages", last)
		}
	}

	domain.SortByCreatedDesc(records)
	return records, failed, nil
}

// persist writes the trimmed full set and the visible page.
func (c *ListController) persist(filter string, all []domain.Order, p Page) {
	c.cache.Write(cache.AllKey(c.namespace, filter), trimmed(all))
	c.cache.Write(cache.PageKey(c.namespace, filter, p.Page, p.PageSize), trimmed(p.Orders))
}

func trimmed(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, len(orders))
	for i, o := range orders {
		out[i] = o.Trimmed()
	}
	return out
}

// Current returns the page currently shown.
func (c *ListController) Current() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

func (c *ListController) currentLocked() Page {
	start, end := c.pagination.Bounds(len(c.all))
	visible := make([]domain.Order, end-start)
	for i := range visible {
		visible[i] = c.all[start+i].Clone()
	}
	return Page{
		Filter:      c.filter,
		Page:        c.pagination.CurrentPage,
		PageSize:    c.pagination.PageSize,
		TotalCount:  len(c.all),
		TotalPages:  c.pagination.TotalPages(),
		Orders:      visible,
		FromCache:   c.fromCache,
		FailedPages: append([]int(nil), c.failed...),
	}
}

// All returns a copy of the full set of the current filter.
func (c *ListController) All() []domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Order, len(c.all))
	for i, o := range c.all {
		out[i] = o.Clone()
	}
	return out
}

// Lookup finds an order of the full set by id or order number.
func (c *ListController) Lookup(id string) (domain.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range c.all {
		if o.Matches(id) {
			return o.Clone(), true
		}
	}
	return domain.Order{}, false
}

// ApplyLocalMutation patches the order in memory and in the cache right away
// and tells the mutation listeners. It returns the order as it was before the
// patch; found is false when the order is not part of the full set, in which
// case nothing is patched and the listeners are not told.
// Nothing is rolled back automatically.
func (c *ListController) ApplyLocalMutation(id string, patch domain.Patch) (prev domain.Order, found bool) {
	c.mu.Lock()
	for i := range c.all {
		if c.all[i].Matches(id) {
			prev = c.all[i].Clone()
			patch.Apply(&c.all[i])
			found = true
			break
		}
	}
	var (
		filter    string
		all       []domain.Order
		page      Page
		listeners []MutationListener
	)
	if found {
		filter = c.filter
		all = append([]domain.Order(nil), c.all...)
		page = c.currentLocked()
	}
	listeners = append(listeners, c.listeners...)
	c.mu.Unlock()

	if !found {
		return prev, false
	}
	c.persist(filter, all, page)
	for _, l := range listeners {
		l.OrderPatched(id, patch)
	}
	return prev, true
}

// notify tells the mutation listeners about a patch the backend accepted.
func (c *ListController) notify(id string, patch domain.Patch) {
	c.mu.Lock()
	listeners := append([]MutationListener(nil), c.listeners...)
	c.mu.Unlock()
	for _, l := range listeners {
		l.OrderPatched(id, patch)
	}
}

// UpdateStatus patches the status locally, then asks the backend. An order
// outside the full set is only reported to the listeners once the backend
// accepts the change. On failure the local patch stays; callers revert it with ApplyLocalMutation
// using the returned previous order.
func (c *ListController) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.IsValid() {
		return domain.Order{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	patch := domain.Patch{OrderStatus: status}
	prev, found := c.ApplyLocalMutation(id, patch)
	if err := c.source.UpdateStatus(ctx, id, status); err != nil {
		return prev, fmt.Errorf("update status of %s: %w", id, err)
	}
	if !found {
		c.notify(id, patch)
	}
	return prev, nil
}

// Complete marks the order completed locally, then asks the backend.
func (c *ListController) Complete(ctx context.Context, id string) (domain.Order, error) {
	patch := domain.Patch{OrderStatus: domain.StatusCompleted}
	prev, found := c.ApplyLocalMutation(id, patch)
	if err := c.source.Complete(ctx, id); err != nil {
		return prev, fmt.Errorf("complete %s: %w", id, err)
	}
	if !found {
		c.notify(id, patch)
	}
	return prev, nil
}

// Revert undoes patch on id using the previous order returned by a mutation.
func (c *ListController) Revert(id string, prev domain.Order, patch domain.Patch) {
	if prev.Key() == "" {
		return
	}
	c.ApplyLocalMutation(id, domain.RevertPatch(prev, patch))
}

// Search filters the visible page by a case-insensitive substring over id,
// order number, customer names, email and phone.
func (c *ListController) Search(term string) []domain.Order {
	return search.Filter(c.search, c.Current().Orders, term)
}

// SetPageSize changes the visible page size, resets to page 1 and persists
// the preference.
func (c *ListController) SetPageSize(n int) (Page, error) {
	if n <= 0 {
		return c.Current(), fmt.Errorf("page size must be positive, got %d", n)
	}
	c.mu.Lock()
	c.pagination.SetPageSize(n)
	p := c.currentLocked()
	prefs := c.prefs
	c.mu.Unlock()

	if prefs != nil {
		if err := prefs.SavePageSize(c.namespace, n); err != nil {
			return p, fmt.Errorf("save page size: %w", err)
		}
	}
	return p, nil
}

// GoToPage shows another page of the current full set without fetching.
func (c *ListController) GoToPage(page int) Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	if total := c.pagination.TotalPages(); page > total {
		page = total
	}
	c.pagination.CurrentPage = page
	return c.currentLocked()
}

// Stats summarizes the full set of the current filter.
func (c *ListController) Stats() domain.OrderStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Stats(c.all)
}
