package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/logging"
)

// ListLookup finds the list projection of an order.
type ListLookup interface {
	Lookup(id string) (domain.Order, bool)
}

// DetailOptions tunes the detail controller.
type DetailOptions struct {
	// Timeout bounds one detail fetch.
	Timeout time.Duration
	// WaitLimit bounds how long a caller waits for a concurrent fetch of the same id.
	WaitLimit time.Duration
	// After is the timer source. Defaults to time.After.
	After func(time.Duration) <-chan time.Time
}

// DefaultDetailOptions returns a 15 second fetch timeout and a 5 second wait limit.
func DefaultDetailOptions() DetailOptions {
	return DetailOptions{Timeout: 15 * time.Second, WaitLimit: 5 * time.Second, After: time.After}
}

// DetailController fetches full order details on demand and keeps them for
// the rest of the session.
type DetailController struct {
	source DetailSource
	list   ListLookup
	opts   DetailOptions
	log    logging.Logger

	mu       sync.Mutex
	details  map[string]*domain.Order
	inflight map[string]chan struct{}
}

// NewDetailController builds a detail controller. list may be nil.
func NewDetailController(source DetailSource, list ListLookup, opts DetailOptions) *DetailController {
	def := DefaultDetailOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.WaitLimit <= 0 {
		opts.WaitLimit = def.WaitLimit
	}
	if opts.After == nil {
		opts.After = def.After
	}
	return &DetailController{
		source:   source,
		list:     list,
		opts:     opts,
		log:      logging.With("component", "order_detail"),
		details:  make(map[string]*domain.Order),
		inflight: make(map[string]chan struct{}),
	}
}

// GetDetails returns the full detail of id with its customer reconciled
// against the list projection and the delivery address.
//
// A cached detail is returned without a network call. A caller arriving while
// another fetch of id is running waits for it up to the wait limit and then
// reads the cache again, failing with ErrDetailUnavailable if it is still
// empty. Failed fetches cache nothing.
func (c *DetailController) GetDetails(ctx context.Context, id string) (domain.Order, error) {
	c.mu.Lock()
	if o, ok := c.details[id]; ok {
		cp := o.Clone()
		c.mu.Unlock()
		return c.reconciled(id, cp), nil
	}
	if done, ok := c.inflight[id]; ok {
		c.mu.Unlock()
		return c.await(ctx, id, done)
	}
	done := make(chan struct{})
	c.inflight[id] = done
	c.mu.Unlock()

	o, err := c.fetch(ctx, id)

	var cp domain.Order
	c.mu.Lock()
	delete(c.inflight, id)
	if err == nil {
		c.storeLocked(id, o)
		cp = o.Clone()
	}
	c.mu.Unlock()
	close(done)

	if err != nil {
		return domain.Order{}, err
	}
	return c.reconciled(id, cp), nil
}

func (c *DetailController) fetch(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	start := time.Now()
	o, err := c.source.GetOrder(ctx, id)
	if err != nil {
		c.log.Warn("detail fetch failed", "order_id", id, "error", err.Error())
		colors.StructuredWarn("order_detail", "fetch", "failed", err, id, nil)
		return nil, fmt.Errorf("get details of %s: %w", id, err)
	}
	if o.Items == nil {
		o.Items = []domain.LineItem{}
	}
	c.log.Debug("detail fetched", "order_id", id, "duration_ms", time.Since(start).Milliseconds())
	return o, nil
}

func (c *DetailController) await(ctx context.Context, id string, done <-chan struct{}) (domain.Order, error) {
	select {
	case <-done:
	case <-c.opts.After(c.opts.WaitLimit):
	case <-ctx.Done():
		return domain.Order{}, ctx.Err()
	}
	c.mu.Lock()
	o, ok := c.details[id]
	var cp domain.Order
	if ok {
		cp = o.Clone()
	}
	c.mu.Unlock()
	if !ok {
		return domain.Order{}, fmt.Errorf("%w: %s", ErrDetailUnavailable, id)
	}
	return c.reconciled(id, cp), nil
}

// storeLocked caches o under the requested id and both of its identifiers.
func (c *DetailController) storeLocked(id string, o *domain.Order) {
	for _, key := range []string{id, o.ID, o.OrderNumber} {
		if key != "" {
			c.details[key] = o
		}
	}
}

func (c *DetailController) reconciled(id string, o domain.Order) domain.Order {
	out := o
	var listCustomer *domain.Customer
	if c.list != nil {
		if l, ok := c.list.Lookup(id); ok {
			listCustomer = l.Customer
		} else if l, ok := c.list.Lookup(o.Key()); ok {
			listCustomer = l.Customer
		}
	}
	out.Customer = Reconcile(o.Customer, listCustomer, o.DeliveryAddress)
	return out
}

// Cached reports whether a detail for id is held.
func (c *DetailController) Cached(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.details[id]
	return ok
}

// OrderPatched applies a list mutation to the cached detail, if any.
func (c *DetailController) OrderPatched(id string, patch domain.Patch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if o, ok := c.details[id]; ok {
		patch.Apply(o)
	}
}

// Invalidate drops the cached detail of id under all of its identifiers.
func (c *DetailController) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.details[id]
	if !ok {
		return
	}
	for key, v := range c.details {
		if v == o {
			delete(c.details, key)
		}
	}
}

var _ MutationListener = (*DetailController)(nil)
