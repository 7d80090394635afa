package orders

import (
	"context"
	"sync"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/api"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/logging"
)

// PollerState is the lifecycle of a Poller.
type PollerState int

const (
	PollerUninitialized PollerState = iota
	PollerBaselineSet
	PollerPolling
)

func (s PollerState) String() string {
	switch s {
	case PollerBaselineSet:
		return "baseline_set"
	case PollerPolling:
		return "polling"
	default:
		return "uninitialized"
	}
}

// Sink receives every notification the poller emits.
type Sink interface {
	Emit(ctx context.Context, n domain.Notification, o domain.Order)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n domain.Notification, o domain.Order)

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, n domain.Notification, o domain.Order) {
	f(ctx, n, o)
}

// PollerOptions tunes the poller. Zero values take the defaults.
type PollerOptions struct {
	Interval      time.Duration
	BaselineDelay time.Duration
	LatestLimit   int
	// TTL is the lifetime of a notification.
	TTL      time.Duration
	Currency string
	Now      func() time.Time
	After    func(time.Duration) <-chan time.Time
	// TickChan replaces the interval ticker.
	TickChan <-chan time.Time
	Sinks    []Sink
}

// DefaultPollerOptions polls every 10 seconds after a 2 second delay, looks at
// the latest 10 orders and keeps notifications for 10 seconds.
func DefaultPollerOptions() PollerOptions {
	return PollerOptions{
		Interval:      10 * time.Second,
		BaselineDelay: 2 * time.Second,
		LatestLimit:   10,
		TTL:           10 * time.Second,
		Currency:      "₹",
		Now:           time.Now,
		After:         time.After,
	}
}

// Poller watches the order count and turns new orders into short-lived notifications.
type Poller struct {
	source ListSource
	opts   PollerOptions
	log    logging.Logger

	mu            sync.Mutex
	state         PollerState
	lastCount     int
	baselineKnown bool
	live          []domain.Notification
}

// NewPoller builds a poller over source.
func NewPoller(source ListSource, opts PollerOptions) *Poller {
	def := DefaultPollerOptions()
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.BaselineDelay <= 0 {
		opts.BaselineDelay = def.BaselineDelay
	}
	if opts.LatestLimit <= 0 {
		opts.LatestLimit = def.LatestLimit
	}
	if opts.TTL <= 0 {
		opts.TTL = def.TTL
	}
	if opts.Currency == "" {
		opts.Currency = def.Currency
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	if opts.After == nil {
		opts.After = def.After
	}
	return &Poller{source: source, opts: opts, log: logging.With("component", "poller")}
}

// AddSink registers s for future notifications.
func (p *Poller) AddSink(s Sink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts.Sinks = append(p.opts.Sinks, s)
}

// Run establishes the baseline, waits the baseline delay and then checks for
// new orders on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	p.Baseline(ctx)

	select {
	case <-ctx.Done():
		return nil
	case <-p.opts.After(p.opts.BaselineDelay):
	}

	p.mu.Lock()
	p.state = PollerPolling
	p.mu.Unlock()

	tickChan, cleanupTicker := p.setupTickChan()
	defer cleanupTicker()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tickChan:
			p.Check(ctx)
		}
	}
}

func (p *Poller) setupTickChan() (<-chan time.Time, func()) {
	if p.opts.TickChan != nil {
		return p.opts.TickChan, func() {}
	}
	ticker := time.NewTicker(p.opts.Interval)
	return ticker.C, ticker.Stop
}

// Baseline records the current order total. When the fetch fails the first
// successful Check records it instead, so no notification fires before a
// baseline exists.
func (p *Poller) Baseline(ctx context.Context) {
	resp, err := p.source.ListOrders(ctx, api.ListParams{Page: 1, Limit: 1})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = PollerBaselineSet
	if err != nil {
		p.log.Warn("baseline fetch failed", "error", err.Error())
		colors.StructuredWarn("poller", "baseline", "failed", err, "", nil)
		return
	}
	p.lastCount = orderCount(resp)
	p.baselineKnown = true
	p.log.Debug("baseline set", "count", p.lastCount)
}

// Check fetches the latest orders once and emits notifications for orders
// beyond the last known count. Errors are swallowed and leave the count unchanged.
func (p *Poller) Check(ctx context.Context) {
	resp, err := p.source.ListOrders(ctx, api.ListParams{Page: 1, Limit: p.opts.LatestLimit})
	if err != nil {
		p.log.Debug("poll failed", "error", err.Error())
		colors.StructuredDebug("poller", "check", "failed", err, "", nil)
		return
	}
	current := orderCount(resp)
	now := p.opts.Now()

	type emitted struct {
		n domain.Notification
		o domain.Order
	}
	var out []emitted

	p.mu.Lock()
	p.pruneLocked(now)
	if !p.baselineKnown {
		p.lastCount = current
		p.baselineKnown = true
		p.mu.Unlock()
		return
	}
	if current > p.lastCount {
		latest := append([]domain.Order(nil), resp.Data...)
		domain.SortByCreatedDesc(latest)
		n := min(current-p.lastCount, len(latest))
		// oldest of the new orders first so the newest ends up on top
		for i := n - 1; i >= 0; i-- {
			o := latest[i]
			if p.liveForLocked(o.Key()) {
				continue
			}
			notif := domain.NewOrderNotification(o, p.opts.Currency, now)
			p.live = append([]domain.Notification{notif}, p.live...)
			out = append(out, emitted{notif, o})
		}
	}
	p.lastCount = current
	sinks := append([]Sink(nil), p.opts.Sinks...)
	p.mu.Unlock()

	for _, e := range out {
		p.log.Info("new order", "order_id", e.n.OrderID, "notification_id", e.n.ID)
		for _, s := range sinks {
			s.Emit(ctx, e.n, e.o)
		}
	}
}

func orderCount(resp *api.ListResponse) int {
	if resp.Total > 0 {
		return resp.Total
	}
	return len(resp.Data)
}

func (p *Poller) liveForLocked(orderID string) bool {
	for _, n := range p.live {
		if n.OrderID == orderID {
			return true
		}
	}
	return false
}

func (p *Poller) pruneLocked(now time.Time) {
	kept := p.live[:0]
	for _, n := range p.live {
		if now.Sub(n.CreatedAt) < p.opts.TTL {
			kept = append(kept, n)
		}
	}
	p.live = kept
}

// Active returns the live notifications, newest first. Expired
// notifications are pruned here and in Check; there is no timer.
func (p *Poller) Active() []domain.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pruneLocked(p.opts.Now())
	return append([]domain.Notification(nil), p.live...)
}

// Dismiss removes the notification with id. It reports whether one was removed.
func (p *Poller) Dismiss(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, n := range p.live {
		if n.ID == id {
			p.live = append(p.live[:i], p.live[i+1:]...)
			return true
		}
	}
	return false
}

// State returns the lifecycle state.
func (p *Poller) State() PollerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// LastCount returns the last known order total.
func (p *Poller) LastCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCount
}
