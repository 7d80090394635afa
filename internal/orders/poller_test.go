package orders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/api"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countSource serves the newest orders of a growing order book.
type countSource struct {
	mu     sync.Mutex
	orders []domain.Order
	total  int
	err    error
	calls  []api.ListParams
}

func (s *countSource) ListOrders(_ context.Context, p api.ListParams) (*api.ListResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, p)
	if s.err != nil {
		return nil, s.err
	}
	n := min(p.Limit, len(s.orders))
	return &api.ListResponse{Data: append([]domain.Order(nil), s.orders[:n]...), Total: s.total}, nil
}

func (s *countSource) set(total int, orders []domain.Order, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total, s.orders, s.err = total, orders, err
}

type collectingSink struct {
	mu   sync.Mutex
	got  []domain.Notification
	seen chan domain.Notification
}

func (c *collectingSink) Emit(_ context.Context, n domain.Notification, _ domain.Order) {
	c.mu.Lock()
	c.got = append(c.got, n)
	c.mu.Unlock()
	if c.seen != nil {
		c.seen <- n
	}
}

func newTestPoller(src *countSource, clock *fakeClock, sink Sink) *Poller {
	return NewPoller(src, PollerOptions{Now: clock.Now, Sinks: []Sink{sink}})
}

func TestPollerNotifiesDelta(t *testing.T) {
	orders := makeOrders(10)
	src := &countSource{}
	src.set(40, orders[2:], nil)
	clock := newFakeClock()
	sink := &collectingSink{}
	p := newTestPoller(src, clock, sink)
	ctx := context.Background()

	p.Baseline(ctx)
	assert.Equal(t, PollerBaselineSet, p.State())
	assert.Equal(t, 40, p.LastCount())
	assert.Equal(t, 1, src.calls[0].Limit)

	src.set(42, orders, nil)
	p.Check(ctx)
	assert.Equal(t, 10, src.calls[1].Limit)
	assert.Equal(t, 42, p.LastCount())

	active := p.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "o000", active[0].OrderID, "newest first")
	assert.Equal(t, "o001", active[1].OrderID)
	assert.Equal(t, "New order placed by Customer 0 - ₹100", active[0].Message)
	assert.Len(t, sink.got, 2)
}

func TestPollerDeltaLargerThanLatestWindow(t *testing.T) {
	src := &countSource{}
	src.set(0, nil, nil)
	p := newTestPoller(src, newFakeClock(), &collectingSink{})
	ctx := context.Background()
	p.Baseline(ctx)

	src.set(25, makeOrders(25), nil)
	p.Check(ctx)
	assert.Len(t, p.Active(), 10)
	assert.Equal(t, 25, p.LastCount())
}

func TestPollerNoNotificationWhenCountDrops(t *testing.T) {
	src := &countSource{}
	src.set(10, makeOrders(10), nil)
	p := newTestPoller(src, newFakeClock(), &collectingSink{})
	ctx := context.Background()
	p.Baseline(ctx)

	src.set(8, makeOrders(8), nil)
	p.Check(ctx)
	assert.Empty(t, p.Active())
	assert.Equal(t, 8, p.LastCount())
}

func TestPollerOneLiveNotificationPerOrder(t *testing.T) {
	orders := makeOrders(3)
	src := &countSource{}
	src.set(5, orders[1:], nil)
	clock := newFakeClock()
	p := newTestPoller(src, clock, &collectingSink{})
	ctx := context.Background()
	p.Baseline(ctx)

	src.set(6, orders, nil)
	p.Check(ctx)
	require.Len(t, p.Active(), 1)

	// the count moves again but the list still leads with the same order
	clock.Advance(3 * time.Second)
	src.set(7, orders, nil)
	p.Check(ctx)
	active := p.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "o000", active[0].OrderID)
	assert.Equal(t, 7, p.LastCount())
}

func TestPollerNotificationsExpire(t *testing.T) {
	orders := makeOrders(2)
	src := &countSource{}
	src.set(1, orders[1:], nil)
	clock := newFakeClock()
	p := newTestPoller(src, clock, &collectingSink{})
	ctx := context.Background()
	p.Baseline(ctx)

	src.set(2, orders, nil)
	p.Check(ctx)
	require.Len(t, p.Active(), 1)

	clock.Advance(9 * time.Second)
	assert.Len(t, p.Active(), 1)
	clock.Advance(time.Second)
	assert.Empty(t, p.Active())
}

func TestPollerDismiss(t *testing.T) {
	orders := makeOrders(2)
	src := &countSource{}
	src.set(0, nil, nil)
	p := newTestPoller(src, newFakeClock(), &collectingSink{})
	ctx := context.Background()
	p.Baseline(ctx)

	src.set(2, orders, nil)
	p.Check(ctx)
	active := p.Active()
	require.Len(t, active, 2)

	assert.True(t, p.Dismiss(active[0].ID))
	assert.False(t, p.Dismiss(active[0].ID))
	remaining := p.Active()
	require.Len(t, remaining, 1)
	assert.Equal(t, active[1].ID, remaining[0].ID)
}

func TestPollerSwallowsErrors(t *testing.T) {
	src := &countSource{}
	src.set(3, makeOrders(3), nil)
	p := newTestPoller(src, newFakeClock(), &collectingSink{})
	ctx := context.Background()
	p.Baseline(ctx)

	src.set(9, nil, errBackend)
	assert.NotPanics(t, func() { p.Check(ctx) })
	assert.Equal(t, 3, p.LastCount())
	assert.Empty(t, p.Active())
}

func TestPollerFailedBaselineNeverNotifiesFirst(t *testing.T) {
	src := &countSource{}
	src.set(0, nil, errBackend)
	p := newTestPoller(src, newFakeClock(), &collectingSink{})
	ctx := context.Background()

	p.Baseline(ctx)
	assert.Equal(t, PollerBaselineSet, p.State())

	src.set(50, makeOrders(10), nil)
	p.Check(ctx)
	assert.Empty(t, p.Active(), "first successful poll only records the baseline")
	assert.Equal(t, 50, p.LastCount())

	src.set(51, makeOrders(10), nil)
	p.Check(ctx)
	assert.Len(t, p.Active(), 1)
}

func TestPollerRunWaitsForBaselineAndDelay(t *testing.T) {
	orders := makeOrders(3)
	src := &countSource{}
	src.set(2, orders[1:], nil)
	clock := newFakeClock()
	sink := &collectingSink{seen: make(chan domain.Notification, 4)}

	delay := make(chan time.Time)
	var delayAsked time.Duration
	ticks := make(chan time.Time)
	p := NewPoller(src, PollerOptions{
		Now:      clock.Now,
		TickChan: ticks,
		Sinks:    []Sink{sink},
		After: func(d time.Duration) <-chan time.Time {
			delayAsked = d
			return delay
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// the delay channel is only requested after the baseline fetch
	delay <- baseTime
	assert.Equal(t, 2*time.Second, delayAsked)
	assert.Equal(t, 2, p.LastCount())

	src.set(3, orders, nil)
	ticks <- baseTime
	select {
	case n := <-sink.seen:
		assert.Equal(t, "o000", n.OrderID)
	case <-time.After(time.Second):
		t.Fatal("no notification emitted")
	}
	assert.Equal(t, PollerPolling, p.State())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}

func TestPollerRunStopsBeforeDelay(t *testing.T) {
	src := &countSource{}
	src.set(1, makeOrders(1), nil)
	p := NewPoller(src, PollerOptions{
		After: func(time.Duration) <-chan time.Time { return make(chan time.Time) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Run(ctx))
	assert.NotEqual(t, PollerPolling, p.State())
}
