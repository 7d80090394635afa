package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/api"
	"github.com/cristianoliveira/orderdesk/internal/domain"
)

var errBackend = errors.New("backend unavailable")

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: baseTime}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// makeOrders returns n orders, o000 the newest.
func makeOrders(n int) []domain.Order {
	out := make([]domain.Order, n)
	for i := range out {
		out[i] = domain.Order{
			ID:          fmt.Sprintf("o%03d", i),
			OrderNumber: fmt.Sprintf("ORD-%03d", i),
			Customer:    &domain.Customer{Name: fmt.Sprintf("Customer %d", i), Phone: fmt.Sprintf("90000%05d", i)},
			TotalAmount: domain.Amount(100 + i),
			OrderStatus: domain.StatusPlaced,
			CreatedAt:   baseTime.Add(-time.Duration(i) * time.Minute),
		}
	}
	return out
}

type fakeBackend struct {
	mu        sync.Mutex
	orders    []domain.Order
	failPages map[int]bool
	failAll   bool
	calls     []api.ListParams
	onList    func(api.ListParams)

	updateErr error
	onUpdate  func(id string, status domain.OrderStatus)
	updates   []string
	completed []string
}

func newFakeBackend(orders []domain.Order) *fakeBackend {
	return &fakeBackend{orders: orders, failPages: map[int]bool{}}
}

func (f *fakeBackend) ListOrders(_ context.Context, p api.ListParams) (*api.ListResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	hook := f.onList
	f.mu.Unlock()
	if hook != nil {
		hook(p)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll || f.failPages[p.Page] {
		return nil, errBackend
	}
	var matching []domain.Order
	for _, o := range f.orders {
		if p.Status == "" || string(o.OrderStatus) == p.Status || string(o.PaymentStatus) == p.Status {
			matching = append(matching, o.Clone())
		}
	}
	start, end := domain.PageBounds(p.Page, p.Limit, len(matching))
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (len(matching) + p.Limit - 1) / p.Limit
	}
	return &api.ListResponse{Data: matching[start:end], Total: len(matching), TotalPages: totalPages}, nil
}

func (f *fakeBackend) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	if f.onUpdate != nil {
		f.onUpdate(id, status)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id+"="+string(status))
	return f.updateErr
}

func (f *fakeBackend) Complete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, id)
	return f.updateErr
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) lastCall() api.ListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func orderIDs(orders []domain.Order) []string {
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}
