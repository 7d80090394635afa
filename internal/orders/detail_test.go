package orders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetailSource struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	err    error
	calls  int
	onGet  func(ctx context.Context) error
}

func (f *fakeDetailSource) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	f.calls++
	hook := f.onGet
	f.mu.Unlock()
	if hook != nil {
		if err := hook(ctx); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, errBackend
	}
	o = o.Clone()
	return &o, nil
}

func (f *fakeDetailSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type staticLookup map[string]domain.Order

func (s staticLookup) Lookup(id string) (domain.Order, bool) {
	o, ok := s[id]
	return o, ok
}

func detailOrder() domain.Order {
	return domain.Order{
		ID:          "66aa",
		OrderNumber: "ORD-1001",
		Customer:    &domain.Customer{Name: "Meera", Email: "meera@example.com"},
		Items:       []domain.LineItem{{Quantity: 2, Price: 499}},
		TotalAmount: 998,
		OrderStatus: domain.StatusPlaced,
	}
}

func TestGetDetailsCachesForSession(t *testing.T) {
	src := &fakeDetailSource{orders: map[string]domain.Order{"66aa": detailOrder()}}
	ctrl := NewDetailController(src, nil, DetailOptions{})
	ctx := context.Background()

	o, err := ctrl.GetDetails(ctx, "66aa")
	require.NoError(t, err)
	assert.Equal(t, "Meera", o.Customer.Name)

	_, err = ctrl.GetDetails(ctx, "66aa")
	require.NoError(t, err)
	_, err = ctrl.GetDetails(ctx, "ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, 1, src.callCount())
	assert.True(t, ctrl.Cached("ORD-1001"))
}

func TestGetDetailsNormalizesMissingItems(t *testing.T) {
	o := detailOrder()
	o.Items = nil
	src := &fakeDetailSource{orders: map[string]domain.Order{"66aa": o}}
	ctrl := NewDetailController(src, nil, DetailOptions{})

	got, err := ctrl.GetDetails(context.Background(), "66aa")
	require.NoError(t, err)
	assert.True(t, got.IsDetailed())
}

func TestGetDetailsFailureCachesNothing(t *testing.T) {
	src := &fakeDetailSource{orders: map[string]domain.Order{"66aa": detailOrder()}, err: errBackend}
	ctrl := NewDetailController(src, nil, DetailOptions{})
	ctx := context.Background()

	_, err := ctrl.GetDetails(ctx, "66aa")
	require.ErrorIs(t, err, errBackend)
	assert.False(t, ctrl.Cached("66aa"))

	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()
	_, err = ctrl.GetDetails(ctx, "66aa")
	require.NoError(t, err)
	assert.Equal(t, 2, src.callCount())
}

func TestGetDetailsTimeout(t *testing.T) {
	src := &fakeDetailSource{
		orders: map[string]domain.Order{"66aa": detailOrder()},
		onGet: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	ctrl := NewDetailController(src, nil, DetailOptions{Timeout: 20 * time.Millisecond})

	_, err := ctrl.GetDetails(context.Background(), "66aa")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ctrl.Cached("66aa"))
}

func TestGetDetailsJoinsInFlightFetch(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	src := &fakeDetailSource{
		orders: map[string]domain.Order{"66aa": detailOrder()},
		onGet: func(context.Context) error {
			once.Do(func() { close(entered) })
			<-release
			return nil
		},
	}
	ctrl := NewDetailController(src, nil, DetailOptions{})
	ctx := context.Background()

	first := make(chan error, 1)
	go func() {
		_, err := ctrl.GetDetails(ctx, "66aa")
		first <- err
	}()
	<-entered

	second := make(chan domain.Order, 1)
	go func() {
		o, err := ctrl.GetDetails(ctx, "66aa")
		assert.NoError(t, err)
		second <- o
	}()

	// the second caller must be parked on the first fetch, not calling the backend
	time.Sleep(20 * time.Millisecond)
	close(release)

	require.NoError(t, <-first)
	o := <-second
	assert.Equal(t, "66aa", o.ID)
	assert.Equal(t, 1, src.callCount())
}

func TestGetDetailsWaitLimit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	src := &fakeDetailSource{
		orders: map[string]domain.Order{"66aa": detailOrder()},
		onGet: func(context.Context) error {
			close(entered)
			<-release
			return nil
		},
	}
	expired := make(chan time.Time)
	close(expired)
	ctrl := NewDetailController(src, nil, DetailOptions{
		After: func(time.Duration) <-chan time.Time { return expired },
	})

	go func() { _, _ = ctrl.GetDetails(context.Background(), "66aa") }()
	<-entered

	_, err := ctrl.GetDetails(context.Background(), "66aa")
	require.ErrorIs(t, err, ErrDetailUnavailable)
	assert.Equal(t, 1, src.callCount())
}

func TestGetDetailsFallsBackToListCustomer(t *testing.T) {
	o := detailOrder()
	o.Customer = &domain.Customer{}
	src := &fakeDetailSource{orders: map[string]domain.Order{"66aa": o}}
	list := staticLookup{"66aa": {ID: "66aa", Customer: &domain.Customer{Name: "Asha", Phone: "9988776655"}}}
	ctrl := NewDetailController(src, list, DetailOptions{})

	got, err := ctrl.GetDetails(context.Background(), "66aa")
	require.NoError(t, err)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Asha", got.Customer.Name)
	assert.Equal(t, "9988776655", got.Customer.Phone)
}

func TestOrderPatchedUpdatesCachedDetail(t *testing.T) {
	src := &fakeDetailSource{orders: map[string]domain.Order{"66aa": detailOrder()}}
	ctrl := NewDetailController(src, nil, DetailOptions{})
	ctx := context.Background()

	_, err := ctrl.GetDetails(ctx, "66aa")
	require.NoError(t, err)

	ctrl.OrderPatched("ORD-1001", domain.Patch{OrderStatus: domain.StatusShipped})
	got, err := ctrl.GetDetails(ctx, "66aa")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, got.OrderStatus)

	// patches for orders never opened are ignored
	ctrl.OrderPatched("other", domain.Patch{OrderStatus: domain.StatusShipped})
	assert.False(t, ctrl.Cached("other"))
}

func TestInvalidateDropsAllAliases(t *testing.T) {
	src := &fakeDetailSource{orders: map[string]domain.Order{"66aa": detailOrder()}}
	ctrl := NewDetailController(src, nil, DetailOptions{})

	_, err := ctrl.GetDetails(context.Background(), "66aa")
	require.NoError(t, err)
	ctrl.Invalidate("ORD-1001")
	assert.False(t, ctrl.Cached("66aa"))
	assert.False(t, ctrl.Cached("ORD-1001"))
}
