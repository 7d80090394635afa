package state

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/orderdesk/internal/api"
	"github.com/cristianoliveira/orderdesk/internal/cache"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	tuierrors "github.com/cristianoliveira/orderdesk/internal/errors"
	"github.com/cristianoliveira/orderdesk/internal/orders"
	"github.com/cristianoliveira/orderdesk/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeBackend struct {
	mu        sync.Mutex
	orders    []domain.Order
	listErr   error
	updateErr error
	calls     []api.ListParams
	updates   []string
	completed []string
}

func (f *fakeBackend) ListOrders(_ context.Context, p api.ListParams) (*api.ListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, p)
	if f.listErr != nil {
		return nil, f.listErr
	}
	var matching []domain.Order
	for _, o := range f.orders {
		if p.Status == "" || string(o.OrderStatus) == p.Status || string(o.PaymentStatus) == p.Status {
			matching = append(matching, o.Clone())
		}
	}
	start, end := domain.PageBounds(p.Page, p.Limit, len(matching))
	return &api.ListResponse{Data: matching[start:end], Total: len(matching), TotalPages: (len(matching) + p.Limit - 1) / p.Limit}, nil
}

func (f *fakeBackend) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.Matches(id) {
			d := o.Clone()
			d.Items = []domain.LineItem{}
			return &d, nil
		}
	}
	return nil, api.ErrNotFound
}

func (f *fakeBackend) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
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

func (f *fakeBackend) lastCall() api.ListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func makeOrders(n int) []domain.Order {
	out := make([]domain.Order, n)
	for i := range out {
		out[i] = domain.Order{
			ID:            fmt.Sprintf("o%03d", i),
			OrderNumber:   fmt.Sprintf("ORD-%03d", i),
			Customer:      &domain.Customer{Name: fmt.Sprintf("Customer %d", i)},
			TotalAmount:   domain.Amount(100 + i),
			OrderStatus:   domain.StatusPlaced,
			PaymentStatus: domain.PaymentPaid,
			CreatedAt:     baseTime.Add(-time.Duration(i) * time.Minute),
		}
	}
	return out
}

type fixture struct {
	backend  *fakeBackend
	settings *settings.Manager
	poller   *orders.Poller
	hooked   []string
	model    *Model
}

func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	backend := &fakeBackend{orders: makeOrders(n)}
	lc := cache.NewLocalCache(cache.NewMemoryStore(0))
	mgr, err := settings.NewManager(filepath.Join(t.TempDir(), settings.FileName))
	require.NoError(t, err)

	orderList := orders.NewListController(backend, lc, domain.OrderFilters, cache.NamespaceOrders, nil, orders.ListOptions{}).
		WithPageSizeStore(mgr)
	txnList := orders.NewListController(backend, lc, domain.TransactionFilters, cache.NamespaceTransactions, nil, orders.ListOptions{}).
		WithPageSizeStore(mgr)
	details := orders.NewDetailController(backend, orderList, orders.DetailOptions{})
	orderList.AddMutationListener(details)

	f := &fixture{
		backend:  backend,
		settings: mgr,
		poller:   orders.NewPoller(backend, orders.DefaultPollerOptions()),
	}
	m, err := NewModel(Deps{
		Orders:       orderList,
		Transactions: txnList,
		Details:      details,
		Status:       backend,
		Poller:       f.poller,
		Settings:     mgr,
		OnStatusSent: func(_ context.Context, o domain.Order, previous domain.OrderStatus) error {
			f.hooked = append(f.hooked, fmt.Sprintf("%s:%s->%s", o.Key(), previous, o.OrderStatus))
			return nil
		},
		Currency:     "₹",
		ToastRefresh: -1,
	})
	require.NoError(t, err)
	f.model = m
	return f
}

// run executes cmd and feeds every resulting message back into the model.
func (f *fixture) run(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := f.model.Update(msg)
			queue = append(queue, next)
		}
	}
}

func (f *fixture) press(keys ...string) {
	for _, k := range keys {
		_, cmd := f.model.Update(keyMsg(k))
		f.run(cmd)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func lastMessage(t *testing.T, m *Model) tuierrors.Message {
	t.Helper()
	msgs := m.Messages()
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1]
}

func TestNewModelRequiresControllers(t *testing.T) {
	_, err := NewModel(Deps{})
	assert.Error(t, err)
}

func TestInitLoadsFirstPage(t *testing.T) {
	f := newFixture(t, 25)
	f.run(f.model.Init())

	view := f.model.View()
	assert.Contains(t, view, "ORD-000")
	assert.NotContains(t, view, "ORD-010")
	assert.Contains(t, view, "Page 1 of 3 (10 of 25)")
	assert.Contains(t, view, "25 orders, 25 pending")
}

func TestPagingUsesLoadedSet(t *testing.T) {
	f := newFixture(t, 25)
	f.run(f.model.Init())
	calls := len(f.backend.calls)

	f.press("n")
	view := f.model.View()
	assert.Contains(t, view, "ORD-010")
	assert.Contains(t, view, "Page 2 of 3")
	assert.Len(t, f.backend.calls, calls)

	f.press("n", "n")
	assert.Contains(t, f.model.View(), "Page 3 of 3 (5 of 25)")

	f.press("p")
	assert.Contains(t, f.model.View(), "Page 2 of 3")
}

func TestCursorStaysInBounds(t *testing.T) {
	f := newFixture(t, 3)
	f.run(f.model.Init())

	f.press("k")
	assert.Equal(t, 0, f.model.active().cursor)
	f.press("j", "j", "j", "j")
	assert.Equal(t, 2, f.model.active().cursor)
	assert.Equal(t, "o002", f.model.selectedOrderID())
}

func TestFilterCycleReloadsAndPersists(t *testing.T) {
	f := newFixture(t, 5)
	f.run(f.model.Init())

	f.press("f")
	assert.Equal(t, "PLACED", f.model.active().filter)
	assert.Equal(t, "PLACED", f.backend.lastCall().Status)
	assert.Equal(t, "PLACED", f.settings.Filter(cache.NamespaceOrders))
	assert.Contains(t, f.model.View(), "filter: PLACED")
}

func TestPageSizeCycleResetsToFirstPage(t *testing.T) {
	f := newFixture(t, 25)
	f.run(f.model.Init())
	f.press("n")

	f.press("s")
	view := f.model.View()
	assert.Contains(t, view, "Page 1 of 2 (20 of 25)")
	assert.Equal(t, 20, f.settings.PageSize(cache.NamespaceOrders))
}

func TestSwitchTabLoadsTransactions(t *testing.T) {
	f := newFixture(t, 3)
	f.run(f.model.Init())

	f.press("tab")
	assert.Equal(t, settings.TabTransactions, f.model.Tab())
	view := f.model.View()
	assert.Contains(t, view, "TRANSACTION")
	assert.Contains(t, view, "3 transactions, 3 successful")
	assert.Equal(t, settings.TabTransactions, f.settings.Settings().ActiveTab)

	f.press("f")
	assert.Equal(t, domain.TxnSuccess, f.model.active().filter)
	assert.Equal(t, string(domain.PaymentPaid), f.backend.lastCall().Status)
}

func TestSearchFiltersVisiblePage(t *testing.T) {
	f := newFixture(t, 25)
	f.run(f.model.Init())

	_, _ = f.model.Update(keyMsg("/"))
	assert.True(t, f.model.searching)
	f.press("ORD-003")
	assert.Equal(t, []string{"o003"}, orderKeys(f.model.visibleOrders()))

	f.press("enter")
	assert.False(t, f.model.searching)
	assert.Contains(t, f.model.View(), "Search: ORD-003")

	f.press("esc")
	assert.Len(t, f.model.visibleOrders(), 10)

	_, _ = f.model.Update(keyMsg("/"))
	f.press("ORD-012")
	assert.Empty(t, f.model.visibleOrders(), "search covers the visible page only")
	assert.Contains(t, f.model.View(), "No orders match")
}

func TestLoadFailureKeepsRowsAndReports(t *testing.T) {
	f := newFixture(t, 5)
	f.run(f.model.Init())

	f.backend.mu.Lock()
	f.backend.listErr = api.ErrCircuitOpen
	f.backend.mu.Unlock()
	f.press("r")

	assert.Contains(t, f.model.View(), "ORD-000")
	msg := lastMessage(t, f.model)
	assert.Equal(t, tuierrors.MessageTypeError, msg.Type)
	assert.Contains(t, msg.Text, "backend unavailable")
}

func TestStatusChangeIsOptimisticAndRunsHook(t *testing.T) {
	f := newFixture(t, 3)
	f.run(f.model.Init())

	f.press("enter")
	require.NotNil(t, f.model.detail)
	assert.Contains(t, f.model.View(), "Set status:")

	f.press("l")
	_, cmd := f.model.Update(keyMsg("enter"))
	got, ok := f.model.deps.Orders.Lookup("o000")
	require.True(t, ok)
	assert.Equal(t, domain.StatusConfirmed, got.OrderStatus, "patched before the backend answers")

	f.run(cmd)
	assert.Equal(t, []string{"o000=CONFIRMED"}, f.backend.updates)
	assert.Equal(t, tuierrors.MessageTypeSuccess, lastMessage(t, f.model).Type)
	assert.Equal(t, []string{"o000:PLACED->CONFIRMED"}, f.hooked)
}

func TestStatusChangeRevertsOnFailure(t *testing.T) {
	f := newFixture(t, 3)
	f.run(f.model.Init())
	f.backend.updateErr = errors.New("boom")

	f.press("enter", "l", "enter")

	got, ok := f.model.deps.Orders.Lookup("o000")
	require.True(t, ok)
	assert.Equal(t, domain.StatusPlaced, got.OrderStatus)
	assert.Equal(t, domain.StatusPlaced, f.model.detail.OrderStatus)
	msg := lastMessage(t, f.model)
	assert.Equal(t, tuierrors.MessageTypeError, msg.Type)
	assert.Contains(t, msg.Text, "Could not update status")
	assert.Empty(t, f.hooked)

	cached, err := f.model.deps.Details.GetDetails(context.Background(), "o000")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlaced, cached.OrderStatus)
}

func TestCompleteFromDetail(t *testing.T) {
	f := newFixture(t, 2)
	f.run(f.model.Init())

	f.press("j", "enter", "c")

	assert.Equal(t, []string{"o001"}, f.backend.completed)
	got, _ := f.model.deps.Orders.Lookup("o001")
	assert.Equal(t, domain.StatusCompleted, got.OrderStatus)

	f.press("esc")
	assert.Equal(t, viewList, f.model.view)
	assert.Contains(t, f.model.View(), "COMPLETED")
}

func TestSameStatusIsNotSent(t *testing.T) {
	f := newFixture(t, 1)
	f.run(f.model.Init())

	f.press("enter", "enter")
	assert.Empty(t, f.backend.updates)
	assert.Equal(t, tuierrors.MessageTypeInfo, lastMessage(t, f.model).Type)
}

func TestToastsFollowPoller(t *testing.T) {
	f := newFixture(t, 2)
	f.run(f.model.Init())
	ctx := context.Background()

	f.poller.Baseline(ctx)
	f.backend.mu.Lock()
	f.backend.orders = append([]domain.Order{{
		ID: "new1", Customer: &domain.Customer{Name: "Meera"}, TotalAmount: 499,
		OrderStatus: domain.StatusPlaced, CreatedAt: baseTime.Add(time.Minute),
	}}, f.backend.orders...)
	f.backend.mu.Unlock()
	f.poller.Check(ctx)

	f.model.Update(toastTickMsg(time.Now()))
	assert.Contains(t, f.model.View(), "New order placed by Meera - ₹499")

	f.press("d")
	assert.Empty(t, f.model.toasts)
	assert.Empty(t, f.poller.Active())
}

func TestWindowKeepsCursorVisible(t *testing.T) {
	f := newFixture(t, 1)
	f.model.Update(tea.WindowSizeMsg{Width: 120, Height: 14})

	start, end := f.model.window(0, 50)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)

	start, end = f.model.window(20, 50)
	assert.Equal(t, 16, start)
	assert.Equal(t, 21, end)
}

func orderKeys(list []domain.Order) []string {
	out := make([]string, len(list))
	for i, o := range list {
		out[i] = o.Key()
	}
	return out
}
