package state

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/orderdesk/internal/api"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/errors"
	"github.com/cristianoliveira/orderdesk/internal/format"
	"github.com/cristianoliveira/orderdesk/internal/orders"
	"github.com/cristianoliveira/orderdesk/internal/settings"
)

const (
	actionUpdateStatus = "update_status"
	actionComplete     = "complete"
)

// loadTab fetches a page of tab in the background.
func (m *Model) loadTab(tab settings.Tab, page int, force bool) tea.Cmd {
	ts := m.tabs[tab]
	ts.loading = true
	ctx, list, filter, size := m.ctx, ts.list, ts.filter, ts.pageSize
	return func() tea.Msg {
		p, err := list.Load(ctx, filter, page, size, force)
		if err != nil {
			return pageLoadFailedMsg{Tab: tab, Err: err}
		}
		return pageLoadedMsg{Tab: tab, Page: p}
	}
}

func (m *Model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	ts := m.tabs[msg.Tab]
	ts.loading = false
	ts.loaded = true
	ts.page = msg.Page
	ts.cursor = clampCursor(ts.cursor, len(msg.Page.Orders))
	if len(msg.Page.FailedPages) > 0 {
		m.errorHandler.Warning(fmt.Sprintf("Some pages failed to load (%s); showing partial results", joinInts(msg.Page.FailedPages)))
	}
	return m, nil
}

func (m *Model) handlePageLoadFailed(msg pageLoadFailedMsg) (tea.Model, tea.Cmd) {
	if stderrors.Is(msg.Err, orders.ErrSuperseded) {
		return m, nil
	}
	ts := m.tabs[msg.Tab]
	ts.loading = false
	colors.StructuredError("tui", "load", "failed", msg.Err, ts.list.Namespace(), map[string]interface{}{"filter": ts.filter})
	m.errorHandler.Error("Failed to load " + ts.list.Namespace() + ": " + errors.Describe(msg.Err, api.Describe))
	return m, nil
}

// openDetail switches to the detail view and fetches the order.
func (m *Model) openDetail(id string) tea.Cmd {
	m.view = viewDetail
	m.detailID = id
	m.detail = nil
	m.detailLoading = true
	m.options = nil
	m.viewport.SetContent("Loading order " + id + "...")
	m.viewport.GotoTop()

	ctx, details := m.ctx, m.deps.Details
	return func() tea.Msg {
		o, err := details.GetDetails(ctx, id)
		return detailLoadedMsg{ID: id, Order: o, Err: err}
	}
}

func (m *Model) handleDetailLoaded(msg detailLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.ID != m.detailID {
		return m, nil
	}
	m.detailLoading = false
	if msg.Err != nil {
		m.viewport.SetContent("Order details are not available.")
		m.errorHandler.Error("Failed to load order: " + errors.Describe(msg.Err, api.Describe))
		return m, nil
	}
	o := msg.Order
	m.setDetail(&o)
	return m, nil
}

func (m *Model) setDetail(o *domain.Order) {
	m.detail = o
	m.options = domain.StatusOptions(*o)
	m.optionCursor = 0
	for i, st := range m.options {
		if st == o.OrderStatus {
			m.optionCursor = i
		}
	}
	m.refreshDetailContent()
}

func (m *Model) refreshDetailContent() {
	if m.detail == nil {
		return
	}
	var b strings.Builder
	if err := format.OrderDetail(&b, *m.detail, m.deps.Currency); err != nil {
		b.WriteString(err.Error())
	}
	m.viewport.SetContent(b.String())
}

// mutate applies patch locally, then sends the change to the backend.
// The change is undone when the backend rejects it.
func (m *Model) mutate(action string, status domain.OrderStatus) tea.Cmd {
	if m.detail == nil {
		return nil
	}
	id := m.detail.Key()
	previous := m.detail.OrderStatus
	patch := domain.Patch{OrderStatus: status}

	prev, listed := m.deps.Orders.ApplyLocalMutation(id, patch)
	if !listed {
		prev = m.detail.Clone()
	}
	patch.Apply(m.detail)
	m.setDetail(m.detail)
	m.syncPage(settings.TabOrders)

	ctx, source := m.ctx, m.deps.Status
	return func() tea.Msg {
		var err error
		if action == actionComplete {
			err = source.Complete(ctx, id)
		} else {
			err = source.UpdateStatus(ctx, id, status)
		}
		return mutationDoneMsg{ID: id, Action: action, Patch: patch, Prev: prev, Previous: previous, Listed: listed, Err: err}
	}
}

func (m *Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if msg.Listed {
			m.deps.Orders.Revert(msg.ID, msg.Prev, msg.Patch)
		}
		m.syncPage(settings.TabOrders)
		if m.detail != nil && m.detail.Matches(msg.ID) {
			domain.RevertPatch(msg.Prev, msg.Patch).Apply(m.detail)
			m.setDetail(m.detail)
		}
		colors.StructuredError("tui", msg.Action, "failed", msg.Err, msg.ID, nil)
		m.errorHandler.Error(fmt.Sprintf("Could not %s: %s", actionLabel(msg.Action), errors.Describe(msg.Err, api.Describe)))
		return m, nil
	}

	if !msg.Listed {
		m.deps.Details.OrderPatched(msg.ID, msg.Patch)
	}
	m.errorHandler.Success(fmt.Sprintf("Order %s is now %s", msg.ID, msg.Patch.OrderStatus))
	// the transaction view shows the same orders and is refetched on next visit
	m.tabs[settings.TabTransactions].loaded = false

	if m.deps.OnStatusSent == nil {
		return m, nil
	}
	o, ok := m.deps.Orders.Lookup(msg.ID)
	if !ok && m.detail != nil && m.detail.Matches(msg.ID) {
		o, ok = m.detail.Clone(), true
	}
	if !ok {
		return m, nil
	}
	ctx, hook, previous := m.ctx, m.deps.OnStatusSent, msg.Previous
	return m, func() tea.Msg {
		if err := hook(ctx, o, previous); err != nil {
			colors.StructuredWarn("tui", "status_hook", "failed", err, o.Key(), nil)
		}
		return nil
	}
}

// syncPage re-reads the visible page of tab after a local change.
func (m *Model) syncPage(tab settings.Tab) {
	if ts := m.tabs[tab]; ts.loaded {
		ts.page = ts.list.Current()
		ts.cursor = clampCursor(ts.cursor, len(ts.page.Orders))
	}
}

func (m *Model) toastTick() tea.Cmd {
	if m.deps.Poller == nil || m.deps.ToastRefresh < 0 {
		return nil
	}
	return tea.Tick(m.deps.ToastRefresh, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// saveSettingsCmd persists a preference off the update loop.
func saveSettingsCmd(save func() error) tea.Cmd {
	return func() tea.Msg {
		if err := save(); err != nil {
			return saveSettingsFailedMsg{err: err}
		}
		return nil
	}
}

func actionLabel(action string) string {
	if action == actionComplete {
		return "complete order"
	}
	return "update status"
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
