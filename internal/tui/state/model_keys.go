package state

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/settings"
)

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if key.Matches(msg, m.keys.Dismiss) {
		m.dismissToast()
		return m, nil
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if m.view == viewDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ts := m.active()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.SwitchTab):
		return m, m.switchTab()
	case key.Matches(msg, m.keys.Down):
		ts.cursor = clampCursor(ts.cursor+1, m.rowCount())
	case key.Matches(msg, m.keys.Up):
		ts.cursor = clampCursor(ts.cursor-1, m.rowCount())
	case key.Matches(msg, m.keys.NextPage):
		m.goToPage(ts.page.Page + 1)
	case key.Matches(msg, m.keys.PrevPage):
		m.goToPage(ts.page.Page - 1)
	case key.Matches(msg, m.keys.Filter):
		return m, m.cycleFilter()
	case key.Matches(msg, m.keys.PageSize):
		m.cyclePageSize()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadTab(m.tab, max(ts.page.Page, 1), true)
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Back):
		m.clearSearch()
	case key.Matches(msg, m.keys.Open):
		if id := m.selectedOrderID(); id != "" {
			return m, m.openDetail(id)
		}
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.clearSearch()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.active().cursor = 0
	return m, cmd
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.view = viewList
		m.detail = nil
		m.detailID = ""
		return m, nil
	case key.Matches(msg, m.keys.PrevOption):
		if m.optionCursor > 0 {
			m.optionCursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.NextOption):
		if m.optionCursor < len(m.options)-1 {
			m.optionCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Open):
		return m, m.applySelectedStatus()
	case key.Matches(msg, m.keys.Complete):
		if m.detail == nil || m.detail.OrderStatus == domain.StatusCompleted {
			return m, nil
		}
		return m, m.mutate(actionComplete, domain.StatusCompleted)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) applySelectedStatus() tea.Cmd {
	if m.detail == nil || m.optionCursor >= len(m.options) {
		return nil
	}
	status := m.options[m.optionCursor]
	if status == m.detail.OrderStatus {
		m.errorHandler.Info("Order is already " + string(status))
		return nil
	}
	return m.mutate(actionUpdateStatus, status)
}

func (m *Model) switchTab() tea.Cmd {
	m.clearSearch()
	if m.tab == settings.TabOrders {
		m.tab = settings.TabTransactions
	} else {
		m.tab = settings.TabOrders
	}
	var cmds []tea.Cmd
	if ts := m.active(); !ts.loaded && !ts.loading {
		cmds = append(cmds, m.loadTab(m.tab, 1, false))
	}
	if mgr := m.deps.Settings; mgr != nil {
		tab := m.tab
		cmds = append(cmds, saveSettingsCmd(func() error {
			return mgr.Update(func(s *settings.Settings) { s.ActiveTab = tab })
		}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) cycleFilter() tea.Cmd {
	ts := m.active()
	values := ts.list.Vocabulary().Values
	next := values[0]
	for i, v := range values {
		if v == ts.filter {
			next = values[(i+1)%len(values)]
			break
		}
	}
	ts.filter = next
	ts.cursor = 0

	cmds := []tea.Cmd{m.loadTab(m.tab, 1, false)}
	if mgr := m.deps.Settings; mgr != nil {
		namespace := ts.list.Namespace()
		cmds = append(cmds, saveSettingsCmd(func() error {
			return mgr.SaveFilter(namespace, next)
		}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) cyclePageSize() {
	ts := m.active()
	next := settings.PageSizes[0]
	for i, size := range settings.PageSizes {
		if size == ts.pageSize {
			next = settings.PageSizes[(i+1)%len(settings.PageSizes)]
			break
		}
	}
	ts.pageSize = next
	ts.cursor = 0
	p, err := ts.list.SetPageSize(next)
	if ts.loaded {
		ts.page = p
	}
	if err != nil {
		m.errorHandler.Warning("Page size not saved: " + err.Error())
	}
}

func (m *Model) goToPage(page int) {
	ts := m.active()
	if !ts.loaded {
		return
	}
	ts.page = ts.list.GoToPage(page)
	ts.cursor = 0
}

func (m *Model) clearSearch() {
	m.searching = false
	m.search.Blur()
	m.search.SetValue("")
}

func (m *Model) dismissToast() {
	if m.deps.Poller == nil || len(m.toasts) == 0 {
		return
	}
	m.deps.Poller.Dismiss(m.toasts[0].ID)
	m.toasts = m.deps.Poller.Active()
}

// visibleOrders returns the rows of the active tab after search.
func (m *Model) visibleOrders() []domain.Order {
	ts := m.active()
	if q := m.search.Value(); q != "" {
		return ts.list.Search(q)
	}
	return ts.page.Orders
}

func (m *Model) rowCount() int {
	return len(m.visibleOrders())
}

func (m *Model) selectedOrderID() string {
	rows := m.visibleOrders()
	ts := m.active()
	if ts.cursor < 0 || ts.cursor >= len(rows) {
		return ""
	}
	return rows[ts.cursor].Key()
}
