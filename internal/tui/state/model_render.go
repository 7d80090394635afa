package state

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/format"
	"github.com/cristianoliveira/orderdesk/internal/settings"
	"github.com/cristianoliveira/orderdesk/internal/tui/render"
)

// View renders the console.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if toasts := render.Toasts(m.toasts, m.deps.Now()); toasts != "" {
		b.WriteString(toasts)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.view == viewDetail {
		b.WriteString(m.renderDetail())
	} else {
		b.WriteString(m.renderList())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	ts := m.active()
	var stats string
	if m.tab == settings.TabTransactions {
		stats = format.TransactionStats(domain.TransactionStats(domain.Transactions(ts.list.All())), m.deps.Currency)
	} else {
		stats = format.OrderStats(ts.list.Stats(), m.deps.Currency)
	}
	return render.Header(render.HeaderState{
		Tabs: []render.Tab{
			{Label: "Orders", Active: m.tab == settings.TabOrders},
			{Label: "Transactions", Active: m.tab == settings.TabTransactions},
		},
		Filter:  ts.filter,
		Stats:   stats,
		Loading: ts.loading,
		Stale:   ts.page.FromCache,
		Width:   m.width,
	})
}

func (m *Model) renderList() string {
	ts := m.active()
	rows := m.visibleOrders()
	if len(rows) == 0 {
		switch {
		case ts.loading:
			return render.Empty("Loading...")
		case m.search.Value() != "":
			return render.Empty("No orders match the search on this page.")
		default:
			return render.Empty("No orders found.")
		}
	}

	start, end := m.window(ts.cursor, len(rows))
	lines := make([]string, 0, end-start+1)
	if m.tab == settings.TabTransactions {
		lines = append(lines, render.TransactionColumns(m.width))
		for i := start; i < end; i++ {
			lines = append(lines, render.TransactionRow(domain.FromOrder(rows[i]), m.deps.Currency, i == ts.cursor, m.width))
		}
	} else {
		lines = append(lines, render.OrderColumns(m.width))
		for i := start; i < end; i++ {
			lines = append(lines, render.OrderRow(rows[i], m.deps.Currency, i == ts.cursor, m.width))
		}
	}
	return strings.Join(lines, "\n")
}

// window returns the row range that keeps cursor on screen.
func (m *Model) window(cursor, n int) (int, int) {
	height := m.bodyHeight() - 1
	if height >= n {
		return 0, n
	}
	start := cursor - height + 1
	if start < 0 {
		start = 0
	}
	return start, start + height
}

func (m *Model) renderDetail() string {
	if m.detailLoading || m.detail == nil {
		return m.viewport.View()
	}
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	selected := lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	plain := lipgloss.NewStyle().Padding(0, 1)
	picker := make([]string, 0, len(m.options))
	for i, st := range m.options {
		if i == m.optionCursor {
			picker = append(picker, selected.Render(string(st)))
			continue
		}
		picker = append(picker, plain.Render(string(st)))
	}
	b.WriteString("Set status: ")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, picker...))
	return b.String()
}

func (m *Model) renderFooter() string {
	ts := m.active()
	state := render.FooterState{
		SearchMode:  m.searching,
		SearchQuery: m.search.Value(),
	}
	if m.view == viewList {
		state.Pagination = format.PageFooter(max(ts.page.Page, 1), max(ts.page.TotalPages, 1), len(m.visibleOrders()), ts.page.TotalCount)
		state.Help = m.help.View(listKeys{m.keys})
	} else {
		state.Pagination = "Order " + m.detailID
		state.Help = m.help.View(detailKeys{m.keys})
	}
	if m.searching {
		state.Pagination += "  " + m.search.View()
		state.SearchMode = false
		state.SearchQuery = ""
	}
	state.Message, state.HasMessage = m.errorHandler.LatestWithin(messageLifetime)
	return render.Footer(state)
}
