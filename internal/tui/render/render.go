// Package render provides pure rendering functions for the console views.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/errors"
	"github.com/cristianoliveira/orderdesk/internal/format"
)

const (
	orderWidth    = 14
	statusWidth   = 10
	paymentWidth  = 8
	amountWidth   = 12
	dateWidth     = 17
	methodWidth   = 16
	txnIDWidth    = 14
	columnSpacing = 2
	minNameWidth  = 10
)

// Tab describes one header tab.
type Tab struct {
	Label  string
	Active bool
}

// HeaderState carries what the header shows.
type HeaderState struct {
	Tabs    []Tab
	Filter  string
	Stats   string
	Loading bool
	Stale   bool
	Width   int
}

// Header renders the tab strip, the active filter and the stats line.
func Header(state HeaderState) string {
	active := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(lipgloss.Color(ansiColorNumber(colors.Blue))).
		Foreground(lipgloss.Color("0"))
	inactive := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(lipgloss.Color("245"))

	tabs := make([]string, 0, len(state.Tabs))
	for _, t := range state.Tabs {
		if t.Active {
			tabs = append(tabs, active.Render(t.Label))
			continue
		}
		tabs = append(tabs, inactive.Render(t.Label))
	}

	meta := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	line += meta.Render("  filter: " + state.Filter)
	if state.Loading {
		line += meta.Render("  loading...")
	}
	if state.Stale {
		line += lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow))).Render("  (cached)")
	}

	statsLine := lipgloss.NewStyle().Bold(true).Render(state.Stats)
	return line + "\n" + statsLine
}

// OrderColumns renders the order list header row.
func OrderColumns(width int) string {
	nameWidth := orderNameWidth(width)
	header := fmt.Sprintf("%-*s  %-*s  %-*s  %*s  %-*s  %-*s",
		orderWidth, "ORDER",
		nameWidth, "CUSTOMER",
		statusWidth, "STATUS",
		amountWidth, "AMOUNT",
		paymentWidth, "PAYMENT",
		dateWidth, "DATE")
	return headerStyle().Render(header)
}

// OrderRow renders one order line.
func OrderRow(o domain.Order, currency string, selected bool, width int) string {
	nameWidth := orderNameWidth(width)
	row := fmt.Sprintf("%-*s  %-*s  %-*s  %*s  %-*s  %-*s",
		orderWidth, truncate(format.ShortID(o), orderWidth),
		nameWidth, truncate(o.CustomerName(), nameWidth),
		statusWidth, truncate(string(o.OrderStatus), statusWidth),
		amountWidth, truncate(format.Amount(currency, float64(o.TotalAmount)), amountWidth),
		paymentWidth, truncate(string(o.PaymentStatus), paymentWidth),
		dateWidth, formatDate(o.CreatedAt))
	if selected {
		return selectedStyle().Render(row)
	}
	return statusStyle(o.OrderStatus).Render(row)
}

// TransactionColumns renders the transaction list header row.
func TransactionColumns(width int) string {
	nameWidth := transactionNameWidth(width)
	header := fmt.Sprintf("%-*s  %-*s  %*s  %-*s  %-*s  %-*s",
		txnIDWidth, "TRANSACTION",
		nameWidth, "CUSTOMER",
		amountWidth, "AMOUNT",
		methodWidth, "METHOD",
		paymentWidth, "STATUS",
		dateWidth, "DATE")
	return headerStyle().Render(header)
}

// TransactionRow renders one transaction line.
func TransactionRow(t domain.Transaction, currency string, selected bool, width int) string {
	nameWidth := transactionNameWidth(width)
	row := fmt.Sprintf("%-*s  %-*s  %*s  %-*s  %-*s  %-*s",
		txnIDWidth, truncate(t.ID, txnIDWidth),
		nameWidth, truncate(t.Customer, nameWidth),
		amountWidth, truncate(format.Amount(currency, t.Amount), amountWidth),
		methodWidth, truncate(t.PaymentMethod, methodWidth),
		paymentWidth, truncate(t.Status, paymentWidth),
		dateWidth, formatDate(t.CreatedAt))
	if selected {
		return selectedStyle().Render(row)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(transactionColor(t.Status))).Render(row)
}

// Empty renders the placeholder shown when a list has no rows.
func Empty(msg string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Render(msg)
}

// Toasts renders live new-order notifications, newest first.
func Toasts(items []domain.Notification, now time.Time) string {
	if len(items) == 0 {
		return ""
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ansiColorNumber(colors.Green))).
		Bold(true)
	lines := make([]string, 0, len(items))
	for _, n := range items {
		lines = append(lines, style.Render(fmt.Sprintf("● %s (%s)", n.Message, age(n.CreatedAt, now))))
	}
	return strings.Join(lines, "\n")
}

// FooterState carries what the footer shows.
type FooterState struct {
	Pagination  string
	SearchMode  bool
	SearchQuery string
	Help        string
	Message     errors.Message
	HasMessage  bool
}

// Footer renders pagination, the status message and the key help.
func Footer(state FooterState) string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var lines []string
	top := state.Pagination
	if state.SearchMode || state.SearchQuery != "" {
		top += fmt.Sprintf("  |  Search: %s", state.SearchQuery)
	}
	lines = append(lines, helpStyle.Render(top))
	if state.HasMessage {
		lines = append(lines, Message(state.Message))
	}
	if state.Help != "" {
		lines = append(lines, state.Help)
	}
	return strings.Join(lines, "\n")
}

// Message renders a status message colored by its type.
func Message(msg errors.Message) string {
	color := colors.Blue
	switch msg.Type {
	case errors.MessageTypeError:
		color = colors.Red
	case errors.MessageTypeWarning:
		color = colors.Yellow
	case errors.MessageTypeSuccess:
		color = colors.Green
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(color))).Render(msg.Text)
}

func orderNameWidth(width int) int {
	fixed := orderWidth + statusWidth + amountWidth + paymentWidth + dateWidth + 5*columnSpacing
	return max(width-fixed, minNameWidth)
}

func transactionNameWidth(width int) int {
	fixed := txnIDWidth + amountWidth + methodWidth + paymentWidth + dateWidth + 5*columnSpacing
	return max(width-fixed, minNameWidth)
}

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Underline(true)
}

func selectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(ansiColorNumber(colors.Blue))).
		Foreground(lipgloss.Color("0"))
}

func statusStyle(status domain.OrderStatus) lipgloss.Style {
	switch status {
	case domain.StatusCancelled:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Red)))
	case domain.StatusCompleted, domain.StatusDelivered:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Green)))
	case domain.StatusPlaced:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow)))
	default:
		return lipgloss.NewStyle()
	}
}

func transactionColor(status string) string {
	switch status {
	case domain.TxnSuccess:
		return ansiColorNumber(colors.Green)
	case domain.TxnFailed:
		return ansiColorNumber(colors.Red)
	default:
		return ansiColorNumber(colors.Yellow)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(format.DateLayout)
}

func truncate(value string, width int) string {
	if width <= 0 || utf8.RuneCountInString(value) <= width {
		return value
	}
	if width <= 3 {
		return string([]rune(value)[:width])
	}
	return string([]rune(value)[:width-3]) + "..."
}

func age(created, now time.Time) string {
	if created.IsZero() {
		return ""
	}
	d := now.Sub(created)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// ansiColorNumber maps the console escape codes onto lipgloss ANSI colors.
func ansiColorNumber(ansi string) string {
	switch ansi {
	case colors.Red:
		return "1"
	case colors.Green:
		return "2"
	case colors.Yellow:
		return "3"
	case colors.Blue:
		return "4"
	case colors.Cyan:
		return "6"
	default:
		return "7"
	}
}
