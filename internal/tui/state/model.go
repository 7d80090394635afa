package state

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/errors"
	"github.com/cristianoliveira/orderdesk/internal/orders"
	"github.com/cristianoliveira/orderdesk/internal/settings"
)

const (
	defaultToastRefresh = time.Second
	messageLifetime     = 5 * time.Second
	defaultWidth        = 100
	defaultHeight       = 30
	chromeLines         = 8
)

type view int

const (
	viewList view = iota
	viewDetail
)

// StatusHook runs after a status change is accepted by the backend.
type StatusHook func(ctx context.Context, o domain.Order, previous domain.OrderStatus) error

// Deps wires the model to the order controllers.
type Deps struct {
	Orders       *orders.ListController
	Transactions *orders.ListController
	Details      *orders.DetailController
	Status       orders.StatusSource

	// Optional collaborators.
	Poller       *orders.Poller
	Settings     *settings.Manager
	OnStatusSent StatusHook

	Currency string
	Context  context.Context
	// ToastRefresh is the toast refresh period; negative disables the ticker.
	ToastRefresh time.Duration
	Now          func() time.Time
}

type tabState struct {
	list     *orders.ListController
	filter   string
	pageSize int
	page     orders.Page
	cursor   int
	loading  bool
	loaded   bool
}

// Model is the bubbletea model of the order console.
type Model struct {
	deps Deps
	ctx  context.Context

	tab  settings.Tab
	tabs map[settings.Tab]*tabState
	view view

	searching bool
	search    textinput.Model

	detailID      string
	detail        *domain.Order
	detailLoading bool
	options       []domain.OrderStatus
	optionCursor  int
	viewport      viewport.Model

	toasts []domain.Notification

	keys         keyMap
	help         help.Model
	errorHandler *errors.TUIHandler

	width  int
	height int
}

// NewModel builds the console model. Orders, Transactions, Details and Status
// are required.
func NewModel(deps Deps) (*Model, error) {
	if deps.Orders == nil || deps.Transactions == nil || deps.Details == nil || deps.Status == nil {
		return nil, fmt.Errorf("tui: orders, transactions, details and status are required")
	}
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.ToastRefresh == 0 {
		deps.ToastRefresh = defaultToastRefresh
	}
	if deps.Currency == "" {
		deps.Currency = "₹"
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "order id, customer, email or phone"

	m := &Model{
		deps:         deps,
		ctx:          deps.Context,
		tab:          settings.DefaultTab(),
		view:         viewList,
		search:       search,
		keys:         defaultKeyMap(),
		help:         help.New(),
		errorHandler: errors.NewTUIHandler(nil),
		width:        defaultWidth,
		height:       defaultHeight,
	}
	m.tabs = map[settings.Tab]*tabState{
		settings.TabOrders:       m.newTabState(deps.Orders),
		settings.TabTransactions: m.newTabState(deps.Transactions),
	}
	if deps.Settings != nil {
		m.tab = settings.NormalizeTab(string(deps.Settings.Settings().ActiveTab))
	}
	m.viewport = viewport.New(m.width, m.bodyHeight())
	return m, nil
}

func (m *Model) newTabState(list *orders.ListController) *tabState {
	ts := &tabState{list: list, filter: domain.FilterAll, pageSize: settings.DefaultPageSize}
	if m.deps.Settings != nil {
		if f, err := list.Vocabulary().Normalize(m.deps.Settings.Filter(list.Namespace())); err == nil {
			ts.filter = f
		}
		if size := m.deps.Settings.PageSize(list.Namespace()); size > 0 {
			ts.pageSize = size
		}
	}
	return ts
}

// Init loads the active tab and starts the toast ticker.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadTab(m.tab, 1, false)}
	if tick := m.toastTick(); tick != nil {
		cmds = append(cmds, tick)
	}
	return tea.Batch(cmds...)
}

// Update handles messages and user input.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = m.bodyHeight()
		m.help.Width = msg.Width
		return m, nil
	case pageLoadedMsg:
		return m.handlePageLoaded(msg)
	case pageLoadFailedMsg:
		return m.handlePageLoadFailed(msg)
	case detailLoadedMsg:
		return m.handleDetailLoaded(msg)
	case mutationDoneMsg:
		return m.handleMutationDone(msg)
	case toastTickMsg:
		if m.deps.Poller != nil {
			m.toasts = m.deps.Poller.Active()
		}
		return m, m.toastTick()
	case saveSettingsFailedMsg:
		m.errorHandler.Warning(fmt.Sprintf("Failed to save settings: %v", msg.err))
		return m, nil
	}
	return m, nil
}

func (m *Model) active() *tabState {
	return m.tabs[m.tab]
}

func (m *Model) bodyHeight() int {
	h := m.height - chromeLines
	if h < 3 {
		return 3
	}
	return h
}

// Tab returns the active tab.
func (m *Model) Tab() settings.Tab {
	return m.tab
}

// Messages returns the status message history.
func (m *Model) Messages() []errors.Message {
	return m.errorHandler.GetAll()
}
