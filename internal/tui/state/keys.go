package state

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	SwitchTab  key.Binding
	Up         key.Binding
	Down       key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Filter     key.Binding
	PageSize   key.Binding
	Refresh    key.Binding
	Search     key.Binding
	Open       key.Binding
	Back       key.Binding
	PrevOption key.Binding
	NextOption key.Binding
	Complete   key.Binding
	Dismiss    key.Binding
	Help       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		SwitchTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "orders/transactions")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		NextPage:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev page")),
		Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		PageSize:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "page size")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		PrevOption: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "pick status")),
		NextOption: key.NewBinding(key.WithKeys("l", "right")),
		Complete:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		Dismiss:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss toast")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// listKeys is the help.KeyMap of the list view.
type listKeys struct{ k keyMap }

func (l listKeys) ShortHelp() []key.Binding {
	return []key.Binding{l.k.Down, l.k.Up, l.k.Open, l.k.Search, l.k.Filter, l.k.SwitchTab, l.k.Help, l.k.Quit}
}

func (l listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{l.k.Down, l.k.Up, l.k.NextPage, l.k.PrevPage},
		{l.k.Open, l.k.Search, l.k.Filter, l.k.PageSize},
		{l.k.SwitchTab, l.k.Refresh, l.k.Dismiss, l.k.Help, l.k.Quit},
	}
}

// detailKeys is the help.KeyMap of the detail view.
type detailKeys struct{ k keyMap }

func (d detailKeys) ShortHelp() []key.Binding {
	open := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply status"))
	return []key.Binding{d.k.PrevOption, open, d.k.Complete, d.k.Back, d.k.Quit}
}

func (d detailKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{d.ShortHelp(), {d.k.Up, d.k.Down, d.k.Dismiss}}
}
