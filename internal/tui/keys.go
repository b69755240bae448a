package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Tab     key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Search  key.Binding
	Sort    key.Binding
	Filter  key.Binding
	DateKey key.Binding
	Report  key.Binding
	Bin     key.Binding
	Profile key.Binding
	Enter   key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter type")),
		DateKey: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "date search")),
		Report:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report")),
		Bin:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "recycle bin")),
		Profile: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Add, k.Enter, k.Back, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Add, k.Edit, k.Delete, k.Enter},
		{k.Search, k.Sort, k.Filter, k.DateKey, k.Report},
		{k.Bin, k.Profile, k.Back, k.Quit},
	}
}
