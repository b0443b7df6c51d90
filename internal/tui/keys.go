package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down     key.Binding
	NextTab      key.Binding
	PrevTab      key.Binding
	TabAll       key.Binding
	TabPending   key.Binding
	TabCompleted key.Binding
	Toggle       key.Binding
	Delete       key.Binding
	Add          key.Binding
	Refresh      key.Binding
	Help         key.Binding
	Quit         key.Binding
	Submit       key.Binding
	Cancel       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextTab:      key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
		PrevTab:      key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev tab")),
		TabAll:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		TabPending:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "pending")),
		TabCompleted: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Toggle:       key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Delete:       key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Add:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Toggle, k.Delete, k.Add, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.TabAll, k.TabPending, k.TabCompleted},
		{k.Toggle, k.Delete, k.Add, k.Refresh},
		{k.Help, k.Quit},
	}
}
