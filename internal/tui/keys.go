package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Choose   key.Binding
	More     key.Binding
	Less     key.Binding
	Reset    key.Binding
	AddToBag key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next:     key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next section")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev section")),
		Choose:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "choose")),
		More:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "add one")),
		Less:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "remove one")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		AddToBag: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to cart")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Choose, k.More, k.Less, k.AddToBag, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Choose, k.More, k.Less},
		{k.Reset, k.AddToBag, k.Help, k.Quit},
	}
}
