package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Clear     key.Binding
	NextFacet key.Binding
	PrevFacet key.Binding
	Up        key.Binding
	Down      key.Binding
	Debug     key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	NextFacet: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	PrevFacet: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
	Up:        key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
	Debug:     key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "debug")),
}

// statusKeys are shown in the status bar, in order.
var statusKeys = []key.Binding{keys.NextFacet, keys.Clear, keys.Debug, keys.Quit}
