package component

import "github.com/charmbracelet/bubbles/key"

type stripKeyMap struct {
	NewTab   key.Binding
	CloseTab key.Binding
	Edit     key.Binding
	Next     key.Binding
	Previous key.Binding
	Expand   key.Binding
	Quit     key.Binding
	Submit   key.Binding
	Cancel   key.Binding
}

func defaultStripKeyMap() stripKeyMap {
	return stripKeyMap{
		NewTab:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "new tab")),
		CloseTab: key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close")),
		Edit:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "edit url")),
		Next:     key.NewBinding(key.WithKeys("ctrl+right", "right"), key.WithHelp("→", "next")),
		Previous: key.NewBinding(key.WithKeys("ctrl+left", "left"), key.WithHelp("←", "previous")),
		Expand:   key.NewBinding(key.WithKeys("ctrl+up"), key.WithHelp("ctrl+↑", "overview")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
		Submit:   key.NewBinding(key.WithKeys("enter")),
		Cancel:   key.NewBinding(key.WithKeys("esc")),
	}
}

func (k stripKeyMap) shortHelp() []key.Binding {
	return []key.Binding{k.NewTab, k.CloseTab, k.Edit, k.Expand, k.Quit}
}
