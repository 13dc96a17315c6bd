package app

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Activate key.Binding
	Filter   key.Binding
	Copy     key.Binding
	Sign     key.Binding
	Back     key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Activate: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "open/toggle")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy route")),
		Sign:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign")),
		Back:     key.NewBinding(key.WithKeys("b", "backspace"), key.WithHelp("b", "back")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Filter, k.Copy, k.Sign, k.Back, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
