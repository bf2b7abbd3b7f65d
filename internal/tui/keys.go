package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Work   key.Binding
	Break  key.Binding
	Pause  key.Binding
	Resume key.Binding
	End    key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Work:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "work")),
		Break:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "break")),
		Pause:  key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause")),
		Resume: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		End:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Work, k.Break, k.Pause, k.Resume, k.End, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Work, k.Break},
		{k.Pause, k.Resume, k.End},
		{k.Help, k.Quit},
	}
}
