package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PlayPause key.Binding
	Forward   key.Binding
	Rewind    key.Binding
	Restart   key.Binding
	Faster    key.Binding
	Slower    key.Binding
	GroupSize key.Binding
	Narration key.Binding
	Edit      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "forward"),
		),
		Rewind: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "rewind"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Faster: key.NewBinding(
			key.WithKeys("up", "+", "="),
			key.WithHelp("↑/+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("down", "-", "_"),
			key.WithHelp("↓/-", "slower"),
		),
		GroupSize: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "group size"),
		),
		Narration: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "narration"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit source"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Rewind, k.Forward, k.Slower, k.Faster, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Rewind, k.Forward, k.Restart},
		{k.Faster, k.Slower, k.GroupSize, k.Narration},
		{k.Edit, k.Help, k.Quit},
	}
}
