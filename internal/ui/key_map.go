package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// It is built once by [newKeyMap] and every key message is matched against it.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	prev     key.Binding
	next     key.Binding
	nextPill key.Binding
	prevPill key.Binding
	enter    key.Binding
	search   key.Binding
	back     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		nextPill: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next subgenre")),
		prevPill: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous subgenre")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.search},
		{k.prev, k.next, k.nextPill, k.prevPill},
		{k.back, k.quit},
	}
}
