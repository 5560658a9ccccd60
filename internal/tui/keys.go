package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"fleet-dashboard/internal/model"
)

type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Log     key.Binding
	Close   key.Binding
	Dismiss key.Binding
	Quit    key.Binding

	// Node holds one binding per action for the selected row, All the
	// fleet-wide variant on the shifted letter. Both are indexed like
	// model.Actions().
	Node []key.Binding
	All  []key.Binding
}

var actionLetters = map[model.Action]string{
	model.ActionDescribe:  "d",
	model.ActionPrepare:   "p",
	model.ActionConfigure: "c",
	model.ActionStart:     "s",
	model.ActionStop:      "x",
	model.ActionReset:     "r",
}

var DefaultKeyMap = newKeyMap()

func newKeyMap() KeyMap {
	km := KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("u", "f5"),
			key.WithHelp("u", "refresh"),
		),
		Log: key.NewBinding(
			key.WithKeys("l", "enter"),
			key.WithHelp("l", "log"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "dismiss error"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
	for _, a := range model.Actions() {
		letter := actionLetters[a]
		km.Node = append(km.Node, key.NewBinding(key.WithKeys(letter), key.WithHelp(letter, a.String())))
		upper := strings.ToUpper(letter)
		km.All = append(km.All, key.NewBinding(key.WithKeys(upper), key.WithHelp(upper, a.String()+" all")))
	}
	return km
}

// action reports the action bound to msg and whether it targets the whole
// fleet.
func (km KeyMap) action(msg tea.KeyMsg) (action model.Action, all bool, ok bool) {
	for i, a := range model.Actions() {
		if key.Matches(msg, km.Node[i]) {
			return a, false, true
		}
		if key.Matches(msg, km.All[i]) {
			return a, true, true
		}
	}
	return 0, false, false
}

func (km KeyMap) help() []key.Binding {
	bindings := []key.Binding{km.Up, km.Down}
	bindings = append(bindings, km.Node...)
	return append(bindings, km.Log, km.Refresh, km.Dismiss, km.Quit)
}
