package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the dashboard bindings. List navigation keys belong to the list itself.
type keyMap struct {
	sync    key.Binding
	yes     key.Binding
	no      key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		sync:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sync")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "start")),
		no:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "back")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "re-plan")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// bindings returns the keys that do something in view, in help order.
func (k keyMap) bindings(view ViewState, worklist int) []key.Binding {
	switch view {
	case PlanView:
		if worklist == 0 {
			return []key.Binding{k.restart, k.quit}
		}
		return []key.Binding{k.sync, k.restart, k.quit}
	case ConfirmView:
		return []key.Binding{k.yes, k.no}
	case ResultView:
		return []key.Binding{k.restart, k.quit}
	default:
		return []key.Binding{k.quit}
	}
}
