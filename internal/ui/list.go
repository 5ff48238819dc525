package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = wordItem{}

// wordItem wraps a worklist entry to implement [list.Item].
type wordItem struct {
	position int
	word     string
}

func (i wordItem) FilterValue() string { return i.word }
func (i wordItem) Title() string       { return i.word }
func (i wordItem) Description() string { return fmt.Sprintf("#%d in worklist", i.position) }

func worklistItems(worklist []string) []list.Item {
	items := make([]list.Item, len(worklist))
	for i, w := range worklist {
		items[i] = wordItem{position: i + 1, word: w}
	}
	return items
}
