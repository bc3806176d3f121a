package tasklist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo/internal/theme"
	"github.com/nhle/todo/internal/view"
)

// RowItem wraps a view.Row so it can be used in a bubbles/list.
type RowItem struct {
	Row view.Row
}

// FilterValue returns the string used for fuzzy filtering.
func (i RowItem) FilterValue() string { return i.Row.Text }

// Title returns the task text for the list.
func (i RowItem) Title() string { return i.Row.Text }

// Description returns the creation date.
func (i RowItem) Description() string { return i.Row.Date }

// RowDelegate implements list.ItemDelegate for rendering task rows.
type RowDelegate struct {
	styles *theme.Styles
}

// Height returns the number of lines each item takes.
func (d RowDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d RowDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d RowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single row: checkbox, text and date.
func (d RowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(RowItem)
	if !ok {
		return
	}
	fmt.Fprint(w, renderRow(*d.styles, ri.Row, index == m.Index()))
}

func renderRow(s theme.Styles, r view.Row, selected bool) string {
	box := "[ ]"
	text := r.Text
	if r.Done {
		box = "[x]"
		text = s.DoneText.Render(text)
	}

	line := fmt.Sprintf("%s %s  %s", box, text, s.Date.Render(r.Date))
	if selected {
		return s.SelectedItem.Render(line)
	}
	return s.Item.Render(line)
}
