package tasklist

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo/internal/theme"
	"github.com/nhle/todo/internal/view"
)

// Model is the task list component. It only navigates; actions on the
// selected row are handled by the root model.
type Model struct {
	list        list.Model
	styles      *theme.Styles
	placeholder string
	width       int
	height      int
}

// New creates a new task list model.
func New(styles theme.Styles, width, height int) Model {
	s := &styles
	l := list.New([]list.Item{}, RowDelegate{styles: s}, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:   l,
		styles: s,
		width:  width,
		height: height,
	}
}

// SetRows replaces the visible rows, keeping the selection on the
// same task when it is still visible. Otherwise the cursor stays at its
// position, clamped to the new length.
func (m *Model) SetRows(rows []view.Row, placeholder string) tea.Cmd {
	m.placeholder = placeholder

	index := m.list.Index()
	selected, hasSelected := m.Selected()

	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = RowItem{Row: r}
		if hasSelected && r.ID == selected.ID {
			index = i
		}
	}
	cmd := m.list.SetItems(items)
	if index >= len(items) {
		index = len(items) - 1
	}
	if index >= 0 {
		m.list.Select(index)
	}
	return cmd
}

// SetStyles switches the palette used for rendering.
func (m *Model) SetStyles(styles theme.Styles) {
	*m.styles = styles
}

// Selected returns the row under the cursor.
func (m Model) Selected() (view.Row, bool) {
	ri, ok := m.list.SelectedItem().(RowItem)
	if !ok {
		return view.Row{}, false
	}
	return ri.Row, true
}

// Update handles navigation keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list, or the placeholder when it is empty.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Render(m.styles.Placeholder.Render(m.placeholder))
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
