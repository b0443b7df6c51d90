package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// todoItem adapts model.Todo to bubbles/list.Item.
type todoItem struct{ model.Todo }

func (i todoItem) FilterValue() string { return i.Body }

// row is what one rendered line shows.
type row struct {
	ID      int64
	Label   string
	Checked bool // checkbox reflects status == completed
	Struck  bool // label is struck through
}

func rowFor(t model.Todo) row {
	return row{ID: t.ID, Label: t.Body, Checked: t.Completed(), Struck: t.Completed()}
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}
	t := ui.Current()
	r := rowFor(it.Todo)

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(t.SymCursor) + " "
	}
	fmt.Fprintf(w, "%s%s %s  %s", prefix,
		ui.Checkbox(r.Checked), ui.Label(r.Label, r.Struck), t.Muted.Render(t.SymDelete))
}

// List shows the todos of one tab. Its items are always rebuilt from the
// full query result with model.Filter; it never edits them.
type List struct {
	tab  model.Tab
	list list.Model
}

func NewList(tab model.Tab, width, height int) List {
	l := list.New(nil, itemDelegate{}, width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = ui.Current().Help
	return List{tab: tab, list: l}
}

func (l List) Tab() model.Tab { return l.tab }

// SetTodos replaces the items with the tab's view of todos.
func (l *List) SetTodos(todos []model.Todo) {
	view := model.Filter(todos, l.tab)
	items := make([]list.Item, 0, len(view))
	for _, t := range view {
		items = append(items, todoItem{t})
	}
	l.list.SetItems(items)
	if n := len(items); n > 0 && l.list.Index() >= n {
		l.list.Select(n - 1)
	}
}

func (l *List) SetSize(width, height int) { l.list.SetSize(width, height) }

// Selected returns the highlighted todo.
func (l List) Selected() (model.Todo, bool) {
	it, ok := l.list.SelectedItem().(todoItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.Todo, true
}

func (l List) rows() []row {
	items := l.list.Items()
	out := make([]row, 0, len(items))
	for _, it := range items {
		if ti, ok := it.(todoItem); ok {
			out = append(out, rowFor(ti.Todo))
		}
	}
	return out
}

// Update handles cursor movement.
func (l List) Update(msg tea.Msg) (List, tea.Cmd) {
	var cmd tea.Cmd
	l.list, cmd = l.list.Update(msg)
	return l, cmd
}

func (l List) View() string {
	if len(l.list.Items()) == 0 {
		return ui.Current().Muted.Render(model.EmptyPlaceholder)
	}
	return l.list.View()
}
